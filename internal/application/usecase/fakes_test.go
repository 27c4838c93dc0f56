package usecase

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estoque-api/internal/application/inventory"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	core "github.com/jhoicas/Estoque-api/internal/domain/finance"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

// ──── Repositorios en memoria ───────────────────────────────────────────────

type memProducts struct {
	items map[string]*entity.Product
}

func newMemProducts(ps ...*entity.Product) *memProducts {
	m := &memProducts{items: map[string]*entity.Product{}}
	for _, p := range ps {
		m.items[p.ID] = p
	}
	return m
}

func (m *memProducts) get(companyID, id string) *entity.Product {
	p, ok := m.items[id]
	if !ok || p.CompanyID != companyID {
		return nil
	}
	cp := *p
	return &cp
}

func (m *memProducts) Create(_ context.Context, p *entity.Product) error {
	cp := *p
	m.items[p.ID] = &cp
	return nil
}

func (m *memProducts) GetByID(_ context.Context, companyID, id string) (*entity.Product, error) {
	return m.get(companyID, id), nil
}

func (m *memProducts) GetByCompanyAndSKU(_ context.Context, companyID, sku string) (*entity.Product, error) {
	for _, p := range m.items {
		if p.CompanyID == companyID && p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memProducts) GetForUpdate(_ context.Context, companyID, id string) (*entity.Product, error) {
	return m.get(companyID, id), nil
}

func (m *memProducts) Update(_ context.Context, p *entity.Product) error {
	if m.get(p.CompanyID, p.ID) == nil {
		return domain.ErrNotFound
	}
	cp := *p
	m.items[p.ID] = &cp
	return nil
}

func (m *memProducts) UpdateStock(_ context.Context, id string, stock, cost decimal.Decimal) error {
	m.items[id].Stock = stock
	m.items[id].Cost = cost
	return nil
}

func (m *memProducts) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range m.items {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProducts) Delete(_ context.Context, companyID, id string) error {
	if m.get(companyID, id) == nil {
		return domain.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memProducts) snapshot() map[string]entity.Product {
	out := make(map[string]entity.Product, len(m.items))
	for id, p := range m.items {
		out[id] = *p
	}
	return out
}

func (m *memProducts) restore(s map[string]entity.Product) {
	m.items = make(map[string]*entity.Product, len(s))
	for id, p := range s {
		cp := p
		m.items[id] = &cp
	}
}

func (m *memProducts) stock(id string) decimal.Decimal { return m.items[id].Stock }

// softDocs borrado lógico compartido por los fakes de documentos.
type softDocs[T any] struct {
	items   map[string]*T
	deleted func(*T) *entity.SoftDelete
	company func(*T) string
}

func (s *softDocs[T]) put(id string, v *T) {
	if s.items == nil {
		s.items = map[string]*T{}
	}
	s.items[id] = v
}

func (s *softDocs[T]) get(companyID, id string) *T {
	v, ok := s.items[id]
	if !ok || s.company(v) != companyID {
		return nil
	}
	return v
}

func (s *softDocs[T]) softDelete(companyID, id, userID string, at time.Time) error {
	v := s.get(companyID, id)
	if v == nil {
		return domain.ErrNotFound
	}
	d := s.deleted(v)
	if d.DeletedAt != nil {
		return domain.ErrAlreadyDeleted
	}
	d.DeletedAt, d.DeletedBy = &at, userID
	return nil
}

func (s *softDocs[T]) restoreDoc(companyID, id string) error {
	v := s.get(companyID, id)
	if v == nil {
		return domain.ErrNotFound
	}
	d := s.deleted(v)
	if d.DeletedAt == nil {
		return domain.ErrNotDeleted
	}
	d.DeletedAt, d.DeletedBy = nil, ""
	return nil
}

type memSales struct {
	softDocs[entity.Sale]
}

func newMemSales() *memSales {
	return &memSales{softDocs[entity.Sale]{
		deleted: func(s *entity.Sale) *entity.SoftDelete { return &s.SoftDelete },
		company: func(s *entity.Sale) string { return s.CompanyID },
	}}
}

func (m *memSales) Create(_ context.Context, s *entity.Sale) error {
	cp := *s
	m.put(s.ID, &cp)
	return nil
}

func (m *memSales) GetByID(_ context.Context, companyID, id string) (*entity.Sale, error) {
	s := m.get(companyID, id)
	if s == nil {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memSales) List(_ context.Context, f repository.DocumentFilter) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, s := range m.items {
		if s.CompanyID == f.CompanyID && (f.IncludeDeleted || !s.IsDeleted()) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSales) UpdateStatus(_ context.Context, companyID, id, status string) error {
	s := m.get(companyID, id)
	if s == nil {
		return domain.ErrNotFound
	}
	s.Status = status
	return nil
}

func (m *memSales) SoftDelete(_ context.Context, companyID, id, userID string, at time.Time) error {
	return m.softDelete(companyID, id, userID, at)
}

func (m *memSales) Restore(_ context.Context, companyID, id string) error {
	return m.restoreDoc(companyID, id)
}

type memEntries struct {
	softDocs[entity.StockEntry]
}

func newMemEntries() *memEntries {
	return &memEntries{softDocs[entity.StockEntry]{
		deleted: func(e *entity.StockEntry) *entity.SoftDelete { return &e.SoftDelete },
		company: func(e *entity.StockEntry) string { return e.CompanyID },
	}}
}

func (m *memEntries) Create(_ context.Context, e *entity.StockEntry) error {
	cp := *e
	m.put(e.ID, &cp)
	return nil
}

func (m *memEntries) GetByID(_ context.Context, companyID, id string) (*entity.StockEntry, error) {
	e := m.get(companyID, id)
	if e == nil {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (m *memEntries) List(_ context.Context, f repository.DocumentFilter) ([]*entity.StockEntry, error) {
	var out []*entity.StockEntry
	for _, e := range m.items {
		if e.CompanyID == f.CompanyID && (f.IncludeDeleted || !e.IsDeleted()) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memEntries) SoftDelete(_ context.Context, companyID, id, userID string, at time.Time) error {
	return m.softDelete(companyID, id, userID, at)
}

func (m *memEntries) Restore(_ context.Context, companyID, id string) error {
	return m.restoreDoc(companyID, id)
}

type memExits struct {
	softDocs[entity.StockExit]
}

func newMemExits() *memExits {
	return &memExits{softDocs[entity.StockExit]{
		deleted: func(e *entity.StockExit) *entity.SoftDelete { return &e.SoftDelete },
		company: func(e *entity.StockExit) string { return e.CompanyID },
	}}
}

func (m *memExits) Create(_ context.Context, e *entity.StockExit) error {
	cp := *e
	m.put(e.ID, &cp)
	return nil
}

func (m *memExits) GetByID(_ context.Context, companyID, id string) (*entity.StockExit, error) {
	e := m.get(companyID, id)
	if e == nil {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (m *memExits) List(_ context.Context, f repository.DocumentFilter) ([]*entity.StockExit, error) {
	var out []*entity.StockExit
	for _, e := range m.items {
		if e.CompanyID == f.CompanyID && (f.IncludeDeleted || !e.IsDeleted()) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memExits) SoftDelete(_ context.Context, companyID, id, userID string, at time.Time) error {
	return m.softDelete(companyID, id, userID, at)
}

func (m *memExits) Restore(_ context.Context, companyID, id string) error {
	return m.restoreDoc(companyID, id)
}

type memExpenses struct {
	softDocs[entity.Expense]
}

func newMemExpenses() *memExpenses {
	return &memExpenses{softDocs[entity.Expense]{
		deleted: func(e *entity.Expense) *entity.SoftDelete { return &e.SoftDelete },
		company: func(e *entity.Expense) string { return e.CompanyID },
	}}
}

func (m *memExpenses) Create(_ context.Context, e *entity.Expense) error {
	cp := *e
	m.put(e.ID, &cp)
	return nil
}

func (m *memExpenses) GetByID(_ context.Context, companyID, id string) (*entity.Expense, error) {
	e := m.get(companyID, id)
	if e == nil {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (m *memExpenses) List(_ context.Context, f repository.DocumentFilter) ([]*entity.Expense, error) {
	var out []*entity.Expense
	for _, e := range m.items {
		if e.CompanyID == f.CompanyID && (f.IncludeDeleted || !e.IsDeleted()) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memExpenses) SoftDelete(_ context.Context, companyID, id, userID string, at time.Time) error {
	return m.softDelete(companyID, id, userID, at)
}

func (m *memExpenses) Restore(_ context.Context, companyID, id string) error {
	return m.restoreDoc(companyID, id)
}

type memNotifications struct {
	items []*entity.Notification
}

func (m *memNotifications) Create(_ context.Context, n *entity.Notification) (bool, error) {
	for _, c := range m.items {
		if c.CompanyID == n.CompanyID && n.RefKey != "" && c.RefKey == n.RefKey {
			return false, nil
		}
	}
	m.items = append(m.items, n)
	return true, nil
}

func (m *memNotifications) ListByCompany(_ context.Context, companyID string, unreadOnly bool, _, _ int) ([]*entity.Notification, error) {
	var out []*entity.Notification
	for _, n := range m.items {
		if n.CompanyID == companyID && (!unreadOnly || !n.Read) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memNotifications) CountUnread(_ context.Context, companyID string) (int, error) {
	var c int
	for _, n := range m.items {
		if n.CompanyID == companyID && !n.Read {
			c++
		}
	}
	return c, nil
}

func (m *memNotifications) MarkRead(_ context.Context, companyID, id string, at time.Time) error {
	for _, n := range m.items {
		if n.CompanyID == companyID && n.ID == id {
			n.Read, n.ReadAt = true, &at
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memNotifications) MarkAllRead(_ context.Context, companyID string, at time.Time) (int64, error) {
	var c int64
	for _, n := range m.items {
		if n.CompanyID == companyID && !n.Read {
			n.Read, n.ReadAt = true, &at
			c++
		}
	}
	return c, nil
}

type memClients struct {
	repository.ClientRepository
	items map[string]*entity.Client
}

func (m *memClients) GetByID(_ context.Context, companyID, id string) (*entity.Client, error) {
	c, ok := m.items[id]
	if !ok || c.CompanyID != companyID {
		return nil, nil
	}
	return c, nil
}

func (m *memClients) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.Client, error) {
	var out []*entity.Client
	for _, c := range m.items {
		if c.CompanyID == companyID {
			out = append(out, c)
		}
	}
	return out, nil
}

type memSuppliers struct {
	repository.SupplierRepository
	items map[string]*entity.Supplier
}

func (m *memSuppliers) GetByID(_ context.Context, companyID, id string) (*entity.Supplier, error) {
	s, ok := m.items[id]
	if !ok || s.CompanyID != companyID {
		return nil, nil
	}
	return s, nil
}

type memSettings struct {
	current *entity.Settings
	upserts int
}

func (m *memSettings) Get(context.Context, string) (*entity.Settings, error) {
	if m.current == nil {
		return nil, nil
	}
	cp := *m.current
	cp.KPITargets = maps.Clone(m.current.KPITargets)
	return &cp, nil
}

func (m *memSettings) Upsert(_ context.Context, s *entity.Settings) error {
	cp := *s
	m.current = &cp
	m.upserts++
	return nil
}

type memUsers struct {
	items map[string]*entity.User
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	if m.items == nil {
		m.items = map[string]*entity.User{}
	}
	m.items[u.ID] = u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, companyID, id string) (*entity.User, error) {
	u, ok := m.items[id]
	if !ok || u.CompanyID != companyID {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range m.items {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) Update(_ context.Context, u *entity.User) error {
	cp := *u
	m.items[u.ID] = &cp
	return nil
}

func (m *memUsers) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range m.items {
		if u.CompanyID == companyID {
			out = append(out, u)
		}
	}
	return out, nil
}

// ──── Transacción y puertos ─────────────────────────────────────────────────

// fakeTx ejecuta fn sobre los repos en memoria; si fn falla restaura productos y ventas.
type fakeTx struct {
	repos    inventory.TxRepos
	products *memProducts
	sales    *memSales
	runs     int
}

func (f *fakeTx) Run(_ context.Context, fn func(inventory.TxRepos) error) error {
	f.runs++
	snap := f.products.snapshot()
	sales := maps.Clone(f.sales.items)
	if err := fn(f.repos); err != nil {
		f.products.restore(snap)
		f.sales.items = sales
		return err
	}
	return nil
}

type countingInvalidator struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (c *countingInvalidator) Invalidate(_ context.Context, companyID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, companyID)
	return c.err
}

type fakeTagger struct {
	tags  map[string]core.ClientTag
	calls int
}

func (f *fakeTagger) Tags(context.Context, string, time.Time) (map[string]core.ClientTag, error) {
	f.calls++
	return f.tags, nil
}

// ──── Fixture ───────────────────────────────────────────────────────────────

const company = "c1"

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

type fixture struct {
	products      *memProducts
	sales         *memSales
	entries       *memEntries
	exits         *memExits
	expenses      *memExpenses
	notifications *memNotifications
	clients       *memClients
	suppliers     *memSuppliers
	tx            *fakeTx
	invalidator   *countingInvalidator
	deps          DocumentDeps
}

func newFixture(products ...*entity.Product) *fixture {
	f := &fixture{
		products:      newMemProducts(products...),
		sales:         newMemSales(),
		entries:       newMemEntries(),
		exits:         newMemExits(),
		expenses:      newMemExpenses(),
		notifications: &memNotifications{},
		clients:       &memClients{items: map[string]*entity.Client{}},
		suppliers:     &memSuppliers{items: map[string]*entity.Supplier{}},
		invalidator:   &countingInvalidator{},
	}
	f.tx = &fakeTx{
		products: f.products,
		sales:    f.sales,
		repos: inventory.TxRepos{
			Products:      f.products,
			Sales:         f.sales,
			StockEntries:  f.entries,
			StockExits:    f.exits,
			Expenses:      f.expenses,
			Notifications: f.notifications,
		},
	}
	f.deps = DocumentDeps{
		Tx:          f.tx,
		Products:    f.products,
		Invalidator: f.invalidator,
	}
	return f
}

func product(id, stock, cost string) *entity.Product {
	return &entity.Product{ID: id, CompanyID: company, SKU: id, Name: id, Price: dec("100"), Stock: dec(stock), Cost: dec(cost)}
}
