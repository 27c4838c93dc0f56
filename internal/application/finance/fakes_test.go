package finance

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	core "github.com/jhoicas/Estoque-api/internal/domain/finance"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func doc(kind core.DocumentKind, date time.Time, amount float64) core.Document {
	return core.Document{Kind: kind, Date: date, Items: []core.LineItem{{Quantity: 1, UnitPrice: amount}}}
}

type fakeFinanceRepo struct {
	mu        sync.Mutex
	sales     []core.Document
	purchases []core.Document
	expenses  []core.Document
	counts    core.Counts
	histories map[string]core.ClientHistory
	err       error
	calls     int
	windows   []*core.DateRange
}

var _ repository.FinanceRepository = (*fakeFinanceRepo)(nil)

func (f *fakeFinanceRepo) filter(docs []core.Document, w *core.DateRange) ([]core.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.windows = append(f.windows, w)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]core.Document, 0, len(docs))
	for _, d := range docs {
		if w == nil || w.Contains(d.Date) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeFinanceRepo) SalesDocuments(_ context.Context, _ string, w *core.DateRange) ([]core.Document, error) {
	return f.filter(f.sales, w)
}

func (f *fakeFinanceRepo) PurchaseDocuments(_ context.Context, _ string, w *core.DateRange) ([]core.Document, error) {
	return f.filter(f.purchases, w)
}

func (f *fakeFinanceRepo) ExpenseDocuments(_ context.Context, _ string, w *core.DateRange) ([]core.Document, error) {
	return f.filter(f.expenses, w)
}

func (f *fakeFinanceRepo) Counts(context.Context, string, *core.DateRange) (core.Counts, error) {
	return f.counts, f.err
}

func (f *fakeFinanceRepo) ClientHistories(context.Context, string) (map[string]core.ClientHistory, error) {
	return f.histories, f.err
}

func (f *fakeFinanceRepo) ClientHistory(_ context.Context, _ string, clientID string) (*core.ClientHistory, error) {
	h, ok := f.histories[clientID]
	if !ok {
		return nil, f.err
	}
	return &h, f.err
}

type fakeSettings struct {
	s *entity.Settings
}

func (f *fakeSettings) Get(context.Context, string) (*entity.Settings, error) { return f.s, nil }

func (f *fakeSettings) Upsert(_ context.Context, s *entity.Settings) error {
	f.s = s
	return nil
}

type memoryCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	version map[string]int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}, version: map[string]int{}}
}

func (c *memoryCache) BuildKey(_ context.Context, companyID string, parts ...string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.Join(append([]string{companyID}, parts...), ":") + ":" + string(rune('0'+c.version[companyID])), nil
}

func (c *memoryCache) FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	c.mu.Lock()
	raw, ok := c.data[key]
	c.mu.Unlock()
	if ok {
		return json.Unmarshal(raw, dest)
	}
	v, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err = json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.data[key] = raw
	c.mu.Unlock()
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Bump(_ context.Context, companyID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version[companyID]++
	return nil
}

type fakeNotifications struct {
	repository.NotificationRepository
	created []*entity.Notification
}

func (f *fakeNotifications) Create(_ context.Context, n *entity.Notification) (bool, error) {
	for _, c := range f.created {
		if c.RefKey == n.RefKey {
			return false, nil
		}
	}
	f.created = append(f.created, n)
	return true, nil
}
