package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

type fakeProducts struct {
	repository.ProductRepository
	items  map[string]*entity.Product
	locked []string
}

func (f *fakeProducts) GetForUpdate(_ context.Context, companyID, id string) (*entity.Product, error) {
	f.locked = append(f.locked, id)
	p, ok := f.items[id]
	if !ok || p.CompanyID != companyID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) UpdateStock(_ context.Context, id string, stock, cost decimal.Decimal) error {
	f.items[id].Stock = stock
	f.items[id].Cost = cost
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

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newRepos(products ...*entity.Product) (TxRepos, *fakeProducts, *fakeNotifications) {
	fp := &fakeProducts{items: map[string]*entity.Product{}}
	for _, p := range products {
		fp.items[p.ID] = p
	}
	fn := &fakeNotifications{}
	return TxRepos{Products: fp, Notifications: fn}, fp, fn
}

func testService() *StockService {
	s := NewStockService()
	s.now = func() time.Time { return time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC) }
	return s
}

func TestStockService_ReceiveRecalculatesCost(t *testing.T) {
	p := &entity.Product{ID: "p1", CompanyID: "c1", SKU: "A", Stock: dec("10"), Cost: dec("100")}
	repos, fp, _ := newRepos(p)

	err := testService().Receive(context.Background(), repos, "c1", []Movement{
		{ProductID: "p1", Quantity: dec("10"), UnitCost: dec("200")},
	})
	require.NoError(t, err)
	assert.True(t, fp.items["p1"].Stock.Equal(dec("20")))
	assert.True(t, fp.items["p1"].Cost.Equal(dec("150")))
}

func TestStockService_DispatchInsufficient(t *testing.T) {
	p := &entity.Product{ID: "p1", CompanyID: "c1", SKU: "A", Stock: dec("2")}
	repos, fp, _ := newRepos(p)

	err := testService().Dispatch(context.Background(), repos, "c1", []Movement{{ProductID: "p1", Quantity: dec("3")}})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, fp.items["p1"].Stock.Equal(dec("2")))
}

func TestStockService_DispatchRaisesLowStockOnce(t *testing.T) {
	p := &entity.Product{ID: "p1", CompanyID: "c1", SKU: "A", Name: "Caneta", Stock: dec("10"), MinStock: dec("5")}
	repos, _, fn := newRepos(p)
	s := testService()

	require.NoError(t, s.Dispatch(context.Background(), repos, "c1", []Movement{{ProductID: "p1", Quantity: dec("6")}}))
	require.Len(t, fn.created, 1)
	assert.Equal(t, entity.NotificationLowStock, fn.created[0].Type)
	assert.Equal(t, "low_stock:p1:2026-10-14", fn.created[0].RefKey)

	// ya estaba por debajo: no vuelve a cruzar el umbral
	require.NoError(t, s.Dispatch(context.Background(), repos, "c1", []Movement{{ProductID: "p1", Quantity: dec("1")}}))
	assert.Len(t, fn.created, 1)
}

func TestStockService_UnknownProduct(t *testing.T) {
	repos, _, _ := newRepos(&entity.Product{ID: "p1", CompanyID: "other"})
	err := testService().Restock(context.Background(), repos, "c1", []Movement{{ProductID: "p1", Quantity: dec("1")}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStockService_LocksInProductOrder(t *testing.T) {
	repos, fp, _ := newRepos(
		&entity.Product{ID: "b", CompanyID: "c1", Stock: dec("5")},
		&entity.Product{ID: "a", CompanyID: "c1", Stock: dec("5")},
	)
	err := testService().Restock(context.Background(), repos, "c1", []Movement{
		{ProductID: "b", Quantity: dec("1")},
		{ProductID: "a", Quantity: dec("1")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, fp.locked)
}

func TestEntryMovements_EffectiveCost(t *testing.T) {
	line := dec("10")
	global := dec("50")
	e := &entity.StockEntry{
		DiscountPercent: &global,
		Items: []entity.DocumentItem{
			{ProductID: "p1", Quantity: dec("2"), UnitPrice: dec("100"), DiscountPercent: &line},
			{Description: "frete", Quantity: dec("1"), UnitPrice: dec("30")},
		},
	}
	moves := EntryMovements(e)
	require.Len(t, moves, 1)
	assert.True(t, moves[0].UnitCost.Equal(dec("45")), moves[0].UnitCost.String())
}

func TestSaleMovements_SkipsFreeLines(t *testing.T) {
	moves := SaleMovements([]entity.DocumentItem{
		{ProductID: "p1", Quantity: dec("2")},
		{Description: "serviço", Quantity: dec("1")},
		{ProductID: "p2", Quantity: dec("0")},
	})
	require.Len(t, moves, 1)
	assert.Equal(t, "p1", moves[0].ProductID)
}
