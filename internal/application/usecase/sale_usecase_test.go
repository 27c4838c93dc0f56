package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
)

func saleRequest(complete bool, qty string) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		Date:            "2026-10-10",
		DiscountPercent: decPtr("5"),
		Complete:        complete,
		Items: []dto.DocumentItemRequest{
			{ProductID: "p1", Quantity: dec(qty), UnitPrice: dec("100"), DiscountPercent: decPtr("10")},
		},
	}
}

func TestSaleUseCase_CreateCompletedDescuentaStock(t *testing.T) {
	f := newFixture(product("p1", "10", "40"))
	uc := NewSaleUseCase(f.deps, f.sales, f.clients)

	out, err := uc.Create(context.Background(), company, "u1", saleRequest(true, "2"))
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCompleted, out.Status)
	assert.Equal(t, "171", out.Total.String(), "2*100*0.9 = 180, global 5% = 171")
	assert.Equal(t, "180", out.Items[0].Total.String())
	assert.True(t, f.products.stock("p1").Equal(dec("8")))
	assert.Equal(t, []string{company}, f.invalidator.calls)
}

func TestSaleUseCase_CreatePendingNoMueveStock(t *testing.T) {
	f := newFixture(product("p1", "10", "40"))
	uc := NewSaleUseCase(f.deps, f.sales, f.clients)

	out, err := uc.Create(context.Background(), company, "u1", saleRequest(false, "2"))
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusPending, out.Status)
	assert.True(t, f.products.stock("p1").Equal(dec("10")))
	assert.Empty(t, f.invalidator.calls, "una venta pending no cambia las métricas")
}

func TestSaleUseCase_CreateStockInsuficienteHaceRollback(t *testing.T) {
	f := newFixture(product("p1", "1", "40"))
	uc := NewSaleUseCase(f.deps, f.sales, f.clients)

	_, err := uc.Create(context.Background(), company, "u1", saleRequest(true, "2"))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.products.stock("p1").Equal(dec("1")))
	assert.Empty(t, f.sales.items)
	assert.Empty(t, f.invalidator.calls)
}

func TestSaleUseCase_CreateValidacion(t *testing.T) {
	f := newFixture(product("p1", "10", "40"))
	uc := NewSaleUseCase(f.deps, f.sales, f.clients)
	ctx := context.Background()

	cases := map[string]func(*dto.CreateSaleRequest){
		"descuento global > 100": func(r *dto.CreateSaleRequest) { r.DiscountPercent = decPtr("150") },
		"cantidad cero":          func(r *dto.CreateSaleRequest) { r.Items[0].Quantity = dec("0") },
		"precio negativo":        func(r *dto.CreateSaleRequest) { r.Items[0].UnitPrice = dec("-1") },
		"descuento línea < 0":    func(r *dto.CreateSaleRequest) { r.Items[0].DiscountPercent = decPtr("-5") },
		"fecha inválida":         func(r *dto.CreateSaleRequest) { r.Date = "14/10/2026" },
		"sin líneas":             func(r *dto.CreateSaleRequest) { r.Items = nil },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := saleRequest(true, "1")
			mutate(&req)
			_, err := uc.Create(ctx, company, "u1", req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Zero(t, f.tx.runs)
}

func TestSaleUseCase_CreateReferenciasDesconocidas(t *testing.T) {
	f := newFixture(product("p1", "10", "40"))
	uc := NewSaleUseCase(f.deps, f.sales, f.clients)
	ctx := context.Background()

	req := saleRequest(true, "1")
	req.ClientID = "no-existe"
	_, err := uc.Create(ctx, company, "u1", req)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	req = saleRequest(true, "1")
	req.Items[0].ProductID = "p9"
	_, err = uc.Create(ctx, company, "u1", req)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// producto de otro tenant
	_, err = uc.Create(ctx, "c2", "u1", saleRequest(true, "1"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaleUseCase_CicloDeVida(t *testing.T) {
	f := newFixture(product("p1", "10", "40"))
	uc := NewSaleUseCase(f.deps, f.sales, f.clients)
	ctx := context.Background()

	sale, err := uc.Create(ctx, company, "u1", saleRequest(false, "3"))
	require.NoError(t, err)

	done, err := uc.Complete(ctx, company, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCompleted, done.Status)
	assert.True(t, f.products.stock("p1").Equal(dec("7")))

	_, err = uc.Complete(ctx, company, sale.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	cancelled, err := uc.Cancel(ctx, company, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCancelled, cancelled.Status)
	assert.True(t, f.products.stock("p1").Equal(dec("10")), "cancelar una venta completed devuelve el stock")

	_, err = uc.Cancel(ctx, company, sale.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Len(t, f.invalidator.calls, 2)
}

func TestSaleUseCase_DeleteYRestore(t *testing.T) {
	f := newFixture(product("p1", "10", "40"))
	uc := NewSaleUseCase(f.deps, f.sales, f.clients)
	ctx := context.Background()

	sale, err := uc.Create(ctx, company, "u1", saleRequest(true, "4"))
	require.NoError(t, err)
	require.True(t, f.products.stock("p1").Equal(dec("6")))

	require.NoError(t, uc.Delete(ctx, company, sale.ID, "u2"))
	assert.True(t, f.products.stock("p1").Equal(dec("10")))
	assert.ErrorIs(t, uc.Delete(ctx, company, sale.ID, "u2"), domain.ErrAlreadyDeleted)

	got, err := uc.GetByID(ctx, company, sale.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.DeletedAt)

	list, err := uc.List(ctx, company, dto.DocumentListQuery{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	list, err = uc.List(ctx, company, dto.DocumentListQuery{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	_, err = uc.Complete(ctx, company, sale.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyDeleted)

	restored, err := uc.Restore(ctx, company, sale.ID)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)
	assert.True(t, f.products.stock("p1").Equal(dec("6")))

	_, err = uc.Restore(ctx, company, sale.ID)
	assert.ErrorIs(t, err, domain.ErrNotDeleted)
}

func TestSaleUseCase_InvalidacionFallidaNoRompeLaEscritura(t *testing.T) {
	f := newFixture(product("p1", "10", "40"))
	f.invalidator.err = errors.New("redis caído")
	uc := NewSaleUseCase(f.deps, f.sales, f.clients)

	_, err := uc.Create(context.Background(), company, "u1", saleRequest(true, "1"))
	require.NoError(t, err)
	assert.Len(t, f.sales.items, 1)
}

func TestSaleUseCase_StockBajoGeneraAviso(t *testing.T) {
	p := product("p1", "5", "40")
	p.MinStock = dec("4")
	f := newFixture(p)
	uc := NewSaleUseCase(f.deps, f.sales, f.clients)

	_, err := uc.Create(context.Background(), company, "u1", saleRequest(true, "2"))
	require.NoError(t, err)
	require.Len(t, f.notifications.items, 1)
	assert.Equal(t, entity.NotificationLowStock, f.notifications.items[0].Type)
}

func TestSaleUseCase_ListRangoInvalido(t *testing.T) {
	f := newFixture()
	uc := NewSaleUseCase(f.deps, f.sales, f.clients)

	_, err := uc.List(context.Background(), company, dto.DocumentListQuery{StartDate: "2026-10-10", EndDate: "2026-10-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
