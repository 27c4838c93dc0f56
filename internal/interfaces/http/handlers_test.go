package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/application/finance"
	"github.com/jhoicas/Estoque-api/internal/application/usecase"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	core "github.com/jhoicas/Estoque-api/internal/domain/finance"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
	apphttp "github.com/jhoicas/Estoque-api/internal/interfaces/http"
	"github.com/jhoicas/Estoque-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type memProducts struct {
	repository.ProductRepository
	items map[string]*entity.Product
}

func (m *memProducts) Create(_ context.Context, p *entity.Product) error {
	m.items[p.ID] = p
	return nil
}

func (m *memProducts) GetByID(_ context.Context, companyID, id string) (*entity.Product, error) {
	p, ok := m.items[id]
	if !ok || p.CompanyID != companyID {
		return nil, nil
	}
	return p, nil
}

func (m *memProducts) GetByCompanyAndSKU(_ context.Context, companyID, sku string) (*entity.Product, error) {
	for _, p := range m.items {
		if p.CompanyID == companyID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (m *memProducts) Delete(_ context.Context, companyID, id string) error {
	if _, err := m.GetByID(context.Background(), companyID, id); err != nil {
		return err
	}
	return domain.ErrConflict
}

type fakeFinance struct {
	repository.FinanceRepository
	sales []core.Document
}

func (f *fakeFinance) SalesDocuments(context.Context, string, *core.DateRange) ([]core.Document, error) {
	return f.sales, nil
}

func (f *fakeFinance) PurchaseDocuments(context.Context, string, *core.DateRange) ([]core.Document, error) {
	return nil, nil
}

func (f *fakeFinance) ExpenseDocuments(context.Context, string, *core.DateRange) ([]core.Document, error) {
	return []core.Document{{ID: "e1", Kind: core.KindExpense, Date: time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC), Items: []core.LineItem{{Quantity: 1, UnitPrice: 40}}}}, nil
}

func (f *fakeFinance) Counts(context.Context, string, *core.DateRange) (core.Counts, error) {
	return core.Counts{CompletedOrders: len(f.sales), Clients: 1}, nil
}

type memSettings struct{ s *entity.Settings }

func (m *memSettings) Get(context.Context, string) (*entity.Settings, error) { return m.s, nil }
func (m *memSettings) Upsert(_ context.Context, s *entity.Settings) error {
	m.s = s
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// App de test
// ──────────────────────────────────────────────────────────────────────────────

type testEnv struct {
	app      *fiber.App
	products *memProducts
}

func newTestEnv() *testEnv {
	products := &memProducts{items: map[string]*entity.Product{}}
	fin := &fakeFinance{sales: []core.Document{
		{ID: "s1", Kind: core.KindSale, Date: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), Items: []core.LineItem{{Quantity: 2, UnitPrice: 50}}},
		{ID: "s2", Kind: core.KindSale, Date: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), Items: []core.LineItem{{Quantity: 1, UnitPrice: 60}}},
	}}
	settings := &memSettings{}
	log := logger.Nop()

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.NewErrorHandler(log)})
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:   usecase.NewProductUseCase(products),
		Metrics:     finance.NewMetricsUseCase(fin, settings, nil, finance.MetricsOptions{Logger: log}),
		SettingsUC:  usecase.NewSettingsUseCase(settings, nil, 3, nil, log),
		JWTSecret:   testJWTSecret,
		ServiceName: "estoque-api",
		Health: map[string]apphttp.HealthCheck{
			"postgres": func(context.Context) error { return nil },
		},
		Logger: log,
	})
	return &testEnv{app: app, products: products}
}

func (e *testEnv) do(t *testing.T, method, path, role string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var out map[string]any
	if resp.StatusCode != fiber.StatusNoContent {
		_ = json.NewDecoder(resp.Body).Decode(&out)
	}
	return resp, out
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	env := newTestEnv()
	resp, body := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestProducts_CreateYDuplicado(t *testing.T) {
	env := newTestEnv()
	in := map[string]any{"sku": "CAN-01", "name": "Caneta azul", "price": "1.20", "min_stock": "5"}

	resp, body := env.do(t, http.MethodPost, "/api/products", "gerente", in)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "0", body["stock"])
	assert.Equal(t, "1.2", body["price"])

	resp, body = env.do(t, http.MethodPost, "/api/products", "admin", in)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", body["code"])
}

func TestProducts_ValidacionPorCampo(t *testing.T) {
	env := newTestEnv()
	resp, body := env.do(t, http.MethodPost, "/api/products", "admin", map[string]any{"name": ""})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["code"])
	fields, ok := body["fields"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "es requerido", fields["sku"])
	assert.Contains(t, fields, "name")
}

func TestProducts_VendedorNoCrea(t *testing.T) {
	env := newTestEnv()
	resp, _ := env.do(t, http.MethodPost, "/api/products", "vendedor", map[string]any{"sku": "X", "name": "X"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestProducts_NoEncontradoYConflicto(t *testing.T) {
	env := newTestEnv()
	env.products.items["p1"] = &entity.Product{ID: "p1", CompanyID: testCompanyID, SKU: "A", Price: decimal.NewFromInt(1)}

	resp, body := env.do(t, http.MethodGet, "/api/products/p9", "vendedor", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])

	resp, body = env.do(t, http.MethodDelete, "/api/products/p1", "admin", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", body["code"])
}

func TestFinance_SummaryConVentana(t *testing.T) {
	env := newTestEnv()

	resp, body := env.do(t, http.MethodGet, "/api/finance/summary", "vendedor", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "160", body["total_sales"])
	assert.Equal(t, "40", body["total_spent"])
	assert.Equal(t, "120", body["profit"])
	assert.Nil(t, body["window"])

	resp, body = env.do(t, http.MethodGet, "/api/finance/summary?start_date=2026-10-01&end_date=2026-10-31", "vendedor", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "100", body["total_sales"])
	assert.Equal(t, "60", body["profit"])
}

func TestFinance_FechaInvalida(t *testing.T) {
	env := newTestEnv()
	resp, body := env.do(t, http.MethodGet, "/api/finance/kpis?start_date=01-10-2026", "vendedor", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["code"])

	resp, _ = env.do(t, http.MethodGet, "/api/finance/kpis?start_date=2026-10-10&end_date=2026-10-01", "vendedor", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFinance_KPIs(t *testing.T) {
	env := newTestEnv()
	resp, body := env.do(t, http.MethodGet, "/api/finance/kpis", "vendedor", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items, ok := body["items"].([]any)
	require.True(t, ok)
	assert.Len(t, items, core.KPICount)
}

func TestSettings_SoloAdminActualiza(t *testing.T) {
	env := newTestEnv()
	in := dto.UpdateSettingsRequest{KPITargets: map[string]float64{core.KeyROI: 30}}

	resp, _ := env.do(t, http.MethodPut, "/api/settings", "gerente", in)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := env.do(t, http.MethodPut, "/api/settings", "admin", in)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	targets := body["kpi_targets"].(map[string]any)
	assert.Equal(t, 30.0, targets[core.KeyROI])

	resp, body = env.do(t, http.MethodPut, "/api/settings", "admin", map[string]any{"kpi_targets": map[string]float64{"nps": 1}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestRutaInexistente(t *testing.T) {
	env := newTestEnv()
	resp, body := env.do(t, http.MethodGet, "/nada", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ROUTE_NOT_FOUND", body["code"])
}
