package finance_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Estoque-api/internal/domain/finance"
)

const eps = 1e-9

// ──────────────────────────────────────────────────────────────────────────────
// LineTotal
// ──────────────────────────────────────────────────────────────────────────────

func TestLineTotal_LimitesDeDescuento(t *testing.T) {
	cases := []struct {
		name     string
		discount *float64
		want     float64
	}{
		{"sin descuento (nil)", nil, 100},
		{"descuento 0 es identidad", finance.Percent(0), 100},
		{"descuento 50", finance.Percent(50), 50},
		{"descuento 100 anula la línea", finance.Percent(100), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := finance.LineTotal(finance.LineItem{Quantity: 1, UnitPrice: 100, DiscountPercent: tc.discount})
			assert.InDelta(t, tc.want, got, eps)
		})
	}
}

func TestLineTotal_CantidadFraccionaria(t *testing.T) {
	got := finance.LineTotal(finance.LineItem{Quantity: 2.5, UnitPrice: 4, DiscountPercent: finance.Percent(10)})
	assert.InDelta(t, 9.0, got, eps)
}

func TestLineTotal_ValoresNoFinitosSeTratanComoCero(t *testing.T) {
	nan := math.NaN()
	inf := math.Inf(1)

	assert.Equal(t, 0.0, finance.LineTotal(finance.LineItem{Quantity: nan, UnitPrice: 10}))
	assert.Equal(t, 0.0, finance.LineTotal(finance.LineItem{Quantity: 1, UnitPrice: inf}))
	assert.InDelta(t, 10.0, finance.LineTotal(finance.LineItem{Quantity: 1, UnitPrice: 10, DiscountPercent: &nan}), eps,
		"un descuento NaN equivale a descuento ausente")
}

// ──────────────────────────────────────────────────────────────────────────────
// DocumentTotal
// ──────────────────────────────────────────────────────────────────────────────

func TestDocumentTotal_DocumentoVacio(t *testing.T) {
	assert.Equal(t, 0.0, finance.DocumentTotal(finance.Document{}))
	assert.Equal(t, 0.0, finance.DocumentTotal(finance.Document{DiscountPercent: finance.Percent(10)}))
}

// El descuento de línea se aplica primero; el global una sola vez sobre la suma.
func TestDocumentTotal_OrdenDeDescuentos(t *testing.T) {
	doc := finance.Document{
		Items:           []finance.LineItem{{Quantity: 1, UnitPrice: 100, DiscountPercent: finance.Percent(10)}},
		DiscountPercent: finance.Percent(10),
	}
	got := finance.DocumentTotal(doc)
	assert.InDelta(t, 81.0, got, eps)
	assert.NotEqual(t, 80.0, got, "los descuentos no se suman entre sí")
}

func TestDocumentTotal_VariosItemsConDescuentoGlobal(t *testing.T) {
	doc := finance.Document{
		Items: []finance.LineItem{
			{Quantity: 2, UnitPrice: 10},
			{Quantity: 2, UnitPrice: 10},
		},
		DiscountPercent: finance.Percent(10),
	}
	assert.InDelta(t, 36.0, finance.DocumentTotal(doc), eps)

	doc = finance.Document{
		Items: []finance.LineItem{
			{Quantity: 1, UnitPrice: 100, DiscountPercent: finance.Percent(10)},
			{Quantity: 1, UnitPrice: 100, DiscountPercent: finance.Percent(20)},
		},
		DiscountPercent: finance.Percent(10),
	}
	assert.InDelta(t, 153.0, finance.DocumentTotal(doc), eps)
}

func TestDocumentTotal_DescuentoGlobal100(t *testing.T) {
	doc := finance.Document{
		Items:           []finance.LineItem{{Quantity: 3, UnitPrice: 7}},
		DiscountPercent: finance.Percent(100),
	}
	assert.Equal(t, 0.0, finance.DocumentTotal(doc))
}

func TestDocumentTotal_OrdenDeLineasIrrelevante(t *testing.T) {
	items := []finance.LineItem{
		{Quantity: 3, UnitPrice: 12.5, DiscountPercent: finance.Percent(5)},
		{Quantity: 1, UnitPrice: 99.99},
		{Quantity: 7, UnitPrice: 0.35, DiscountPercent: finance.Percent(33)},
	}
	reversed := []finance.LineItem{items[2], items[1], items[0]}

	a := finance.DocumentTotal(finance.Document{Items: items, DiscountPercent: finance.Percent(12)})
	b := finance.DocumentTotal(finance.Document{Items: reversed, DiscountPercent: finance.Percent(12)})
	assert.InDelta(t, a, b, eps)
}

func TestDocumentTotal_SiempreFinito(t *testing.T) {
	doc := finance.Document{
		Items: []finance.LineItem{
			{Quantity: math.MaxFloat64, UnitPrice: math.MaxFloat64},
			{Quantity: 1, UnitPrice: 5},
		},
	}
	got := finance.DocumentTotal(doc)
	assert.False(t, math.IsInf(got, 0) || math.IsNaN(got))
	assert.InDelta(t, 5.0, got, eps, "la línea desbordada se descarta antes de sumarse")
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers numéricos
// ──────────────────────────────────────────────────────────────────────────────

func TestSafeDiv(t *testing.T) {
	assert.Equal(t, 0.0, finance.SafeDiv(10, 0))
	assert.Equal(t, 0.0, finance.SafeDiv(math.NaN(), 2))
	assert.Equal(t, 0.0, finance.SafeDiv(1, math.Inf(-1)))
	assert.Equal(t, 5.0, finance.SafeDiv(10, 2))
	assert.Equal(t, 0.0, finance.SafeDiv(math.MaxFloat64, 1e-300), "desbordamiento se recorta a 0")
}
