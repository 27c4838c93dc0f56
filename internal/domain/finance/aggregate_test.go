package finance_test

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Estoque-api/internal/domain/finance"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func simpleDoc(kind finance.DocumentKind, date time.Time, amount float64) finance.Document {
	return finance.Document{
		Kind:  kind,
		Date:  date,
		Items: []finance.LineItem{{Quantity: 1, UnitPrice: amount}},
	}
}

// randomDocs genera documentos aleatorios con descuentos opcionales y fechas en 2026.
func randomDocs(r *rand.Rand, n int) []finance.Document {
	docs := make([]finance.Document, 0, n)
	for i := 0; i < n; i++ {
		items := make([]finance.LineItem, r.Intn(5))
		for j := range items {
			items[j] = finance.LineItem{
				Quantity:  float64(r.Intn(20)),
				UnitPrice: math.Round(r.Float64()*50000) / 100,
			}
			if r.Intn(2) == 0 {
				items[j].DiscountPercent = finance.Percent(float64(r.Intn(101)))
			}
		}
		doc := finance.Document{
			Kind:  finance.KindSale,
			Items: items,
			Date:  day(2026, time.January, 1).AddDate(0, 0, r.Intn(365)).Add(time.Duration(r.Intn(86400)) * time.Second),
		}
		if r.Intn(3) == 0 {
			doc.DiscountPercent = finance.Percent(float64(r.Intn(101)))
		}
		docs = append(docs, doc)
	}
	return docs
}

// ──────────────────────────────────────────────────────────────────────────────
// Aggregate
// ──────────────────────────────────────────────────────────────────────────────

func TestAggregate_ColeccionVacia(t *testing.T) {
	w := finance.NewDateRange(day(2026, 1, 1), day(2026, 12, 31))
	for _, kind := range []finance.DocumentKind{finance.KindSale, finance.KindPurchase, finance.KindExpense} {
		t.Run(string(kind), func(t *testing.T) {
			assert.Equal(t, 0.0, finance.Aggregate(nil, nil))
			assert.Equal(t, 0.0, finance.Aggregate([]finance.Document{}, &w))
		})
	}
}

func TestAggregate_SinVentanaSumaTodo(t *testing.T) {
	docs := []finance.Document{
		simpleDoc(finance.KindSale, day(2020, 5, 1), 10),
		simpleDoc(finance.KindSale, day(2026, 5, 1), 20),
	}
	assert.InDelta(t, 30.0, finance.Aggregate(docs, nil), eps)
}

// Los extremos son inclusivos y la hora del día no influye.
func TestAggregate_LimitesDeVentanaInclusivos(t *testing.T) {
	w := finance.NewDateRange(day(2026, 3, 1), day(2026, 3, 31))
	docs := []finance.Document{
		simpleDoc(finance.KindSale, time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC), 1),
		simpleDoc(finance.KindSale, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), 10),
		simpleDoc(finance.KindSale, time.Date(2026, 3, 31, 23, 59, 59, 999, time.UTC), 100),
		simpleDoc(finance.KindSale, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), 1000),
	}
	assert.InDelta(t, 110.0, finance.Aggregate(docs, &w), eps)
}

func TestAggregate_NormalizaZonaHoraria(t *testing.T) {
	lisbon := time.FixedZone("WEST", 3600)
	// 31/03 23:30 en Lisboa (verano) ya es 31/03; en UTC también (22:30).
	doc := simpleDoc(finance.KindSale, time.Date(2026, 3, 31, 23, 30, 0, 0, lisbon), 50)
	w := finance.NewDateRange(day(2026, 3, 31), day(2026, 3, 31))
	assert.InDelta(t, 50.0, finance.Aggregate([]finance.Document{doc}, &w), eps)
}

// Aggregate(A ∪ B) == Aggregate(A) + Aggregate(B) para conjuntos disjuntos.
func TestAggregate_Aditividad(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	windows := []*finance.DateRange{nil}
	w := finance.NewDateRange(day(2026, 2, 10), day(2026, 8, 20))
	windows = append(windows, &w)

	for iter := 0; iter < 500; iter++ {
		a := randomDocs(r, r.Intn(30))
		b := randomDocs(r, r.Intn(30))
		union := append(append([]finance.Document{}, a...), b...)

		for _, win := range windows {
			combined := finance.Aggregate(union, win)
			split := finance.Aggregate(a, win) + finance.Aggregate(b, win)
			require.InDelta(t, combined, split, 1e-6*math.Max(1, math.Abs(combined)), "iteración %d", iter)
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Snapshot
// ──────────────────────────────────────────────────────────────────────────────

func TestNewSnapshot_CamposDerivados(t *testing.T) {
	s := finance.NewSnapshot(10000, 4000, 2000)
	assert.InDelta(t, 6000.0, s.TotalSpent, eps)
	assert.InDelta(t, 4000.0, s.Profit, eps)
	assert.InDelta(t, 40.0, s.ProfitMargin, eps)
	assert.InDelta(t, 66.6666666667, s.ROI, 1e-6)
}

func TestNewSnapshot_SinVentasNiGasto(t *testing.T) {
	s := finance.NewSnapshot(0, 0, 0)
	assert.Equal(t, finance.Snapshot{}, s)

	s = finance.NewSnapshot(0, 100, 0)
	assert.Equal(t, 0.0, s.ProfitMargin, "sin ventas el margen es 0")
	assert.InDelta(t, -100.0, s.ROI, eps)
}

func TestNewSnapshot_EntradasNoFinitas(t *testing.T) {
	s := finance.NewSnapshot(math.NaN(), math.Inf(1), math.Inf(-1))
	assert.Equal(t, finance.Snapshot{}, s)
}

func TestBuildSnapshot_ComposicionEquivaleAConcatenar(t *testing.T) {
	purchases := []finance.Document{simpleDoc(finance.KindPurchase, day(2026, 1, 5), 300)}
	expenses := []finance.Document{simpleDoc(finance.KindExpense, day(2026, 1, 6), 200)}
	sales := []finance.Document{simpleDoc(finance.KindSale, day(2026, 1, 7), 1000)}

	s := finance.BuildSnapshot(sales, purchases, expenses, nil)
	spentDocs := append(append([]finance.Document{}, purchases...), expenses...)

	assert.InDelta(t, finance.Aggregate(spentDocs, nil), s.TotalSpent, eps)
	assert.InDelta(t, 500.0, s.Profit, eps)
}
