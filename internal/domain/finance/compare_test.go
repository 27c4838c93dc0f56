package finance_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Estoque-api/internal/domain/finance"
)

func TestPercentChange(t *testing.T) {
	up := finance.PercentChange(110, 100)
	require.NotNil(t, up)
	assert.InDelta(t, 10.0, *up, eps)

	down := finance.PercentChange(90, 100)
	require.NotNil(t, down)
	assert.InDelta(t, -10.0, *down, eps)

	flat := finance.PercentChange(100, 100)
	require.NotNil(t, flat, "un 0% real no es lo mismo que sin base")
	assert.Equal(t, 0.0, *flat)
}

func TestPercentChange_SinBase(t *testing.T) {
	for _, current := range []float64{0, 1, -5, 1e9, math.NaN()} {
		assert.Nil(t, finance.PercentChange(current, 0), "current=%v", current)
	}
	assert.Nil(t, finance.PercentChange(10, math.NaN()), "base NaN equivale a base 0")
	assert.Nil(t, finance.PercentChange(10, math.Inf(1)))
}

func TestPercentChange_ResultadoFinito(t *testing.T) {
	got := finance.PercentChange(math.MaxFloat64, 1e-300)
	require.NotNil(t, got)
	assert.Equal(t, 0.0, *got)
}

// Composición con Aggregate sobre ventanas disjuntas.
func TestCompareWindows_ComponeConAggregate(t *testing.T) {
	today := day(2026, 10, 14)
	docs := []finance.Document{
		simpleDoc(finance.KindSale, today, 60),
		simpleDoc(finance.KindSale, today.AddDate(0, 0, -29), 50),
		simpleDoc(finance.KindSale, today.AddDate(0, 0, -30), 100),
	}
	last := finance.Last30Days(today)
	prev := finance.Previous30Days(today)

	d := finance.CompareWindows("vendas_30d", finance.Aggregate(docs, &last), finance.Aggregate(docs, &prev))
	assert.Equal(t, "vendas_30d", d.Label)
	assert.InDelta(t, 110.0, d.Current, eps)
	assert.InDelta(t, 100.0, d.Previous, eps)
	require.NotNil(t, d.PercentChange)
	assert.InDelta(t, 10.0, *d.PercentChange, eps)
}
