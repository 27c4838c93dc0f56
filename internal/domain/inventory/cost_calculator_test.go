package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Estoque-api/internal/domain"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	// 10 uds a 5 + 10 uds a 7 → 6
	got := CostCalculator(d("10"), d("5"), d("10"), d("7"))
	assert.True(t, d("6").Equal(got), "got %s", got)

	// sin stock previo el costo es el de la entrada
	got = CostCalculator(d("0"), d("0"), d("3"), d("12.5"))
	assert.True(t, d("12.5").Equal(got), "got %s", got)
}

func TestCostCalculator_StockNegativoNoPondera(t *testing.T) {
	got := CostCalculator(d("-4"), d("100"), d("2"), d("10"))
	assert.True(t, d("10").Equal(got), "got %s", got)
}

func TestCostCalculator_SumaCeroDevuelveCero(t *testing.T) {
	assert.True(t, CostCalculator(d("0"), d("5"), d("0"), d("5")).IsZero())
}

func TestApplyEntry(t *testing.T) {
	p, err := ApplyEntry(Position{Stock: d("4"), Cost: d("10")}, d("4"), d("20"))
	require.NoError(t, err)
	assert.True(t, d("8").Equal(p.Stock))
	assert.True(t, d("15").Equal(p.Cost))

	_, err = ApplyEntry(Position{}, d("0"), d("1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = ApplyEntry(Position{}, d("1"), d("-1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApplyExit_StockInsuficiente(t *testing.T) {
	_, err := ApplyExit(Position{Stock: d("2")}, d("3"))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	p, err := ApplyExit(Position{Stock: d("3"), Cost: d("9")}, d("3"))
	require.NoError(t, err)
	assert.True(t, p.Stock.IsZero())
	assert.True(t, d("9").Equal(p.Cost), "la salida no cambia el costo")
}

func TestRevertEntry(t *testing.T) {
	p, err := RevertEntry(Position{Stock: d("5"), Cost: d("8")}, d("5"))
	require.NoError(t, err)
	assert.True(t, p.Stock.IsZero())
	assert.True(t, p.Cost.IsZero())

	_, err = RevertEntry(Position{Stock: d("1"), Cost: d("8")}, d("5"))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestRevertExit(t *testing.T) {
	p, err := RevertExit(Position{Stock: d("1"), Cost: d("2")}, d("4"))
	require.NoError(t, err)
	assert.True(t, d("5").Equal(p.Stock))
}

func TestCrossedBelow(t *testing.T) {
	assert.True(t, CrossedBelow(d("5"), d("4"), d("5")))
	assert.False(t, CrossedBelow(d("4"), d("3"), d("5")), "ya estaba por debajo")
	assert.False(t, CrossedBelow(d("6"), d("5"), d("5")))
	assert.False(t, CrossedBelow(d("6"), d("0"), d("0")), "sin mínimo no hay alerta")
}
