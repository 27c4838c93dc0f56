// Package inventory contiene las reglas de dominio del inventario: costo
// promedio ponderado y aplicación de entradas y salidas sobre el stock.
package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estoque-api/internal/domain"
)

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Un stock actual negativo o nulo no aporta al promedio.
func CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	if stockActual.IsNegative() {
		stockActual = decimal.Zero
	}
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.DivRound(sum, 4)
}

// Position stock y costo promedio de un producto en un momento dado.
type Position struct {
	Stock decimal.Decimal
	Cost  decimal.Decimal
}

// ApplyEntry suma qty al stock y recalcula el costo promedio con unitCost.
func ApplyEntry(p Position, qty, unitCost decimal.Decimal) (Position, error) {
	if !qty.IsPositive() || unitCost.IsNegative() {
		return p, domain.ErrInvalidInput
	}
	return Position{
		Stock: p.Stock.Add(qty),
		Cost:  CostCalculator(p.Stock, p.Cost, qty, unitCost),
	}, nil
}

// RevertEntry deshace una entrada: resta qty del stock. El costo promedio se conserva
// salvo que el stock quede en cero. ErrInsufficientStock si el stock ya se consumió.
func RevertEntry(p Position, qty decimal.Decimal) (Position, error) {
	next, err := ApplyExit(p, qty)
	if err != nil {
		return p, err
	}
	if next.Stock.IsZero() {
		next.Cost = decimal.Zero
	}
	return next, nil
}

// ApplyExit resta qty del stock; ErrInsufficientStock si quedaría negativo.
func ApplyExit(p Position, qty decimal.Decimal) (Position, error) {
	if !qty.IsPositive() {
		return p, domain.ErrInvalidInput
	}
	if p.Stock.LessThan(qty) {
		return p, domain.ErrInsufficientStock
	}
	return Position{Stock: p.Stock.Sub(qty), Cost: p.Cost}, nil
}

// RevertExit devuelve qty al stock sin alterar el costo.
func RevertExit(p Position, qty decimal.Decimal) (Position, error) {
	if !qty.IsPositive() {
		return p, domain.ErrInvalidInput
	}
	return Position{Stock: p.Stock.Add(qty), Cost: p.Cost}, nil
}

// CrossedBelow indica si el stock pasó de >= min a < min con este movimiento.
func CrossedBelow(before, after, min decimal.Decimal) bool {
	if !min.IsPositive() {
		return false
	}
	return !before.LessThan(min) && after.LessThan(min)
}
