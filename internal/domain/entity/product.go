package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario.
// Cost es el costo promedio ponderado calculado en cada entrada de stock.
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta
	Cost        decimal.Decimal // costo promedio ponderado (inicia en 0)
	Stock       decimal.Decimal
	MinStock    decimal.Decimal // umbral de alerta de stock bajo
	UnitMeasure string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsLowStock indica si el stock actual está por debajo del mínimo configurado.
func (p *Product) IsLowStock() bool {
	return p.MinStock.IsPositive() && p.Stock.LessThan(p.MinStock)
}
