package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estoque-api/internal/domain/finance"
)

// DocumentItem línea de un documento financiero (venta, entrada de stock o gasto).
// ProductID vacío en gastos que no mueven inventario.
type DocumentItem struct {
	ID              string
	ProductID       string
	Description     string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent *decimal.Decimal // nil = sin descuento
}

// SoftDelete campos comunes de borrado lógico.
type SoftDelete struct {
	DeletedAt *time.Time
	DeletedBy string
}

// IsDeleted indica si el documento está eliminado lógicamente.
func (s SoftDelete) IsDeleted() bool {
	return s.DeletedAt != nil
}

func toLineItems(items []DocumentItem) []finance.LineItem {
	out := make([]finance.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, finance.LineItem{
			Quantity:        it.Quantity.InexactFloat64(),
			UnitPrice:       it.UnitPrice.InexactFloat64(),
			DiscountPercent: decimalPtrToFloat(it.DiscountPercent),
		})
	}
	return out
}

func decimalPtrToFloat(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	return finance.Percent(d.InexactFloat64())
}

func financeDocument(id string, kind finance.DocumentKind, date time.Time, discount *decimal.Decimal, items []DocumentItem) finance.Document {
	return finance.Document{
		ID:              id,
		Kind:            kind,
		Date:            date,
		DiscountPercent: decimalPtrToFloat(discount),
		Items:           toLineItems(items),
	}
}
