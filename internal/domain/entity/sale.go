package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estoque-api/internal/domain/finance"
)

// Estados de Sale. Solo las ventas completed cuentan en las métricas financieras.
const (
	SaleStatusPending   = "pending"
	SaleStatusCompleted = "completed"
	SaleStatusCancelled = "cancelled"
)

// Sale representa una venta (encomenda) a un cliente.
type Sale struct {
	ID              string
	CompanyID       string
	ClientID        string // vacío = venta de balcão sin cliente
	Number          string
	Status          string
	Date            time.Time
	DiscountPercent *decimal.Decimal
	Notes           string
	Items           []DocumentItem
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	SoftDelete
}

// ToFinanceDocument convierte la venta al documento del núcleo financiero.
func (s *Sale) ToFinanceDocument() finance.Document {
	return financeDocument(s.ID, finance.KindSale, s.Date, s.DiscountPercent, s.Items)
}

// Total importe con descuentos aplicados.
func (s *Sale) Total() decimal.Decimal {
	return decimal.NewFromFloat(finance.DocumentTotal(s.ToFinanceDocument())).Round(2)
}

// AffectsStock indica si la venta ya descontó inventario.
func (s *Sale) AffectsStock() bool {
	return s.Status == SaleStatusCompleted && !s.IsDeleted()
}
