package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estoque-api/internal/domain/finance"
)

// Expense despesa operativa (renda, serviços, transporte...).
type Expense struct {
	ID              string
	CompanyID       string
	SupplierID      string // opcional
	Category        string
	Description     string
	Date            time.Time
	DiscountPercent *decimal.Decimal
	Items           []DocumentItem
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	SoftDelete
}

// ToFinanceDocument convierte el gasto al documento del núcleo financiero.
func (e *Expense) ToFinanceDocument() finance.Document {
	return financeDocument(e.ID, finance.KindExpense, e.Date, e.DiscountPercent, e.Items)
}

// Total importe con descuentos aplicados.
func (e *Expense) Total() decimal.Decimal {
	return decimal.NewFromFloat(finance.DocumentTotal(e.ToFinanceDocument())).Round(2)
}
