package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estoque-api/internal/domain/finance"
)

// StockEntry entrada de stock comprada a un fornecedor. Cuenta como compra en las métricas.
type StockEntry struct {
	ID              string
	CompanyID       string
	SupplierID      string
	Reference       string // nº de fatura del fornecedor
	Date            time.Time
	DiscountPercent *decimal.Decimal
	Notes           string
	Items           []DocumentItem
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	SoftDelete
}

// ToFinanceDocument convierte la entrada al documento del núcleo financiero.
func (e *StockEntry) ToFinanceDocument() finance.Document {
	return financeDocument(e.ID, finance.KindPurchase, e.Date, e.DiscountPercent, e.Items)
}

// Total importe con descuentos aplicados.
func (e *StockEntry) Total() decimal.Decimal {
	return decimal.NewFromFloat(finance.DocumentTotal(e.ToFinanceDocument())).Round(2)
}
