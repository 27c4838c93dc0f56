package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Motivos de StockExit.
const (
	ExitReasonLoss        = "loss"
	ExitReasonInternalUse = "internal_use"
	ExitReasonReturn      = "return"
)

// StockExitItem producto y cantidad retirados.
type StockExitItem struct {
	ID        string
	ProductID string
	Quantity  decimal.Decimal
}

// StockExit salida de stock no facturada (quebra, uso interno, devolución a fornecedor).
// No entra en las métricas financieras.
type StockExit struct {
	ID        string
	CompanyID string
	Reason    string
	Date      time.Time
	Notes     string
	Items     []StockExitItem
	CreatedBy string
	CreatedAt time.Time
	SoftDelete
}

// ValidExitReason indica si r es un motivo soportado.
func ValidExitReason(r string) bool {
	switch r {
	case ExitReasonLoss, ExitReasonInternalUse, ExitReasonReturn:
		return true
	}
	return false
}
