package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentItemRequest línea de venta, entrada o gasto.
// Cantidad > 0, precio >= 0 y descuento en [0,100] se comprueban en el caso de uso.
type DocumentItemRequest struct {
	ProductID       string           `json:"product_id" validate:"omitempty,uuid"`
	Description     string           `json:"description" validate:"max=300"`
	Quantity        decimal.Decimal  `json:"quantity"`
	UnitPrice       decimal.Decimal  `json:"unit_price"`
	DiscountPercent *decimal.Decimal `json:"discount_percent"`
}

// DocumentItemResponse línea con su total.
type DocumentItemResponse struct {
	ID              string           `json:"id"`
	ProductID       string           `json:"product_id,omitempty"`
	Description     string           `json:"description"`
	Quantity        decimal.Decimal  `json:"quantity"`
	UnitPrice       decimal.Decimal  `json:"unit_price"`
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
	Total           decimal.Decimal  `json:"total"`
}

// CreateSaleRequest entrada para registrar una venta. Complete=true la registra ya completada.
type CreateSaleRequest struct {
	ClientID        string                `json:"client_id" validate:"omitempty,uuid"`
	Number          string                `json:"number" validate:"max=50"`
	Date            string                `json:"date" validate:"required,datetime=2006-01-02"`
	DiscountPercent *decimal.Decimal      `json:"discount_percent"`
	Notes           string                `json:"notes" validate:"max=1000"`
	Complete        bool                  `json:"complete"`
	Items           []DocumentItemRequest `json:"items" validate:"required,min=1,dive"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID              string                 `json:"id"`
	ClientID        string                 `json:"client_id,omitempty"`
	Number          string                 `json:"number"`
	Status          string                 `json:"status"`
	Date            string                 `json:"date"`
	DiscountPercent *decimal.Decimal       `json:"discount_percent,omitempty"`
	Notes           string                 `json:"notes"`
	Items           []DocumentItemResponse `json:"items"`
	Total           decimal.Decimal        `json:"total"`
	CreatedBy       string                 `json:"created_by"`
	CreatedAt       time.Time              `json:"created_at"`
	DeletedAt       *time.Time             `json:"deleted_at,omitempty"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// CreateStockEntryRequest entrada de mercancía de un fornecedor.
type CreateStockEntryRequest struct {
	SupplierID      string                `json:"supplier_id" validate:"omitempty,uuid"`
	Reference       string                `json:"reference" validate:"max=100"`
	Date            string                `json:"date" validate:"required,datetime=2006-01-02"`
	DiscountPercent *decimal.Decimal      `json:"discount_percent"`
	Notes           string                `json:"notes" validate:"max=1000"`
	Items           []DocumentItemRequest `json:"items" validate:"required,min=1,dive"`
}

// StockEntryResponse salida de una entrada de stock.
type StockEntryResponse struct {
	ID              string                 `json:"id"`
	SupplierID      string                 `json:"supplier_id,omitempty"`
	Reference       string                 `json:"reference"`
	Date            string                 `json:"date"`
	DiscountPercent *decimal.Decimal       `json:"discount_percent,omitempty"`
	Notes           string                 `json:"notes"`
	Items           []DocumentItemResponse `json:"items"`
	Total           decimal.Decimal        `json:"total"`
	CreatedBy       string                 `json:"created_by"`
	CreatedAt       time.Time              `json:"created_at"`
	DeletedAt       *time.Time             `json:"deleted_at,omitempty"`
}

// StockEntryListResponse lista paginada de entradas.
type StockEntryListResponse struct {
	Items []StockEntryResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// StockExitItemRequest producto y cantidad retirados.
type StockExitItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateStockExitRequest salida de stock no facturada.
type CreateStockExitRequest struct {
	Reason string                 `json:"reason" validate:"required,oneof=loss internal_use return"`
	Date   string                 `json:"date" validate:"required,datetime=2006-01-02"`
	Notes  string                 `json:"notes" validate:"max=1000"`
	Items  []StockExitItemRequest `json:"items" validate:"required,min=1,dive"`
}

// StockExitItemResponse línea de una salida.
type StockExitItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// StockExitResponse salida de stock.
type StockExitResponse struct {
	ID        string                  `json:"id"`
	Reason    string                  `json:"reason"`
	Date      string                  `json:"date"`
	Notes     string                  `json:"notes"`
	Items     []StockExitItemResponse `json:"items"`
	CreatedBy string                  `json:"created_by"`
	CreatedAt time.Time               `json:"created_at"`
	DeletedAt *time.Time              `json:"deleted_at,omitempty"`
}

// StockExitListResponse lista paginada de salidas.
type StockExitListResponse struct {
	Items []StockExitResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// CreateExpenseRequest registro de una despesa.
type CreateExpenseRequest struct {
	SupplierID      string                `json:"supplier_id" validate:"omitempty,uuid"`
	Category        string                `json:"category" validate:"required,max=100"`
	Description     string                `json:"description" validate:"max=300"`
	Date            string                `json:"date" validate:"required,datetime=2006-01-02"`
	DiscountPercent *decimal.Decimal      `json:"discount_percent"`
	Items           []DocumentItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ExpenseResponse salida de una despesa.
type ExpenseResponse struct {
	ID              string                 `json:"id"`
	SupplierID      string                 `json:"supplier_id,omitempty"`
	Category        string                 `json:"category"`
	Description     string                 `json:"description"`
	Date            string                 `json:"date"`
	DiscountPercent *decimal.Decimal       `json:"discount_percent,omitempty"`
	Items           []DocumentItemResponse `json:"items"`
	Total           decimal.Decimal        `json:"total"`
	CreatedBy       string                 `json:"created_by"`
	CreatedAt       time.Time              `json:"created_at"`
	DeletedAt       *time.Time             `json:"deleted_at,omitempty"`
}

// ExpenseListResponse lista paginada de despesas.
type ExpenseListResponse struct {
	Items []ExpenseResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
