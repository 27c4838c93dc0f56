package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/finance"
)

// DocumentFilter filtros comunes de listado de documentos.
type DocumentFilter struct {
	CompanyID      string
	Window         *finance.DateRange // nil = sin filtro de fecha
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// SaleRepository persistencia de ventas con sus líneas.
// GetByID devuelve también ventas eliminadas para poder restaurarlas.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Sale, error)
	List(ctx context.Context, f DocumentFilter) ([]*entity.Sale, error)
	UpdateStatus(ctx context.Context, companyID, id, status string) error
	SoftDelete(ctx context.Context, companyID, id, userID string, at time.Time) error
	Restore(ctx context.Context, companyID, id string) error
}

// StockEntryRepository persistencia de entradas de stock.
type StockEntryRepository interface {
	Create(ctx context.Context, entry *entity.StockEntry) error
	GetByID(ctx context.Context, companyID, id string) (*entity.StockEntry, error)
	List(ctx context.Context, f DocumentFilter) ([]*entity.StockEntry, error)
	SoftDelete(ctx context.Context, companyID, id, userID string, at time.Time) error
	Restore(ctx context.Context, companyID, id string) error
}

// StockExitRepository persistencia de salidas de stock.
type StockExitRepository interface {
	Create(ctx context.Context, exit *entity.StockExit) error
	GetByID(ctx context.Context, companyID, id string) (*entity.StockExit, error)
	List(ctx context.Context, f DocumentFilter) ([]*entity.StockExit, error)
	SoftDelete(ctx context.Context, companyID, id, userID string, at time.Time) error
	Restore(ctx context.Context, companyID, id string) error
}

// ExpenseRepository persistencia de despesas.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Expense, error)
	List(ctx context.Context, f DocumentFilter) ([]*entity.Expense, error)
	SoftDelete(ctx context.Context, companyID, id, userID string, at time.Time) error
	Restore(ctx context.Context, companyID, id string) error
}
