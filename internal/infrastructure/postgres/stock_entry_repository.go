package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

var _ repository.StockEntryRepository = (*StockEntryRepo)(nil)

const stockEntryColumns = `id, company_id, supplier_id, reference, date, discount_percent, notes,
	created_by, created_at, updated_at, deleted_at, deleted_by`

// StockEntryRepo implementación del puerto StockEntryRepository sobre PostgreSQL.
type StockEntryRepo struct {
	q Querier
}

// NewStockEntryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockEntryRepository(q Querier) *StockEntryRepo {
	return &StockEntryRepo{q: q}
}

// Create persiste la entrada y sus líneas.
func (r *StockEntryRepo) Create(ctx context.Context, e *entity.StockEntry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_entries (id, company_id, supplier_id, reference, date, discount_percent, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.CompanyID, nullIfEmpty(e.SupplierID), e.Reference, e.Date, e.DiscountPercent, e.Notes,
		nullIfEmpty(e.CreatedBy), e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert stock entry: %w", err)
	}
	return entryItems.insert(ctx, r.q, e.ID, e.Items)
}

// GetByID obtiene la entrada con sus líneas, incluso si está eliminada.
func (r *StockEntryRepo) GetByID(ctx context.Context, companyID, id string) (*entity.StockEntry, error) {
	e, err := scanStockEntry(r.q.QueryRow(ctx, `SELECT `+stockEntryColumns+` FROM stock_entries WHERE company_id = $1 AND id = $2`, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock entry: %w", err)
	}
	items, err := entryItems.load(ctx, r.q, []string{e.ID})
	if err != nil {
		return nil, err
	}
	e.Items = items[e.ID]
	return e, nil
}

// List lista entradas por fecha descendente.
func (r *StockEntryRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.StockEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+stockEntryColumns+` FROM stock_entries WHERE `+listWhere+`
		ORDER BY date DESC, created_at DESC LIMIT $5 OFFSET $6`, listArgs(f)...)
	if err != nil {
		return nil, fmt.Errorf("list stock entries: %w", err)
	}
	defer rows.Close()
	var (
		list []*entity.StockEntry
		ids  []string
	)
	for rows.Next() {
		e, err := scanStockEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock entry: %w", err)
		}
		list = append(list, e)
		ids = append(ids, e.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	items, err := entryItems.load(ctx, r.q, ids)
	if err != nil {
		return nil, err
	}
	for _, e := range list {
		e.Items = items[e.ID]
	}
	return list, nil
}

// SoftDelete marca la entrada como eliminada.
func (r *StockEntryRepo) SoftDelete(ctx context.Context, companyID, id, userID string, at time.Time) error {
	return softDelete(ctx, r.q, "stock_entries", companyID, id, userID, at)
}

// Restore revierte SoftDelete.
func (r *StockEntryRepo) Restore(ctx context.Context, companyID, id string) error {
	return restore(ctx, r.q, "stock_entries", companyID, id)
}

func scanStockEntry(row pgx.Row) (*entity.StockEntry, error) {
	var (
		e                                entity.StockEntry
		supplierID, createdBy, deletedBy *string
	)
	err := row.Scan(&e.ID, &e.CompanyID, &supplierID, &e.Reference, &e.Date, &e.DiscountPercent, &e.Notes,
		&createdBy, &e.CreatedAt, &e.UpdatedAt, &e.DeletedAt, &deletedBy)
	if err != nil {
		return nil, err
	}
	e.SupplierID = derefString(supplierID)
	e.CreatedBy = derefString(createdBy)
	e.DeletedBy = derefString(deletedBy)
	return &e, nil
}
