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

var _ repository.StockExitRepository = (*StockExitRepo)(nil)

const stockExitColumns = `id, company_id, reason, date, notes, created_by, created_at, deleted_at, deleted_by`

// StockExitRepo implementación del puerto StockExitRepository sobre PostgreSQL.
type StockExitRepo struct {
	q Querier
}

// NewStockExitRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockExitRepository(q Querier) *StockExitRepo {
	return &StockExitRepo{q: q}
}

// Create persiste la salida y sus líneas en un batch.
func (r *StockExitRepo) Create(ctx context.Context, x *entity.StockExit) error {
	b := &pgx.Batch{}
	b.Queue(`
		INSERT INTO stock_exits (id, company_id, reason, date, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		x.ID, x.CompanyID, x.Reason, x.Date, x.Notes, nullIfEmpty(x.CreatedBy), x.CreatedAt)
	for i, it := range x.Items {
		b.Queue(`
			INSERT INTO stock_exit_items (id, exit_id, line_no, product_id, quantity)
			VALUES ($1, $2, $3, $4, $5)`, it.ID, x.ID, i, it.ProductID, it.Quantity)
	}
	if err := r.q.SendBatch(ctx, b).Close(); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert stock exit: %w", err)
	}
	return nil
}

// GetByID obtiene la salida con sus líneas, incluso si está eliminada.
func (r *StockExitRepo) GetByID(ctx context.Context, companyID, id string) (*entity.StockExit, error) {
	x, err := scanStockExit(r.q.QueryRow(ctx, `SELECT `+stockExitColumns+` FROM stock_exits WHERE company_id = $1 AND id = $2`, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock exit: %w", err)
	}
	items, err := r.loadItems(ctx, []string{x.ID})
	if err != nil {
		return nil, err
	}
	x.Items = items[x.ID]
	return x, nil
}

// List lista salidas por fecha descendente.
func (r *StockExitRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.StockExit, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+stockExitColumns+` FROM stock_exits WHERE `+listWhere+`
		ORDER BY date DESC, created_at DESC LIMIT $5 OFFSET $6`, listArgs(f)...)
	if err != nil {
		return nil, fmt.Errorf("list stock exits: %w", err)
	}
	defer rows.Close()
	var (
		list []*entity.StockExit
		ids  []string
	)
	for rows.Next() {
		x, err := scanStockExit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock exit: %w", err)
		}
		list = append(list, x)
		ids = append(ids, x.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, x := range list {
		x.Items = items[x.ID]
	}
	return list, nil
}

// SoftDelete marca la salida como eliminada.
func (r *StockExitRepo) SoftDelete(ctx context.Context, companyID, id, userID string, at time.Time) error {
	return softDelete(ctx, r.q, "stock_exits", companyID, id, userID, at)
}

// Restore revierte SoftDelete.
func (r *StockExitRepo) Restore(ctx context.Context, companyID, id string) error {
	return restore(ctx, r.q, "stock_exits", companyID, id)
}

func (r *StockExitRepo) loadItems(ctx context.Context, ids []string) (map[string][]entity.StockExitItem, error) {
	out := make(map[string][]entity.StockExitItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT exit_id, id, product_id, quantity FROM stock_exit_items
		WHERE exit_id = ANY($1::uuid[]) ORDER BY exit_id, line_no`, ids)
	if err != nil {
		return nil, fmt.Errorf("load stock exit items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			exitID string
			it     entity.StockExitItem
		)
		if err := rows.Scan(&exitID, &it.ID, &it.ProductID, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan stock exit item: %w", err)
		}
		out[exitID] = append(out[exitID], it)
	}
	return out, rows.Err()
}

func scanStockExit(row pgx.Row) (*entity.StockExit, error) {
	var (
		x                    entity.StockExit
		createdBy, deletedBy *string
	)
	err := row.Scan(&x.ID, &x.CompanyID, &x.Reason, &x.Date, &x.Notes, &createdBy, &x.CreatedAt, &x.DeletedAt, &deletedBy)
	if err != nil {
		return nil, err
	}
	x.CreatedBy = derefString(createdBy)
	x.DeletedBy = derefString(deletedBy)
	return &x, nil
}
