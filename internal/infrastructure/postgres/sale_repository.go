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

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, company_id, client_id, number, status, date, discount_percent, notes,
	created_by, created_at, updated_at, deleted_at, deleted_by`

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera y sus líneas. Llamar dentro de una tx para que sea atómico.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (id, company_id, client_id, number, status, date, discount_percent, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		s.ID, s.CompanyID, nullIfEmpty(s.ClientID), s.Number, s.Status, s.Date, s.DiscountPercent, s.Notes,
		nullIfEmpty(s.CreatedBy), s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return saleItems.insert(ctx, r.q, s.ID, s.Items)
}

// GetByID obtiene la venta con sus líneas, incluso si está eliminada.
func (r *SaleRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE company_id = $1 AND id = $2`, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	items, err := saleItems.load(ctx, r.q, []string{s.ID})
	if err != nil {
		return nil, err
	}
	s.Items = items[s.ID]
	return s, nil
}

// List lista ventas por fecha descendente.
func (r *SaleRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+saleColumns+` FROM sales WHERE `+listWhere+`
		ORDER BY date DESC, created_at DESC LIMIT $5 OFFSET $6`, listArgs(f)...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var (
		list []*entity.Sale
		ids  []string
	)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	items, err := saleItems.load(ctx, r.q, ids)
	if err != nil {
		return nil, err
	}
	for _, s := range list {
		s.Items = items[s.ID]
	}
	return list, nil
}

// UpdateStatus cambia el estado de una venta no eliminada.
func (r *SaleRepo) UpdateStatus(ctx context.Context, companyID, id, status string) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE sales SET status = $3, updated_at = now()
		WHERE company_id = $1 AND id = $2 AND deleted_at IS NULL`, companyID, id, status)
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDelete marca la venta como eliminada.
func (r *SaleRepo) SoftDelete(ctx context.Context, companyID, id, userID string, at time.Time) error {
	return softDelete(ctx, r.q, "sales", companyID, id, userID, at)
}

// Restore revierte SoftDelete.
func (r *SaleRepo) Restore(ctx context.Context, companyID, id string) error {
	return restore(ctx, r.q, "sales", companyID, id)
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var (
		s                              entity.Sale
		clientID, createdBy, deletedBy *string
	)
	err := row.Scan(&s.ID, &s.CompanyID, &clientID, &s.Number, &s.Status, &s.Date, &s.DiscountPercent, &s.Notes,
		&createdBy, &s.CreatedAt, &s.UpdatedAt, &s.DeletedAt, &deletedBy)
	if err != nil {
		return nil, err
	}
	s.ClientID = derefString(clientID)
	s.CreatedBy = derefString(createdBy)
	s.DeletedBy = derefString(deletedBy)
	return &s, nil
}
