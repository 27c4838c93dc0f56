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

var _ repository.ExpenseRepository = (*ExpenseRepo)(nil)

const expenseColumns = `id, company_id, supplier_id, category, description, date, discount_percent,
	created_by, created_at, updated_at, deleted_at, deleted_by`

// ExpenseRepo implementación del puerto ExpenseRepository sobre PostgreSQL.
type ExpenseRepo struct {
	q Querier
}

// NewExpenseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewExpenseRepository(q Querier) *ExpenseRepo {
	return &ExpenseRepo{q: q}
}

// Create persiste la despesa y sus líneas.
func (r *ExpenseRepo) Create(ctx context.Context, e *entity.Expense) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO expenses (id, company_id, supplier_id, category, description, date, discount_percent, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.CompanyID, nullIfEmpty(e.SupplierID), e.Category, e.Description, e.Date, e.DiscountPercent,
		nullIfEmpty(e.CreatedBy), e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert expense: %w", err)
	}
	return expenseItems.insert(ctx, r.q, e.ID, e.Items)
}

// GetByID obtiene la despesa con sus líneas, incluso si está eliminada.
func (r *ExpenseRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Expense, error) {
	e, err := scanExpense(r.q.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE company_id = $1 AND id = $2`, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	items, err := expenseItems.load(ctx, r.q, []string{e.ID})
	if err != nil {
		return nil, err
	}
	e.Items = items[e.ID]
	return e, nil
}

// List lista despesas por fecha descendente.
func (r *ExpenseRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.Expense, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+expenseColumns+` FROM expenses WHERE `+listWhere+`
		ORDER BY date DESC, created_at DESC LIMIT $5 OFFSET $6`, listArgs(f)...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()
	var (
		list []*entity.Expense
		ids  []string
	)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		list = append(list, e)
		ids = append(ids, e.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	items, err := expenseItems.load(ctx, r.q, ids)
	if err != nil {
		return nil, err
	}
	for _, e := range list {
		e.Items = items[e.ID]
	}
	return list, nil
}

// SoftDelete marca la despesa como eliminada.
func (r *ExpenseRepo) SoftDelete(ctx context.Context, companyID, id, userID string, at time.Time) error {
	return softDelete(ctx, r.q, "expenses", companyID, id, userID, at)
}

// Restore revierte SoftDelete.
func (r *ExpenseRepo) Restore(ctx context.Context, companyID, id string) error {
	return restore(ctx, r.q, "expenses", companyID, id)
}

func scanExpense(row pgx.Row) (*entity.Expense, error) {
	var (
		e                                entity.Expense
		supplierID, createdBy, deletedBy *string
	)
	err := row.Scan(&e.ID, &e.CompanyID, &supplierID, &e.Category, &e.Description, &e.Date, &e.DiscountPercent,
		&createdBy, &e.CreatedAt, &e.UpdatedAt, &e.DeletedAt, &deletedBy)
	if err != nil {
		return nil, err
	}
	e.SupplierID = derefString(supplierID)
	e.CreatedBy = derefString(createdBy)
	e.DeletedBy = derefString(deletedBy)
	return &e, nil
}
