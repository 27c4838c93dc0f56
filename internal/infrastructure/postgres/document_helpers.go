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

// itemTable tabla de líneas de un tipo de documento financiero.
type itemTable struct {
	name string
	fk   string
}

var (
	saleItems    = itemTable{name: "sale_items", fk: "sale_id"}
	entryItems   = itemTable{name: "stock_entry_items", fk: "entry_id"}
	expenseItems = itemTable{name: "expense_items", fk: "expense_id"}
)

// insert envía todas las líneas en un único batch.
func (t itemTable) insert(ctx context.Context, q Querier, docID string, items []entity.DocumentItem) error {
	if len(items) == 0 {
		return nil
	}
	sql := fmt.Sprintf(`
		INSERT INTO %s (id, %s, line_no, product_id, description, quantity, unit_price, discount_percent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, t.name, t.fk)
	b := &pgx.Batch{}
	for i, it := range items {
		b.Queue(sql, it.ID, docID, i, nullIfEmpty(it.ProductID), it.Description, it.Quantity, it.UnitPrice, it.DiscountPercent)
	}
	if err := q.SendBatch(ctx, b).Close(); err != nil {
		return fmt.Errorf("insert %s: %w", t.name, err)
	}
	return nil
}

// load devuelve las líneas de los documentos indicados, en orden de captura.
func (t itemTable) load(ctx context.Context, q Querier, docIDs []string) (map[string][]entity.DocumentItem, error) {
	out := make(map[string][]entity.DocumentItem, len(docIDs))
	if len(docIDs) == 0 {
		return out, nil
	}
	rows, err := q.Query(ctx, fmt.Sprintf(`
		SELECT %s, id, product_id, description, quantity, unit_price, discount_percent
		FROM %s WHERE %s = ANY($1::uuid[]) ORDER BY %s, line_no`, t.fk, t.name, t.fk, t.fk), docIDs)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", t.name, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			docID     string
			productID *string
			it        entity.DocumentItem
		)
		if err := rows.Scan(&docID, &it.ID, &productID, &it.Description, &it.Quantity, &it.UnitPrice, &it.DiscountPercent); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.name, err)
		}
		it.ProductID = derefString(productID)
		out[docID] = append(out[docID], it)
	}
	return out, rows.Err()
}

// softDelete marca deleted_at; ErrNotFound o ErrAlreadyDeleted si no cambió ninguna fila.
func softDelete(ctx context.Context, q Querier, table, companyID, id, userID string, at time.Time) error {
	cmd, err := q.Exec(ctx, fmt.Sprintf(`
		UPDATE %s SET deleted_at = $3, deleted_by = $4
		WHERE company_id = $1 AND id = $2 AND deleted_at IS NULL`, table),
		companyID, id, at, nullIfEmpty(userID))
	if err != nil {
		return fmt.Errorf("soft delete %s: %w", table, err)
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}
	deleted, err := isDeleted(ctx, q, table, companyID, id)
	if err != nil {
		return err
	}
	if deleted {
		return domain.ErrAlreadyDeleted
	}
	return domain.ErrNotFound
}

// restore limpia deleted_at; ErrNotFound o ErrNotDeleted si no cambió ninguna fila.
func restore(ctx context.Context, q Querier, table, companyID, id string) error {
	cmd, err := q.Exec(ctx, fmt.Sprintf(`
		UPDATE %s SET deleted_at = NULL, deleted_by = NULL
		WHERE company_id = $1 AND id = $2 AND deleted_at IS NOT NULL`, table),
		companyID, id)
	if err != nil {
		return fmt.Errorf("restore %s: %w", table, err)
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}
	if _, err := isDeleted(ctx, q, table, companyID, id); err != nil {
		return err
	}
	return domain.ErrNotDeleted
}

// isDeleted devuelve ErrNotFound si la fila no existe.
func isDeleted(ctx context.Context, q Querier, table, companyID, id string) (bool, error) {
	var deleted bool
	err := q.QueryRow(ctx, fmt.Sprintf(`SELECT deleted_at IS NOT NULL FROM %s WHERE company_id = $1 AND id = $2`, table), companyID, id).Scan(&deleted)
	if err != nil {
		if isNoRows(err) {
			return false, domain.ErrNotFound
		}
		return false, fmt.Errorf("check %s: %w", table, err)
	}
	return deleted, nil
}

// listArgs parámetros comunes $1..$6 de los listados de documentos.
func listArgs(f repository.DocumentFilter) []any {
	start, end := windowArgs(f.Window)
	lim, off := pageArgs(f.Limit, f.Offset)
	return []any{f.CompanyID, start, end, f.IncludeDeleted, lim, off}
}

// listWhere condición que acompaña a listArgs.
const listWhere = `company_id = $1
		AND ($2::date IS NULL OR date >= $2::date)
		AND ($3::date IS NULL OR date <= $3::date)
		AND ($4::bool OR deleted_at IS NULL)`
