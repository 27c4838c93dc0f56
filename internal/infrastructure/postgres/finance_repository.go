package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estoque-api/internal/domain/finance"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

var _ repository.FinanceRepository = (*FinanceRepo)(nil)

// FinanceRepo consultas read-only para el núcleo financiero.
// Convierte las filas NUMERIC directamente en finance.Document (única conversión decimal → float64).
type FinanceRepo struct {
	q Querier
}

// NewFinanceRepository construye el adaptador.
func NewFinanceRepository(q Querier) *FinanceRepo {
	return &FinanceRepo{q: q}
}

// documentSource tabla de cabecera + tabla de líneas de un tipo de documento.
type documentSource struct {
	kind   finance.DocumentKind
	table  string
	items  itemTable
	filter string // condición extra sobre la cabecera
}

var (
	salesSource    = documentSource{kind: finance.KindSale, table: "sales", items: saleItems, filter: "AND d.status = 'completed'"}
	purchaseSource = documentSource{kind: finance.KindPurchase, table: "stock_entries", items: entryItems}
	expenseSource  = documentSource{kind: finance.KindExpense, table: "expenses", items: expenseItems}
)

// SalesDocuments ventas completadas no eliminadas.
func (r *FinanceRepo) SalesDocuments(ctx context.Context, companyID string, window *finance.DateRange) ([]finance.Document, error) {
	return r.documents(ctx, salesSource, companyID, window)
}

// PurchaseDocuments entradas de stock no eliminadas.
func (r *FinanceRepo) PurchaseDocuments(ctx context.Context, companyID string, window *finance.DateRange) ([]finance.Document, error) {
	return r.documents(ctx, purchaseSource, companyID, window)
}

// ExpenseDocuments despesas no eliminadas.
func (r *FinanceRepo) ExpenseDocuments(ctx context.Context, companyID string, window *finance.DateRange) ([]finance.Document, error) {
	return r.documents(ctx, expenseSource, companyID, window)
}

func (r *FinanceRepo) documents(ctx context.Context, src documentSource, companyID string, window *finance.DateRange) ([]finance.Document, error) {
	start, end := windowArgs(window)
	rows, err := r.q.Query(ctx, fmt.Sprintf(`
		SELECT d.id, d.date, d.discount_percent, i.quantity, i.unit_price, i.discount_percent
		FROM %s d
		LEFT JOIN %s i ON i.%s = d.id
		WHERE d.company_id = $1 AND d.deleted_at IS NULL %s
		  AND ($2::date IS NULL OR d.date >= $2::date)
		  AND ($3::date IS NULL OR d.date <= $3::date)
		ORDER BY d.date, d.id, i.line_no`, src.table, src.items.name, src.items.fk, src.filter),
		companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("finance %s: %w", src.table, err)
	}
	defer rows.Close()

	var docs []finance.Document
	for rows.Next() {
		var (
			id                 string
			date               time.Time
			docDiscount        *decimal.Decimal
			qty, price, lineDc *decimal.Decimal
		)
		if err := rows.Scan(&id, &date, &docDiscount, &qty, &price, &lineDc); err != nil {
			return nil, fmt.Errorf("scan finance %s: %w", src.table, err)
		}
		if len(docs) == 0 || docs[len(docs)-1].ID != id {
			docs = append(docs, finance.Document{
				ID:              id,
				Kind:            src.kind,
				Date:            date,
				DiscountPercent: decimalToFloatPtr(docDiscount),
			})
		}
		if qty == nil || price == nil {
			continue // documento sin líneas
		}
		last := &docs[len(docs)-1]
		last.Items = append(last.Items, finance.LineItem{
			Quantity:        qty.InexactFloat64(),
			UnitPrice:       price.InexactFloat64(),
			DiscountPercent: decimalToFloatPtr(lineDc),
		})
	}
	return docs, rows.Err()
}

// Counts conteos de soporte para los KPIs en una sola ida a la DB.
func (r *FinanceRepo) Counts(ctx context.Context, companyID string, window *finance.DateRange) (finance.Counts, error) {
	start, end := windowArgs(window)
	var c finance.Counts
	err := r.q.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM sales
			  WHERE company_id = $1 AND status = 'completed' AND deleted_at IS NULL
			    AND ($2::date IS NULL OR date >= $2::date) AND ($3::date IS NULL OR date <= $3::date)),
			(SELECT count(*) FROM clients WHERE company_id = $1),
			(SELECT count(*) FROM suppliers WHERE company_id = $1),
			(SELECT count(*) FROM stock_entries
			  WHERE company_id = $1 AND deleted_at IS NULL
			    AND ($2::date IS NULL OR date >= $2::date) AND ($3::date IS NULL OR date <= $3::date)),
			(SELECT count(*) FROM expenses
			  WHERE company_id = $1 AND deleted_at IS NULL
			    AND ($2::date IS NULL OR date >= $2::date) AND ($3::date IS NULL OR date <= $3::date))`,
		companyID, start, end,
	).Scan(&c.CompletedOrders, &c.Clients, &c.Suppliers, &c.SupplierEntries, &c.Expenses)
	if err != nil {
		return finance.Counts{}, fmt.Errorf("finance counts: %w", err)
	}
	return c, nil
}

// ClientHistories alta y fechas de compra de todos los clientes del tenant.
func (r *FinanceRepo) ClientHistories(ctx context.Context, companyID string) (map[string]finance.ClientHistory, error) {
	return r.histories(ctx, companyID, "")
}

// ClientHistory historial de un único cliente.
func (r *FinanceRepo) ClientHistory(ctx context.Context, companyID, clientID string) (*finance.ClientHistory, error) {
	hs, err := r.histories(ctx, companyID, clientID)
	if err != nil {
		return nil, err
	}
	h, ok := hs[clientID]
	if !ok {
		return nil, nil
	}
	return &h, nil
}

func (r *FinanceRepo) histories(ctx context.Context, companyID, clientID string) (map[string]finance.ClientHistory, error) {
	rows, err := r.q.Query(ctx, `
		SELECT c.id, c.created_at, s.date
		FROM clients c
		LEFT JOIN sales s ON s.client_id = c.id AND s.status = 'completed' AND s.deleted_at IS NULL
		WHERE c.company_id = $1 AND ($2::uuid IS NULL OR c.id = $2::uuid)
		ORDER BY c.id, s.date`, companyID, nullIfEmpty(clientID))
	if err != nil {
		return nil, fmt.Errorf("client histories: %w", err)
	}
	defer rows.Close()

	out := make(map[string]finance.ClientHistory)
	for rows.Next() {
		var (
			id        string
			createdAt time.Time
			saleDate  *time.Time
		)
		if err := rows.Scan(&id, &createdAt, &saleDate); err != nil {
			return nil, fmt.Errorf("scan client history: %w", err)
		}
		h := out[id]
		h.CreatedAt = createdAt
		if saleDate != nil {
			h.PurchaseDates = append(h.PurchaseDates, *saleDate)
		}
		out[id] = h
	}
	return out, rows.Err()
}

func decimalToFloatPtr(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	return finance.Percent(d.InexactFloat64())
}
