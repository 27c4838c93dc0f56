package repository

import (
	"context"

	"github.com/jhoicas/Estoque-api/internal/domain/finance"
)

// FinanceRepository consultas de lectura para el núcleo financiero.
// Nunca devuelve documentos eliminados ni ventas que no estén completed.
// window nil equivale a todo el histórico.
type FinanceRepository interface {
	SalesDocuments(ctx context.Context, companyID string, window *finance.DateRange) ([]finance.Document, error)
	PurchaseDocuments(ctx context.Context, companyID string, window *finance.DateRange) ([]finance.Document, error)
	ExpenseDocuments(ctx context.Context, companyID string, window *finance.DateRange) ([]finance.Document, error)
	// Counts conteos de soporte: ventas completadas, entradas y gastos en la ventana; clientes y fornecedores registrados.
	Counts(ctx context.Context, companyID string, window *finance.DateRange) (finance.Counts, error)
	// ClientHistories fecha de alta y fechas de compras completadas de cada cliente (clave = ID).
	ClientHistories(ctx context.Context, companyID string) (map[string]finance.ClientHistory, error)
	// ClientHistory historial de un cliente; (nil, nil) si no existe en el tenant.
	ClientHistory(ctx context.Context, companyID, clientID string) (*finance.ClientHistory, error)
}
