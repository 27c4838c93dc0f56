package inventory

import (
	"context"

	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Products      repository.ProductRepository
	Sales         repository.SaleRepository
	StockEntries  repository.StockEntryRepository
	StockExits    repository.StockExitRepository
	Expenses      repository.ExpenseRepository
	Notifications repository.NotificationRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn devuelve nil, Rollback en cualquier otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
