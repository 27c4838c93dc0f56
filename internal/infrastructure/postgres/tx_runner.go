package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Estoque-api/internal/application/auth"
	"github.com/jhoicas/Estoque-api/internal/application/inventory"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
)

var (
	_ inventory.TxRunner = (*TxRunner)(nil)
	_ auth.TenantCreator = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(inventory.TxRepos{
			Products:      NewProductRepository(tx),
			Sales:         NewSaleRepository(tx),
			StockEntries:  NewStockEntryRepository(tx),
			StockExits:    NewStockExitRepository(tx),
			Expenses:      NewExpenseRepository(tx),
			Notifications: NewNotificationRepository(tx),
		})
	})
}

// CreateTenant inserta la empresa y su primer admin en la misma transacción.
func (r *TxRunner) CreateTenant(ctx context.Context, company *entity.Company, admin *entity.User) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := NewCompanyRepository(tx).Create(ctx, company); err != nil {
			return err
		}
		return NewUserRepository(tx).Create(ctx, admin)
	})
}

func (r *TxRunner) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
