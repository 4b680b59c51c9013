package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-bodegas/internal/application/inventory"
)

// Ensure TxRunner implements inventory.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// NewRepos repositorios atados a q (pool para lecturas, tx dentro de Run).
func NewRepos(q Querier) inventory.Repos {
	return inventory.Repos{
		Warehouses:   NewWarehouseRepository(q),
		SubLocations: NewSubLocationRepository(q),
		Materials:    NewMaterialRepository(q),
		Brands:       NewBrandRepository(q),
		Units:        NewUnitRepository(q),
		Invoices:     NewInvoiceRepository(q),
		Movements:    NewMovementRepository(q),
		Stock:        NewStockRepository(q),
	}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(txRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txRepos repos sobre tx; Savepoint abre una transacción anidada (SAVEPOINT) sobre la misma conexión.
func txRepos(tx pgx.Tx) inventory.Repos {
	repos := NewRepos(tx)
	repos.Savepoint = func(ctx context.Context, fn func(inventory.Repos) error) error {
		sp, err := tx.Begin(ctx)
		if err != nil {
			return fmt.Errorf("savepoint: %w", err)
		}
		defer func() { _ = sp.Rollback(ctx) }()

		if err := fn(txRepos(sp)); err != nil {
			return err
		}
		if err := sp.Commit(ctx); err != nil {
			return fmt.Errorf("release savepoint: %w", err)
		}
		return nil
	}
	return repos
}
