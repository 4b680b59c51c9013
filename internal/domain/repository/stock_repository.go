package repository

import (
	"context"

	"github.com/jhoicas/inventario-bodegas/internal/domain/stock"
)

// StockRepository agregación por conjuntos sobre el libro de movimientos.
// Usado dentro de transacciones para que validar y escribir vean el mismo estado.
type StockRepository interface {
	// SumAsOrigin suma con signo por bucket origen.
	SumAsOrigin(ctx context.Context, q stock.Query) ([]stock.Row, error)
	// SumAsDestination suma los traslados por bucket destino.
	SumAsDestination(ctx context.Context, q stock.Query) ([]stock.Row, error)
	// LockBucket serializa las escrituras sobre un bucket hasta el fin de la transacción.
	LockBucket(ctx context.Context, key stock.Key) error
}
