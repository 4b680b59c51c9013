package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
	"github.com/jhoicas/inventario-bodegas/internal/domain/repository"
	"github.com/jhoicas/inventario-bodegas/internal/domain/stock"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo agregación de existencias sobre el libro de movimientos (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// originSum suma con signo: salidas y traslados restan en el origen.
var originSum = fmt.Sprintf(
	"SUM(CASE WHEN type IN ('%s', '%s') THEN -quantity ELSE quantity END)::bigint AS quantity",
	entity.MovementExit, entity.MovementTransfer,
)

// bucketColumns columnas del bucket según el lado del movimiento.
type bucketColumns struct {
	warehouse, subLocation string
}

var (
	originSide      = bucketColumns{warehouse: "warehouse_id", subLocation: "sub_location_id"}
	destinationSide = bucketColumns{warehouse: "dest_warehouse_id", subLocation: "dest_sub_location_id"}
)

// scoped aplica los filtros de la consulta. ok=false indica que ningún bucket puede coincidir.
func scoped(b squirrel.SelectBuilder, side bucketColumns, q stock.Query) (squirrel.SelectBuilder, bool) {
	if q.MaterialID != "" {
		if !validID(q.MaterialID) {
			return b, false
		}
		b = b.Where(squirrel.Eq{"material_id": q.MaterialID})
	}
	if q.ExcludeMovementID != "" && validID(q.ExcludeMovementID) {
		b = b.Where(squirrel.NotEq{"id": q.ExcludeMovementID})
	}
	if q.WarehouseID == "" {
		return b, true
	}
	if !validID(q.WarehouseID) {
		return b, false
	}
	b = b.Where(squirrel.Eq{side.warehouse: q.WarehouseID})
	switch {
	case q.OnlyGeneral:
		b = b.Where(squirrel.Eq{side.subLocation: nil})
	case q.SubLocationIDs != nil:
		ids := make([]string, 0, len(q.SubLocationIDs))
		for _, id := range q.SubLocationIDs {
			if validID(id) {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			return b, false
		}
		b = b.Where(squirrel.Eq{side.subLocation: ids})
	}
	return b, true
}

func bucketQuery(side bucketColumns, sum string) squirrel.SelectBuilder {
	return psql.Select(
		"material_id::text AS material_id",
		side.warehouse+"::text AS warehouse_id",
		"COALESCE("+side.subLocation+"::text, '') AS sub_location_id",
		sum,
	).From("movements").GroupBy("material_id", side.warehouse, side.subLocation)
}

// originQuery suma por bucket origen.
func originQuery(q stock.Query) (squirrel.SelectBuilder, bool) {
	return scoped(bucketQuery(originSide, originSum), originSide, q)
}

// destinationQuery suma los traslados por bucket destino.
func destinationQuery(q stock.Query) (squirrel.SelectBuilder, bool) {
	b := bucketQuery(destinationSide, "SUM(quantity)::bigint AS quantity").
		Where(squirrel.Eq{"type": string(entity.MovementTransfer)})
	return scoped(b, destinationSide, q)
}

// SumAsOrigin suma con signo por bucket origen.
func (r *StockRepo) SumAsOrigin(ctx context.Context, q stock.Query) ([]stock.Row, error) {
	b, ok := originQuery(q)
	if !ok {
		return []stock.Row{}, nil
	}
	return r.rows(ctx, b, "sum as origin")
}

// SumAsDestination suma los traslados por bucket destino.
func (r *StockRepo) SumAsDestination(ctx context.Context, q stock.Query) ([]stock.Row, error) {
	b, ok := destinationQuery(q)
	if !ok {
		return []stock.Row{}, nil
	}
	return r.rows(ctx, b, "sum as destination")
}

func (r *StockRepo) rows(ctx context.Context, b squirrel.SelectBuilder, op string) ([]stock.Row, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", op, err)
	}
	rows := []stock.Row{}
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rows, nil
}

// lockKey identificador textual del bucket para el lock consultivo.
func lockKey(k stock.Key) string {
	return "stock:" + k.MaterialID + ":" + k.WarehouseID + ":" + k.SubLocationID
}

// LockBucket toma un advisory lock de transacción sobre el bucket: dos salidas concurrentes
// del mismo bucket se serializan y la segunda ve lo que escribió la primera.
func (r *StockRepo) LockBucket(ctx context.Context, k stock.Key) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, lockKey(k)); err != nil {
		return fmt.Errorf("lock stock bucket: %w", err)
	}
	return nil
}
