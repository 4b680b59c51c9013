package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
	"github.com/jhoicas/inventario-bodegas/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo libro de movimientos sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	db Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(db Querier) *MovementRepo {
	return &MovementRepo{db: db}
}

type movementRow struct {
	ID                string           `db:"id"`
	MaterialID        string           `db:"material_id"`
	Type              string           `db:"type"`
	WarehouseID       string           `db:"warehouse_id"`
	SubLocationID     *string          `db:"sub_location_id"`
	DestWarehouseID   *string          `db:"dest_warehouse_id"`
	DestSubLocationID *string          `db:"dest_sub_location_id"`
	Quantity          int64            `db:"quantity"`
	BrandID           *string          `db:"brand_id"`
	InvoiceID         *string          `db:"invoice_id"`
	InvoiceManual     string           `db:"invoice_manual"`
	UnitPrice         *decimal.Decimal `db:"unit_price"`
	Date              time.Time        `db:"date"`
	Notes             string           `db:"notes"`
	UserID            *string          `db:"user_id"`
	CreatedAt         time.Time        `db:"created_at"`
	UpdatedAt         time.Time        `db:"updated_at"`
}

func (m movementRow) toEntity() *entity.Movement {
	out := &entity.Movement{
		ID:            m.ID,
		MaterialID:    m.MaterialID,
		Type:          entity.MovementType(m.Type),
		Origin:        entity.Location{WarehouseID: m.WarehouseID, SubLocationID: fromNullable(m.SubLocationID)},
		Quantity:      m.Quantity,
		BrandID:       m.BrandID,
		InvoiceID:     m.InvoiceID,
		InvoiceManual: m.InvoiceManual,
		UnitPrice:     m.UnitPrice,
		Date:          m.Date,
		Notes:         m.Notes,
		UserID:        m.UserID,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.DestWarehouseID != nil {
		out.Destination = &entity.Location{WarehouseID: *m.DestWarehouseID, SubLocationID: fromNullable(m.DestSubLocationID)}
	}
	return out
}

// destination columnas destino (nulas salvo en traslados).
func destination(m *entity.Movement) (warehouseID, subLocationID *string) {
	if m.Destination == nil {
		return nil, nil
	}
	return nullable(m.Destination.WarehouseID), nullable(m.Destination.SubLocationID)
}

var movementSelect = psql.Select(
	"id", "material_id", "type", "warehouse_id", "sub_location_id", "dest_warehouse_id", "dest_sub_location_id",
	"quantity", "brand_id", "invoice_id", "invoice_manual", "unit_price", "date", "notes", "user_id",
	"created_at", "updated_at",
).From("movements")

// Create persiste un movimiento. Asigna ID si viene vacío.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	destWarehouse, destSub := destination(m)
	query := `
		INSERT INTO movements (id, material_id, type, warehouse_id, sub_location_id, dest_warehouse_id, dest_sub_location_id,
			quantity, brand_id, invoice_id, invoice_manual, unit_price, date, notes, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.db.Exec(ctx, query,
		m.ID, m.MaterialID, string(m.Type), m.Origin.WarehouseID, nullable(m.Origin.SubLocationID), destWarehouse, destSub,
		m.Quantity, m.BrandID, m.InvoiceID, m.InvoiceManual, m.UnitPrice, m.Date, m.Notes, m.UserID, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return wrapWrite("create movement", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, movementSelect.Where(squirrel.Eq{"id": id}))
}

func (r *MovementRepo) getOne(ctx context.Context, q squirrel.SelectBuilder) (*entity.Movement, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get movement: %w", err)
	}
	var row movementRow
	if err := pgxscan.Get(ctx, r.db, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return row.toEntity(), nil
}

// Update reescribe el movimiento completo; created_at y user_id no cambian.
func (r *MovementRepo) Update(ctx context.Context, m *entity.Movement) error {
	if !validID(m.ID) {
		return domain.ErrNotFound
	}
	destWarehouse, destSub := destination(m)
	query := `
		UPDATE movements SET material_id = $2, type = $3, warehouse_id = $4, sub_location_id = $5,
			dest_warehouse_id = $6, dest_sub_location_id = $7, quantity = $8, brand_id = $9, invoice_id = $10,
			invoice_manual = $11, unit_price = $12, date = $13, notes = $14, updated_at = $15
		WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query,
		m.ID, m.MaterialID, string(m.Type), m.Origin.WarehouseID, nullable(m.Origin.SubLocationID), destWarehouse, destSub,
		m.Quantity, m.BrandID, m.InvoiceID, m.InvoiceManual, m.UnitPrice, m.Date, m.Notes, m.UpdatedAt,
	)
	if err != nil {
		return wrapWrite("update movement", err)
	}
	return affected(cmd)
}

// Delete elimina el movimiento del libro.
func (r *MovementRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	return affected(cmd)
}

// touchesWarehouse origen o destino en la bodega.
func touchesWarehouse(warehouseID string) squirrel.Sqlizer {
	return squirrel.Or{
		squirrel.Eq{"warehouse_id": warehouseID},
		squirrel.Eq{"dest_warehouse_id": warehouseID},
	}
}

var movementOrder = []string{"date DESC", "created_at DESC", "id"}

// List movimientos filtrados, por fecha descendente.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	q := movementSelect.OrderBy(movementOrder...)
	if f.MaterialID != "" {
		if !validID(f.MaterialID) {
			return []*entity.Movement{}, nil
		}
		q = q.Where(squirrel.Eq{"material_id": f.MaterialID})
	}
	if f.WarehouseID != "" {
		if !validID(f.WarehouseID) {
			return []*entity.Movement{}, nil
		}
		q = q.Where(touchesWarehouse(f.WarehouseID))
	}
	if f.Type != "" {
		q = q.Where(squirrel.Eq{"type": string(f.Type)})
	}
	if f.From != nil {
		q = q.Where(squirrel.GtOrEq{"date": *f.From})
	}
	if f.To != nil {
		q = q.Where(squirrel.LtOrEq{"date": *f.To})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}
	return r.selectMany(ctx, q)
}

// ListAffecting movimientos con origen o destino en la bodega; alimenta el cálculo por recorrido.
func (r *MovementRepo) ListAffecting(ctx context.Context, materialID, warehouseID string) ([]*entity.Movement, error) {
	q := movementSelect.OrderBy(movementOrder...)
	if materialID != "" {
		if !validID(materialID) {
			return []*entity.Movement{}, nil
		}
		q = q.Where(squirrel.Eq{"material_id": materialID})
	}
	if warehouseID != "" {
		if !validID(warehouseID) {
			return []*entity.Movement{}, nil
		}
		q = q.Where(touchesWarehouse(warehouseID))
	}
	return r.selectMany(ctx, q)
}

func (r *MovementRepo) selectMany(ctx context.Context, q squirrel.SelectBuilder) ([]*entity.Movement, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list movements: %w", err)
	}
	var rows []movementRow
	if err := pgxscan.Select(ctx, r.db, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	list := make([]*entity.Movement, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, nil
}

// CountByMaterial número de movimientos que referencian el material.
func (r *MovementRepo) CountByMaterial(ctx context.Context, materialID string) (int, error) {
	if !validID(materialID) {
		return 0, nil
	}
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM movements WHERE material_id = $1`, materialID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}

// FindEquivalent primer movimiento (por ID) con la misma huella, fuera de exclude.
func (r *MovementRepo) FindEquivalent(ctx context.Context, m *entity.Movement, exclude []string) (*entity.Movement, error) {
	if !validID(m.MaterialID) || !validID(m.Origin.WarehouseID) {
		return nil, nil
	}
	destWarehouse, destSub := destination(m)
	q := movementSelect.Where(squirrel.And{
		squirrel.Eq{"material_id": m.MaterialID},
		squirrel.Eq{"type": string(m.Type)},
		squirrel.Eq{"quantity": m.Quantity},
		squirrel.Eq{"date": m.Date},
		squirrel.Eq{"warehouse_id": m.Origin.WarehouseID},
		squirrel.Expr("sub_location_id IS NOT DISTINCT FROM ?::uuid", nullable(m.Origin.SubLocationID)),
		squirrel.Expr("dest_warehouse_id IS NOT DISTINCT FROM ?::uuid", destWarehouse),
		squirrel.Expr("dest_sub_location_id IS NOT DISTINCT FROM ?::uuid", destSub),
	})
	if skip := validIDs(exclude); len(skip) > 0 {
		q = q.Where(squirrel.NotEq{"id": skip})
	}
	return r.getOne(ctx, q.OrderBy("id").Limit(1))
}
