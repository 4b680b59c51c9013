package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
	"github.com/jhoicas/inventario-bodegas/internal/domain/repository"
)

var (
	_ repository.WarehouseRepository   = (*WarehouseRepo)(nil)
	_ repository.SubLocationRepository = (*SubLocationRepo)(nil)
)

// WarehouseRepo implementación del puerto WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	db Querier
}

// NewWarehouseRepository construye el adaptador de persistencia para bodegas.
func NewWarehouseRepository(db Querier) *WarehouseRepo {
	return &WarehouseRepo{db: db}
}

const warehouseColumns = "id, name, location, active, created_at, updated_at"

// Create persiste una nueva bodega.
func (r *WarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	query := `
		INSERT INTO warehouses (id, name, location, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, query, w.ID, w.Name, w.Location, w.Active, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		return wrapWrite("insert warehouse", err)
	}
	return nil
}

// GetByID obtiene una bodega por ID.
func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "SELECT "+warehouseColumns+" FROM warehouses WHERE id = $1", id)
}

// GetByName busca sin distinguir mayúsculas.
func (r *WarehouseRepo) GetByName(ctx context.Context, name string) (*entity.Warehouse, error) {
	return r.getOne(ctx, "SELECT "+warehouseColumns+" FROM warehouses WHERE lower(name) = lower($1)", name)
}

func (r *WarehouseRepo) getOne(ctx context.Context, query string, arg any) (*entity.Warehouse, error) {
	var w entity.Warehouse
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&w.ID, &w.Name, &w.Location, &w.Active, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &w, nil
}

// Update actualiza una bodega existente.
func (r *WarehouseRepo) Update(ctx context.Context, w *entity.Warehouse) error {
	if !validID(w.ID) {
		return domain.ErrNotFound
	}
	query := `
		UPDATE warehouses SET name = $2, location = $3, active = $4, updated_at = $5
		WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, w.ID, w.Name, w.Location, w.Active, w.UpdatedAt)
	if err != nil {
		return wrapWrite("update warehouse", err)
	}
	return affected(cmd)
}

// List bodegas ordenadas por nombre.
func (r *WarehouseRepo) List(ctx context.Context, includeInactive bool) ([]*entity.Warehouse, error) {
	q := psql.Select(warehouseColumns).From("warehouses").OrderBy("name", "id")
	if !includeInactive {
		q = q.Where(squirrel.Eq{"active": true})
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list warehouses: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()
	list := []*entity.Warehouse{}
	for rows.Next() {
		var w entity.Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.Location, &w.Active, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		list = append(list, &w)
	}
	return list, rows.Err()
}

// SubLocationRepo implementación del puerto SubLocationRepository sobre PostgreSQL.
type SubLocationRepo struct {
	db Querier
}

// NewSubLocationRepository construye el adaptador de persistencia para subbodegas.
func NewSubLocationRepository(db Querier) *SubLocationRepo {
	return &SubLocationRepo{db: db}
}

// subLocationRow fila de sub_locations; parent_id es nulo en las raíces.
type subLocationRow struct {
	ID          string    `db:"id"`
	WarehouseID string    `db:"warehouse_id"`
	ParentID    *string   `db:"parent_id"`
	Name        string    `db:"name"`
	Active      bool      `db:"active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (s subLocationRow) toEntity() *entity.SubLocation {
	return &entity.SubLocation{
		ID:          s.ID,
		WarehouseID: s.WarehouseID,
		ParentID:    fromNullable(s.ParentID),
		Name:        s.Name,
		Active:      s.Active,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

var subLocationSelect = psql.Select(
	"id", "warehouse_id", "parent_id", "name", "active", "created_at", "updated_at",
).From("sub_locations")

// Create persiste una subbodega. Un padre o bodega inexistente viola la clave foránea.
func (r *SubLocationRepo) Create(ctx context.Context, s *entity.SubLocation) error {
	query := `
		INSERT INTO sub_locations (id, warehouse_id, parent_id, name, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query,
		s.ID, s.WarehouseID, nullable(s.ParentID), s.Name, s.Active, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return wrapWrite("insert sub_location", err)
	}
	return nil
}

// GetByID obtiene una subbodega por ID.
func (r *SubLocationRepo) GetByID(ctx context.Context, id string) (*entity.SubLocation, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, subLocationSelect.Where(squirrel.Eq{"id": id}))
}

// GetByName clave natural (bodega, padre, nombre); parentID vacío busca entre las raíces.
func (r *SubLocationRepo) GetByName(ctx context.Context, warehouseID, parentID, name string) (*entity.SubLocation, error) {
	if !validID(warehouseID) || (parentID != "" && !validID(parentID)) {
		return nil, nil
	}
	return r.getOne(ctx, subLocationSelect.Where(squirrel.And{
		squirrel.Eq{"warehouse_id": warehouseID},
		squirrel.Expr("parent_id IS NOT DISTINCT FROM ?::uuid", nullable(parentID)),
		squirrel.Expr("lower(name) = lower(?)", name),
	}))
}

func (r *SubLocationRepo) getOne(ctx context.Context, q squirrel.SelectBuilder) (*entity.SubLocation, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get sub_location: %w", err)
	}
	var row subLocationRow
	if err := pgxscan.Get(ctx, r.db, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sub_location: %w", err)
	}
	return row.toEntity(), nil
}

// Update actualiza nombre, padre y estado. La bodega de una subbodega no cambia.
func (r *SubLocationRepo) Update(ctx context.Context, s *entity.SubLocation) error {
	if !validID(s.ID) {
		return domain.ErrNotFound
	}
	query := `
		UPDATE sub_locations SET parent_id = $2, name = $3, active = $4, updated_at = $5
		WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, s.ID, nullable(s.ParentID), s.Name, s.Active, s.UpdatedAt)
	if err != nil {
		return wrapWrite("update sub_location", err)
	}
	return affected(cmd)
}

// List subbodegas según el filtro, ordenadas por nombre.
func (r *SubLocationRepo) List(ctx context.Context, f repository.SubLocationFilter) ([]*entity.SubLocation, error) {
	q := subLocationSelect.OrderBy("name", "id")
	if f.WarehouseID != "" {
		if !validID(f.WarehouseID) {
			return []*entity.SubLocation{}, nil
		}
		q = q.Where(squirrel.Eq{"warehouse_id": f.WarehouseID})
	}
	switch {
	case f.ParentID == nil:
	case *f.ParentID == "":
		q = q.Where(squirrel.Eq{"parent_id": nil})
	case !validID(*f.ParentID):
		return []*entity.SubLocation{}, nil
	default:
		q = q.Where(squirrel.Eq{"parent_id": *f.ParentID})
	}
	if !f.IncludeInactive {
		q = q.Where(squirrel.Eq{"active": true})
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list sub_locations: %w", err)
	}
	var rows []subLocationRow
	if err := pgxscan.Select(ctx, r.db, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list sub_locations: %w", err)
	}
	list := make([]*entity.SubLocation, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, nil
}
