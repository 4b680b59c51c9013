package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
	"github.com/jhoicas/inventario-bodegas/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

// MaterialRepo implementación del puerto MaterialRepository sobre PostgreSQL.
type MaterialRepo struct {
	db Querier
}

// NewMaterialRepository construye el adaptador de persistencia para materiales.
func NewMaterialRepository(db Querier) *MaterialRepo {
	return &MaterialRepo{db: db}
}

type materialRow struct {
	ID        string           `db:"id"`
	Code      string           `db:"code"`
	Barcode   *string          `db:"barcode"`
	Reference string           `db:"reference"`
	Name      string           `db:"name"`
	Unit      string           `db:"unit"`
	BrandID   *string          `db:"brand_id"`
	LastPrice *decimal.Decimal `db:"last_price"`
	CreatedAt time.Time        `db:"created_at"`
	UpdatedAt time.Time        `db:"updated_at"`
}

func (m materialRow) toEntity() *entity.Material {
	return &entity.Material{
		ID:        m.ID,
		Code:      m.Code,
		Barcode:   m.Barcode,
		Reference: m.Reference,
		Name:      m.Name,
		Unit:      m.Unit,
		BrandID:   m.BrandID,
		LastPrice: m.LastPrice,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

var materialSelect = psql.Select(
	"id", "code", "barcode", "reference", "name", "unit", "brand_id", "last_price", "created_at", "updated_at",
).From("materials")

// Create persiste un material. Código o código de barras repetidos devuelven ErrDuplicate.
func (r *MaterialRepo) Create(ctx context.Context, m *entity.Material) error {
	query := `
		INSERT INTO materials (id, code, barcode, reference, name, unit, brand_id, last_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, query,
		m.ID, m.Code, m.Barcode, m.Reference, m.Name, m.Unit, m.BrandID, m.LastPrice, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return wrapWrite("insert material", err)
	}
	return nil
}

// GetByID obtiene un material por ID.
func (r *MaterialRepo) GetByID(ctx context.Context, id string) (*entity.Material, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, materialSelect.Where(squirrel.Eq{"id": id}))
}

// GetByCode obtiene un material por código exacto.
func (r *MaterialRepo) GetByCode(ctx context.Context, code string) (*entity.Material, error) {
	return r.getOne(ctx, materialSelect.Where(squirrel.Eq{"code": code}))
}

func (r *MaterialRepo) getOne(ctx context.Context, q squirrel.SelectBuilder) (*entity.Material, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get material: %w", err)
	}
	var row materialRow
	if err := pgxscan.Get(ctx, r.db, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return row.toEntity(), nil
}

// Update actualiza todos los campos editables del material.
func (r *MaterialRepo) Update(ctx context.Context, m *entity.Material) error {
	if !validID(m.ID) {
		return domain.ErrNotFound
	}
	query := `
		UPDATE materials SET code = $2, barcode = $3, reference = $4, name = $5, unit = $6,
			brand_id = $7, last_price = $8, updated_at = $9
		WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query,
		m.ID, m.Code, m.Barcode, m.Reference, m.Name, m.Unit, m.BrandID, m.LastPrice, m.UpdatedAt,
	)
	if err != nil {
		return wrapWrite("update material", err)
	}
	return affected(cmd)
}

// UpdateProjection marca y último precio; un argumento nil conserva el valor actual.
func (r *MaterialRepo) UpdateProjection(ctx context.Context, materialID string, brandID *string, lastPrice *decimal.Decimal) error {
	if !validID(materialID) {
		return domain.ErrNotFound
	}
	query := `
		UPDATE materials SET
			brand_id = COALESCE($2::uuid, brand_id),
			last_price = COALESCE($3::numeric, last_price),
			updated_at = now()
		WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, materialID, brandID, lastPrice)
	if err != nil {
		return wrapWrite("update material projection", err)
	}
	return affected(cmd)
}

// List busca por código, nombre o referencia; limit 0 devuelve todos.
func (r *MaterialRepo) List(ctx context.Context, search string, limit, offset int) ([]*entity.Material, error) {
	q := materialSelect.OrderBy("code")
	if s := strings.TrimSpace(search); s != "" {
		pattern := "%" + escapeLike(s) + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"code": pattern},
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"reference": pattern},
		})
	}
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list materials: %w", err)
	}
	var rows []materialRow
	if err := pgxscan.Select(ctx, r.db, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	list := make([]*entity.Material, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, nil
}

// Delete elimina el material; con movimientos registrados la FK lo impide (ErrConflict).
func (r *MaterialRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		return wrapWrite("delete material", err)
	}
	return affected(cmd)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
