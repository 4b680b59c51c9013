package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
	"github.com/jhoicas/inventario-bodegas/internal/domain/repository"
)

var (
	_ repository.BrandRepository = (*BrandRepo)(nil)
	_ repository.UnitRepository  = (*UnitRepo)(nil)
)

// BrandRepo marcas sobre PostgreSQL.
type BrandRepo struct {
	db Querier
}

// NewBrandRepository construye el adaptador de persistencia para marcas.
func NewBrandRepository(db Querier) *BrandRepo {
	return &BrandRepo{db: db}
}

func (r *BrandRepo) Create(ctx context.Context, b *entity.Brand) error {
	_, err := r.db.Exec(ctx, `INSERT INTO brands (id, name, active) VALUES ($1, $2, $3)`, b.ID, b.Name, b.Active)
	if err != nil {
		return wrapWrite("insert brand", err)
	}
	return nil
}

func (r *BrandRepo) GetByID(ctx context.Context, id string) (*entity.Brand, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT id, name, active FROM brands WHERE id = $1`, id)
}

// GetByName busca sin distinguir mayúsculas.
func (r *BrandRepo) GetByName(ctx context.Context, name string) (*entity.Brand, error) {
	return r.getOne(ctx, `SELECT id, name, active FROM brands WHERE lower(name) = lower($1)`, name)
}

func (r *BrandRepo) getOne(ctx context.Context, query string, arg any) (*entity.Brand, error) {
	var b entity.Brand
	if err := r.db.QueryRow(ctx, query, arg).Scan(&b.ID, &b.Name, &b.Active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get brand: %w", err)
	}
	return &b, nil
}

func (r *BrandRepo) Update(ctx context.Context, b *entity.Brand) error {
	if !validID(b.ID) {
		return domain.ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE brands SET name = $2, active = $3 WHERE id = $1`, b.ID, b.Name, b.Active)
	if err != nil {
		return wrapWrite("update brand", err)
	}
	return affected(cmd)
}

func (r *BrandRepo) List(ctx context.Context) ([]*entity.Brand, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, active FROM brands ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()
	list := []*entity.Brand{}
	for rows.Next() {
		var b entity.Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.Active); err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// Delete elimina la marca; materiales y movimientos quedan sin marca (ON DELETE SET NULL).
func (r *BrandRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return wrapWrite("delete brand", err)
	}
	return affected(cmd)
}

// UnitRepo unidades de medida sobre PostgreSQL.
type UnitRepo struct {
	db Querier
}

// NewUnitRepository construye el adaptador de persistencia para unidades de medida.
func NewUnitRepository(db Querier) *UnitRepo {
	return &UnitRepo{db: db}
}

func (r *UnitRepo) Create(ctx context.Context, u *entity.UnitOfMeasure) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO units_of_measure (id, name, abbreviation, active) VALUES ($1, $2, $3, $4)`,
		u.ID, u.Name, u.Abbreviation, u.Active,
	)
	if err != nil {
		return wrapWrite("insert unit", err)
	}
	return nil
}

func (r *UnitRepo) GetByID(ctx context.Context, id string) (*entity.UnitOfMeasure, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT id, name, abbreviation, active FROM units_of_measure WHERE id = $1`, id)
}

// GetByName busca sin distinguir mayúsculas.
func (r *UnitRepo) GetByName(ctx context.Context, name string) (*entity.UnitOfMeasure, error) {
	return r.getOne(ctx, `SELECT id, name, abbreviation, active FROM units_of_measure WHERE lower(name) = lower($1)`, name)
}

func (r *UnitRepo) getOne(ctx context.Context, query string, arg any) (*entity.UnitOfMeasure, error) {
	var u entity.UnitOfMeasure
	if err := r.db.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Name, &u.Abbreviation, &u.Active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unit: %w", err)
	}
	return &u, nil
}

func (r *UnitRepo) Update(ctx context.Context, u *entity.UnitOfMeasure) error {
	if !validID(u.ID) {
		return domain.ErrNotFound
	}
	cmd, err := r.db.Exec(ctx,
		`UPDATE units_of_measure SET name = $2, abbreviation = $3, active = $4 WHERE id = $1`,
		u.ID, u.Name, u.Abbreviation, u.Active,
	)
	if err != nil {
		return wrapWrite("update unit", err)
	}
	return affected(cmd)
}

func (r *UnitRepo) List(ctx context.Context) ([]*entity.UnitOfMeasure, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, abbreviation, active FROM units_of_measure ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()
	list := []*entity.UnitOfMeasure{}
	for rows.Next() {
		var u entity.UnitOfMeasure
		if err := rows.Scan(&u.ID, &u.Name, &u.Abbreviation, &u.Active); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

func (r *UnitRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM units_of_measure WHERE id = $1`, id)
	if err != nil {
		return wrapWrite("delete unit", err)
	}
	return affected(cmd)
}
