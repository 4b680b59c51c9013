package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
)

// MaterialRepository define el puerto de persistencia para Material (DIP).
type MaterialRepository interface {
	Create(ctx context.Context, material *entity.Material) error
	GetByID(ctx context.Context, id string) (*entity.Material, error)
	GetByCode(ctx context.Context, code string) (*entity.Material, error)
	Update(ctx context.Context, material *entity.Material) error
	// UpdateProjection actualiza solo marca y último precio; nil conserva el valor actual.
	UpdateProjection(ctx context.Context, materialID string, brandID *string, lastPrice *decimal.Decimal) error
	// List busca por código, nombre o referencia (search vacío = todos).
	List(ctx context.Context, search string, limit, offset int) ([]*entity.Material, error)
	Delete(ctx context.Context, id string) error
}

// BrandRepository define el puerto de persistencia para Brand.
type BrandRepository interface {
	Create(ctx context.Context, brand *entity.Brand) error
	GetByID(ctx context.Context, id string) (*entity.Brand, error)
	GetByName(ctx context.Context, name string) (*entity.Brand, error)
	Update(ctx context.Context, brand *entity.Brand) error
	List(ctx context.Context) ([]*entity.Brand, error)
	Delete(ctx context.Context, id string) error
}

// UnitRepository define el puerto de persistencia para UnitOfMeasure.
type UnitRepository interface {
	Create(ctx context.Context, unit *entity.UnitOfMeasure) error
	GetByID(ctx context.Context, id string) (*entity.UnitOfMeasure, error)
	GetByName(ctx context.Context, name string) (*entity.UnitOfMeasure, error)
	Update(ctx context.Context, unit *entity.UnitOfMeasure) error
	List(ctx context.Context) ([]*entity.UnitOfMeasure, error)
	Delete(ctx context.Context, id string) error
}
