package repository

import (
	"context"

	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
)

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
// Las bodegas no se eliminan: se desactivan.
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	// GetByName clave natural usada por la importación.
	GetByName(ctx context.Context, name string) (*entity.Warehouse, error)
	Update(ctx context.Context, warehouse *entity.Warehouse) error
	List(ctx context.Context, includeInactive bool) ([]*entity.Warehouse, error)
}

// SubLocationFilter filtros de listado de subbodegas.
type SubLocationFilter struct {
	WarehouseID     string  // vacío = todas las bodegas
	ParentID        *string // nil = cualquier padre; "" = solo raíces
	IncludeInactive bool
}

// SubLocationRepository define el puerto de persistencia para SubLocation.
type SubLocationRepository interface {
	Create(ctx context.Context, sub *entity.SubLocation) error
	GetByID(ctx context.Context, id string) (*entity.SubLocation, error)
	// GetByName clave natural (bodega, padre, nombre).
	GetByName(ctx context.Context, warehouseID, parentID, name string) (*entity.SubLocation, error)
	Update(ctx context.Context, sub *entity.SubLocation) error
	List(ctx context.Context, filter SubLocationFilter) ([]*entity.SubLocation, error)
}
