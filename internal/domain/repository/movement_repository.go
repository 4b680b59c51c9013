package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
)

// MovementFilter filtros del listado de movimientos (orden: fecha descendente).
type MovementFilter struct {
	MaterialID  string
	WarehouseID string // coincide con origen o destino
	Type        entity.MovementType
	From, To    *time.Time
	Limit       int
	Offset      int
}

// MovementRepository define el puerto de persistencia del libro de movimientos.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	Update(ctx context.Context, movement *entity.Movement) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
	// ListAffecting movimientos cuyo origen o destino es la bodega (vacío = todas) para el material (vacío = todos).
	// Alimenta la estrategia de cálculo por recorrido.
	ListAffecting(ctx context.Context, materialID, warehouseID string) ([]*entity.Movement, error)
	// CountByMaterial número de movimientos que referencian el material.
	CountByMaterial(ctx context.Context, materialID string) (int, error)
	// FindEquivalent busca, por ID ascendente, un movimiento con la misma huella (fecha, tipo, material,
	// cantidad, origen, destino) cuyo ID no esté en exclude. Permite que reimportar la misma hoja
	// no duplique movimientos sin ID.
	FindEquivalent(ctx context.Context, movement *entity.Movement, exclude []string) (*entity.Movement, error)
}
