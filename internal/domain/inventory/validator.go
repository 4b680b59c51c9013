package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
	"github.com/jhoicas/inventario-bodegas/internal/domain/stock"
)

// GeneralLabel nombre de la ubicación sin subbodega.
const GeneralLabel = "General"

// StockReader calcula el disponible de un bucket exacto, excluyendo opcionalmente un movimiento.
type StockReader interface {
	Available(ctx context.Context, key stock.Key, excludeMovementID string) (int64, error)
}

// Catalog lectura de las referencias que el validador necesita (nil, nil si no existe).
type Catalog interface {
	GetMaterial(ctx context.Context, id string) (*entity.Material, error)
	GetWarehouse(ctx context.Context, id string) (*entity.Warehouse, error)
	GetSubLocation(ctx context.Context, id string) (*entity.SubLocation, error)
	SubLocationPath(ctx context.Context, id string) (string, error)
}

// Validator decide si un movimiento propuesto (alta o edición) es admisible antes de persistirlo.
// No tiene efectos secundarios.
type Validator struct {
	stock   StockReader
	catalog Catalog
}

// NewValidator construye el validador.
func NewValidator(stock StockReader, catalog Catalog) *Validator {
	return &Validator{stock: stock, catalog: catalog}
}

// Validate comprueba referencias y, para salidas y traslados, el stock disponible en el bucket origen.
// existing es el registro previo cuando se trata de una edición; su aporte no cuenta contra sí mismo.
func (v *Validator) Validate(ctx context.Context, proposed, existing *entity.Movement) error {
	if proposed == nil {
		return domain.NewValidationError("", "movimiento vacío")
	}
	material, err := v.catalog.GetMaterial(ctx, proposed.MaterialID)
	if err != nil {
		return fmt.Errorf("validar material: %w", err)
	}
	if material == nil {
		return domain.NewValidationError("material", "el material no existe")
	}
	if err := v.checkLocation(ctx, proposed.Origin, "bodega", "subbodega"); err != nil {
		return err
	}
	if proposed.Destination != nil {
		if err := v.checkLocation(ctx, *proposed.Destination, "bodega_destino", "subbodega_destino"); err != nil {
			return err
		}
	}

	if !proposed.Type.ConstrainsStock() {
		return nil
	}

	excludeID := ""
	if existing != nil {
		excludeID = existing.ID
	}
	key := stock.KeyAt(proposed.MaterialID, proposed.Origin)
	available, err := v.stock.Available(ctx, key, excludeID)
	if err != nil {
		return fmt.Errorf("calcular disponible: %w", err)
	}
	if proposed.Quantity <= available {
		return nil
	}
	label, err := v.LocationLabel(ctx, proposed.Origin)
	if err != nil {
		return err
	}
	return &domain.InsufficientStockError{
		Available: available,
		Requested: proposed.Quantity,
		Unit:      material.Unit,
		Location:  label,
	}
}

func (v *Validator) checkLocation(ctx context.Context, loc entity.Location, warehouseField, subField string) error {
	wh, err := v.catalog.GetWarehouse(ctx, loc.WarehouseID)
	if err != nil {
		return fmt.Errorf("validar bodega: %w", err)
	}
	if wh == nil {
		return domain.NewValidationError(warehouseField, "la bodega no existe")
	}
	if loc.IsGeneral() {
		return nil
	}
	sub, err := v.catalog.GetSubLocation(ctx, loc.SubLocationID)
	if err != nil {
		return fmt.Errorf("validar subbodega: %w", err)
	}
	if sub == nil {
		return domain.NewValidationError(subField, "la subbodega no existe")
	}
	if sub.WarehouseID != loc.WarehouseID {
		return domain.NewValidationError(subField, "la subbodega no pertenece a la bodega seleccionada")
	}
	return nil
}

// LocationLabel "Bodega / General" o "Bodega / Estante 3 > Fila 1".
func (v *Validator) LocationLabel(ctx context.Context, loc entity.Location) (string, error) {
	name := loc.WarehouseID
	wh, err := v.catalog.GetWarehouse(ctx, loc.WarehouseID)
	if err != nil {
		return "", fmt.Errorf("etiqueta de ubicación: %w", err)
	}
	if wh != nil {
		name = wh.Name
	}
	if loc.IsGeneral() {
		return name + " / " + GeneralLabel, nil
	}
	path, err := v.catalog.SubLocationPath(ctx, loc.SubLocationID)
	if err != nil {
		return "", fmt.Errorf("etiqueta de ubicación: %w", err)
	}
	return name + " / " + path, nil
}
