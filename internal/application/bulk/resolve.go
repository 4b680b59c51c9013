package bulk

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/inventario-bodegas/internal/application/inventory"
	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
	"github.com/jhoicas/inventario-bodegas/internal/domain/location"
)

// naturalKey normaliza nombres, códigos y números: espacios externos y forma NFC,
// para que "Almacén" escrito con tilde combinada coincida con el guardado.
func naturalKey(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// parseID valida un ID opcional. Vacío es válido y significa "resolver por clave natural".
func parseID(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return "", domain.NewValidationError(field, "identificador inválido: "+s)
	}
	return id.String(), nil
}

// asID devuelve la referencia como ID si tiene forma de UUID.
func asID(ref string) (string, bool) {
	id, err := uuid.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

func unresolved(what, ref string) error {
	return &domain.StructuralError{Op: what + " " + strings.TrimSpace(ref), Err: domain.ErrUnresolvedReference}
}

func resolveWarehouse(ctx context.Context, r inventory.Repos, ref string) (*entity.Warehouse, error) {
	if id, ok := asID(ref); ok {
		w, err := r.Warehouses.GetByID(ctx, id)
		if err != nil || w != nil {
			return w, err
		}
	}
	return r.Warehouses.GetByName(ctx, naturalKey(ref))
}

// resolveSubLocation busca por ID o recorre la ruta "A > B > C" desde la raíz de la bodega.
func resolveSubLocation(ctx context.Context, r inventory.Repos, warehouseID, ref string) (*entity.SubLocation, error) {
	if id, ok := asID(ref); ok {
		s, err := r.SubLocations.GetByID(ctx, id)
		if err != nil || s != nil {
			return s, err
		}
	}
	var current *entity.SubLocation
	parentID := ""
	for _, part := range strings.Split(ref, strings.TrimSpace(location.PathSeparator)) {
		name := naturalKey(part)
		if name == "" {
			return nil, nil
		}
		s, err := r.SubLocations.GetByName(ctx, warehouseID, parentID, name)
		if err != nil || s == nil {
			return nil, err
		}
		current = s
		parentID = s.ID
	}
	return current, nil
}

func resolveBrand(ctx context.Context, r inventory.Repos, ref string) (*entity.Brand, error) {
	if id, ok := asID(ref); ok {
		b, err := r.Brands.GetByID(ctx, id)
		if err != nil || b != nil {
			return b, err
		}
	}
	return r.Brands.GetByName(ctx, naturalKey(ref))
}

func resolveMaterial(ctx context.Context, r inventory.Repos, ref string) (*entity.Material, error) {
	if id, ok := asID(ref); ok {
		m, err := r.Materials.GetByID(ctx, id)
		if err != nil || m != nil {
			return m, err
		}
	}
	return r.Materials.GetByCode(ctx, naturalKey(ref))
}

func resolveInvoice(ctx context.Context, r inventory.Repos, ref string) (*entity.Invoice, error) {
	if id, ok := asID(ref); ok {
		inv, err := r.Invoices.GetByID(ctx, id)
		if err != nil || inv != nil {
			return inv, err
		}
	}
	return r.Invoices.GetByNumber(ctx, naturalKey(ref))
}

// resolveLocation resuelve el par bodega/subbodega de un movimiento.
func resolveLocation(ctx context.Context, r inventory.Repos, warehouseRef, subRef, field string) (entity.Location, error) {
	wh, err := resolveWarehouse(ctx, r, warehouseRef)
	if err != nil {
		return entity.Location{}, err
	}
	if wh == nil {
		return entity.Location{}, unresolved(field, warehouseRef)
	}
	loc := entity.Location{WarehouseID: wh.ID}
	if strings.TrimSpace(subRef) == "" {
		return loc, nil
	}
	sub, err := resolveSubLocation(ctx, r, wh.ID, subRef)
	if err != nil {
		return entity.Location{}, err
	}
	if sub == nil {
		return entity.Location{}, unresolved("sub"+field, subRef)
	}
	loc.SubLocationID = sub.ID
	return loc, nil
}
