package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-bodegas/internal/application/dto"
	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
	"github.com/jhoicas/inventario-bodegas/internal/domain/repository"
)

// MaterialsCounter materiales con stock positivo por bodega.
type MaterialsCounter interface {
	MaterialsCount(ctx context.Context) (map[string]int, error)
}

// WarehouseUseCase casos de uso CRUD para bodegas. Las bodegas no se eliminan: se desactivan.
type WarehouseUseCase struct {
	repo    repository.WarehouseRepository
	counter MaterialsCounter
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository, counter MaterialsCounter) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo, counter: counter}
}

// Create crea una nueva bodega activa. El nombre es único.
func (uc *WarehouseUseCase) Create(ctx context.Context, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "el nombre es obligatorio")
	}
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	warehouse := &entity.Warehouse{
		ID:        uuid.New().String(),
		Name:      name,
		Location:  in.Location,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, warehouse); err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse, 0), nil
}

// GetByID obtiene una bodega por ID con su conteo de materiales.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id string) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, nil
	}
	counts, err := uc.counts(ctx)
	if err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse, counts[id]), nil
}

// Update actualiza una bodega.
func (uc *WarehouseUseCase) Update(ctx context.Context, id string, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, nil
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "el nombre es obligatorio")
		}
		if name != warehouse.Name {
			other, err := uc.repo.GetByName(ctx, name)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != id {
				return nil, domain.ErrDuplicate
			}
		}
		warehouse.Name = name
	}
	if in.Location != nil {
		warehouse.Location = *in.Location
	}
	if in.Active != nil {
		warehouse.Active = *in.Active
	}
	warehouse.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, warehouse); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// ToggleActive invierte el estado activo de la bodega.
func (uc *WarehouseUseCase) ToggleActive(ctx context.Context, id string) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, nil
	}
	active := !warehouse.Active
	return uc.Update(ctx, id, dto.UpdateWarehouseRequest{Active: &active})
}

// List lista bodegas por nombre; las inactivas solo si includeInactive.
func (uc *WarehouseUseCase) List(ctx context.Context, includeInactive bool) ([]dto.WarehouseResponse, error) {
	list, err := uc.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	counts, err := uc.counts(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w, counts[w.ID]))
	}
	return items, nil
}

func (uc *WarehouseUseCase) counts(ctx context.Context) (map[string]int, error) {
	if uc.counter == nil {
		return map[string]int{}, nil
	}
	return uc.counter.MaterialsCount(ctx)
}

func toWarehouseResponse(w *entity.Warehouse, materials int) *dto.WarehouseResponse {
	if w == nil {
		return nil
	}
	return &dto.WarehouseResponse{
		ID:             w.ID,
		Name:           w.Name,
		Location:       w.Location,
		Active:         w.Active,
		MaterialsCount: materials,
		CreatedAt:      w.CreatedAt,
		UpdatedAt:      w.UpdatedAt,
	}
}
