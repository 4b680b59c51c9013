package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-bodegas/internal/application/dto"
	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
	"github.com/jhoicas/inventario-bodegas/internal/domain/location"
	"github.com/jhoicas/inventario-bodegas/internal/domain/repository"
)

// ParentNull valor del filtro parent que selecciona solo subbodegas raíz.
const ParentNull = "null"

// SubLocationUseCase casos de uso del árbol de subbodegas.
type SubLocationUseCase struct {
	warehouses repository.WarehouseRepository
	repo       repository.SubLocationRepository
	maxDepth   int
}

// NewSubLocationUseCase construye el caso de uso.
func NewSubLocationUseCase(warehouses repository.WarehouseRepository, repo repository.SubLocationRepository, maxDepth int) *SubLocationUseCase {
	return &SubLocationUseCase{warehouses: warehouses, repo: repo, maxDepth: maxDepth}
}

// Create crea una subbodega en una bodega existente, opcionalmente bajo un padre de la misma bodega.
// Un padre inválido es un error estructural y rechaza la petición completa.
func (uc *SubLocationUseCase) Create(ctx context.Context, in dto.CreateSubLocationRequest) (*dto.SubLocationResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "el nombre es obligatorio")
	}
	wh, err := uc.warehouses.GetByID(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.NewValidationError("warehouse_id", "la bodega no existe")
	}
	// Árbol completo: un padre de otra bodega debe reconocerse como tal.
	tree, err := uc.tree(ctx, "")
	if err != nil {
		return nil, err
	}
	now := time.Now()
	sub := entity.SubLocation{
		ID:          uuid.New().String(),
		WarehouseID: in.WarehouseID,
		ParentID:    in.ParentID,
		Name:        name,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := tree.CheckParent(sub, in.ParentID); err != nil {
		return nil, err
	}
	if err := uc.checkUniqueName(ctx, sub); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, &sub); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, sub.ID)
}

// GetByID obtiene una subbodega con su ruta completa; nil, nil si no existe.
func (uc *SubLocationUseCase) GetByID(ctx context.Context, id string) (*dto.SubLocationResponse, error) {
	sub, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, nil
	}
	tree, err := uc.tree(ctx, sub.WarehouseID)
	if err != nil {
		return nil, err
	}
	return toSubLocationResponse(sub, tree)
}

// Update renombra, mueve o activa/desactiva una subbodega. Mover revalida ciclos y profundidad.
func (uc *SubLocationUseCase) Update(ctx context.Context, id string, in dto.UpdateSubLocationRequest) (*dto.SubLocationResponse, error) {
	sub, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, nil
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "el nombre es obligatorio")
		}
		sub.Name = name
	}
	if in.ParentID != nil && *in.ParentID != sub.ParentID {
		tree, err := uc.tree(ctx, "")
		if err != nil {
			return nil, err
		}
		if err := tree.CheckParent(*sub, *in.ParentID); err != nil {
			return nil, err
		}
		sub.ParentID = *in.ParentID
	}
	if in.Active != nil {
		sub.Active = *in.Active
	}
	if err := uc.checkUniqueName(ctx, *sub); err != nil {
		return nil, err
	}
	sub.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, sub); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// ToggleActive invierte el estado activo de la subbodega.
func (uc *SubLocationUseCase) ToggleActive(ctx context.Context, id string) (*dto.SubLocationResponse, error) {
	sub, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, nil
	}
	active := !sub.Active
	return uc.Update(ctx, id, dto.UpdateSubLocationRequest{Active: &active})
}

// List lista subbodegas filtrando por bodega, padre ("null" = raíces) y estado.
func (uc *SubLocationUseCase) List(ctx context.Context, q dto.SubLocationListQuery) ([]dto.SubLocationResponse, error) {
	filter := repository.SubLocationFilter{WarehouseID: q.WarehouseID, IncludeInactive: q.IncludeInactive}
	switch q.Parent {
	case "":
	case ParentNull:
		root := ""
		filter.ParentID = &root
	default:
		parent := q.Parent
		filter.ParentID = &parent
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	tree, err := uc.tree(ctx, q.WarehouseID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SubLocationResponse, 0, len(list))
	for _, s := range list {
		r, err := toSubLocationResponse(s, tree)
		if err != nil {
			return nil, err
		}
		items = append(items, *r)
	}
	return items, nil
}

func (uc *SubLocationUseCase) tree(ctx context.Context, warehouseID string) (*location.Tree, error) {
	all, err := uc.repo.List(ctx, repository.SubLocationFilter{WarehouseID: warehouseID, IncludeInactive: true})
	if err != nil {
		return nil, err
	}
	return location.NewTree(all, uc.maxDepth), nil
}

// checkUniqueName (bodega, padre, nombre) es la clave natural de la subbodega.
func (uc *SubLocationUseCase) checkUniqueName(ctx context.Context, sub entity.SubLocation) error {
	other, err := uc.repo.GetByName(ctx, sub.WarehouseID, sub.ParentID, sub.Name)
	if err != nil {
		return err
	}
	if other != nil && other.ID != sub.ID {
		return domain.ErrDuplicate
	}
	return nil
}

func toSubLocationResponse(s *entity.SubLocation, tree *location.Tree) (*dto.SubLocationResponse, error) {
	path, err := tree.FullPath(s.ID)
	if err != nil {
		return nil, err
	}
	var parent *string
	if s.ParentID != "" {
		p := s.ParentID
		parent = &p
	}
	return &dto.SubLocationResponse{
		ID:          s.ID,
		WarehouseID: s.WarehouseID,
		ParentID:    parent,
		Name:        s.Name,
		FullPath:    path,
		Active:      s.Active,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}, nil
}
