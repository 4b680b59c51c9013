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

// MaterialUseCase casos de uso CRUD para materiales. Marca y último precio también
// se actualizan desde las entradas (proyección posterior al commit).
type MaterialUseCase struct {
	repo      repository.MaterialRepository
	brands    repository.BrandRepository
	movements repository.MovementRepository
}

// NewMaterialUseCase construye el caso de uso.
func NewMaterialUseCase(repo repository.MaterialRepository, brands repository.BrandRepository, movements repository.MovementRepository) *MaterialUseCase {
	return &MaterialUseCase{repo: repo, brands: brands, movements: movements}
}

// Create crea un material. El código es único.
func (uc *MaterialUseCase) Create(ctx context.Context, in dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return nil, domain.NewValidationError("code", "el código es obligatorio")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewValidationError("name", "el nombre es obligatorio")
	}
	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	brandID, err := uc.checkBrand(ctx, in.BrandID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	material := &entity.Material{
		ID:        uuid.New().String(),
		Code:      code,
		Barcode:   trimmed(in.Barcode),
		Reference: in.Reference,
		Name:      strings.TrimSpace(in.Name),
		Unit:      in.Unit,
		BrandID:   brandID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, material); err != nil {
		return nil, err
	}
	return toMaterialResponse(material), nil
}

// GetByID obtiene un material por ID.
func (uc *MaterialUseCase) GetByID(ctx context.Context, id string) (*dto.MaterialResponse, error) {
	material, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, nil
	}
	return toMaterialResponse(material), nil
}

// Update actualiza un material. El último precio solo cambia vía entradas.
func (uc *MaterialUseCase) Update(ctx context.Context, id string, in dto.UpdateMaterialRequest) (*dto.MaterialResponse, error) {
	material, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, nil
	}
	if in.Code != nil {
		code := strings.TrimSpace(*in.Code)
		if code == "" {
			return nil, domain.NewValidationError("code", "el código es obligatorio")
		}
		if code != material.Code {
			other, err := uc.repo.GetByCode(ctx, code)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, domain.ErrDuplicate
			}
		}
		material.Code = code
	}
	if in.Barcode != nil {
		material.Barcode = trimmed(in.Barcode)
	}
	if in.Reference != nil {
		material.Reference = *in.Reference
	}
	if in.Name != nil {
		material.Name = strings.TrimSpace(*in.Name)
	}
	if in.Unit != nil {
		material.Unit = *in.Unit
	}
	if in.BrandID != nil {
		brandID, err := uc.checkBrand(ctx, in.BrandID)
		if err != nil {
			return nil, err
		}
		material.BrandID = brandID
	}
	material.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, material); err != nil {
		return nil, err
	}
	return toMaterialResponse(material), nil
}

// List lista materiales con búsqueda opcional y paginación.
func (uc *MaterialUseCase) List(ctx context.Context, search string, page dto.PageRequest) (*dto.MaterialListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, search, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MaterialResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMaterialResponse(m))
	}
	return &dto.MaterialListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina un material sin movimientos. Con movimientos devuelve ErrConflict.
func (uc *MaterialUseCase) Delete(ctx context.Context, id string) error {
	material, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if material == nil {
		return domain.ErrNotFound
	}
	n, err := uc.movements.CountByMaterial(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrConflict
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *MaterialUseCase) checkBrand(ctx context.Context, id *string) (*string, error) {
	brandID := trimmed(id)
	if brandID == nil {
		return nil, nil
	}
	brand, err := uc.brands.GetByID(ctx, *brandID)
	if err != nil {
		return nil, err
	}
	if brand == nil {
		return nil, domain.NewValidationError("brand_id", "la marca no existe")
	}
	return brandID, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func toMaterialResponse(m *entity.Material) *dto.MaterialResponse {
	if m == nil {
		return nil
	}
	return &dto.MaterialResponse{
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
