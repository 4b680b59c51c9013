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

// ──────────────────────────────────────────────────────────────────────────────
// Marcas
// ──────────────────────────────────────────────────────────────────────────────

// BrandUseCase CRUD de marcas. Nombre único.
type BrandUseCase struct {
	repo repository.BrandRepository
}

// NewBrandUseCase construye el caso de uso.
func NewBrandUseCase(repo repository.BrandRepository) *BrandUseCase {
	return &BrandUseCase{repo: repo}
}

// Create crea una marca activa.
func (uc *BrandUseCase) Create(ctx context.Context, in dto.BrandRequest) (*dto.BrandResponse, error) {
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
	brand := &entity.Brand{ID: uuid.New().String(), Name: name, Active: true}
	if in.Active != nil {
		brand.Active = *in.Active
	}
	if err := uc.repo.Create(ctx, brand); err != nil {
		return nil, err
	}
	return toBrandResponse(brand), nil
}

// GetByID obtiene una marca; nil, nil si no existe.
func (uc *BrandUseCase) GetByID(ctx context.Context, id string) (*dto.BrandResponse, error) {
	brand, err := uc.repo.GetByID(ctx, id)
	if err != nil || brand == nil {
		return nil, err
	}
	return toBrandResponse(brand), nil
}

// Update renombra o activa/desactiva una marca.
func (uc *BrandUseCase) Update(ctx context.Context, id string, in dto.BrandRequest) (*dto.BrandResponse, error) {
	brand, err := uc.repo.GetByID(ctx, id)
	if err != nil || brand == nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" && name != brand.Name {
		other, err := uc.repo.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, domain.ErrDuplicate
		}
		brand.Name = name
	}
	if in.Active != nil {
		brand.Active = *in.Active
	}
	if err := uc.repo.Update(ctx, brand); err != nil {
		return nil, err
	}
	return toBrandResponse(brand), nil
}

// List lista las marcas por nombre.
func (uc *BrandUseCase) List(ctx context.Context) ([]dto.BrandResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BrandResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *toBrandResponse(b))
	}
	return items, nil
}

// Delete elimina una marca; materiales y movimientos quedan sin marca.
func (uc *BrandUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func toBrandResponse(b *entity.Brand) *dto.BrandResponse {
	return &dto.BrandResponse{ID: b.ID, Name: b.Name, Active: b.Active}
}

// ──────────────────────────────────────────────────────────────────────────────
// Unidades de medida
// ──────────────────────────────────────────────────────────────────────────────

// UnitUseCase CRUD de la tabla de referencia de unidades.
type UnitUseCase struct {
	repo repository.UnitRepository
}

// NewUnitUseCase construye el caso de uso.
func NewUnitUseCase(repo repository.UnitRepository) *UnitUseCase {
	return &UnitUseCase{repo: repo}
}

// Create crea una unidad. Nombre único.
func (uc *UnitUseCase) Create(ctx context.Context, in dto.UnitRequest) (*dto.UnitResponse, error) {
	name := strings.TrimSpace(in.Name)
	abbr := strings.TrimSpace(in.Abbreviation)
	if name == "" {
		return nil, domain.NewValidationError("name", "el nombre es obligatorio")
	}
	if abbr == "" {
		return nil, domain.NewValidationError("abbreviation", "la abreviatura es obligatoria")
	}
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	unit := &entity.UnitOfMeasure{ID: uuid.New().String(), Name: name, Abbreviation: abbr, Active: true}
	if in.Active != nil {
		unit.Active = *in.Active
	}
	if err := uc.repo.Create(ctx, unit); err != nil {
		return nil, err
	}
	return toUnitResponse(unit), nil
}

// GetByID obtiene una unidad; nil, nil si no existe.
func (uc *UnitUseCase) GetByID(ctx context.Context, id string) (*dto.UnitResponse, error) {
	unit, err := uc.repo.GetByID(ctx, id)
	if err != nil || unit == nil {
		return nil, err
	}
	return toUnitResponse(unit), nil
}

// Update actualiza nombre, abreviatura o estado.
func (uc *UnitUseCase) Update(ctx context.Context, id string, in dto.UnitRequest) (*dto.UnitResponse, error) {
	unit, err := uc.repo.GetByID(ctx, id)
	if err != nil || unit == nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		unit.Name = name
	}
	if abbr := strings.TrimSpace(in.Abbreviation); abbr != "" {
		unit.Abbreviation = abbr
	}
	if in.Active != nil {
		unit.Active = *in.Active
	}
	if err := uc.repo.Update(ctx, unit); err != nil {
		return nil, err
	}
	return toUnitResponse(unit), nil
}

// List lista las unidades.
func (uc *UnitUseCase) List(ctx context.Context) ([]dto.UnitResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UnitResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *toUnitResponse(u))
	}
	return items, nil
}

// Delete elimina una unidad.
func (uc *UnitUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func toUnitResponse(u *entity.UnitOfMeasure) *dto.UnitResponse {
	return &dto.UnitResponse{ID: u.ID, Name: u.Name, Abbreviation: u.Abbreviation, Active: u.Active}
}

// ──────────────────────────────────────────────────────────────────────────────
// Facturas de proveedor
// ──────────────────────────────────────────────────────────────────────────────

// InvoiceUseCase CRUD de facturas de proveedor. Número único.
type InvoiceUseCase struct {
	repo repository.InvoiceRepository
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(repo repository.InvoiceRepository) *InvoiceUseCase {
	return &InvoiceUseCase{repo: repo}
}

// Create crea una factura. Sin fecha se usa la actual.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.InvoiceRequest) (*dto.InvoiceResponse, error) {
	number := strings.TrimSpace(in.Number)
	if number == "" {
		return nil, domain.NewValidationError("number", "el número es obligatorio")
	}
	existing, err := uc.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	invoice := &entity.Invoice{ID: uuid.New().String(), Number: number, Supplier: in.Supplier, Date: time.Now()}
	if in.Date != nil {
		invoice.Date = *in.Date
	}
	if err := uc.repo.Create(ctx, invoice); err != nil {
		return nil, err
	}
	return toInvoiceResponse(invoice), nil
}

// GetByID obtiene una factura; nil, nil si no existe.
func (uc *InvoiceUseCase) GetByID(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	invoice, err := uc.repo.GetByID(ctx, id)
	if err != nil || invoice == nil {
		return nil, err
	}
	return toInvoiceResponse(invoice), nil
}

// Update actualiza una factura.
func (uc *InvoiceUseCase) Update(ctx context.Context, id string, in dto.InvoiceRequest) (*dto.InvoiceResponse, error) {
	invoice, err := uc.repo.GetByID(ctx, id)
	if err != nil || invoice == nil {
		return nil, err
	}
	if number := strings.TrimSpace(in.Number); number != "" && number != invoice.Number {
		other, err := uc.repo.GetByNumber(ctx, number)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, domain.ErrDuplicate
		}
		invoice.Number = number
	}
	if in.Supplier != "" {
		invoice.Supplier = in.Supplier
	}
	if in.Date != nil {
		invoice.Date = *in.Date
	}
	if err := uc.repo.Update(ctx, invoice); err != nil {
		return nil, err
	}
	return toInvoiceResponse(invoice), nil
}

// List lista facturas por fecha descendente.
func (uc *InvoiceUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.InvoiceResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InvoiceResponse, 0, len(list))
	for _, i := range list {
		items = append(items, *toInvoiceResponse(i))
	}
	return items, nil
}

// Delete elimina una factura; los movimientos que la referencian quedan sin factura.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func toInvoiceResponse(i *entity.Invoice) *dto.InvoiceResponse {
	return &dto.InvoiceResponse{ID: i.ID, Number: i.Number, Supplier: i.Supplier, Date: i.Date}
}
