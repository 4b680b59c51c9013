package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-bodegas/internal/application/dto"
	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-bodegas/internal/domain/inventory"
	"github.com/jhoicas/inventario-bodegas/internal/domain/repository"
	"github.com/jhoicas/inventario-bodegas/internal/domain/stock"
	"github.com/jhoicas/inventario-bodegas/pkg/logger"
)

// RegisterMovementUseCase registra, edita y elimina movimientos del libro.
// Validar y escribir ocurren en la misma transacción; con LockBuckets el bucket origen
// queda bloqueado hasta el commit. La actualización de marca y precio del material
// se aplica después del commit y sus fallos solo se registran.
type RegisterMovementUseCase struct {
	txRunner    TxRunner
	repos       Repos
	stock       *StockService
	lockBuckets bool
	log         *logger.Logger
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	repos Repos,
	stockSvc *StockService,
	lockBuckets bool,
	log *logger.Logger,
) *RegisterMovementUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &RegisterMovementUseCase{
		txRunner:    txRunner,
		repos:       repos,
		stock:       stockSvc,
		lockBuckets: lockBuckets,
		log:         log.Component("movimientos"),
	}
}

// Projection cambios del material derivados de una entrada, aplicados tras el commit.
type Projection struct {
	MovementID string
	MaterialID string
	BrandID    *string
	LastPrice  *decimal.Decimal
}

func (p *Projection) empty() bool {
	return p == nil || (p.BrandID == nil && p.LastPrice == nil)
}

// Create valida y registra un movimiento nuevo a nombre de userID.
func (uc *RegisterMovementUseCase) Create(ctx context.Context, userID string, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	params, err := paramsFromRequest(in)
	if err != nil {
		return nil, err
	}
	params.ID = uuid.New().String()
	if userID != "" {
		params.UserID = &userID
	}
	mov, err := entity.NewMovement(params)
	if err != nil {
		return nil, err
	}

	var proj *Projection
	err = uc.txRunner.Run(ctx, func(r Repos) error {
		p, err := uc.ApplyInTx(ctx, r, mov, nil)
		proj = p
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.Project(ctx, proj)
	return toMovementResponse(mov), nil
}

// Update aplica un parche parcial sobre un movimiento existente y lo revalida
// excluyendo su propio aporte. ErrNotFound si no existe.
func (uc *RegisterMovementUseCase) Update(ctx context.Context, id string, in dto.UpdateMovementRequest) (*dto.MovementResponse, error) {
	var updated *entity.Movement
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		existing, err := r.Movements.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		params, err := applyPatch(existing.Params(), in)
		if err != nil {
			return err
		}
		mov, err := entity.NewMovement(params)
		if err != nil {
			return err
		}
		mov.CreatedAt = existing.CreatedAt
		if _, err := uc.ApplyInTx(ctx, r, mov, existing); err != nil {
			return err
		}
		updated = mov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toMovementResponse(updated), nil
}

// Delete elimina un movimiento. Las existencias se recalculan solas desde el libro.
func (uc *RegisterMovementUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(r Repos) error {
		existing, err := r.Movements.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		return r.Movements.Delete(ctx, id)
	})
}

// GetByID obtiene un movimiento; nil, nil si no existe.
func (uc *RegisterMovementUseCase) GetByID(ctx context.Context, id string) (*dto.MovementResponse, error) {
	m, err := uc.repos.Movements.GetByID(ctx, id)
	if err != nil || m == nil {
		return nil, err
	}
	return toMovementResponse(m), nil
}

// List movimientos por fecha descendente.
func (uc *RegisterMovementUseCase) List(ctx context.Context, q dto.MovementListQuery) (*dto.MovementListResponse, error) {
	q.DefaultPage()
	filter := repository.MovementFilter{
		MaterialID:  q.MaterialID,
		WarehouseID: q.WarehouseID,
		From:        q.From,
		To:          q.To,
		Limit:       q.Limit,
		Offset:      q.Offset,
	}
	if q.Type != "" {
		t, ok := entity.ParseMovementType(q.Type)
		if !ok {
			return nil, domain.NewValidationError("tipo", "tipo de movimiento inválido")
		}
		filter.Type = t
	}
	list, err := uc.repos.Movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}, nil
}

// ApplyInTx valida y escribe el movimiento usando los repositorios de la transacción del caller.
// existing es el registro previo en una edición (nil en un alta). En un alta de entrada
// devuelve la proyección a aplicar tras el commit.
func (uc *RegisterMovementUseCase) ApplyInTx(ctx context.Context, r Repos, mov, existing *entity.Movement) (*Projection, error) {
	if uc.lockBuckets && mov.Type.ConstrainsStock() {
		if err := r.Stock.LockBucket(ctx, stock.KeyAt(mov.MaterialID, mov.Origin)); err != nil {
			return nil, fmt.Errorf("bloquear bucket: %w", err)
		}
	}
	validator := domaininv.NewValidator(uc.stock.Reader(r), newRepoCatalog(r, uc.stock.MaxDepth()))
	if err := validator.Validate(ctx, mov, existing); err != nil {
		return nil, err
	}

	// Salida sin marca: se copia la del material para los reportes.
	if mov.Type == entity.MovementExit && mov.BrandID == nil {
		material, err := r.Materials.GetByID(ctx, mov.MaterialID)
		if err != nil {
			return nil, err
		}
		if material != nil && material.BrandID != nil {
			b := *material.BrandID
			mov.BrandID = &b
		}
	}

	now := time.Now()
	mov.UpdatedAt = now
	if existing != nil {
		if err := r.Movements.Update(ctx, mov); err != nil {
			return nil, err
		}
		return nil, nil
	}
	mov.CreatedAt = now
	if err := r.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	if mov.Type != entity.MovementEntry {
		return nil, nil
	}
	return &Projection{
		MovementID: mov.ID,
		MaterialID: mov.MaterialID,
		BrandID:    mov.BrandID,
		LastPrice:  mov.UnitPrice,
	}, nil
}

// Project aplica la proyección fuera de la transacción del movimiento.
// Un fallo no afecta al libro: solo se registra.
func (uc *RegisterMovementUseCase) Project(ctx context.Context, p *Projection) {
	if p.empty() {
		return
	}
	if err := uc.repos.Materials.UpdateProjection(ctx, p.MaterialID, p.BrandID, p.LastPrice); err != nil {
		uc.log.Warn().Err(err).
			Str("movement_id", p.MovementID).
			Str("material_id", p.MaterialID).
			Msg("no se pudo actualizar marca/precio del material")
	}
}

func paramsFromRequest(in dto.RegisterMovementRequest) (entity.MovementParams, error) {
	t, ok := entity.ParseMovementType(in.Type)
	if !ok {
		return entity.MovementParams{}, domain.NewValidationError("tipo", "tipo de movimiento inválido")
	}
	p := entity.MovementParams{
		MaterialID:    in.MaterialID,
		Type:          t,
		Origin:        entity.Location{WarehouseID: in.WarehouseID, SubLocationID: in.SubLocationID},
		Quantity:      in.Quantity,
		BrandID:       nonEmpty(in.BrandID),
		InvoiceID:     nonEmpty(in.InvoiceID),
		InvoiceManual: in.InvoiceManual,
		UnitPrice:     in.UnitPrice,
		Notes:         in.Notes,
	}
	if in.Date != nil {
		p.Date = *in.Date
	}
	if in.DestinationWarehouseID != "" || in.DestinationSubLocationID != "" {
		p.Destination = &entity.Location{
			WarehouseID:   in.DestinationWarehouseID,
			SubLocationID: in.DestinationSubLocationID,
		}
	}
	return p, nil
}

func applyPatch(p entity.MovementParams, in dto.UpdateMovementRequest) (entity.MovementParams, error) {
	if in.Type != nil {
		t, ok := entity.ParseMovementType(*in.Type)
		if !ok {
			return p, domain.NewValidationError("tipo", "tipo de movimiento inválido")
		}
		p.Type = t
	}
	if in.MaterialID != nil {
		p.MaterialID = *in.MaterialID
	}
	if in.WarehouseID != nil {
		p.Origin.WarehouseID = *in.WarehouseID
	}
	if in.SubLocationID != nil {
		p.Origin.SubLocationID = *in.SubLocationID
	}
	if in.DestinationWarehouseID != nil || in.DestinationSubLocationID != nil {
		dest := entity.Location{}
		if p.Destination != nil {
			dest = *p.Destination
		}
		if in.DestinationWarehouseID != nil {
			dest.WarehouseID = *in.DestinationWarehouseID
		}
		if in.DestinationSubLocationID != nil {
			dest.SubLocationID = *in.DestinationSubLocationID
		}
		p.Destination = &dest
		if dest == (entity.Location{}) {
			p.Destination = nil
		}
	}
	if in.Quantity != nil {
		p.Quantity = *in.Quantity
	}
	if in.BrandID != nil {
		p.BrandID = nonEmpty(in.BrandID)
	}
	if in.InvoiceID != nil {
		p.InvoiceID = nonEmpty(in.InvoiceID)
	}
	if in.InvoiceManual != nil {
		p.InvoiceManual = *in.InvoiceManual
	}
	if in.UnitPrice != nil {
		p.UnitPrice = in.UnitPrice
	}
	if in.Date != nil {
		p.Date = *in.Date
	}
	if in.Notes != nil {
		p.Notes = *in.Notes
	}
	return p, nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toMovementResponse(m *entity.Movement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	out := &dto.MovementResponse{
		ID:            m.ID,
		MaterialID:    m.MaterialID,
		Type:          string(m.Type),
		WarehouseID:   m.Origin.WarehouseID,
		SubLocationID: optional(m.Origin.SubLocationID),
		Quantity:      m.Quantity,
		BrandID:       m.BrandID,
		InvoiceID:     m.InvoiceID,
		InvoiceManual: m.InvoiceManual,
		UnitPrice:     m.UnitPrice,
		Date:          m.Date,
		Notes:         m.Notes,
		UserID:        m.UserID,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.Destination != nil {
		out.DestinationWarehouseID = optional(m.Destination.WarehouseID)
		out.DestinationSubLocationID = optional(m.Destination.SubLocationID)
	}
	return out
}
