package bulk

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-bodegas/internal/application/dto"
	"github.com/jhoicas/inventario-bodegas/internal/application/inventory"
	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
	"github.com/jhoicas/inventario-bodegas/internal/domain/location"
	"github.com/jhoicas/inventario-bodegas/internal/domain/repository"
	"github.com/jhoicas/inventario-bodegas/pkg/logger"
)

// Importer aplica un libro completo sobre el inventario.
// Cada entidad se busca por ID, si no por clave natural, y si no se crea.
// Una fila inválida se registra en el resultado y se omite; un error de BD deshace todo.
type Importer struct {
	txRunner  inventory.TxRunner
	movements *inventory.RegisterMovementUseCase
	maxDepth  int
	log       *logger.Logger
}

// NewImporter construye el importador. Los movimientos pasan por el mismo validador que la API.
func NewImporter(txRunner inventory.TxRunner, movements *inventory.RegisterMovementUseCase, maxDepth int, log *logger.Logger) *Importer {
	if log == nil {
		log = logger.Nop()
	}
	return &Importer{
		txRunner:  txRunner,
		movements: movements,
		maxDepth:  maxDepth,
		log:       log.Component("importacion"),
	}
}

// importRun estado de una importación dentro de su transacción.
type importRun struct {
	im          *Importer
	r           inventory.Repos
	userID      string
	result      *dto.ImportResult
	projections []*inventory.Projection
	// claimed movimientos ya escritos por esta importación; una fila sin ID no puede
	// volver a emparejarse con ellos.
	claimed []string
}

// Import procesa las hojas en orden de dependencia dentro de una sola transacción.
// Las proyecciones de material de las entradas nuevas se aplican tras el commit.
func (im *Importer) Import(ctx context.Context, userID string, wb *Workbook) (*dto.ImportResult, error) {
	if wb == nil {
		wb = &Workbook{}
	}
	var run *importRun
	err := im.txRunner.Run(ctx, func(r inventory.Repos) error {
		run = &importRun{im: im, r: r, userID: userID, result: &dto.ImportResult{Errors: []string{}}}
		for _, e := range wb.Errors {
			run.result.Errors = append(run.result.Errors, e.String())
		}
		for _, row := range wb.Brands {
			if err := run.row(ctx, SheetBrands, row.Row, func(r inventory.Repos) (bool, error) {
				return run.brand(ctx, r, row)
			}); err != nil {
				return err
			}
		}
		for _, row := range wb.Warehouses {
			if err := run.row(ctx, SheetWarehouses, row.Row, func(r inventory.Repos) (bool, error) {
				return run.warehouse(ctx, r, row)
			}); err != nil {
				return err
			}
		}
		for _, row := range parentsFirst(wb.SubLocations) {
			if err := run.row(ctx, SheetSubLocations, row.Row, func(r inventory.Repos) (bool, error) {
				return run.subLocation(ctx, r, row)
			}); err != nil {
				return err
			}
		}
		for _, row := range wb.Materials {
			if err := run.row(ctx, SheetMaterials, row.Row, func(r inventory.Repos) (bool, error) {
				return run.material(ctx, r, row)
			}); err != nil {
				return err
			}
		}
		for _, row := range wb.Invoices {
			if err := run.row(ctx, SheetInvoices, row.Row, func(r inventory.Repos) (bool, error) {
				return run.invoice(ctx, r, row)
			}); err != nil {
				return err
			}
		}
		for _, row := range movementsByDate(wb.Movements) {
			if err := run.row(ctx, SheetMovements, row.Row, func(r inventory.Repos) (bool, error) {
				return run.movement(ctx, r, row)
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, p := range run.projections {
		im.movements.Project(ctx, p)
	}
	im.log.Info().
		Int("created", run.result.Created).
		Int("updated", run.result.Updated).
		Int("errors", len(run.result.Errors)).
		Msg("importación terminada")
	return run.result, nil
}

// row ejecuta una fila aislada en un savepoint. Los errores de fila se acumulan;
// cualquier otro error aborta la importación.
func (run *importRun) row(ctx context.Context, sheet string, n int, fn func(r inventory.Repos) (bool, error)) error {
	var created bool
	err := run.r.Isolated(ctx, func(r inventory.Repos) error {
		c, err := fn(r)
		created = c
		return err
	})
	switch {
	case err == nil:
		if created {
			run.result.Created++
		} else {
			run.result.Updated++
		}
		return nil
	case isRowError(err):
		run.result.Errors = append(run.result.Errors, RowError{Sheet: sheet, Row: n, Message: err.Error()}.String())
		run.im.log.Warn().Err(err).Str("sheet", sheet).Int("row", n).Msg("fila omitida")
		return nil
	default:
		return fmt.Errorf("%s fila %d: %w", sheet, n, err)
	}
}

func isRowError(err error) bool {
	var ve *domain.ValidationError
	var ise *domain.InsufficientStockError
	return errors.As(err, &ve) ||
		errors.As(err, &ise) ||
		domain.IsStructural(err) ||
		errors.Is(err, domain.ErrDuplicate) ||
		errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrConflict) ||
		errors.Is(err, domain.ErrNotFound)
}

// ===========================================================================
// Catálogo
// ===========================================================================

func (run *importRun) brand(ctx context.Context, r inventory.Repos, row BrandRow) (bool, error) {
	id, err := parseID("id", row.ID)
	if err != nil {
		return false, err
	}
	name := naturalKey(row.Name)
	var existing *entity.Brand
	if id != "" {
		if existing, err = r.Brands.GetByID(ctx, id); err != nil {
			return false, err
		}
	}
	if existing == nil && name != "" {
		if existing, err = r.Brands.GetByName(ctx, name); err != nil {
			return false, err
		}
	}
	if existing == nil {
		if name == "" {
			return false, domain.NewValidationError("nombre", "el nombre es obligatorio")
		}
		b := &entity.Brand{ID: orNewID(id), Name: name, Active: boolOr(row.Active, true)}
		return true, r.Brands.Create(ctx, b)
	}
	if name != "" {
		existing.Name = name
	}
	if row.Active != nil {
		existing.Active = *row.Active
	}
	return false, r.Brands.Update(ctx, existing)
}

func (run *importRun) warehouse(ctx context.Context, r inventory.Repos, row WarehouseRow) (bool, error) {
	id, err := parseID("id", row.ID)
	if err != nil {
		return false, err
	}
	name := naturalKey(row.Name)
	var existing *entity.Warehouse
	if id != "" {
		if existing, err = r.Warehouses.GetByID(ctx, id); err != nil {
			return false, err
		}
	}
	if existing == nil && name != "" {
		if existing, err = r.Warehouses.GetByName(ctx, name); err != nil {
			return false, err
		}
	}
	now := time.Now()
	if existing == nil {
		if name == "" {
			return false, domain.NewValidationError("nombre", "el nombre es obligatorio")
		}
		w := &entity.Warehouse{
			ID:        orNewID(id),
			Name:      name,
			Location:  strings.TrimSpace(row.Location),
			Active:    boolOr(row.Active, true),
			CreatedAt: now,
			UpdatedAt: now,
		}
		return true, r.Warehouses.Create(ctx, w)
	}
	if name != "" && name != existing.Name {
		other, err := r.Warehouses.GetByName(ctx, name)
		if err != nil {
			return false, err
		}
		if other != nil && other.ID != existing.ID {
			return false, domain.ErrDuplicate
		}
		existing.Name = name
	}
	if loc := strings.TrimSpace(row.Location); loc != "" {
		existing.Location = loc
	}
	if row.Active != nil {
		existing.Active = *row.Active
	}
	existing.UpdatedAt = now
	return false, r.Warehouses.Update(ctx, existing)
}

func (run *importRun) subLocation(ctx context.Context, r inventory.Repos, row SubLocationRow) (bool, error) {
	id, err := parseID("id", row.ID)
	if err != nil {
		return false, err
	}
	name := naturalKey(row.Name)
	if name == "" {
		return false, domain.NewValidationError("nombre", "el nombre es obligatorio")
	}
	wh, err := resolveWarehouse(ctx, r, row.Warehouse)
	if err != nil {
		return false, err
	}
	if wh == nil {
		return false, unresolved("bodega", row.Warehouse)
	}
	parentID := ""
	if strings.TrimSpace(row.Parent) != "" {
		parent, err := resolveSubLocation(ctx, r, wh.ID, row.Parent)
		if err != nil {
			return false, err
		}
		if parent == nil {
			return false, unresolved("subbodega padre", row.Parent)
		}
		parentID = parent.ID
	}

	var existing *entity.SubLocation
	if id != "" {
		if existing, err = r.SubLocations.GetByID(ctx, id); err != nil {
			return false, err
		}
	}
	if existing == nil {
		if existing, err = r.SubLocations.GetByName(ctx, wh.ID, parentID, name); err != nil {
			return false, err
		}
	}

	all, err := r.SubLocations.List(ctx, repository.SubLocationFilter{IncludeInactive: true})
	if err != nil {
		return false, err
	}
	tree := location.NewTree(all, run.im.maxDepth)
	now := time.Now()

	if existing == nil {
		sub := &entity.SubLocation{
			ID:          orNewID(id),
			WarehouseID: wh.ID,
			ParentID:    parentID,
			Name:        name,
			Active:      boolOr(row.Active, true),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tree.CheckParent(*sub, parentID); err != nil {
			return false, err
		}
		return true, r.SubLocations.Create(ctx, sub)
	}

	if existing.WarehouseID != wh.ID {
		return false, domain.NewValidationError("bodega", "una subbodega no puede cambiar de bodega")
	}
	if parentID != existing.ParentID {
		if err := tree.CheckParent(*existing, parentID); err != nil {
			return false, err
		}
		existing.ParentID = parentID
	}
	existing.Name = name
	if row.Active != nil {
		existing.Active = *row.Active
	}
	other, err := r.SubLocations.GetByName(ctx, existing.WarehouseID, existing.ParentID, existing.Name)
	if err != nil {
		return false, err
	}
	if other != nil && other.ID != existing.ID {
		return false, domain.ErrDuplicate
	}
	existing.UpdatedAt = now
	return false, r.SubLocations.Update(ctx, existing)
}

func (run *importRun) material(ctx context.Context, r inventory.Repos, row MaterialRow) (bool, error) {
	id, err := parseID("id", row.ID)
	if err != nil {
		return false, err
	}
	code := naturalKey(row.Code)
	var existing *entity.Material
	if id != "" {
		if existing, err = r.Materials.GetByID(ctx, id); err != nil {
			return false, err
		}
	}
	if existing == nil && code != "" {
		if existing, err = r.Materials.GetByCode(ctx, code); err != nil {
			return false, err
		}
	}
	var brandID *string
	if strings.TrimSpace(row.Brand) != "" {
		b, err := resolveBrand(ctx, r, row.Brand)
		if err != nil {
			return false, err
		}
		if b == nil {
			return false, unresolved("marca", row.Brand)
		}
		brandID = &b.ID
	}
	if row.LastPrice != nil && row.LastPrice.IsNegative() {
		return false, domain.NewValidationError("precio", "el precio no puede ser negativo")
	}

	now := time.Now()
	name := strings.TrimSpace(row.Name)
	if existing == nil {
		if code == "" {
			return false, domain.NewValidationError("codigo", "el código es obligatorio")
		}
		if name == "" {
			return false, domain.NewValidationError("nombre", "el nombre es obligatorio")
		}
		m := &entity.Material{
			ID:        orNewID(id),
			Code:      code,
			Barcode:   optionalKey(row.Barcode),
			Reference: strings.TrimSpace(row.Reference),
			Name:      name,
			Unit:      strings.TrimSpace(row.Unit),
			BrandID:   brandID,
			LastPrice: row.LastPrice,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return true, r.Materials.Create(ctx, m)
	}
	if code != "" && code != existing.Code {
		other, err := r.Materials.GetByCode(ctx, code)
		if err != nil {
			return false, err
		}
		if other != nil && other.ID != existing.ID {
			return false, domain.ErrDuplicate
		}
		existing.Code = code
	}
	if bc := optionalKey(row.Barcode); bc != nil {
		existing.Barcode = bc
	}
	if ref := strings.TrimSpace(row.Reference); ref != "" {
		existing.Reference = ref
	}
	if name != "" {
		existing.Name = name
	}
	if unit := strings.TrimSpace(row.Unit); unit != "" {
		existing.Unit = unit
	}
	if brandID != nil {
		existing.BrandID = brandID
	}
	if row.LastPrice != nil {
		existing.LastPrice = row.LastPrice
	}
	existing.UpdatedAt = now
	return false, r.Materials.Update(ctx, existing)
}

func (run *importRun) invoice(ctx context.Context, r inventory.Repos, row InvoiceRow) (bool, error) {
	id, err := parseID("id", row.ID)
	if err != nil {
		return false, err
	}
	number := naturalKey(row.Number)
	var existing *entity.Invoice
	if id != "" {
		if existing, err = r.Invoices.GetByID(ctx, id); err != nil {
			return false, err
		}
	}
	if existing == nil && number != "" {
		if existing, err = r.Invoices.GetByNumber(ctx, number); err != nil {
			return false, err
		}
	}
	if existing == nil {
		if number == "" {
			return false, domain.NewValidationError("numero", "el número es obligatorio")
		}
		inv := &entity.Invoice{
			ID:       orNewID(id),
			Number:   number,
			Supplier: strings.TrimSpace(row.Supplier),
			Date:     time.Now(),
		}
		if row.Date != nil {
			inv.Date = *row.Date
		}
		return true, r.Invoices.Create(ctx, inv)
	}
	if number != "" && number != existing.Number {
		other, err := r.Invoices.GetByNumber(ctx, number)
		if err != nil {
			return false, err
		}
		if other != nil && other.ID != existing.ID {
			return false, domain.ErrDuplicate
		}
		existing.Number = number
	}
	if s := strings.TrimSpace(row.Supplier); s != "" {
		existing.Supplier = s
	}
	if row.Date != nil {
		existing.Date = *row.Date
	}
	return false, r.Invoices.Update(ctx, existing)
}

// ===========================================================================
// Movimientos
// ===========================================================================

// movement registra o actualiza un movimiento con el validador de la API. Sin ID se busca
// un movimiento con la misma huella para que reimportar la hoja no lo duplique.
func (run *importRun) movement(ctx context.Context, r inventory.Repos, row MovementRow) (bool, error) {
	id, err := parseID("id", row.ID)
	if err != nil {
		return false, err
	}
	t, ok := entity.ParseMovementType(row.Type)
	if !ok {
		return false, domain.NewValidationError("tipo", "tipo de movimiento inválido: "+row.Type)
	}
	material, err := resolveMaterial(ctx, r, row.Material)
	if err != nil {
		return false, err
	}
	if material == nil {
		return false, unresolved("material", row.Material)
	}
	origin, err := resolveLocation(ctx, r, row.Warehouse, row.SubLocation, "bodega")
	if err != nil {
		return false, err
	}
	var dest *entity.Location
	if t.HasDestination() && strings.TrimSpace(row.DestinationWarehouse) != "" {
		d, err := resolveLocation(ctx, r, row.DestinationWarehouse, row.DestinationSubLocation, "bodega destino")
		if err != nil {
			return false, err
		}
		dest = &d
	}
	var brandID, invoiceID *string
	if strings.TrimSpace(row.Brand) != "" {
		b, err := resolveBrand(ctx, r, row.Brand)
		if err != nil {
			return false, err
		}
		if b == nil {
			return false, unresolved("marca", row.Brand)
		}
		brandID = &b.ID
	}
	if strings.TrimSpace(row.Invoice) != "" {
		inv, err := resolveInvoice(ctx, r, row.Invoice)
		if err != nil {
			return false, err
		}
		if inv == nil {
			return false, unresolved("factura", row.Invoice)
		}
		invoiceID = &inv.ID
	}

	var existing *entity.Movement
	if id != "" {
		if existing, err = r.Movements.GetByID(ctx, id); err != nil {
			return false, err
		}
	}
	if existing == nil && id == "" && row.Date == nil {
		return false, domain.NewValidationError("fecha", "la fecha es obligatoria en movimientos sin ID")
	}

	params := entity.MovementParams{
		ID:            orNewID(id),
		MaterialID:    material.ID,
		Type:          t,
		Origin:        origin,
		Destination:   dest,
		Quantity:      row.Quantity,
		BrandID:       brandID,
		InvoiceID:     invoiceID,
		InvoiceManual: strings.TrimSpace(row.InvoiceManual),
		UnitPrice:     row.UnitPrice,
		Notes:         strings.TrimSpace(row.Notes),
	}
	switch {
	case row.Date != nil:
		params.Date = *row.Date
	case existing != nil:
		params.Date = existing.Date
	}
	mov, err := entity.NewMovement(params)
	if err != nil {
		return false, err
	}
	if existing == nil && id == "" {
		if existing, err = r.Movements.FindEquivalent(ctx, mov, run.claimed); err != nil {
			return false, err
		}
	}
	if existing != nil {
		mov.ID = existing.ID
		mov.CreatedAt = existing.CreatedAt
		mov.UserID = existing.UserID
	} else if run.userID != "" {
		user := run.userID
		mov.UserID = &user
	}

	proj, err := run.im.movements.ApplyInTx(ctx, r, mov, existing)
	if err != nil {
		return false, err
	}
	run.claimed = append(run.claimed, mov.ID)
	if proj != nil {
		run.projections = append(run.projections, proj)
	}
	return existing == nil, nil
}

// parentsFirst ordena las subbodegas por profundidad de la ruta del padre (orden estable).
func parentsFirst(rows []SubLocationRow) []SubLocationRow {
	out := append([]SubLocationRow(nil), rows...)
	depth := func(r SubLocationRow) int {
		if strings.TrimSpace(r.Parent) == "" {
			return 0
		}
		return strings.Count(r.Parent, strings.TrimSpace(location.PathSeparator)) + 1
	}
	sort.SliceStable(out, func(i, j int) bool { return depth(out[i]) < depth(out[j]) })
	return out
}

// movementsByDate ordena cronológicamente para que las salidas encuentren el stock de sus
// entradas. Las filas sin fecha conservan su posición relativa al final.
func movementsByDate(rows []MovementRow) []MovementRow {
	out := append([]MovementRow(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Date, out[j].Date
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return a.Before(*b)
	})
	return out
}

func orNewID(id string) string {
	if id == "" {
		return uuid.New().String()
	}
	return id
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func optionalKey(s string) *string {
	s = naturalKey(s)
	if s == "" {
		return nil
	}
	return &s
}
