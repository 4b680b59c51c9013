package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-bodegas/internal/application/dto"
	"github.com/jhoicas/inventario-bodegas/internal/domain/repository"
)

// Repos conjunto de repositorios atados a una misma conexión o transacción.
type Repos struct {
	Warehouses   repository.WarehouseRepository
	SubLocations repository.SubLocationRepository
	Materials    repository.MaterialRepository
	Brands       repository.BrandRepository
	Units        repository.UnitRepository
	Invoices     repository.InvoiceRepository
	Movements    repository.MovementRepository
	Stock        repository.StockRepository

	// Savepoint ejecuta fn en una subtransacción; si fn falla solo se deshace lo suyo.
	// Es nil fuera de una transacción.
	Savepoint func(ctx context.Context, fn func(r Repos) error) error
}

// Isolated ejecuta fn dentro de un savepoint si el conjunto lo soporta, o directamente si no.
func (r Repos) Isolated(ctx context.Context, fn func(r Repos) error) error {
	if r.Savepoint == nil {
		return fn(r)
	}
	return r.Savepoint(ctx, fn)
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace rollback de todo lo escrito.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}

// StockReportGenerator genera la representación imprimible del stock de una bodega.
// scope es la ruta de la subbodega consultada ("" = toda la bodega).
type StockReportGenerator interface {
	GenerateStockReport(ctx context.Context, report *dto.WarehouseStockResponse, scope string, generatedAt time.Time) ([]byte, error)
}
