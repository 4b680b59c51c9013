package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-bodegas/internal/application/bulk"
	"github.com/jhoicas/inventario-bodegas/internal/application/inventory"
	"github.com/jhoicas/inventario-bodegas/internal/application/usecase"
	"github.com/jhoicas/inventario-bodegas/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WarehouseUC      *usecase.WarehouseUseCase
	SubLocationUC    *usecase.SubLocationUseCase
	MaterialUC       *usecase.MaterialUseCase
	BrandUC          *usecase.BrandUseCase
	UnitUC           *usecase.UnitUseCase
	InvoiceUC        *usecase.InvoiceUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	StockQuery       *inventory.StockQueryUseCase
	StockReport      *inventory.StockReportUseCase
	Importer         *bulk.Importer
	Exporter         *bulk.Exporter
	MaxImportBytes   int
	JWTSecret        string
	Logger           *logger.Logger
}

// Router registra las rutas de la API. Todas requieren Bearer Token; las escrituras
// además rol admin o bodeguero.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	errs := errorResponder{log: log.Component("http")}
	writer := RequireRole(RoleAdmin, RoleBodeguero)

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Bodegas y subbodegas
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC, deps.SubLocationUC, errs)
	stockHandler := NewStockHandler(deps.StockQuery, deps.StockReport, errs)
	bodegas := api.Group("/bodegas")
	bodegas.Get("/", warehouseHandler.List)
	bodegas.Post("/", writer, warehouseHandler.Create)
	bodegas.Get("/:id", warehouseHandler.GetByID)
	bodegas.Put("/:id", writer, warehouseHandler.Update)
	bodegas.Post("/:id/toggle-active", writer, warehouseHandler.ToggleActive)
	bodegas.Get("/:id/stock", stockHandler.WarehouseStock)
	bodegas.Get("/:id/stock.pdf", stockHandler.StockPDF)

	subbodegas := api.Group("/subbodegas")
	subbodegas.Get("/", warehouseHandler.ListSubLocations)
	subbodegas.Post("/", writer, warehouseHandler.CreateSubLocation)
	subbodegas.Get("/:id", warehouseHandler.GetSubLocation)
	subbodegas.Put("/:id", writer, warehouseHandler.UpdateSubLocation)
	subbodegas.Post("/:id/toggle-active", writer, warehouseHandler.ToggleSubLocation)

	api.Get("/resumen-inventario", stockHandler.Summary)

	// Materiales
	materialHandler := NewMaterialHandler(deps.MaterialUC, errs)
	materiales := api.Group("/materiales")
	materiales.Get("/", materialHandler.List)
	materiales.Post("/", writer, materialHandler.Create)
	materiales.Get("/:id", materialHandler.GetByID)
	materiales.Put("/:id", writer, materialHandler.Update)
	materiales.Delete("/:id", writer, materialHandler.Delete)

	// Catálogos: marcas, unidades, facturas
	catalogHandler := NewCatalogHandler(deps.BrandUC, deps.UnitUC, deps.InvoiceUC, errs)
	marcas := api.Group("/marcas")
	marcas.Get("/", catalogHandler.ListBrands)
	marcas.Post("/", writer, catalogHandler.CreateBrand)
	marcas.Get("/:id", catalogHandler.GetBrand)
	marcas.Put("/:id", writer, catalogHandler.UpdateBrand)
	marcas.Delete("/:id", writer, catalogHandler.DeleteBrand)

	unidades := api.Group("/unidades")
	unidades.Get("/", catalogHandler.ListUnits)
	unidades.Post("/", writer, catalogHandler.CreateUnit)
	unidades.Get("/:id", catalogHandler.GetUnit)
	unidades.Put("/:id", writer, catalogHandler.UpdateUnit)
	unidades.Delete("/:id", writer, catalogHandler.DeleteUnit)

	facturas := api.Group("/facturas")
	facturas.Get("/", catalogHandler.ListInvoices)
	facturas.Post("/", writer, catalogHandler.CreateInvoice)
	facturas.Get("/:id", catalogHandler.GetInvoice)
	facturas.Put("/:id", writer, catalogHandler.UpdateInvoice)
	facturas.Delete("/:id", writer, catalogHandler.DeleteInvoice)

	// Movimientos
	movementHandler := NewMovementHandler(deps.RegisterMovement, errs)
	movimientos := api.Group("/movimientos")
	movimientos.Get("/", movementHandler.List)
	movimientos.Post("/", writer, movementHandler.Create)
	movimientos.Get("/:id", movementHandler.GetByID)
	movimientos.Put("/:id", writer, movementHandler.Update)
	movimientos.Delete("/:id", writer, movementHandler.Delete)

	// Importación / exportación
	bulkHandler := NewBulkHandler(deps.Importer, deps.Exporter, deps.MaxImportBytes, errs)
	api.Post("/importar", writer, bulkHandler.Import)
	api.Get("/exportar", bulkHandler.Export)
	api.Get("/exportar/plantilla", bulkHandler.Template)
}
