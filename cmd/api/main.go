package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/inventario-bodegas/internal/application/bulk"
	"github.com/jhoicas/inventario-bodegas/internal/application/inventory"
	"github.com/jhoicas/inventario-bodegas/internal/application/usecase"
	"github.com/jhoicas/inventario-bodegas/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/inventario-bodegas/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-bodegas/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/inventario-bodegas/internal/interfaces/http"
	"github.com/jhoicas/inventario-bodegas/pkg/config"
	"github.com/jhoicas/inventario-bodegas/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.DB.Driver).
		Str("stock_strategy", cfg.Stock.Strategy).
		Msg("iniciando aplicación")

	ctx := context.Background()
	repos, txRunner, closeStorage := openStorage(ctx, cfg, log)
	defer closeStorage()

	stockSvc := inventory.NewStockService(cfg.Stock.Strategy, cfg.Stock.MaxHierarchyDepth)
	registerMovementUC := inventory.NewRegisterMovementUseCase(
		txRunner, repos, stockSvc, cfg.Stock.LockBuckets, log.Component("movimientos"),
	)
	stockQueryUC := inventory.NewStockQueryUseCase(repos, stockSvc)
	stockReportUC := inventory.NewStockReportUseCase(stockQueryUC, infrapdf.NewMarotoPDFGenerator())

	warehouseUC := usecase.NewWarehouseUseCase(repos.Warehouses, stockQueryUC)
	subLocationUC := usecase.NewSubLocationUseCase(repos.Warehouses, repos.SubLocations, cfg.Stock.MaxHierarchyDepth)
	materialUC := usecase.NewMaterialUseCase(repos.Materials, repos.Brands, repos.Movements)

	importer := bulk.NewImporter(txRunner, registerMovementUC, cfg.Stock.MaxHierarchyDepth, log.Component("importacion"))
	exporter := bulk.NewExporter(repos, cfg.Stock.MaxHierarchyDepth)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		// El límite del multipart lo aplica el handler de importación con un error propio.
		BodyLimit: cfg.Import.MaxFileBytes + 1<<20,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Inventario de Bodegas API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		WarehouseUC:      warehouseUC,
		SubLocationUC:    subLocationUC,
		MaterialUC:       materialUC,
		BrandUC:          usecase.NewBrandUseCase(repos.Brands),
		UnitUC:           usecase.NewUnitUseCase(repos.Units),
		InvoiceUC:        usecase.NewInvoiceUseCase(repos.Invoices),
		RegisterMovement: registerMovementUC,
		StockQuery:       stockQueryUC,
		StockReport:      stockReportUC,
		Importer:         importer,
		Exporter:         exporter,
		MaxImportBytes:   cfg.Import.MaxFileBytes,
		JWTSecret:        cfg.JWT.Secret,
		Logger:           log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openStorage devuelve los repositorios y el TxRunner del driver configurado.
// Con "memory" los datos viven solo mientras corre el proceso.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (inventory.Repos, inventory.TxRunner, func()) {
	if cfg.DB.Driver == "memory" {
		store := memory.NewStore()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return store.Repos(), store, func() {}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if cfg.DB.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			pool.Close()
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Strs("aplicadas", applied).Msg("migraciones al día")
	}
	return postgres.NewRepos(pool), postgres.NewTxRunner(pool), pool.Close
}
