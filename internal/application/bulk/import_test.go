package bulk_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-bodegas/internal/application/bulk"
	"github.com/jhoicas/inventario-bodegas/internal/application/inventory"
	"github.com/jhoicas/inventario-bodegas/internal/domain/repository"
	"github.com/jhoicas/inventario-bodegas/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-bodegas/pkg/config"
	"github.com/jhoicas/inventario-bodegas/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testUser = "00000000-0000-0000-0000-000000000001"

type env struct {
	store    *memory.Store
	importer *bulk.Importer
	exporter *bulk.Exporter
	query    *inventory.StockQueryUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	svc := inventory.NewStockService(config.StrategyGrouped, 0)
	movs := inventory.NewRegisterMovementUseCase(store, repos, svc, true, logger.Nop())
	return &env{
		store:    store,
		importer: bulk.NewImporter(store, movs, 0, logger.Nop()),
		exporter: bulk.NewExporter(repos, 0),
		query:    inventory.NewStockQueryUseCase(repos, svc),
	}
}

func day(d int) *time.Time {
	t := time.Date(2024, 3, d, 9, 0, 0, 0, time.UTC)
	return &t
}

// stockOf devuelve ruta → cantidad de la bodega con ese nombre.
func (e *env) stockOf(t *testing.T, warehouseName string) map[string]int64 {
	t.Helper()
	ctx := context.Background()
	wh, err := e.store.Repos().Warehouses.GetByName(ctx, warehouseName)
	require.NoError(t, err)
	require.NotNil(t, wh, "bodega %s", warehouseName)
	res, err := e.query.WarehouseStock(ctx, wh.ID, "")
	require.NoError(t, err)
	out := map[string]int64{}
	for _, it := range res.Items {
		out[it.SubLocationFullPath] += it.Quantity
	}
	return out
}

func (e *env) movementCount(t *testing.T) int {
	t.Helper()
	list, err := e.store.Repos().Movements.List(context.Background(), repository.MovementFilter{})
	require.NoError(t, err)
	return len(list)
}

func fullWorkbook() *bulk.Workbook {
	price := decimal.NewFromInt(1500)
	return &bulk.Workbook{
		Brands: []bulk.BrandRow{{Row: 2, Name: "Acme"}},
		Warehouses: []bulk.WarehouseRow{
			{Row: 2, Name: "Bodega Central", Location: "Bogotá"},
			{Row: 3, Name: "Bodega Norte"},
		},
		// La fila hija va primero: el importador ordena padres antes que hijos.
		SubLocations: []bulk.SubLocationRow{
			{Row: 2, Name: "Fila 1", Warehouse: "Bodega Central", Parent: "Estante 3"},
			{Row: 3, Name: "Estante 3", Warehouse: "Bodega Central"},
		},
		Materials: []bulk.MaterialRow{{Row: 2, Code: "CAB-01", Name: "Cable", Unit: "m", Brand: "Acme"}},
		Invoices:  []bulk.InvoiceRow{{Row: 2, Number: "FV-1", Supplier: "Proveedor", Date: day(1)}},
		// Orden de hoja exportada (fecha descendente); se aplican cronológicamente.
		Movements: []bulk.MovementRow{
			{Row: 2, Date: day(3), Type: "Traslado", Material: "CAB-01", Quantity: 20,
				Warehouse: "Bodega Central", SubLocation: "Estante 3 > Fila 1", DestinationWarehouse: "Bodega Norte"},
			{Row: 3, Date: day(2), Type: "Salida", Material: "CAB-01", Quantity: 30,
				Warehouse: "Bodega Central", SubLocation: "Estante 3 > Fila 1"},
			{Row: 4, Date: day(1), Type: "Entrada", Material: "CAB-01", Quantity: 100,
				Warehouse: "Bodega Central", SubLocation: "Estante 3 > Fila 1", Brand: "Acme", Invoice: "FV-1", UnitPrice: &price},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Importación
// ──────────────────────────────────────────────────────────────────────────────

func TestImport_LibroCompletoYReimportacionIdempotente(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	res, err := e.importer.Import(ctx, testUser, fullWorkbook())
	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	assert.Equal(t, 10, res.Created)
	assert.Equal(t, 0, res.Updated)

	assert.Equal(t, map[string]int64{"Estante 3 > Fila 1": 50}, e.stockOf(t, "Bodega Central"))
	assert.Equal(t, map[string]int64{"General": 20}, e.stockOf(t, "Bodega Norte"))

	// La entrada proyecta precio y marca sobre el material tras el commit.
	mat, err := e.store.Repos().Materials.GetByCode(ctx, "CAB-01")
	require.NoError(t, err)
	require.NotNil(t, mat.LastPrice)
	assert.True(t, mat.LastPrice.Equal(decimal.NewFromInt(1500)))

	// Caso 2: la misma hoja otra vez no crea nada ni mueve el stock.
	res, err = e.importer.Import(ctx, testUser, fullWorkbook())
	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 10, res.Updated)
	assert.Equal(t, 3, e.movementCount(t))
	assert.Equal(t, map[string]int64{"Estante 3 > Fila 1": 50}, e.stockOf(t, "Bodega Central"))
	assert.Equal(t, map[string]int64{"General": 20}, e.stockOf(t, "Bodega Norte"))
}

func TestImport_FilasIdenticasSonMovimientosDistintos(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	wb := func() *bulk.Workbook {
		return &bulk.Workbook{
			Warehouses: []bulk.WarehouseRow{{Row: 2, Name: "Bodega Central"}},
			Materials:  []bulk.MaterialRow{{Row: 2, Code: "CAB-01", Name: "Cable", Unit: "m"}},
			Movements: []bulk.MovementRow{
				{Row: 2, Date: day(5), Type: "Entrada", Material: "CAB-01", Quantity: 10, Warehouse: "Bodega Central"},
				{Row: 3, Date: day(5), Type: "Entrada", Material: "CAB-01", Quantity: 10, Warehouse: "Bodega Central"},
			},
		}
	}

	// Caso 1: dos filas iguales sin ID en la misma hoja registran dos entradas.
	res, err := e.importer.Import(ctx, testUser, wb())
	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	assert.Equal(t, 4, res.Created)
	assert.Equal(t, 0, res.Updated)
	assert.Equal(t, 2, e.movementCount(t))
	assert.Equal(t, map[string]int64{"General": 20}, e.stockOf(t, "Bodega Central"))

	// Caso 2: reimportar la hoja empareja cada fila con una entrada distinta.
	res, err = e.importer.Import(ctx, testUser, wb())
	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 4, res.Updated)
	assert.Equal(t, 2, e.movementCount(t))
	assert.Equal(t, map[string]int64{"General": 20}, e.stockOf(t, "Bodega Central"))

	// Caso 3: una tercera fila igual crea solo el movimiento que falta.
	third := wb()
	third.Movements = append(third.Movements, bulk.MovementRow{
		Row: 4, Date: day(5), Type: "Entrada", Material: "CAB-01", Quantity: 10, Warehouse: "Bodega Central",
	})
	res, err = e.importer.Import(ctx, testUser, third)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 4, res.Updated)
	assert.Equal(t, map[string]int64{"General": 30}, e.stockOf(t, "Bodega Central"))
}

func TestImport_ErroresPorFilaNoDetienenLaImportacion(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	wb := &bulk.Workbook{
		Warehouses: []bulk.WarehouseRow{{Row: 2, Name: "Central"}},
		SubLocations: []bulk.SubLocationRow{
			{Row: 2, Name: "Fila 9", Warehouse: "Central", Parent: "No existe"},
		},
		Materials: []bulk.MaterialRow{{Row: 2, Code: "CAB-01", Name: "Cable", Unit: "m"}},
		Movements: []bulk.MovementRow{
			{Row: 2, Date: day(1), Type: "Entrada", Material: "CAB-01", Quantity: 10, Warehouse: "Central"},
			{Row: 3, Date: day(2), Type: "Salida", Material: "CAB-01", Quantity: 50, Warehouse: "Central"},
			{Row: 4, Date: day(2), Type: "Entrada", Material: "CAB-01", Quantity: 5, Warehouse: "Bodega Fantasma"},
			{Row: 5, Date: day(2), Type: "Regalo", Material: "CAB-01", Quantity: 5, Warehouse: "Central"},
			{Row: 6, Type: "Entrada", Material: "CAB-01", Quantity: 5, Warehouse: "Central"},
			{Row: 7, Date: day(3), Type: "Salida", Material: "CAB-01", Quantity: 5, Warehouse: "Central"},
		},
		Errors: []bulk.RowError{{Sheet: bulk.SheetMaterials, Row: 9, Message: "cantidad: no es un número"}},
	}

	res, err := e.importer.Import(ctx, testUser, wb)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Created)
	require.Len(t, res.Errors, 6)
	assert.Equal(t, "Materiales fila 9: cantidad: no es un número", res.Errors[0])
	assert.Contains(t, res.Errors[1], "Subbodegas fila 2")
	assert.Contains(t, res.Errors[2], "Movimientos fila 3: Stock insuficiente en Central / General. Disponible: 10")
	assert.Contains(t, res.Errors[3], "Movimientos fila 4")
	assert.Contains(t, res.Errors[4], "Movimientos fila 5")
	assert.Contains(t, res.Errors[5], "Movimientos fila 6")

	assert.Equal(t, map[string]int64{"General": 5}, e.stockOf(t, "Central"))
}

func TestImport_ClaveNaturalNormalizadaNFC(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.importer.Import(ctx, testUser, &bulk.Workbook{
		Warehouses: []bulk.WarehouseRow{{Row: 2, Name: "Almacén"}},
	})
	require.NoError(t, err)

	// "e" + tilde combinada es la misma bodega.
	res, err := e.importer.Import(ctx, testUser, &bulk.Workbook{
		Warehouses: []bulk.WarehouseRow{{Row: 2, Name: "  Almace\u0301n ", Location: "Medellín"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 1, res.Updated)

	list, err := e.store.Repos().Warehouses.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Medellín", list[0].Location)
}

func TestImport_IDInvalidoYCicloSonErroresDeFila(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.importer.Import(ctx, testUser, fullWorkbook())
	require.NoError(t, err)
	repos := e.store.Repos()
	central, err := repos.Warehouses.GetByName(ctx, "Bodega Central")
	require.NoError(t, err)
	shelf, err := repos.SubLocations.GetByName(ctx, central.ID, "", "Estante 3")
	require.NoError(t, err)

	res, err := e.importer.Import(ctx, testUser, &bulk.Workbook{
		Brands: []bulk.BrandRow{{Row: 2, ID: "no-es-uuid", Name: "Otra"}},
		// Colgar el estante de su propia fila forma un ciclo.
		SubLocations: []bulk.SubLocationRow{
			{Row: 2, ID: shelf.ID, Name: "Estante 3", Warehouse: "Bodega Central", Parent: "Estante 3 > Fila 1"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created+res.Updated)
	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0], "Marcas fila 2")
	assert.Contains(t, res.Errors[1], "Subbodegas fila 2")

	got, err := repos.SubLocations.GetByID(ctx, shelf.ID)
	require.NoError(t, err)
	assert.Empty(t, got.ParentID)
}

func TestImport_Plantilla(t *testing.T) {
	e := newEnv(t)
	res, err := e.importer.Import(context.Background(), testUser, bulk.Template())
	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	assert.Equal(t, 6, res.Created)
	assert.Equal(t, map[string]int64{"Estante 3": 100}, e.stockOf(t, "Bodega Central"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Exportación
// ──────────────────────────────────────────────────────────────────────────────

func TestExport_IdaYVuelta(t *testing.T) {
	ctx := context.Background()
	src := newEnv(t)
	_, err := src.importer.Import(ctx, testUser, fullWorkbook())
	require.NoError(t, err)

	wb, err := src.exporter.Export(ctx)
	require.NoError(t, err)
	assert.Len(t, wb.Brands, 1)
	assert.Len(t, wb.Warehouses, 2)
	require.Len(t, wb.SubLocations, 2)
	assert.Equal(t, "Estante 3", wb.SubLocations[0].Name)
	assert.Equal(t, "Estante 3", wb.SubLocations[1].Parent)
	require.Len(t, wb.Movements, 3)
	assert.Equal(t, "Traslado", wb.Movements[0].Type)
	assert.Equal(t, "Estante 3 > Fila 1", wb.Movements[0].SubLocation)
	assert.Equal(t, "Bodega Norte", wb.Movements[0].DestinationWarehouse)
	assert.Equal(t, "CAB-01", wb.Movements[0].Material)

	// Caso 1: reimportar la exportación sobre el mismo inventario no crea nada.
	res, err := src.importer.Import(ctx, testUser, wb)
	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	assert.Equal(t, 0, res.Created)

	// Caso 2: sobre un inventario vacío reproduce el mismo stock.
	dst := newEnv(t)
	res, err = dst.importer.Import(ctx, testUser, wb)
	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	assert.Equal(t, 10, res.Created)
	assert.Equal(t, src.stockOf(t, "Bodega Central"), dst.stockOf(t, "Bodega Central"))
	assert.Equal(t, src.stockOf(t, "Bodega Norte"), dst.stockOf(t, "Bodega Norte"))
}
