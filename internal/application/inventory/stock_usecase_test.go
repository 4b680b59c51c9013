package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-bodegas/internal/application/dto"
	"github.com/jhoicas/inventario-bodegas/internal/application/inventory"
	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
	"github.com/jhoicas/inventario-bodegas/pkg/config"
)

// Estante 3 → Fila 1, Fila 2: 10 en Fila 1 y 5 en Fila 2.
func TestWarehouseStock_SubarbolIncluyeDescendientes(t *testing.T) {
	for _, strategy := range strategies() {
		t.Run(strategy, func(t *testing.T) {
			f := newFixture(t, strategy)
			f.mustRegister(t, dto.RegisterMovementRequest{Type: "Entrada", WarehouseID: bodCentral, SubLocationID: "fila1", Quantity: 10})
			f.mustRegister(t, dto.RegisterMovementRequest{Type: "Entrada", WarehouseID: bodCentral, SubLocationID: "fila2", Quantity: 5})
			f.mustRegister(t, dto.RegisterMovementRequest{Type: "Entrada", WarehouseID: bodCentral, Quantity: 7})

			shelf, err := f.query.WarehouseStock(context.Background(), bodCentral, "estante3")
			require.NoError(t, err)
			var total int64
			for _, it := range shelf.Items {
				total += it.Quantity
			}
			assert.Equal(t, int64(15), total)
			require.Len(t, shelf.Items, 2)
			assert.Equal(t, "Estante 3 > Fila 1", shelf.Items[0].SubLocationFullPath)
			assert.Equal(t, "Estante 3 > Fila 2", shelf.Items[1].SubLocationFullPath)

			row1, err := f.query.WarehouseStock(context.Background(), bodCentral, "fila1")
			require.NoError(t, err)
			require.Len(t, row1.Items, 1)
			assert.Equal(t, int64(10), row1.Items[0].Quantity)
			assert.Equal(t, "CAB-01", row1.Items[0].Code)

			whole, err := f.query.WarehouseStock(context.Background(), bodCentral, "")
			require.NoError(t, err)
			assert.Len(t, whole.Items, 3, "General es un bucket propio")
		})
	}
}

func TestWarehouseStock_ErroresDeAlcance(t *testing.T) {
	f := newFixture(t, config.StrategyGrouped)

	_, err := f.query.WarehouseStock(context.Background(), "no-existe", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.query.WarehouseStock(context.Background(), bodNorte, "fila1")
	assert.ErrorIs(t, err, domain.ErrNotFound, "la subbodega pertenece a otra bodega")
}

func TestMaterialsCount_SoloStockPositivo(t *testing.T) {
	f := newFixture(t, config.StrategyGrouped)
	ctx := context.Background()
	require.NoError(t, f.repos.Materials.Create(ctx, &entity.Material{ID: "mat-tubo", Code: "TUB-01", Name: "Tubo", Unit: "ud"}))

	f.mustRegister(t, dto.RegisterMovementRequest{Type: "Entrada", WarehouseID: bodCentral, Quantity: 10})
	f.mustRegister(t, dto.RegisterMovementRequest{MaterialID: "mat-tubo", Type: "Entrada", WarehouseID: bodCentral, Quantity: 2})
	f.mustRegister(t, dto.RegisterMovementRequest{MaterialID: "mat-tubo", Type: "Salida", WarehouseID: bodCentral, Quantity: 2})
	f.mustRegister(t, dto.RegisterMovementRequest{Type: "Traslado", WarehouseID: bodCentral, DestinationWarehouseID: bodNorte, Quantity: 4})

	counts, err := f.query.MaterialsCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[bodCentral])
	assert.Equal(t, 1, counts[bodNorte])
}

func TestSummary_ClasificaYCalculaCostoPromedio(t *testing.T) {
	f := newFixture(t, config.StrategyGrouped)
	p100 := decimal.NewFromInt(100)
	p200 := decimal.NewFromInt(200)
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	d1, d2 := base, base.Add(time.Hour)

	f.mustRegister(t, dto.RegisterMovementRequest{Type: "Entrada", WarehouseID: bodCentral, Quantity: 100, UnitPrice: &p100, Date: &d1})
	f.mustRegister(t, dto.RegisterMovementRequest{Type: "Entrada", WarehouseID: bodCentral, Quantity: 100, UnitPrice: &p200, Date: &d2})
	f.mustRegister(t, dto.RegisterMovementRequest{Type: "Traslado", WarehouseID: bodCentral, DestinationWarehouseID: bodNorte, Quantity: 21})

	items, err := f.query.Summary(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Bodega Central", items[0].WarehouseName)
	assert.Equal(t, int64(179), items[0].Quantity)
	assert.Equal(t, "Alto", items[0].Level)
	assert.True(t, decimal.NewFromInt(150).Equal(items[0].AverageCost))

	assert.Equal(t, "Bodega Norte", items[1].WarehouseName)
	assert.Equal(t, int64(21), items[1].Quantity)
	assert.Equal(t, "Medio", items[1].Level)
}

type captureGenerator struct {
	report *dto.WarehouseStockResponse
	scope  string
}

func (g *captureGenerator) GenerateStockReport(_ context.Context, r *dto.WarehouseStockResponse, scope string, _ time.Time) ([]byte, error) {
	g.report, g.scope = r, scope
	return []byte("%PDF-fake"), nil
}

func TestStockReport_NombreYAlcance(t *testing.T) {
	f := newFixture(t, config.StrategyGrouped)
	f.mustRegister(t, dto.RegisterMovementRequest{Type: "Entrada", WarehouseID: bodCentral, SubLocationID: "fila1", Quantity: 10})

	gen := &captureGenerator{}
	uc := inventory.NewStockReportUseCase(f.query, gen)

	out, name, err := uc.Download(context.Background(), bodCentral, "fila1")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(out))
	assert.Regexp(t, `^stock_Bodega_Central_\d{8}\.pdf$`, name)
	assert.Equal(t, "Estante 3 > Fila 1", gen.scope)
	require.Len(t, gen.report.Items, 1)

	_, _, err = uc.Download(context.Background(), "no-existe", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
