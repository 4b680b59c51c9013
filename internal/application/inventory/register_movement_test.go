package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-bodegas/internal/application/dto"
	"github.com/jhoicas/inventario-bodegas/internal/application/inventory"
	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
	"github.com/jhoicas/inventario-bodegas/internal/domain/repository"
	"github.com/jhoicas/inventario-bodegas/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-bodegas/pkg/config"
	"github.com/jhoicas/inventario-bodegas/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testUser   = "00000000-0000-0000-0000-000000000001"
	bodCentral = "bod-central"
	bodNorte   = "bod-norte"
	matCable   = "mat-cable"
	marcaAcme  = "marca-acme"
)

type fixture struct {
	store *memory.Store
	repos inventory.Repos
	svc   *inventory.StockService
	uc    *inventory.RegisterMovementUseCase
	query *inventory.StockQueryUseCase
}

func newFixture(t *testing.T, strategy string) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()

	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: bodCentral, Name: "Bodega Central", Active: true}))
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: bodNorte, Name: "Bodega Norte", Active: true}))
	require.NoError(t, repos.SubLocations.Create(ctx, &entity.SubLocation{ID: "estante3", WarehouseID: bodCentral, Name: "Estante 3", Active: true}))
	require.NoError(t, repos.SubLocations.Create(ctx, &entity.SubLocation{ID: "fila1", WarehouseID: bodCentral, ParentID: "estante3", Name: "Fila 1", Active: true}))
	require.NoError(t, repos.SubLocations.Create(ctx, &entity.SubLocation{ID: "fila2", WarehouseID: bodCentral, ParentID: "estante3", Name: "Fila 2", Active: true}))
	require.NoError(t, repos.Brands.Create(ctx, &entity.Brand{ID: marcaAcme, Name: "Acme", Active: true}))
	require.NoError(t, repos.Materials.Create(ctx, &entity.Material{ID: matCable, Code: "CAB-01", Name: "Cable", Unit: "m"}))

	svc := inventory.NewStockService(strategy, 0)
	return &fixture{
		store: store,
		repos: repos,
		svc:   svc,
		uc:    inventory.NewRegisterMovementUseCase(store, repos, svc, true, logger.Nop()),
		query: inventory.NewStockQueryUseCase(repos, svc),
	}
}

func (f *fixture) register(t *testing.T, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	t.Helper()
	if in.MaterialID == "" {
		in.MaterialID = matCable
	}
	return f.uc.Create(context.Background(), testUser, in)
}

func (f *fixture) mustRegister(t *testing.T, in dto.RegisterMovementRequest) *dto.MovementResponse {
	t.Helper()
	out, err := f.register(t, in)
	require.NoError(t, err)
	return out
}

func strategies() []string { return []string{config.StrategyGrouped, config.StrategyFold} }

// ──────────────────────────────────────────────────────────────────────────────
// Alta de movimientos
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: Entrada 50, Salida 50 y Salida 1 rechazada con disponible 0, con ambas estrategias.
func TestCreate_EntradaSalidaYRechazo(t *testing.T) {
	for _, strategy := range strategies() {
		t.Run(strategy, func(t *testing.T) {
			f := newFixture(t, strategy)
			f.mustRegister(t, dto.RegisterMovementRequest{Type: "Entrada", WarehouseID: bodCentral, Quantity: 50})
			f.mustRegister(t, dto.RegisterMovementRequest{Type: "Salida", WarehouseID: bodCentral, Quantity: 50})

			_, err := f.register(t, dto.RegisterMovementRequest{Type: "Salida", WarehouseID: bodCentral, Quantity: 1})
			var ise *domain.InsufficientStockError
			require.True(t, errors.As(err, &ise))
			assert.Equal(t, int64(0), ise.Available)
			assert.Equal(t, "m", ise.Unit)
			assert.Equal(t, "Bodega Central / General", ise.Location)

			list, err := f.repos.Movements.List(context.Background(), repository.MovementFilter{})
			require.NoError(t, err)
			assert.Len(t, list, 2, "el movimiento rechazado no se escribe")
		})
	}
}

// Caso 2: el traslado crea el bucket destino y registra al usuario.
func TestCreate_TrasladoEntreBodegas(t *testing.T) {
	f := newFixture(t, config.StrategyGrouped)
	f.mustRegister(t, dto.RegisterMovementRequest{Type: "Entrada", WarehouseID: bodCentral, Quantity: 50})
	out := f.mustRegister(t, dto.RegisterMovementRequest{
		Type: "traslado", WarehouseID: bodCentral, DestinationWarehouseID: bodNorte, Quantity: 30,
	})
	require.NotNil(t, out.UserID)
	assert.Equal(t, testUser, *out.UserID)
	assert.Equal(t, "Traslado", out.Type)

	stockNorte, err := f.query.WarehouseStock(context.Background(), bodNorte, "")
	require.NoError(t, err)
	require.Len(t, stockNorte.Items, 1)
	assert.Equal(t, int64(30), stockNorte.Items[0].Quantity)
	assert.Equal(t, "General", stockNorte.Items[0].SubLocationFullPath)
	assert.Nil(t, stockNorte.Items[0].SubLocationID)
}

// Caso 3: traslado sin destino o con origen igual al destino.
func TestCreate_TrasladoInvalido(t *testing.T) {
	f := newFixture(t, config.StrategyGrouped)

	_, err := f.register(t, dto.RegisterMovementRequest{Type: "Traslado", WarehouseID: bodCentral, Quantity: 1})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "bodega_destino", ve.Field)

	_, err = f.register(t, dto.RegisterMovementRequest{
		Type: "Traslado", WarehouseID: bodCentral, DestinationWarehouseID: bodCentral, Quantity: 1,
	})
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "subbodega_destino", ve.Field)

	_, err = f.register(t, dto.RegisterMovementRequest{Type: "Regalo", WarehouseID: bodCentral, Quantity: 1})
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "tipo", ve.Field)
}

// Caso 4: la entrada proyecta marca y precio sobre el material tras el commit.
func TestCreate_EntradaProyectaMarcaYPrecio(t *testing.T) {
	f := newFixture(t, config.StrategyGrouped)
	brand := marcaAcme
	price := decimal.RequireFromString("1250.50")
	f.mustRegister(t, dto.RegisterMovementRequest{
		Type: "Entrada", WarehouseID: bodCentral, Quantity: 10, BrandID: &brand, UnitPrice: &price,
	})

	mat, err := f.repos.Materials.GetByID(context.Background(), matCable)
	require.NoError(t, err)
	require.NotNil(t, mat.BrandID)
	assert.Equal(t, marcaAcme, *mat.BrandID)
	require.NotNil(t, mat.LastPrice)
	assert.True(t, price.Equal(*mat.LastPrice))
}

// Caso 5: la salida sin marca copia la del material.
func TestCreate_SalidaCopiaMarcaDelMaterial(t *testing.T) {
	f := newFixture(t, config.StrategyGrouped)
	brand := marcaAcme
	f.mustRegister(t, dto.RegisterMovementRequest{Type: "Entrada", WarehouseID: bodCentral, Quantity: 10, BrandID: &brand})

	out := f.mustRegister(t, dto.RegisterMovementRequest{Type: "Salida", WarehouseID: bodCentral, Quantity: 4})
	require.NotNil(t, out.BrandID)
	assert.Equal(t, marcaAcme, *out.BrandID)
}

type failingMaterials struct {
	repository.MaterialRepository
}

func (failingMaterials) UpdateProjection(context.Context, string, *string, *decimal.Decimal) error {
	return errors.New("conexión perdida")
}

// Caso 6: un fallo de la proyección no afecta al movimiento ya confirmado.
func TestCreate_FalloDeProyeccionNoRevierte(t *testing.T) {
	f := newFixture(t, config.StrategyGrouped)
	repos := f.repos
	repos.Materials = failingMaterials{MaterialRepository: f.repos.Materials}
	uc := inventory.NewRegisterMovementUseCase(f.store, repos, f.svc, true, logger.Nop())

	brand := marcaAcme
	out, err := uc.Create(context.Background(), testUser, dto.RegisterMovementRequest{
		MaterialID: matCable, Type: "Entrada", WarehouseID: bodCentral, Quantity: 5, BrandID: &brand,
	})
	require.NoError(t, err)

	saved, err := f.repos.Movements.GetByID(context.Background(), out.ID)
	require.NoError(t, err)
	assert.NotNil(t, saved)

	mat, _ := f.repos.Materials.GetByID(context.Background(), matCable)
	assert.Nil(t, mat.BrandID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Edición y borrado
// ──────────────────────────────────────────────────────────────────────────────

// Caso 7: reducir una salida valida contra el disponible sin su propio aporte.
func TestUpdate_ReducirSalidaExcluyeOriginal(t *testing.T) {
	for _, strategy := range strategies() {
		t.Run(strategy, func(t *testing.T) {
			f := newFixture(t, strategy)
			f.mustRegister(t, dto.RegisterMovementRequest{Type: "Entrada", WarehouseID: bodCentral, Quantity: 10})
			exit := f.mustRegister(t, dto.RegisterMovementRequest{Type: "Salida", WarehouseID: bodCentral, Quantity: 8})

			qty := int64(6)
			out, err := f.uc.Update(context.Background(), exit.ID, dto.UpdateMovementRequest{Quantity: &qty})
			require.NoError(t, err)
			assert.Equal(t, int64(6), out.Quantity)

			qty = 11
			_, err = f.uc.Update(context.Background(), exit.ID, dto.UpdateMovementRequest{Quantity: &qty})
			var ise *domain.InsufficientStockError
			require.True(t, errors.As(err, &ise))
			assert.Equal(t, int64(10), ise.Available)

			st, err := f.query.WarehouseStock(context.Background(), bodCentral, "")
			require.NoError(t, err)
			require.Len(t, st.Items, 1)
			assert.Equal(t, int64(4), st.Items[0].Quantity)
		})
	}
}

func TestUpdate_CambiarTipoQuitaDestino(t *testing.T) {
	f := newFixture(t, config.StrategyGrouped)
	f.mustRegister(t, dto.RegisterMovementRequest{Type: "Entrada", WarehouseID: bodCentral, Quantity: 10})
	tr := f.mustRegister(t, dto.RegisterMovementRequest{
		Type: "Traslado", WarehouseID: bodCentral, DestinationWarehouseID: bodNorte, Quantity: 3,
	})

	typ := "Ajuste"
	out, err := f.uc.Update(context.Background(), tr.ID, dto.UpdateMovementRequest{Type: &typ})
	require.NoError(t, err)
	assert.Nil(t, out.DestinationWarehouseID)

	st, err := f.query.WarehouseStock(context.Background(), bodNorte, "")
	require.NoError(t, err)
	assert.Empty(t, st.Items)
}

func TestUpdate_NoExiste(t *testing.T) {
	f := newFixture(t, config.StrategyGrouped)
	_, err := f.uc.Update(context.Background(), "nada", dto.UpdateMovementRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_RecalculaStock(t *testing.T) {
	f := newFixture(t, config.StrategyGrouped)
	in := f.mustRegister(t, dto.RegisterMovementRequest{Type: "Entrada", WarehouseID: bodCentral, Quantity: 10})

	require.NoError(t, f.uc.Delete(context.Background(), in.ID))
	assert.ErrorIs(t, f.uc.Delete(context.Background(), in.ID), domain.ErrNotFound)

	st, err := f.query.WarehouseStock(context.Background(), bodCentral, "")
	require.NoError(t, err)
	assert.Empty(t, st.Items)
}

func TestList_OrdenPorFechaYFiltroTipo(t *testing.T) {
	f := newFixture(t, config.StrategyGrouped)
	f.mustRegister(t, dto.RegisterMovementRequest{Type: "Entrada", WarehouseID: bodCentral, Quantity: 10})
	f.mustRegister(t, dto.RegisterMovementRequest{Type: "Salida", WarehouseID: bodCentral, Quantity: 1})

	out, err := f.uc.List(context.Background(), dto.MovementListQuery{Type: "salida"})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Salida", out.Items[0].Type)

	_, err = f.uc.List(context.Background(), dto.MovementListQuery{Type: "otro"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
