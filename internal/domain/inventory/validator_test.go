package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
	"github.com/jhoicas/inventario-bodegas/internal/domain/inventory"
	"github.com/jhoicas/inventario-bodegas/internal/domain/location"
	"github.com/jhoicas/inventario-bodegas/internal/domain/stock"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes: libro en memoria
// ──────────────────────────────────────────────────────────────────────────────

type ledger struct {
	movs       []*entity.Movement
	materials  map[string]*entity.Material
	warehouses map[string]*entity.Warehouse
	subs       map[string]*entity.SubLocation
}

func newLedger() *ledger {
	return &ledger{
		materials: map[string]*entity.Material{
			"m": {ID: "m", Code: "M-1", Name: "Cable", Unit: "metros"},
		},
		warehouses: map[string]*entity.Warehouse{
			"w": {ID: "w", Name: "Bodega Central", Active: true},
			"x": {ID: "x", Name: "Bodega Norte", Active: true},
		},
		subs: map[string]*entity.SubLocation{
			"e3": {ID: "e3", WarehouseID: "w", Name: "Estante 3"},
			"f1": {ID: "f1", WarehouseID: "w", ParentID: "e3", Name: "Fila 1"},
			"px": {ID: "px", WarehouseID: "x", Name: "Patio"},
		},
	}
}

func (l *ledger) Available(_ context.Context, k stock.Key, exclude string) (int64, error) {
	return stock.Fold(l.movs, stock.ForBucket(k, exclude)).Get(k), nil
}

func (l *ledger) GetMaterial(_ context.Context, id string) (*entity.Material, error) {
	return l.materials[id], nil
}

func (l *ledger) GetWarehouse(_ context.Context, id string) (*entity.Warehouse, error) {
	return l.warehouses[id], nil
}

func (l *ledger) GetSubLocation(_ context.Context, id string) (*entity.SubLocation, error) {
	return l.subs[id], nil
}

func (l *ledger) SubLocationPath(_ context.Context, id string) (string, error) {
	all := make([]*entity.SubLocation, 0, len(l.subs))
	for _, s := range l.subs {
		all = append(all, s)
	}
	return location.NewTree(all, 0).FullPath(id)
}

// record valida y, si pasa, agrega al libro (alta) o reemplaza (edición).
func (l *ledger) record(t *testing.T, v *inventory.Validator, m, existing *entity.Movement) error {
	t.Helper()
	if err := v.Validate(context.Background(), m, existing); err != nil {
		return err
	}
	if existing != nil {
		for i, cur := range l.movs {
			if cur.ID == existing.ID {
				l.movs[i] = m
				return nil
			}
		}
	}
	l.movs = append(l.movs, m)
	return nil
}

func newMov(t *testing.T, id string, typ entity.MovementType, origin entity.Location, dest *entity.Location, qty int64) *entity.Movement {
	t.Helper()
	m, err := entity.NewMovement(entity.MovementParams{
		ID: id, MaterialID: "m", Type: typ, Origin: origin, Destination: dest, Quantity: qty,
	})
	require.NoError(t, err)
	return m
}

var (
	wGeneral = entity.Location{WarehouseID: "w"}
	xGeneral = entity.Location{WarehouseID: "x"}
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: pedir exactamente el disponible se acepta; disponible + 1 se rechaza.
func TestValidate_LimiteExacto(t *testing.T) {
	l := newLedger()
	v := inventory.NewValidator(l, l)
	require.NoError(t, l.record(t, v, newMov(t, "1", entity.MovementEntry, wGeneral, nil, 10), nil))

	assert.NoError(t, v.Validate(context.Background(), newMov(t, "2", entity.MovementExit, wGeneral, nil, 10), nil))

	err := v.Validate(context.Background(), newMov(t, "3", entity.MovementExit, wGeneral, nil, 11), nil)
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, int64(10), ise.Available)
	assert.Equal(t, int64(11), ise.Requested)
	assert.Equal(t, "metros", ise.Unit)
	assert.Equal(t, "Bodega Central / General", ise.Location)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// Caso 2: Entrada 50, Salida 50, Salida 1 rechazada con disponible 0.
func TestValidate_EscenarioEntradaSalida(t *testing.T) {
	l := newLedger()
	v := inventory.NewValidator(l, l)
	require.NoError(t, l.record(t, v, newMov(t, "1", entity.MovementEntry, wGeneral, nil, 50), nil))
	require.NoError(t, l.record(t, v, newMov(t, "2", entity.MovementExit, wGeneral, nil, 50), nil))

	err := l.record(t, v, newMov(t, "3", entity.MovementExit, wGeneral, nil, 1), nil)
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, int64(0), ise.Available)
	assert.Equal(t, "Stock insuficiente en Bodega Central / General. Disponible: 0 metros.", err.Error())
}

// Caso 3: un traslado válido crea el bucket destino.
func TestValidate_TrasladoCreaBucketDestino(t *testing.T) {
	l := newLedger()
	v := inventory.NewValidator(l, l)
	require.NoError(t, l.record(t, v, newMov(t, "1", entity.MovementEntry, wGeneral, nil, 50), nil))
	dest := xGeneral
	require.NoError(t, l.record(t, v, newMov(t, "2", entity.MovementTransfer, wGeneral, &dest, 30), nil))

	levels := stock.Fold(l.movs, stock.Query{MaterialID: "m"})
	assert.Equal(t, int64(20), levels.Get(stock.Key{MaterialID: "m", WarehouseID: "w"}))
	assert.Equal(t, int64(30), levels.Get(stock.Key{MaterialID: "m", WarehouseID: "x"}))
}

// Caso 4: la etiqueta del faltante nombra la ruta completa de la subbodega.
func TestValidate_FaltanteEnSubbodegaNombraRuta(t *testing.T) {
	l := newLedger()
	v := inventory.NewValidator(l, l)
	origin := entity.Location{WarehouseID: "w", SubLocationID: "f1"}

	err := v.Validate(context.Background(), newMov(t, "1", entity.MovementExit, origin, nil, 1), nil)
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, "Bodega Central / Estante 3 > Fila 1", ise.Location)
}

// Caso 5: editar una salida reduciendo la cantidad excluye el registro original.
func TestValidate_EdicionExcluyeRegistroOriginal(t *testing.T) {
	l := newLedger()
	v := inventory.NewValidator(l, l)
	require.NoError(t, l.record(t, v, newMov(t, "1", entity.MovementEntry, wGeneral, nil, 10), nil))
	original := newMov(t, "2", entity.MovementExit, wGeneral, nil, 8)
	require.NoError(t, l.record(t, v, original, nil))

	edited := newMov(t, "2", entity.MovementExit, wGeneral, nil, 6)
	// Sin exclusión el disponible sería 2 y la edición fallaría.
	assert.Error(t, v.Validate(context.Background(), edited, nil))
	assert.NoError(t, l.record(t, v, edited, original))

	assert.Equal(t, int64(4), stock.Fold(l.movs, stock.Query{}).Get(stock.Key{MaterialID: "m", WarehouseID: "w"}))
}

// Caso 6: tipos correctivos no restringen stock.
func TestValidate_TiposCorrectivosNoRestringen(t *testing.T) {
	l := newLedger()
	v := inventory.NewValidator(l, l)
	for _, typ := range []entity.MovementType{entity.MovementEntry, entity.MovementEdit, entity.MovementAdjustment, entity.MovementReturn} {
		assert.NoError(t, v.Validate(context.Background(), newMov(t, "a", typ, wGeneral, nil, 1000), nil), string(typ))
	}
}

// Caso 7: referencias inexistentes o subbodega de otra bodega.
func TestValidate_ReferenciasInvalidas(t *testing.T) {
	l := newLedger()
	v := inventory.NewValidator(l, l)
	ctx := context.Background()

	m := newMov(t, "1", entity.MovementEntry, entity.Location{WarehouseID: "nope"}, nil, 1)
	var ve *domain.ValidationError
	require.True(t, errors.As(v.Validate(ctx, m, nil), &ve))
	assert.Equal(t, "bodega", ve.Field)

	m = newMov(t, "1", entity.MovementEntry, entity.Location{WarehouseID: "w", SubLocationID: "px"}, nil, 1)
	require.True(t, errors.As(v.Validate(ctx, m, nil), &ve))
	assert.Equal(t, "subbodega", ve.Field)

	dest := entity.Location{WarehouseID: "x", SubLocationID: "e3"}
	m = newMov(t, "1", entity.MovementTransfer, wGeneral, &dest, 1)
	require.True(t, errors.As(v.Validate(ctx, m, nil), &ve))
	assert.Equal(t, "subbodega_destino", ve.Field)

	m = newMov(t, "1", entity.MovementEntry, wGeneral, nil, 1)
	m.MaterialID = "desconocido"
	require.True(t, errors.As(v.Validate(ctx, m, nil), &ve))
	assert.Equal(t, "material", ve.Field)
}

// ──────────────────────────────────────────────────────────────────────────────
// Construcción del movimiento
// ──────────────────────────────────────────────────────────────────────────────

func TestNewMovement_TrasladoOrigenIgualDestinoRechazado(t *testing.T) {
	cases := []struct {
		name   string
		origin entity.Location
		dest   entity.Location
	}{
		{"misma bodega sin subbodega", wGeneral, wGeneral},
		{"misma subbodega", entity.Location{WarehouseID: "w", SubLocationID: "f1"}, entity.Location{WarehouseID: "w", SubLocationID: "f1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := tc.dest
			_, err := entity.NewMovement(entity.MovementParams{
				MaterialID: "m", Type: entity.MovementTransfer, Origin: tc.origin, Destination: &d, Quantity: 1,
			})
			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, "subbodega_destino", ve.Field)
		})
	}

	// Misma bodega con subbodegas distintas es válido.
	d := entity.Location{WarehouseID: "w", SubLocationID: "f1"}
	_, err := entity.NewMovement(entity.MovementParams{
		MaterialID: "m", Type: entity.MovementTransfer, Origin: wGeneral, Destination: &d, Quantity: 1,
	})
	assert.NoError(t, err)
}

func TestNewMovement_TrasladoSinDestino(t *testing.T) {
	_, err := entity.NewMovement(entity.MovementParams{
		MaterialID: "m", Type: entity.MovementTransfer, Origin: wGeneral, Quantity: 1,
	})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "bodega_destino", ve.Field)
}

func TestNewMovement_DestinoIgnoradoFueraDeTraslado(t *testing.T) {
	d := xGeneral
	m, err := entity.NewMovement(entity.MovementParams{
		MaterialID: "m", Type: entity.MovementEntry, Origin: wGeneral, Destination: &d, Quantity: 1,
	})
	require.NoError(t, err)
	assert.Nil(t, m.Destination)
}

func TestNewMovement_CantidadFueraDeRango(t *testing.T) {
	for _, q := range []int64{0, -1, entity.MaxQuantity + 1} {
		_, err := entity.NewMovement(entity.MovementParams{
			MaterialID: "m", Type: entity.MovementEntry, Origin: wGeneral, Quantity: q,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad %d", q)
	}
}

func TestAverageEntryCost(t *testing.T) {
	price := func(s string) *decimal.Decimal { d := decimal.RequireFromString(s); return &d }
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	movs := []*entity.Movement{
		{Type: entity.MovementEntry, Quantity: 10, UnitPrice: price("100"), Date: base},
		{Type: entity.MovementExit, Quantity: 5, UnitPrice: price("999"), Date: base.Add(time.Hour)},
		{Type: entity.MovementEntry, Quantity: 30, UnitPrice: price("200"), Date: base.Add(2 * time.Hour)},
		{Type: entity.MovementEntry, Quantity: 7, Date: base.Add(3 * time.Hour)},
	}
	assert.True(t, decimal.RequireFromString("175").Equal(inventory.AverageEntryCost(movs)))
	assert.True(t, inventory.AverageEntryCost(nil).IsZero())
}
