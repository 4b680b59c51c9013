package stock_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
	"github.com/jhoicas/inventario-bodegas/internal/domain/stock"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	matM = "mat-M"
	bodW = "bod-W"
	bodX = "bod-X"
)

func general(w string) entity.Location { return entity.Location{WarehouseID: w} }

func at(w, s string) entity.Location { return entity.Location{WarehouseID: w, SubLocationID: s} }

func mov(t *testing.T, id string, typ entity.MovementType, material string, origin entity.Location, dest *entity.Location, qty int64) *entity.Movement {
	t.Helper()
	m, err := entity.NewMovement(entity.MovementParams{
		ID:          id,
		MaterialID:  material,
		Type:        typ,
		Origin:      origin,
		Destination: dest,
		Quantity:    qty,
	})
	require.NoError(t, err)
	return m
}

func ptr(l entity.Location) *entity.Location { return &l }

// ──────────────────────────────────────────────────────────────────────────────
// Política de signos y buckets
// ──────────────────────────────────────────────────────────────────────────────

func TestFold_PoliticaDeSignosPorTipo(t *testing.T) {
	movs := []*entity.Movement{
		mov(t, "1", entity.MovementEntry, matM, general(bodW), nil, 50),
		mov(t, "2", entity.MovementEdit, matM, general(bodW), nil, 5),
		mov(t, "3", entity.MovementAdjustment, matM, general(bodW), nil, 3),
		mov(t, "4", entity.MovementReturn, matM, general(bodW), nil, 2),
		mov(t, "5", entity.MovementExit, matM, general(bodW), nil, 10),
		mov(t, "6", entity.MovementTransfer, matM, general(bodW), ptr(general(bodX)), 20),
	}

	levels := stock.Fold(movs, stock.Query{})

	assert.Equal(t, int64(30), levels.Get(stock.Key{MaterialID: matM, WarehouseID: bodW}))
	assert.Equal(t, int64(20), levels.Get(stock.Key{MaterialID: matM, WarehouseID: bodX}))
	assert.Equal(t, int64(50), levels.Total(), "un traslado no cambia el total global")
}

func TestFold_GeneralNoSeMezclaConSubbodega(t *testing.T) {
	movs := []*entity.Movement{
		mov(t, "1", entity.MovementEntry, matM, general(bodW), nil, 7),
		mov(t, "2", entity.MovementEntry, matM, at(bodW, "estante"), nil, 4),
	}

	levels := stock.Fold(movs, stock.Query{WarehouseID: bodW})

	require.Len(t, levels, 2)
	assert.Equal(t, int64(7), levels.Get(stock.Key{MaterialID: matM, WarehouseID: bodW}))
	assert.Equal(t, int64(4), levels.Get(stock.Key{MaterialID: matM, WarehouseID: bodW, SubLocationID: "estante"}))

	onlyGeneral := stock.Fold(movs, stock.ForBucket(stock.Key{MaterialID: matM, WarehouseID: bodW}, ""))
	assert.Equal(t, int64(7), onlyGeneral.Total())
}

func TestFold_ExcluyeMovimientoEditado(t *testing.T) {
	movs := []*entity.Movement{
		mov(t, "1", entity.MovementEntry, matM, general(bodW), nil, 10),
		mov(t, "2", entity.MovementExit, matM, general(bodW), nil, 8),
	}
	k := stock.Key{MaterialID: matM, WarehouseID: bodW}

	assert.Equal(t, int64(2), stock.Fold(movs, stock.ForBucket(k, "")).Get(k))
	assert.Equal(t, int64(10), stock.Fold(movs, stock.ForBucket(k, "2")).Get(k))
}

func TestLevels_NonZeroYEntriesOrdenadas(t *testing.T) {
	movs := []*entity.Movement{
		mov(t, "1", entity.MovementEntry, "b", general(bodW), nil, 5),
		mov(t, "2", entity.MovementExit, "b", general(bodW), nil, 5),
		mov(t, "3", entity.MovementEntry, "a", at(bodW, "s2"), nil, 1),
		mov(t, "4", entity.MovementEntry, "a", at(bodW, "s1"), nil, 1),
	}

	entries := stock.Fold(movs, stock.Query{}).NonZero().Entries()

	require.Len(t, entries, 2, "el bucket neto cero se descarta")
	assert.Equal(t, "s1", entries[0].Key.SubLocationID)
	assert.Equal(t, "s2", entries[1].Key.SubLocationID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios
// ──────────────────────────────────────────────────────────────────────────────

// Entrada 50 y salida 50 dejan el bucket en 0; un traslado posterior crea el bucket destino.
func TestEscenario_EntradaSalidaYTraslado(t *testing.T) {
	k := stock.Key{MaterialID: matM, WarehouseID: bodW}
	movs := []*entity.Movement{
		mov(t, "1", entity.MovementEntry, matM, general(bodW), nil, 50),
		mov(t, "2", entity.MovementExit, matM, general(bodW), nil, 50),
	}
	assert.Equal(t, int64(0), stock.Fold(movs, stock.ForBucket(k, "")).Get(k))

	movs = append(movs, mov(t, "3", entity.MovementTransfer, matM, general(bodW), ptr(general(bodX)), 30))
	levels := stock.Grouped(movs, stock.Query{})
	assert.Equal(t, int64(30), levels.Get(stock.Key{MaterialID: matM, WarehouseID: bodX}))
	assert.Equal(t, int64(-30), levels.Get(k))
}

// Estante3 → Fila1, Fila2: el subárbol suma 15 y Fila1 sola 10.
func TestEscenario_SubarbolDeEstante(t *testing.T) {
	movs := []*entity.Movement{
		mov(t, "1", entity.MovementEntry, matM, at(bodW, "fila1"), nil, 10),
		mov(t, "2", entity.MovementEntry, matM, at(bodW, "fila2"), nil, 5),
	}

	subtree := stock.Query{MaterialID: matM, WarehouseID: bodW, SubLocationIDs: []string{"estante3", "fila1", "fila2"}}
	assert.Equal(t, int64(15), stock.Fold(movs, subtree).Total())
	assert.Equal(t, int64(15), stock.Grouped(movs, subtree).Total())

	row1 := stock.Query{MaterialID: matM, WarehouseID: bodW, SubLocationIDs: []string{"fila1"}}
	assert.Equal(t, int64(10), stock.Fold(movs, row1).Total())
}

// ──────────────────────────────────────────────────────────────────────────────
// Equivalencia entre estrategias
// ──────────────────────────────────────────────────────────────────────────────

func TestGrouped_CoincideConFoldEnTrasladosEncadenados(t *testing.T) {
	movs := []*entity.Movement{
		mov(t, "1", entity.MovementEntry, matM, general(bodW), nil, 100),
		mov(t, "2", entity.MovementTransfer, matM, general(bodW), ptr(at(bodW, "a")), 40),
		mov(t, "3", entity.MovementTransfer, matM, at(bodW, "a"), ptr(general(bodX)), 15),
		mov(t, "4", entity.MovementTransfer, matM, general(bodX), ptr(general(bodW)), 5),
		mov(t, "5", entity.MovementTransfer, matM, general(bodW), ptr(at(bodW, "a")), 40),
	}
	for _, q := range []stock.Query{
		{},
		{WarehouseID: bodW},
		{WarehouseID: bodW, OnlyGeneral: true},
		{WarehouseID: bodW, SubLocationIDs: []string{"a"}},
		{ExcludeMovementID: "3"},
	} {
		assert.Equal(t, stock.Fold(movs, q), stock.Grouped(movs, q), "consulta %+v", q)
	}
}

func TestGrouped_CoincideConFoldEnMovimientosAleatorios(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	materials := []string{"m1", "m2", "m3"}
	warehouses := []string{"w1", "w2"}
	subs := []string{"", "s1", "s2", "s3"}
	randomLoc := func() entity.Location {
		return entity.Location{
			WarehouseID:   warehouses[rng.Intn(len(warehouses))],
			SubLocationID: subs[rng.Intn(len(subs))],
		}
	}

	for round := 0; round < 200; round++ {
		n := rng.Intn(60)
		movs := make([]*entity.Movement, 0, n)
		for i := 0; i < n; i++ {
			typ := entity.MovementTypes[rng.Intn(len(entity.MovementTypes))]
			origin := randomLoc()
			var dest *entity.Location
			if typ.HasDestination() {
				d := randomLoc()
				for d == origin {
					d = randomLoc()
				}
				dest = &d
			}
			movs = append(movs, mov(t, fmt.Sprintf("r%d-%d", round, i), typ,
				materials[rng.Intn(len(materials))], origin, dest, int64(1+rng.Intn(500))))
		}

		queries := []stock.Query{
			{},
			{WarehouseID: "w1"},
			{MaterialID: "m2", WarehouseID: "w2", OnlyGeneral: true},
			{WarehouseID: "w1", SubLocationIDs: []string{"s1", "s3"}},
		}
		if n > 0 {
			queries = append(queries, stock.Query{ExcludeMovementID: movs[rng.Intn(n)].ID})
		}
		for _, q := range queries {
			require.Equal(t, stock.Fold(movs, q), stock.Grouped(movs, q), "ronda %d consulta %+v", round, q)
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Clasificación
// ──────────────────────────────────────────────────────────────────────────────

func TestClassify_Umbrales(t *testing.T) {
	cases := map[int64]stock.Level{
		101: stock.LevelHigh,
		100: stock.LevelMedium,
		21:  stock.LevelMedium,
		20:  stock.LevelLow,
		0:   stock.LevelLow,
		-5:  stock.LevelLow,
	}
	for qty, want := range cases {
		assert.Equal(t, want, stock.Classify(qty), "cantidad %d", qty)
	}
}
