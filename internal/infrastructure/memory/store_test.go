package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-bodegas/internal/application/inventory"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Savepoints
// ──────────────────────────────────────────────────────────────────────────────

func TestSavepoint_SoloLecturaNoCopiaElEstado(t *testing.T) {
	ctx := context.Background()
	st := newState()
	st.warehouses["w1"] = entity.Warehouse{ID: "w1", Name: "Bodega Central", Active: true}

	var seen *lazyView
	sp := savepoint(st)
	err := sp(ctx, func(r inventory.Repos) error {
		w, err := r.Warehouses.GetByID(ctx, "w1")
		require.NoError(t, err)
		require.NotNil(t, w)
		seen = r.Warehouses.(*WarehouseRepo).v.(*lazyView)
		return nil
	})
	require.NoError(t, err)
	assert.Nil(t, seen.work, "una subtransacción de solo lectura no debe copiar el estado")
}

func TestSavepoint_ErrorDeshaceSoloLoSuyo(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	boom := errors.New("fila inválida")

	err := store.Run(ctx, func(r inventory.Repos) error {
		require.NoError(t, r.Warehouses.Create(ctx, &entity.Warehouse{ID: "w1", Name: "Bodega Central", Active: true}))

		// Caso 1: la subtransacción que falla no deja rastro
		err := r.Isolated(ctx, func(r inventory.Repos) error {
			require.NoError(t, r.Warehouses.Create(ctx, &entity.Warehouse{ID: "w2", Name: "Bodega Norte", Active: true}))
			return boom
		})
		require.ErrorIs(t, err, boom)

		// Caso 2: la que termina bien se incorpora a la transacción externa
		require.NoError(t, r.Isolated(ctx, func(r inventory.Repos) error {
			return r.Warehouses.Create(ctx, &entity.Warehouse{ID: "w3", Name: "Bodega Sur", Active: true})
		}))

		// Caso 3: anidadas; la interna falla y la externa confirma lo escrito antes
		require.NoError(t, r.Isolated(ctx, func(r inventory.Repos) error {
			require.NoError(t, r.Warehouses.Create(ctx, &entity.Warehouse{ID: "w4", Name: "Bodega Este", Active: true}))
			require.ErrorIs(t, r.Isolated(ctx, func(r inventory.Repos) error {
				require.NoError(t, r.Warehouses.Create(ctx, &entity.Warehouse{ID: "w5", Name: "Bodega Oeste", Active: true}))
				return boom
			}), boom)
			return nil
		}))
		return nil
	})
	require.NoError(t, err)

	repos := store.Repos()
	for id, want := range map[string]bool{"w1": true, "w2": false, "w3": true, "w4": true, "w5": false} {
		w, err := repos.Warehouses.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, w != nil, "bodega %s", id)
	}
}
