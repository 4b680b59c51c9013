package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-bodegas/internal/application/dto"
	"github.com/jhoicas/inventario-bodegas/internal/application/usecase"
	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
	"github.com/jhoicas/inventario-bodegas/internal/infrastructure/memory"
)

func TestMaterial_CrudYReglas(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	brands := usecase.NewBrandUseCase(repos.Brands)
	uc := usecase.NewMaterialUseCase(repos.Materials, repos.Brands, repos.Movements)

	acme, err := brands.Create(ctx, dto.BrandRequest{Name: "Acme"})
	require.NoError(t, err)

	m, err := uc.Create(ctx, dto.CreateMaterialRequest{Code: "CAB-01", Name: "Cable", Unit: "m", BrandID: &acme.ID})
	require.NoError(t, err)
	assert.Equal(t, acme.ID, *m.BrandID)

	_, err = uc.Create(ctx, dto.CreateMaterialRequest{Code: "CAB-01", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	missing := "no-existe"
	_, err = uc.Create(ctx, dto.CreateMaterialRequest{Code: "X", Name: "X", BrandID: &missing})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.List(ctx, "cab", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 20, list.Page.Limit)

	// Borrar la marca deja al material sin marca.
	require.NoError(t, brands.Delete(ctx, acme.ID))
	got, err := uc.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Nil(t, got.BrandID)

	// Con movimientos el material no se elimina.
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: "w", Name: "W", Active: true}))
	mov, err := entity.NewMovement(entity.MovementParams{
		ID: "mv", MaterialID: m.ID, Type: entity.MovementEntry, Origin: entity.Location{WarehouseID: "w"}, Quantity: 1,
	})
	require.NoError(t, err)
	require.NoError(t, repos.Movements.Create(ctx, mov))
	assert.ErrorIs(t, uc.Delete(ctx, m.ID), domain.ErrConflict)

	require.NoError(t, repos.Movements.Delete(ctx, "mv"))
	assert.NoError(t, uc.Delete(ctx, m.ID))
}

func TestInvoice_NumeroUnicoYBorradoDesvincula(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	uc := usecase.NewInvoiceUseCase(repos.Invoices)

	date := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	inv, err := uc.Create(ctx, dto.InvoiceRequest{Number: "F-001", Supplier: "Proveedor", Date: &date})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.InvoiceRequest{Number: "F-001"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	mov, err := entity.NewMovement(entity.MovementParams{
		ID: "mv", MaterialID: "m", Type: entity.MovementEntry, Origin: entity.Location{WarehouseID: "w"},
		Quantity: 1, InvoiceID: &inv.ID,
	})
	require.NoError(t, err)
	require.NoError(t, repos.Movements.Create(ctx, mov))

	require.NoError(t, uc.Delete(ctx, inv.ID))
	got, err := repos.Movements.GetByID(ctx, "mv")
	require.NoError(t, err)
	assert.Nil(t, got.InvoiceID)
}

func TestUnit_CrearYDuplicado(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewUnitUseCase(memory.NewStore().Repos().Units)

	u, err := uc.Create(ctx, dto.UnitRequest{Name: "Metro", Abbreviation: "m"})
	require.NoError(t, err)
	assert.True(t, u.Active)

	_, err = uc.Create(ctx, dto.UnitRequest{Name: "metro", Abbreviation: "mt"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.UnitRequest{Name: "Litro"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
