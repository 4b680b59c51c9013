package location_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
	"github.com/jhoicas/inventario-bodegas/internal/domain/location"
)

func sub(id, warehouse, parent, name string) *entity.SubLocation {
	return &entity.SubLocation{ID: id, WarehouseID: warehouse, ParentID: parent, Name: name, Active: true}
}

// Estante 3 → Fila 1, Fila 2; Fila 1 → Caja A.
func shelfTree() []*entity.SubLocation {
	return []*entity.SubLocation{
		sub("e3", "w1", "", "Estante 3"),
		sub("f1", "w1", "e3", "Fila 1"),
		sub("f2", "w1", "e3", "Fila 2"),
		sub("ca", "w1", "f1", "Caja A"),
		sub("otro", "w2", "", "Patio"),
	}
}

func TestTree_FullPath(t *testing.T) {
	tree := location.NewTree(shelfTree(), 0)

	path, err := tree.FullPath("ca")
	require.NoError(t, err)
	assert.Equal(t, "Estante 3 > Fila 1 > Caja A", path)

	path, err = tree.FullPath("e3")
	require.NoError(t, err)
	assert.Equal(t, "Estante 3", path)

	_, err = tree.FullPath("no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTree_DescendantsIncluyeNodoYSubarbol(t *testing.T) {
	tree := location.NewTree(shelfTree(), 0)

	ids, err := tree.Descendants("e3")
	require.NoError(t, err)
	assert.Equal(t, []string{"e3", "f1", "ca", "f2"}, ids)

	ids, err = tree.Descendants("f2")
	require.NoError(t, err)
	assert.Equal(t, []string{"f2"}, ids)
}

func TestTree_CicloFallaSinColgarse(t *testing.T) {
	subs := []*entity.SubLocation{
		sub("a", "w1", "c", "A"),
		sub("b", "w1", "a", "B"),
		sub("c", "w1", "b", "C"),
	}
	tree := location.NewTree(subs, 0)

	_, err := tree.FullPath("a")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrHierarchyCycle)
	assert.True(t, domain.IsStructural(err))

	_, err = tree.Descendants("a")
	assert.ErrorIs(t, err, domain.ErrHierarchyCycle)

	assert.ErrorIs(t, tree.Validate(), domain.ErrHierarchyCycle)
}

func TestTree_ProfundidadMaxima(t *testing.T) {
	subs := []*entity.SubLocation{
		sub("n1", "w1", "", "N1"),
		sub("n2", "w1", "n1", "N2"),
		sub("n3", "w1", "n2", "N3"),
		sub("n4", "w1", "n3", "N4"),
	}
	tree := location.NewTree(subs, 3)

	_, err := tree.FullPath("n4")
	assert.ErrorIs(t, err, domain.ErrHierarchyTooDeep)

	_, err = tree.Descendants("n1")
	assert.ErrorIs(t, err, domain.ErrHierarchyTooDeep)

	_, err = tree.FullPath("n3")
	assert.NoError(t, err)
}

func TestTree_CheckParent(t *testing.T) {
	tree := location.NewTree(shelfTree(), 0)

	// Caso 1: padre válido en la misma bodega.
	assert.NoError(t, tree.CheckParent(entity.SubLocation{WarehouseID: "w1"}, "f1"))

	// Caso 2: sin padre siempre es válido.
	assert.NoError(t, tree.CheckParent(entity.SubLocation{WarehouseID: "w1"}, ""))

	// Caso 3: padre en otra bodega.
	err := tree.CheckParent(entity.SubLocation{WarehouseID: "w1"}, "otro")
	assert.ErrorIs(t, err, domain.ErrCrossWarehouseParent)

	// Caso 4: padre inexistente.
	err = tree.CheckParent(entity.SubLocation{WarehouseID: "w1"}, "nada")
	assert.ErrorIs(t, err, domain.ErrUnresolvedReference)

	// Caso 5: mover Estante 3 bajo su nieta forma un ciclo.
	node, ok := tree.Get("e3")
	require.True(t, ok)
	err = tree.CheckParent(node, "ca")
	assert.ErrorIs(t, err, domain.ErrHierarchyCycle)

	// Caso 6: un nodo no puede ser su propio padre.
	err = tree.CheckParent(node, "e3")
	assert.ErrorIs(t, err, domain.ErrHierarchyCycle)
}

func TestTree_CheckParentCuentaAlturaDelSubarbol(t *testing.T) {
	subs := append(shelfTree(), sub("raiz", "w1", "", "Raíz"))
	tree := location.NewTree(subs, 3)

	// Estante 3 tiene altura 3; colgarlo de "raiz" daría profundidad 4.
	node, _ := tree.Get("e3")
	err := tree.CheckParent(node, "raiz")
	assert.ErrorIs(t, err, domain.ErrHierarchyTooDeep)
}

func TestTree_ValidateArbolSano(t *testing.T) {
	assert.NoError(t, location.NewTree(shelfTree(), 0).Validate())
}
