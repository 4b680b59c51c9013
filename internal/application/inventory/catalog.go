package inventory

import (
	"context"

	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-bodegas/internal/domain/inventory"
	"github.com/jhoicas/inventario-bodegas/internal/domain/location"
)

var _ domaininv.Catalog = (*repoCatalog)(nil)

// repoCatalog expone los repositorios como el catálogo que necesita el validador.
type repoCatalog struct {
	r        Repos
	maxDepth int
	trees    map[string]*location.Tree
}

func newRepoCatalog(r Repos, maxDepth int) *repoCatalog {
	return &repoCatalog{r: r, maxDepth: maxDepth, trees: map[string]*location.Tree{}}
}

func (c *repoCatalog) GetMaterial(ctx context.Context, id string) (*entity.Material, error) {
	return c.r.Materials.GetByID(ctx, id)
}

func (c *repoCatalog) GetWarehouse(ctx context.Context, id string) (*entity.Warehouse, error) {
	return c.r.Warehouses.GetByID(ctx, id)
}

func (c *repoCatalog) GetSubLocation(ctx context.Context, id string) (*entity.SubLocation, error) {
	return c.r.SubLocations.GetByID(ctx, id)
}

func (c *repoCatalog) SubLocationPath(ctx context.Context, id string) (string, error) {
	sub, err := c.r.SubLocations.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if sub == nil {
		return "", domain.ErrNotFound
	}
	tree, ok := c.trees[sub.WarehouseID]
	if !ok {
		tree, err = NewStockService("", c.maxDepth).Tree(ctx, c.r, sub.WarehouseID)
		if err != nil {
			return "", err
		}
		c.trees[sub.WarehouseID] = tree
	}
	return tree.FullPath(id)
}
