package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-bodegas/internal/application/dto"
	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-bodegas/internal/domain/inventory"
	"github.com/jhoicas/inventario-bodegas/internal/domain/location"
	"github.com/jhoicas/inventario-bodegas/internal/domain/stock"
)

// StockQueryUseCase consultas de existencias: stock por bodega o subárbol,
// conteo de materiales con stock y resumen global clasificado.
type StockQueryUseCase struct {
	repos Repos
	stock *StockService
}

// NewStockQueryUseCase construye el caso de uso.
func NewStockQueryUseCase(repos Repos, stockSvc *StockService) *StockQueryUseCase {
	return &StockQueryUseCase{repos: repos, stock: stockSvc}
}

// WarehouseStock existencias distintas de cero de una bodega; con subLocationID se limita
// a esa subbodega y sus descendientes.
func (uc *StockQueryUseCase) WarehouseStock(ctx context.Context, warehouseID, subLocationID string) (*dto.WarehouseStockResponse, error) {
	wh, err := uc.repos.Warehouses.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}
	q, tree, err := uc.stock.ScopeQuery(ctx, uc.repos, warehouseID, subLocationID, "")
	if err != nil {
		return nil, err
	}
	levels, err := uc.stock.Compute(ctx, uc.repos, q)
	if err != nil {
		return nil, err
	}

	materials := newMaterialCache(uc.repos)
	items := make([]dto.StockItemResponse, 0, len(levels))
	for _, e := range levels.NonZero().Entries() {
		mat, err := materials.get(ctx, e.Key.MaterialID)
		if err != nil {
			return nil, err
		}
		path, err := subLocationPath(tree, e.Key.SubLocationID)
		if err != nil {
			return nil, err
		}
		items = append(items, dto.StockItemResponse{
			MaterialID:          e.Key.MaterialID,
			Code:                mat.Code,
			Reference:           mat.Reference,
			Name:                mat.Name,
			Unit:                mat.Unit,
			Quantity:            e.Quantity,
			SubLocationID:       optional(e.Key.SubLocationID),
			SubLocationFullPath: path,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Code != items[j].Code {
			return items[i].Code < items[j].Code
		}
		return items[i].SubLocationFullPath < items[j].SubLocationFullPath
	})
	return &dto.WarehouseStockResponse{
		WarehouseID:   wh.ID,
		WarehouseName: wh.Name,
		SubLocationID: optional(subLocationID),
		Items:         items,
	}, nil
}

// MaterialsCount número de materiales con stock positivo en cada bodega (sumando todos sus buckets).
func (uc *StockQueryUseCase) MaterialsCount(ctx context.Context) (map[string]int, error) {
	levels, err := uc.stock.Compute(ctx, uc.repos, stock.Query{})
	if err != nil {
		return nil, err
	}
	type pair struct{ warehouse, material string }
	totals := map[pair]int64{}
	for k, v := range levels {
		totals[pair{k.WarehouseID, k.MaterialID}] += v
	}
	out := map[string]int{}
	for p, v := range totals {
		if v > 0 {
			out[p.warehouse]++
		}
	}
	return out, nil
}

// Summary todos los buckets distintos de cero con su clasificación y costo promedio de entrada.
func (uc *StockQueryUseCase) Summary(ctx context.Context) ([]dto.InventorySummaryItem, error) {
	levels, err := uc.stock.Compute(ctx, uc.repos, stock.Query{})
	if err != nil {
		return nil, err
	}
	tree, err := uc.stock.Tree(ctx, uc.repos, "")
	if err != nil {
		return nil, err
	}
	materials := newMaterialCache(uc.repos)
	warehouses := map[string]*entity.Warehouse{}
	costs := map[string]decimal.Decimal{}

	items := []dto.InventorySummaryItem{}
	for _, e := range levels.NonZero().Entries() {
		mat, err := materials.get(ctx, e.Key.MaterialID)
		if err != nil {
			return nil, err
		}
		wh, ok := warehouses[e.Key.WarehouseID]
		if !ok {
			wh, err = uc.repos.Warehouses.GetByID(ctx, e.Key.WarehouseID)
			if err != nil {
				return nil, err
			}
			if wh == nil {
				wh = &entity.Warehouse{ID: e.Key.WarehouseID}
			}
			warehouses[e.Key.WarehouseID] = wh
		}
		path, err := subLocationPath(tree, e.Key.SubLocationID)
		if err != nil {
			return nil, err
		}
		cost, ok := costs[mat.ID]
		if !ok {
			movs, err := uc.repos.Movements.ListAffecting(ctx, mat.ID, "")
			if err != nil {
				return nil, fmt.Errorf("costo promedio: %w", err)
			}
			cost = domaininv.AverageEntryCost(movs)
			costs[mat.ID] = cost
		}
		items = append(items, dto.InventorySummaryItem{
			MaterialID:          mat.ID,
			Code:                mat.Code,
			Name:                mat.Name,
			Unit:                mat.Unit,
			WarehouseID:         wh.ID,
			WarehouseName:       wh.Name,
			SubLocationID:       optional(e.Key.SubLocationID),
			SubLocationFullPath: path,
			Quantity:            e.Quantity,
			Level:               string(stock.Classify(e.Quantity)),
			AverageCost:         cost,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		if a.WarehouseName != b.WarehouseName {
			return a.WarehouseName < b.WarehouseName
		}
		return a.SubLocationFullPath < b.SubLocationFullPath
	})
	return items, nil
}

// subLocationPath ruta completa o "General" si el bucket no tiene subbodega.
func subLocationPath(tree *location.Tree, id string) (string, error) {
	if id == "" {
		return domaininv.GeneralLabel, nil
	}
	return tree.FullPath(id)
}

type materialCache struct {
	repos Repos
	byID  map[string]*entity.Material
}

func newMaterialCache(r Repos) *materialCache {
	return &materialCache{repos: r, byID: map[string]*entity.Material{}}
}

// get devuelve el material o uno vacío con el ID si fue eliminado.
func (c *materialCache) get(ctx context.Context, id string) (*entity.Material, error) {
	if m, ok := c.byID[id]; ok {
		return m, nil
	}
	m, err := c.repos.Materials.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = &entity.Material{ID: id}
	}
	c.byID[id] = m
	return m, nil
}
