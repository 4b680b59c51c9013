package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/location"
	"github.com/jhoicas/inventario-bodegas/internal/domain/repository"
	"github.com/jhoicas/inventario-bodegas/internal/domain/stock"
	"github.com/jhoicas/inventario-bodegas/pkg/config"
)

// StockService calcula existencias con la estrategia configurada.
// Con "grouped" delega la agregación al repositorio (GROUP BY); con "fold" recorre los movimientos.
type StockService struct {
	strategy string
	maxDepth int
}

// NewStockService construye el servicio. Estrategia vacía equivale a "grouped".
func NewStockService(strategy string, maxDepth int) *StockService {
	if strategy == "" {
		strategy = config.StrategyGrouped
	}
	if maxDepth <= 0 {
		maxDepth = location.DefaultMaxDepth
	}
	return &StockService{strategy: strategy, maxDepth: maxDepth}
}

// Strategy estrategia activa.
func (s *StockService) Strategy() string { return s.strategy }

// MaxDepth profundidad máxima del árbol de subbodegas.
func (s *StockService) MaxDepth() int { return s.maxDepth }

// Compute cantidad neta por bucket para la consulta, incluyendo buckets en cero.
func (s *StockService) Compute(ctx context.Context, r Repos, q stock.Query) (stock.Levels, error) {
	if s.strategy == config.StrategyFold {
		movs, err := r.Movements.ListAffecting(ctx, q.MaterialID, q.WarehouseID)
		if err != nil {
			return nil, fmt.Errorf("stock por recorrido: %w", err)
		}
		return stock.Fold(movs, q), nil
	}
	asOrigin, err := r.Stock.SumAsOrigin(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("stock como origen: %w", err)
	}
	asDest, err := r.Stock.SumAsDestination(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("stock como destino: %w", err)
	}
	return stock.Merge(asOrigin, asDest), nil
}

// Tree carga el árbol de subbodegas de una bodega (vacío = todas), incluidas las inactivas.
func (s *StockService) Tree(ctx context.Context, r Repos, warehouseID string) (*location.Tree, error) {
	subs, err := r.SubLocations.List(ctx, repository.SubLocationFilter{WarehouseID: warehouseID, IncludeInactive: true})
	if err != nil {
		return nil, fmt.Errorf("cargar subbodegas: %w", err)
	}
	return location.NewTree(subs, s.maxDepth), nil
}

// ScopeQuery construye la consulta de una bodega o de un subárbol (subLocationID y sus descendientes).
// Devuelve también el árbol cargado para resolver rutas.
func (s *StockService) ScopeQuery(ctx context.Context, r Repos, warehouseID, subLocationID, materialID string) (stock.Query, *location.Tree, error) {
	tree, err := s.Tree(ctx, r, warehouseID)
	if err != nil {
		return stock.Query{}, nil, err
	}
	q := stock.Query{MaterialID: materialID, WarehouseID: warehouseID}
	if subLocationID == "" {
		return q, tree, nil
	}
	node, ok := tree.Get(subLocationID)
	if !ok || node.WarehouseID != warehouseID {
		return stock.Query{}, nil, domain.ErrNotFound
	}
	ids, err := tree.Descendants(subLocationID)
	if err != nil {
		return stock.Query{}, nil, err
	}
	q.SubLocationIDs = ids
	return q, tree, nil
}

// Reader adapta el servicio al puerto del validador usando los repositorios dados (normalmente los de la tx).
func (s *StockService) Reader(r Repos) *StockReader {
	return &StockReader{svc: s, repos: r}
}

// StockReader disponible de un bucket exacto.
type StockReader struct {
	svc   *StockService
	repos Repos
}

// Available implementa inventory.StockReader del dominio.
func (sr *StockReader) Available(ctx context.Context, key stock.Key, excludeMovementID string) (int64, error) {
	levels, err := sr.svc.Compute(ctx, sr.repos, stock.ForBucket(key, excludeMovementID))
	if err != nil {
		return 0, err
	}
	return levels.Get(key), nil
}
