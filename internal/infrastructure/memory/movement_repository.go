package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
	"github.com/jhoicas/inventario-bodegas/internal/domain/repository"
	"github.com/jhoicas/inventario-bodegas/internal/domain/stock"
)

var (
	_ repository.MovementRepository = (*MovementRepo)(nil)
	_ repository.StockRepository    = (*StockRepo)(nil)
)

// MovementRepo libro de movimientos en memoria.
type MovementRepo struct{ v view }

func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.movements[m.ID]; ok {
			return domain.ErrDuplicate
		}
		st.movements[m.ID] = cloneMovement(*m)
		return nil
	})
}

func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	var out *entity.Movement
	err := r.v.read(func(st *state) error {
		if m, ok := st.movements[id]; ok {
			c := cloneMovement(m)
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *MovementRepo) Update(_ context.Context, m *entity.Movement) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.movements[m.ID]; !ok {
			return domain.ErrNotFound
		}
		st.movements[m.ID] = cloneMovement(*m)
		return nil
	})
}

func (r *MovementRepo) Delete(_ context.Context, id string) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.movements[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.movements, id)
		return nil
	})
}

func touchesWarehouse(m entity.Movement, warehouseID string) bool {
	if warehouseID == "" || m.Origin.WarehouseID == warehouseID {
		return true
	}
	return m.Destination != nil && m.Destination.WarehouseID == warehouseID
}

// sortedMovements fecha descendente, luego creación descendente e ID.
func sortedMovements(list []*entity.Movement) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	out := []*entity.Movement{}
	err := r.v.read(func(st *state) error {
		for _, m := range st.movements {
			if f.MaterialID != "" && m.MaterialID != f.MaterialID {
				continue
			}
			if !touchesWarehouse(m, f.WarehouseID) {
				continue
			}
			if f.Type != "" && m.Type != f.Type {
				continue
			}
			if f.From != nil && m.Date.Before(*f.From) {
				continue
			}
			if f.To != nil && m.Date.After(*f.To) {
				continue
			}
			c := cloneMovement(m)
			out = append(out, &c)
		}
		return nil
	})
	sortedMovements(out)
	return page(out, f.Limit, f.Offset), err
}

func (r *MovementRepo) ListAffecting(_ context.Context, materialID, warehouseID string) ([]*entity.Movement, error) {
	out := []*entity.Movement{}
	err := r.v.read(func(st *state) error {
		for _, m := range st.movements {
			if materialID != "" && m.MaterialID != materialID {
				continue
			}
			if !touchesWarehouse(m, warehouseID) {
				continue
			}
			c := cloneMovement(m)
			out = append(out, &c)
		}
		return nil
	})
	sortedMovements(out)
	return out, err
}

func (r *MovementRepo) CountByMaterial(_ context.Context, materialID string) (int, error) {
	n := 0
	err := r.v.read(func(st *state) error {
		for _, m := range st.movements {
			if m.MaterialID == materialID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *MovementRepo) FindEquivalent(_ context.Context, target *entity.Movement, exclude []string) (*entity.Movement, error) {
	skip := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}
	var out *entity.Movement
	err := r.v.read(func(st *state) error {
		ids := make([]string, 0, len(st.movements))
		for id := range st.movements {
			if !skip[id] {
				ids = append(ids, id)
			}
		}
		sort.Strings(ids)
		for _, id := range ids {
			m := st.movements[id]
			if equivalent(m, *target) {
				c := cloneMovement(m)
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func equivalent(a, b entity.Movement) bool {
	if a.MaterialID != b.MaterialID || a.Type != b.Type || a.Quantity != b.Quantity ||
		a.Origin != b.Origin || !a.Date.Equal(b.Date) {
		return false
	}
	if (a.Destination == nil) != (b.Destination == nil) {
		return false
	}
	return a.Destination == nil || *a.Destination == *b.Destination
}

// StockRepo agregación por conjuntos sobre el libro en memoria.
// LockBucket no hace nada: las transacciones ya están serializadas.
type StockRepo struct{ v view }

func (r *StockRepo) all(st *state) []*entity.Movement {
	out := make([]*entity.Movement, 0, len(st.movements))
	for _, m := range st.movements {
		m := m
		out = append(out, &m)
	}
	return out
}

func (r *StockRepo) SumAsOrigin(_ context.Context, q stock.Query) ([]stock.Row, error) {
	var rows []stock.Row
	err := r.v.read(func(st *state) error {
		rows = stock.GroupByOrigin(r.all(st), q)
		return nil
	})
	return rows, err
}

func (r *StockRepo) SumAsDestination(_ context.Context, q stock.Query) ([]stock.Row, error) {
	var rows []stock.Row
	err := r.v.read(func(st *state) error {
		rows = stock.GroupByDestination(r.all(st), q)
		return nil
	})
	return rows, err
}

func (r *StockRepo) LockBucket(context.Context, stock.Key) error { return nil }
