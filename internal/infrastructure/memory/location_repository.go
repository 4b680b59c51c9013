package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
	"github.com/jhoicas/inventario-bodegas/internal/domain/repository"
)

var (
	_ repository.WarehouseRepository   = (*WarehouseRepo)(nil)
	_ repository.SubLocationRepository = (*SubLocationRepo)(nil)
)

// WarehouseRepo bodegas en memoria.
type WarehouseRepo struct{ v view }

func (r *WarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.warehouses[w.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, o := range st.warehouses {
			if strings.EqualFold(o.Name, w.Name) {
				return domain.ErrDuplicate
			}
		}
		st.warehouses[w.ID] = *w
		return nil
	})
}

func (r *WarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.v.read(func(st *state) error {
		if w, ok := st.warehouses[id]; ok {
			out = &w
		}
		return nil
	})
	return out, err
}

func (r *WarehouseRepo) GetByName(_ context.Context, name string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.v.read(func(st *state) error {
		for _, w := range st.warehouses {
			if strings.EqualFold(w.Name, name) {
				w := w
				out = &w
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *WarehouseRepo) Update(_ context.Context, w *entity.Warehouse) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.warehouses[w.ID]; !ok {
			return domain.ErrNotFound
		}
		for _, o := range st.warehouses {
			if o.ID != w.ID && strings.EqualFold(o.Name, w.Name) {
				return domain.ErrDuplicate
			}
		}
		st.warehouses[w.ID] = *w
		return nil
	})
}

func (r *WarehouseRepo) List(_ context.Context, includeInactive bool) ([]*entity.Warehouse, error) {
	out := []*entity.Warehouse{}
	err := r.v.read(func(st *state) error {
		for _, w := range st.warehouses {
			if !includeInactive && !w.Active {
				continue
			}
			w := w
			out = append(out, &w)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

// SubLocationRepo subbodegas en memoria.
type SubLocationRepo struct{ v view }

func sameSubKey(a, b entity.SubLocation) bool {
	return a.WarehouseID == b.WarehouseID && a.ParentID == b.ParentID && strings.EqualFold(a.Name, b.Name)
}

func (r *SubLocationRepo) Create(_ context.Context, s *entity.SubLocation) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.warehouses[s.WarehouseID]; !ok {
			return domain.ErrNotFound
		}
		if _, ok := st.subs[s.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, o := range st.subs {
			if sameSubKey(o, *s) {
				return domain.ErrDuplicate
			}
		}
		st.subs[s.ID] = *s
		return nil
	})
}

func (r *SubLocationRepo) GetByID(_ context.Context, id string) (*entity.SubLocation, error) {
	var out *entity.SubLocation
	err := r.v.read(func(st *state) error {
		if s, ok := st.subs[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *SubLocationRepo) GetByName(_ context.Context, warehouseID, parentID, name string) (*entity.SubLocation, error) {
	var out *entity.SubLocation
	key := entity.SubLocation{WarehouseID: warehouseID, ParentID: parentID, Name: name}
	err := r.v.read(func(st *state) error {
		for _, s := range st.subs {
			if sameSubKey(s, key) {
				s := s
				out = &s
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *SubLocationRepo) Update(_ context.Context, s *entity.SubLocation) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.subs[s.ID]; !ok {
			return domain.ErrNotFound
		}
		for _, o := range st.subs {
			if o.ID != s.ID && sameSubKey(o, *s) {
				return domain.ErrDuplicate
			}
		}
		st.subs[s.ID] = *s
		return nil
	})
}

func (r *SubLocationRepo) List(_ context.Context, f repository.SubLocationFilter) ([]*entity.SubLocation, error) {
	out := []*entity.SubLocation{}
	err := r.v.read(func(st *state) error {
		for _, s := range st.subs {
			if f.WarehouseID != "" && s.WarehouseID != f.WarehouseID {
				continue
			}
			if f.ParentID != nil && s.ParentID != *f.ParentID {
				continue
			}
			if !f.IncludeInactive && !s.Active {
				continue
			}
			s := s
			out = append(out, &s)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}
