package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
	"github.com/jhoicas/inventario-bodegas/internal/domain/repository"
)

var (
	_ repository.MaterialRepository = (*MaterialRepo)(nil)
	_ repository.BrandRepository    = (*BrandRepo)(nil)
	_ repository.UnitRepository     = (*UnitRepo)(nil)
	_ repository.InvoiceRepository  = (*InvoiceRepo)(nil)
)

// MaterialRepo materiales en memoria.
type MaterialRepo struct{ v view }

func materialConflict(st *state, m *entity.Material) bool {
	for _, o := range st.materials {
		if o.ID == m.ID {
			continue
		}
		if o.Code == m.Code {
			return true
		}
		if m.Barcode != nil && o.Barcode != nil && *o.Barcode == *m.Barcode {
			return true
		}
	}
	return false
}

func (r *MaterialRepo) Create(_ context.Context, m *entity.Material) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.materials[m.ID]; ok || materialConflict(st, m) {
			return domain.ErrDuplicate
		}
		st.materials[m.ID] = cloneMaterial(*m)
		return nil
	})
}

func (r *MaterialRepo) GetByID(_ context.Context, id string) (*entity.Material, error) {
	var out *entity.Material
	err := r.v.read(func(st *state) error {
		if m, ok := st.materials[id]; ok {
			c := cloneMaterial(m)
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *MaterialRepo) GetByCode(_ context.Context, code string) (*entity.Material, error) {
	var out *entity.Material
	err := r.v.read(func(st *state) error {
		for _, m := range st.materials {
			if m.Code == code {
				c := cloneMaterial(m)
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *MaterialRepo) Update(_ context.Context, m *entity.Material) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.materials[m.ID]; !ok {
			return domain.ErrNotFound
		}
		if materialConflict(st, m) {
			return domain.ErrDuplicate
		}
		st.materials[m.ID] = cloneMaterial(*m)
		return nil
	})
}

func (r *MaterialRepo) UpdateProjection(_ context.Context, id string, brandID *string, lastPrice *decimal.Decimal) error {
	return r.v.write(func(st *state) error {
		m, ok := st.materials[id]
		if !ok {
			return domain.ErrNotFound
		}
		if brandID != nil {
			m.BrandID = cloneString(brandID)
		}
		if lastPrice != nil {
			m.LastPrice = cloneDecimal(lastPrice)
		}
		st.materials[id] = m
		return nil
	})
}

func (r *MaterialRepo) List(_ context.Context, search string, limit, offset int) ([]*entity.Material, error) {
	out := []*entity.Material{}
	needle := strings.ToLower(strings.TrimSpace(search))
	err := r.v.read(func(st *state) error {
		for _, m := range st.materials {
			if needle != "" &&
				!strings.Contains(strings.ToLower(m.Code), needle) &&
				!strings.Contains(strings.ToLower(m.Name), needle) &&
				!strings.Contains(strings.ToLower(m.Reference), needle) {
				continue
			}
			c := cloneMaterial(m)
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return page(out, limit, offset), err
}

func (r *MaterialRepo) Delete(_ context.Context, id string) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.materials[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.materials, id)
		return nil
	})
}

// BrandRepo marcas en memoria.
type BrandRepo struct{ v view }

func (r *BrandRepo) Create(_ context.Context, b *entity.Brand) error {
	return r.v.write(func(st *state) error {
		for _, o := range st.brands {
			if o.ID == b.ID || strings.EqualFold(o.Name, b.Name) {
				return domain.ErrDuplicate
			}
		}
		st.brands[b.ID] = *b
		return nil
	})
}

func (r *BrandRepo) GetByID(_ context.Context, id string) (*entity.Brand, error) {
	var out *entity.Brand
	err := r.v.read(func(st *state) error {
		if b, ok := st.brands[id]; ok {
			out = &b
		}
		return nil
	})
	return out, err
}

func (r *BrandRepo) GetByName(_ context.Context, name string) (*entity.Brand, error) {
	var out *entity.Brand
	err := r.v.read(func(st *state) error {
		for _, b := range st.brands {
			if strings.EqualFold(b.Name, name) {
				b := b
				out = &b
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *BrandRepo) Update(_ context.Context, b *entity.Brand) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.brands[b.ID]; !ok {
			return domain.ErrNotFound
		}
		for _, o := range st.brands {
			if o.ID != b.ID && strings.EqualFold(o.Name, b.Name) {
				return domain.ErrDuplicate
			}
		}
		st.brands[b.ID] = *b
		return nil
	})
}

func (r *BrandRepo) List(_ context.Context) ([]*entity.Brand, error) {
	out := []*entity.Brand{}
	err := r.v.read(func(st *state) error {
		for _, b := range st.brands {
			b := b
			out = append(out, &b)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

// Delete deja sin marca a materiales y movimientos (ON DELETE SET NULL).
func (r *BrandRepo) Delete(_ context.Context, id string) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.brands[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.brands, id)
		for k, m := range st.materials {
			if m.BrandID != nil && *m.BrandID == id {
				m.BrandID = nil
				st.materials[k] = m
			}
		}
		for k, m := range st.movements {
			if m.BrandID != nil && *m.BrandID == id {
				m.BrandID = nil
				st.movements[k] = m
			}
		}
		return nil
	})
}

// UnitRepo unidades de medida en memoria.
type UnitRepo struct{ v view }

func (r *UnitRepo) Create(_ context.Context, u *entity.UnitOfMeasure) error {
	return r.v.write(func(st *state) error {
		for _, o := range st.units {
			if o.ID == u.ID || strings.EqualFold(o.Name, u.Name) || strings.EqualFold(o.Abbreviation, u.Abbreviation) {
				return domain.ErrDuplicate
			}
		}
		st.units[u.ID] = *u
		return nil
	})
}

func (r *UnitRepo) GetByID(_ context.Context, id string) (*entity.UnitOfMeasure, error) {
	var out *entity.UnitOfMeasure
	err := r.v.read(func(st *state) error {
		if u, ok := st.units[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UnitRepo) GetByName(_ context.Context, name string) (*entity.UnitOfMeasure, error) {
	var out *entity.UnitOfMeasure
	err := r.v.read(func(st *state) error {
		for _, u := range st.units {
			if strings.EqualFold(u.Name, name) {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *UnitRepo) Update(_ context.Context, u *entity.UnitOfMeasure) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.units[u.ID]; !ok {
			return domain.ErrNotFound
		}
		for _, o := range st.units {
			if o.ID != u.ID && (strings.EqualFold(o.Name, u.Name) || strings.EqualFold(o.Abbreviation, u.Abbreviation)) {
				return domain.ErrDuplicate
			}
		}
		st.units[u.ID] = *u
		return nil
	})
}

func (r *UnitRepo) List(_ context.Context) ([]*entity.UnitOfMeasure, error) {
	out := []*entity.UnitOfMeasure{}
	err := r.v.read(func(st *state) error {
		for _, u := range st.units {
			u := u
			out = append(out, &u)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *UnitRepo) Delete(_ context.Context, id string) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.units[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.units, id)
		return nil
	})
}

// InvoiceRepo facturas en memoria.
type InvoiceRepo struct{ v view }

func (r *InvoiceRepo) Create(_ context.Context, i *entity.Invoice) error {
	return r.v.write(func(st *state) error {
		for _, o := range st.invoices {
			if o.ID == i.ID || o.Number == i.Number {
				return domain.ErrDuplicate
			}
		}
		st.invoices[i.ID] = *i
		return nil
	})
}

func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.v.read(func(st *state) error {
		if i, ok := st.invoices[id]; ok {
			out = &i
		}
		return nil
	})
	return out, err
}

func (r *InvoiceRepo) GetByNumber(_ context.Context, number string) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.v.read(func(st *state) error {
		for _, i := range st.invoices {
			if i.Number == number {
				i := i
				out = &i
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *InvoiceRepo) Update(_ context.Context, i *entity.Invoice) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.invoices[i.ID]; !ok {
			return domain.ErrNotFound
		}
		for _, o := range st.invoices {
			if o.ID != i.ID && o.Number == i.Number {
				return domain.ErrDuplicate
			}
		}
		st.invoices[i.ID] = *i
		return nil
	})
}

func (r *InvoiceRepo) List(_ context.Context, limit, offset int) ([]*entity.Invoice, error) {
	out := []*entity.Invoice{}
	err := r.v.read(func(st *state) error {
		for _, i := range st.invoices {
			i := i
			out = append(out, &i)
		}
		return nil
	})
	sort.Slice(out, func(a, b int) bool {
		if !out[a].Date.Equal(out[b].Date) {
			return out[a].Date.After(out[b].Date)
		}
		return out[a].Number < out[b].Number
	})
	return page(out, limit, offset), err
}

// Delete deja sin factura a los movimientos que la referencian (ON DELETE SET NULL).
func (r *InvoiceRepo) Delete(_ context.Context, id string) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.invoices[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.invoices, id)
		for k, m := range st.movements {
			if m.InvoiceID != nil && *m.InvoiceID == id {
				m.InvoiceID = nil
				st.movements[k] = m
			}
		}
		return nil
	})
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
