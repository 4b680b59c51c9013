// Package memory implementa los repositorios sobre mapas en memoria.
//
// Sirve como driver de desarrollo (STORAGE_DRIVER=memory) y como backend de los tests.
// Las transacciones se serializan con un mutex y trabajan sobre una copia del estado
// que solo reemplaza al original si fn termina sin error.
package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-bodegas/internal/application/inventory"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

type state struct {
	warehouses map[string]entity.Warehouse
	subs       map[string]entity.SubLocation
	materials  map[string]entity.Material
	brands     map[string]entity.Brand
	units      map[string]entity.UnitOfMeasure
	invoices   map[string]entity.Invoice
	movements  map[string]entity.Movement
}

func newState() *state {
	return &state{
		warehouses: map[string]entity.Warehouse{},
		subs:       map[string]entity.SubLocation{},
		materials:  map[string]entity.Material{},
		brands:     map[string]entity.Brand{},
		units:      map[string]entity.UnitOfMeasure{},
		invoices:   map[string]entity.Invoice{},
		movements:  map[string]entity.Movement{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.warehouses {
		c.warehouses[k] = v
	}
	for k, v := range s.subs {
		c.subs[k] = v
	}
	for k, v := range s.materials {
		c.materials[k] = cloneMaterial(v)
	}
	for k, v := range s.brands {
		c.brands[k] = v
	}
	for k, v := range s.units {
		c.units[k] = v
	}
	for k, v := range s.invoices {
		c.invoices[k] = v
	}
	for k, v := range s.movements {
		c.movements[k] = cloneMovement(v)
	}
	return c
}

// Store estado compartido y TxRunner.
type Store struct {
	txMu   sync.Mutex   // serializa escrituras y transacciones
	dataMu sync.RWMutex // protege el puntero data
	data   *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{data: newState()}
}

// view acceso al estado: directo (con bloqueos) o dentro de una transacción.
type view interface {
	read(fn func(*state) error) error
	write(fn func(*state) error) error
}

type storeView struct{ s *Store }

func (v storeView) read(fn func(*state) error) error {
	v.s.dataMu.RLock()
	defer v.s.dataMu.RUnlock()
	return fn(v.s.data)
}

// write fuera de transacción: se aplica sobre una copia para que un error no deje cambios a medias.
func (v storeView) write(fn func(*state) error) error {
	v.s.txMu.Lock()
	defer v.s.txMu.Unlock()
	v.s.dataMu.RLock()
	work := v.s.data.clone()
	v.s.dataMu.RUnlock()
	if err := fn(work); err != nil {
		return err
	}
	v.s.dataMu.Lock()
	v.s.data = work
	v.s.dataMu.Unlock()
	return nil
}

type txView struct{ st *state }

func (v txView) read(fn func(*state) error) error  { return fn(v.st) }
func (v txView) write(fn func(*state) error) error { return fn(v.st) }

// Repos repositorios fuera de transacción.
func (s *Store) Repos() inventory.Repos {
	return reposFor(storeView{s: s})
}

// Run ejecuta fn sobre una copia del estado; solo se confirma si fn no devuelve error.
func (s *Store) Run(ctx context.Context, fn func(r inventory.Repos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	s.dataMu.RLock()
	work := s.data.clone()
	s.dataMu.RUnlock()

	if err := fn(txRepos(work)); err != nil {
		return err
	}
	s.dataMu.Lock()
	s.data = work
	s.dataMu.Unlock()
	return nil
}

// txRepos repositorios sobre el estado de trabajo, con savepoints anidables.
func txRepos(st *state) inventory.Repos {
	r := reposFor(txView{st: st})
	r.Savepoint = savepoint(st)
	return r
}

// savepoint abre una subtransacción sobre st. La copia del estado se hace en la primera
// escritura: una fila de importación que solo lee (o falla antes de escribir) no copia nada.
// Las filas que escriben sí pagan una copia completa; aceptable para un driver de desarrollo.
func savepoint(st *state) func(context.Context, func(inventory.Repos) error) error {
	return func(_ context.Context, fn func(inventory.Repos) error) error {
		lv := &lazyView{base: st}
		r := reposFor(lv)
		r.Savepoint = func(ctx context.Context, inner func(inventory.Repos) error) error {
			return savepoint(lv.materialize())(ctx, inner)
		}
		if err := fn(r); err != nil {
			return err
		}
		if lv.work != nil {
			*st = *lv.work
		}
		return nil
	}
}

// lazyView lee del estado padre hasta la primera escritura.
type lazyView struct {
	base *state
	work *state
}

func (v *lazyView) materialize() *state {
	if v.work == nil {
		v.work = v.base.clone()
	}
	return v.work
}

func (v *lazyView) read(fn func(*state) error) error {
	if v.work != nil {
		return fn(v.work)
	}
	return fn(v.base)
}

func (v *lazyView) write(fn func(*state) error) error { return fn(v.materialize()) }

func reposFor(v view) inventory.Repos {
	return inventory.Repos{
		Warehouses:   &WarehouseRepo{v: v},
		SubLocations: &SubLocationRepo{v: v},
		Materials:    &MaterialRepo{v: v},
		Brands:       &BrandRepo{v: v},
		Units:        &UnitRepo{v: v},
		Invoices:     &InvoiceRepo{v: v},
		Movements:    &MovementRepo{v: v},
		Stock:        &StockRepo{v: v},
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

func cloneMaterial(m entity.Material) entity.Material {
	m.Barcode = cloneString(m.Barcode)
	m.BrandID = cloneString(m.BrandID)
	m.LastPrice = cloneDecimal(m.LastPrice)
	return m
}

func cloneMovement(m entity.Movement) entity.Movement {
	if m.Destination != nil {
		d := *m.Destination
		m.Destination = &d
	}
	m.BrandID = cloneString(m.BrandID)
	m.InvoiceID = cloneString(m.InvoiceID)
	m.UnitPrice = cloneDecimal(m.UnitPrice)
	m.UserID = cloneString(m.UserID)
	return m
}
