// Package stock deriva existencias a partir del libro de movimientos.
//
// Un bucket es (material, bodega, subbodega); la subbodega vacía es la ubicación "General"
// de la bodega y nunca se mezcla con el total de una subbodega concreta.
// Hay dos estrategias que deben coincidir exactamente: Fold recorre los movimientos uno a uno
// y sirve de referencia; GroupByOrigin + GroupByDestination + Merge reproducen en memoria la
// agregación por conjuntos que el repositorio SQL ejecuta en producción.
package stock

import (
	"sort"

	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
)

// Key bucket de agregación.
type Key struct {
	MaterialID    string
	WarehouseID   string
	SubLocationID string // vacío = General
}

// KeyAt bucket de un material en una ubicación.
func KeyAt(materialID string, loc entity.Location) Key {
	return Key{MaterialID: materialID, WarehouseID: loc.WarehouseID, SubLocationID: loc.SubLocationID}
}

// Location ubicación del bucket.
func (k Key) Location() entity.Location {
	return entity.Location{WarehouseID: k.WarehouseID, SubLocationID: k.SubLocationID}
}

// Query delimita qué buckets se calculan.
//
//   - Global: WarehouseID vacío.
//   - Bodega: WarehouseID, SubLocationIDs nil y OnlyGeneral false (incluye General y todas las subbodegas).
//   - Subárbol: WarehouseID + SubLocationIDs con el nodo y sus descendientes.
//   - Bucket exacto: ver ForBucket.
type Query struct {
	MaterialID        string
	WarehouseID       string
	SubLocationIDs    []string
	OnlyGeneral       bool
	ExcludeMovementID string
}

// ForBucket consulta restringida a un único bucket, excluyendo opcionalmente un movimiento
// (el registro que se está editando).
func ForBucket(k Key, excludeMovementID string) Query {
	q := Query{
		MaterialID:        k.MaterialID,
		WarehouseID:       k.WarehouseID,
		ExcludeMovementID: excludeMovementID,
	}
	if k.SubLocationID == "" {
		q.OnlyGeneral = true
	} else {
		q.SubLocationIDs = []string{k.SubLocationID}
	}
	return q
}

// Matches indica si el bucket k entra en la consulta.
func (q Query) Matches(k Key) bool {
	if q.MaterialID != "" && k.MaterialID != q.MaterialID {
		return false
	}
	if q.WarehouseID == "" {
		return true
	}
	if k.WarehouseID != q.WarehouseID {
		return false
	}
	if q.OnlyGeneral {
		return k.SubLocationID == ""
	}
	if q.SubLocationIDs == nil {
		return true
	}
	if k.SubLocationID == "" {
		return false
	}
	for _, id := range q.SubLocationIDs {
		if id == k.SubLocationID {
			return true
		}
	}
	return false
}

// Levels cantidad neta por bucket.
type Levels map[Key]int64

// Get cantidad del bucket (0 si no existe).
func (l Levels) Get(k Key) int64 { return l[k] }

// Total suma de todos los buckets.
func (l Levels) Total() int64 {
	var t int64
	for _, v := range l {
		t += v
	}
	return t
}

// NonZero copia sin buckets en cero (un bucket neto cero no está "en stock").
func (l Levels) NonZero() Levels {
	out := make(Levels, len(l))
	for k, v := range l {
		if v != 0 {
			out[k] = v
		}
	}
	return out
}

// Entry bucket y su cantidad.
type Entry struct {
	Key      Key
	Quantity int64
}

// Entries buckets ordenados por material, bodega y subbodega.
func (l Levels) Entries() []Entry {
	out := make([]Entry, 0, len(l))
	for k, v := range l {
		out = append(out, Entry{Key: k, Quantity: v})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Key, out[j].Key
		if a.MaterialID != b.MaterialID {
			return a.MaterialID < b.MaterialID
		}
		if a.WarehouseID != b.WarehouseID {
			return a.WarehouseID < b.WarehouseID
		}
		return a.SubLocationID < b.SubLocationID
	})
	return out
}

// ByMaterial suma por material (útil para totales de un subárbol).
func (l Levels) ByMaterial() map[string]int64 {
	out := map[string]int64{}
	for k, v := range l {
		out[k.MaterialID] += v
	}
	return out
}

// Fold recorre los movimientos aplicando la política de signos por tipo.
// Es la estrategia de referencia contra la que se prueba la agregación por conjuntos.
func Fold(movements []*entity.Movement, q Query) Levels {
	levels := Levels{}
	for _, m := range movements {
		if m == nil || (q.ExcludeMovementID != "" && m.ID == q.ExcludeMovementID) {
			continue
		}
		origin := KeyAt(m.MaterialID, m.Origin)
		if q.Matches(origin) {
			levels[origin] += m.Type.OriginSign() * m.Quantity
		}
		if m.Type.HasDestination() && m.Destination != nil {
			dest := KeyAt(m.MaterialID, *m.Destination)
			if q.Matches(dest) {
				levels[dest] += m.Quantity
			}
		}
	}
	return levels
}
