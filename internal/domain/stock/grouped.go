package stock

import "github.com/jhoicas/inventario-bodegas/internal/domain/entity"

// Row fila de una agregación GROUP BY: suma con signo de un bucket.
type Row struct {
	MaterialID    string `db:"material_id"`
	WarehouseID   string `db:"warehouse_id"`
	SubLocationID string `db:"sub_location_id"`
	Quantity      int64  `db:"quantity"`
}

// Key bucket de la fila.
func (r Row) Key() Key {
	return Key{MaterialID: r.MaterialID, WarehouseID: r.WarehouseID, SubLocationID: r.SubLocationID}
}

// GroupByOrigin agrega cada movimiento en su bucket de origen con el signo de su tipo.
// Equivale a la consulta SQL "como origen".
func GroupByOrigin(movements []*entity.Movement, q Query) []Row {
	sums := map[Key]int64{}
	order := []Key{}
	for _, m := range movements {
		if m == nil || (q.ExcludeMovementID != "" && m.ID == q.ExcludeMovementID) {
			continue
		}
		k := KeyAt(m.MaterialID, m.Origin)
		if !q.Matches(k) {
			continue
		}
		if _, ok := sums[k]; !ok {
			order = append(order, k)
		}
		sums[k] += m.Type.OriginSign() * m.Quantity
	}
	return toRows(sums, order)
}

// GroupByDestination agrega los traslados en su bucket destino (siempre con signo positivo).
// Equivale a la consulta SQL "como destino".
func GroupByDestination(movements []*entity.Movement, q Query) []Row {
	sums := map[Key]int64{}
	order := []Key{}
	for _, m := range movements {
		if m == nil || !m.Type.HasDestination() || m.Destination == nil {
			continue
		}
		if q.ExcludeMovementID != "" && m.ID == q.ExcludeMovementID {
			continue
		}
		k := KeyAt(m.MaterialID, *m.Destination)
		if !q.Matches(k) {
			continue
		}
		if _, ok := sums[k]; !ok {
			order = append(order, k)
		}
		sums[k] += m.Quantity
	}
	return toRows(sums, order)
}

func toRows(sums map[Key]int64, order []Key) []Row {
	rows := make([]Row, 0, len(order))
	for _, k := range order {
		rows = append(rows, Row{
			MaterialID:    k.MaterialID,
			WarehouseID:   k.WarehouseID,
			SubLocationID: k.SubLocationID,
			Quantity:      sums[k],
		})
	}
	return rows
}

// Merge combina las filas "como origen" y "como destino" sumando por bucket.
func Merge(asOrigin, asDestination []Row) Levels {
	levels := make(Levels, len(asOrigin)+len(asDestination))
	for _, r := range asOrigin {
		levels[r.Key()] += r.Quantity
	}
	for _, r := range asDestination {
		levels[r.Key()] += r.Quantity
	}
	return levels
}

// Grouped calcula con la estrategia por conjuntos sobre movimientos en memoria.
func Grouped(movements []*entity.Movement, q Query) Levels {
	return Merge(GroupByOrigin(movements, q), GroupByDestination(movements, q))
}
