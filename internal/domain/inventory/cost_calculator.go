package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
)

// CostCalculator costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum)
}

// AverageEntryCost recorre las entradas con precio de un material en orden cronológico
// y acumula el costo promedio ponderado. Las entradas sin precio no alteran el costo.
// Devuelve cero si no hay ninguna entrada con precio.
func AverageEntryCost(movements []*entity.Movement) decimal.Decimal {
	entries := make([]*entity.Movement, 0, len(movements))
	for _, m := range movements {
		if m != nil && m.Type == entity.MovementEntry && m.UnitPrice != nil {
			entries = append(entries, m)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })

	qty := decimal.Zero
	cost := decimal.Zero
	for _, m := range entries {
		in := decimal.NewFromInt(m.Quantity)
		cost = CostCalculator(qty, cost, in, *m.UnitPrice)
		qty = qty.Add(in)
	}
	return cost.Round(2)
}
