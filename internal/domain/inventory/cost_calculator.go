package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-escolar/internal/domain/entity"
)

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((CantAcumulada * CostoActual) + (CantEntrada * CostoEntrada)) / (CantAcumulada + CantEntrada)
func CostCalculator(cantAcumulada, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := cantAcumulada.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := cantAcumulada.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum)
}

// AverageUnitCost costo promedio ponderado de las entradas con costo conocido.
// Las entradas sin UnitCost (p. ej. devoluciones al stock) no alteran el promedio.
func AverageUnitCost(entries []*entity.StockEntry) decimal.Decimal {
	qty := decimal.Zero
	cost := decimal.Zero
	for _, e := range entries {
		if e.UnitCost == nil || e.Quantity <= 0 {
			continue
		}
		in := decimal.NewFromInt(int64(e.Quantity))
		cost = CostCalculator(qty, cost, in, *e.UnitCost)
		qty = qty.Add(in)
	}
	return cost
}

// StockValue valor del stock disponible al costo promedio. Un saldo negativo vale 0.
func StockValue(balance int, avgCost decimal.Decimal) decimal.Decimal {
	if balance <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(balance)).Mul(avgCost)
}
