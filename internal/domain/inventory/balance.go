package inventory

import "github.com/jhoicas/inventario-escolar/internal/domain/entity"

// Estados de stock de un producto.
const (
	StockStatusOK      = "ok"
	StockStatusLow     = "low"
	StockStatusRupture = "rupture"
)

// ProductBalance stock general = Σ entradas − Σ salidas. Sin cota inferior: puede ser negativo.
func ProductBalance(totalEntries, totalExits int) int {
	return totalEntries - totalExits
}

// ProductBalanceFromRecords calcula el stock general de productID recorriendo los registros.
func ProductBalanceFromRecords(productID string, entries []*entity.StockEntry, exits []*entity.StockExit) int {
	in, out := 0, 0
	for _, e := range entries {
		if e.ProductID == productID {
			in += e.Quantity
		}
	}
	for _, x := range exits {
		if x.ProductID == productID {
			out += x.Quantity
		}
	}
	return ProductBalance(in, out)
}

// EmployeeHolding tenencia de employeeID sobre productID:
// Σ salidas asignadas + Σ traspasos recibidos − Σ traspasos cedidos.
// Registros de otros empleados o productos se ignoran, así que se le puede pasar un historial más amplio.
func EmployeeHolding(employeeID, productID string, exits []*entity.StockExit, transfers []*entity.EmployeeTransfer) int {
	if employeeID == "" {
		return 0
	}
	holding := 0
	for _, x := range exits {
		if x.EmployeeID == employeeID && x.ProductID == productID {
			holding += x.Quantity
		}
	}
	for _, t := range transfers {
		if t.ProductID != productID {
			continue
		}
		if t.ToEmployeeID == employeeID {
			holding += t.Quantity
		}
		if t.FromEmployeeID == employeeID {
			holding -= t.Quantity
		}
	}
	return holding
}

// HoldingsByProduct tenencia de un empleado agrupada por producto (incluye valores ≤ 0).
func HoldingsByProduct(employeeID string, exits []*entity.StockExit, transfers []*entity.EmployeeTransfer) map[string]int {
	out := make(map[string]int)
	if employeeID == "" {
		return out
	}
	for _, x := range exits {
		if x.EmployeeID == employeeID {
			out[x.ProductID] += x.Quantity
		}
	}
	for _, t := range transfers {
		if t.ToEmployeeID == employeeID {
			out[t.ProductID] += t.Quantity
		}
		if t.FromEmployeeID == employeeID {
			out[t.ProductID] -= t.Quantity
		}
	}
	return out
}

// StockStatus clasifica el saldo: ruptura si ≤ 0; bajo si 0 < saldo ≤ umbral (solo con umbral > 0).
func StockStatus(balance, minimumThreshold int) string {
	switch {
	case balance <= 0:
		return StockStatusRupture
	case minimumThreshold > 0 && balance <= minimumThreshold:
		return StockStatusLow
	default:
		return StockStatusOK
	}
}
