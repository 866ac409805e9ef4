package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-escolar/internal/domain/entity"
	"github.com/jhoicas/inventario-escolar/internal/domain/inventory"
)

func TestProductBalanceFromRecords(t *testing.T) {
	entries := []*entity.StockEntry{
		{ProductID: "p1", Quantity: 50},
		{ProductID: "p1", Quantity: 5},
		{ProductID: "p2", Quantity: 99},
	}
	exits := []*entity.StockExit{
		{ProductID: "p1", Quantity: 20},
		{ProductID: "p2", Quantity: 1},
	}
	assert.Equal(t, 35, inventory.ProductBalanceFromRecords("p1", entries, exits))
	assert.Equal(t, 98, inventory.ProductBalanceFromRecords("p2", entries, exits))
	assert.Equal(t, 0, inventory.ProductBalanceFromRecords("p3", entries, exits), "sin registros = 0")
}

func TestProductBalance_PuedeSerNegativo(t *testing.T) {
	assert.Equal(t, -3, inventory.ProductBalance(2, 5))
}

func TestEmployeeHolding(t *testing.T) {
	exits := []*entity.StockExit{
		{ProductID: "x", EmployeeID: "e1", Quantity: 10},
		{ProductID: "x", EmployeeID: "e2", Quantity: 4},
		{ProductID: "x", Quantity: 7}, // salida a un lugar, sin empleado
		{ProductID: "y", EmployeeID: "e1", Quantity: 3},
	}
	transfers := []*entity.EmployeeTransfer{
		{ProductID: "x", FromEmployeeID: "e1", ToEmployeeID: "e2", Quantity: 6},
		{ProductID: "x", FromEmployeeID: "e2", ToEmployeeID: "e1", Quantity: 1},
		{ProductID: "x", FromEmployeeID: "e1", Quantity: 2}, // devolución al stock
	}

	assert.Equal(t, 3, inventory.EmployeeHolding("e1", "x", exits, transfers))
	assert.Equal(t, 9, inventory.EmployeeHolding("e2", "x", exits, transfers))
	assert.Equal(t, 3, inventory.EmployeeHolding("e1", "y", exits, transfers))
	assert.Equal(t, 0, inventory.EmployeeHolding("e3", "x", exits, transfers))
	assert.Equal(t, 0, inventory.EmployeeHolding("", "x", exits, transfers), "sin empleado no hay tenencia")
	assert.Equal(t, 0, inventory.EmployeeHolding("e1", "x", nil, nil))
}

func TestHoldingsByProduct(t *testing.T) {
	exits := []*entity.StockExit{
		{ProductID: "x", EmployeeID: "e1", Quantity: 10},
		{ProductID: "y", EmployeeID: "e1", Quantity: 3},
	}
	transfers := []*entity.EmployeeTransfer{
		{ProductID: "y", FromEmployeeID: "e1", ToEmployeeID: "e2", Quantity: 3},
		{ProductID: "z", FromEmployeeID: "e2", ToEmployeeID: "e1", Quantity: 1},
	}
	got := inventory.HoldingsByProduct("e1", exits, transfers)
	assert.Equal(t, map[string]int{"x": 10, "y": 0, "z": 1}, got)
}

func TestStockStatus(t *testing.T) {
	assert.Equal(t, inventory.StockStatusRupture, inventory.StockStatus(0, 10))
	assert.Equal(t, inventory.StockStatusRupture, inventory.StockStatus(-4, 0))
	assert.Equal(t, inventory.StockStatusLow, inventory.StockStatus(10, 10))
	assert.Equal(t, inventory.StockStatusLow, inventory.StockStatus(1, 10))
	assert.Equal(t, inventory.StockStatusOK, inventory.StockStatus(11, 10))
	assert.Equal(t, inventory.StockStatusOK, inventory.StockStatus(1, 0), "umbral 0 desactiva la alerta de stock bajo")
}

func TestAverageUnitCost(t *testing.T) {
	c10 := decimal.NewFromInt(10)
	c20 := decimal.NewFromInt(20)
	entries := []*entity.StockEntry{
		{Quantity: 10, UnitCost: &c10},
		{Quantity: 10, UnitCost: &c20},
		{Quantity: 5, Supplier: entity.ReturnToStockSupplier}, // sin costo: no cuenta
	}
	avg := inventory.AverageUnitCost(entries)
	assert.True(t, avg.Equal(decimal.NewFromInt(15)), "promedio esperado 15, obtenido %s", avg)

	assert.True(t, inventory.AverageUnitCost(nil).IsZero())
	assert.True(t, inventory.StockValue(-2, avg).IsZero())
	assert.True(t, inventory.StockValue(4, avg).Equal(decimal.NewFromInt(60)))
}

func TestCostCalculator_SinStockPrevio(t *testing.T) {
	got := inventory.CostCalculator(decimal.Zero, decimal.Zero, decimal.NewFromInt(3), decimal.NewFromInt(7))
	assert.True(t, got.Equal(decimal.NewFromInt(7)))
}
