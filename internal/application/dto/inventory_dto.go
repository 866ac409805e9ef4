package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordEntryRequest body para POST /api/stock/entries.
type RecordEntryRequest struct {
	ProductID     string           `json:"product_id" validate:"required"`
	Quantity      int              `json:"quantity" validate:"required,min=1"`
	PurchaseDate  *time.Time       `json:"purchase_date,omitempty"`
	SupplierID    string           `json:"supplier_id,omitempty"`
	Supplier      string           `json:"supplier,omitempty"`
	InvoiceNumber string           `json:"invoice_number,omitempty"`
	UnitCost      *decimal.Decimal `json:"unit_cost,omitempty"`
}

// RecordExitRequest body para POST /api/stock/exits.
type RecordExitRequest struct {
	ProductID   string     `json:"product_id" validate:"required"`
	Quantity    int        `json:"quantity" validate:"required,min=1"`
	EmployeeID  string     `json:"employee_id,omitempty"`
	LocationID  string     `json:"location_id,omitempty"`
	Observation string     `json:"observation,omitempty"`
	Purpose     string     `json:"purpose,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
}

// StockEntryResponse salida de una entrada de stock.
type StockEntryResponse struct {
	ID            string           `json:"id"`
	ProductID     string           `json:"product_id"`
	Quantity      int              `json:"quantity"`
	PurchaseDate  time.Time        `json:"purchase_date"`
	SupplierID    string           `json:"supplier_id,omitempty"`
	Supplier      string           `json:"supplier,omitempty"`
	InvoiceNumber string           `json:"invoice_number,omitempty"`
	UnitCost      *decimal.Decimal `json:"unit_cost,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// StockExitResponse salida de una salida de stock.
type StockExitResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	Quantity    int       `json:"quantity"`
	EmployeeID  string    `json:"employee_id,omitempty"`
	LocationID  string    `json:"location_id,omitempty"`
	Observation string    `json:"observation,omitempty"`
	Purpose     string    `json:"purpose,omitempty"`
	Date        time.Time `json:"date"`
}

// ProductBalanceResponse respuesta de GET /api/stock/products/:id/balance.
type ProductBalanceResponse struct {
	ProductID string `json:"product_id"`
	Balance   int    `json:"balance"`
	Status    string `json:"status"`
}

// EmployeeHoldingResponse respuesta de GET /api/stock/employees/:employeeId/holdings/:productId.
type EmployeeHoldingResponse struct {
	EmployeeID string `json:"employee_id"`
	ProductID  string `json:"product_id"`
	Holding    int    `json:"holding"`
}

// StockBalanceDTO línea del informe de stock: saldo, estado y valorización de un producto.
type StockBalanceDTO struct {
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name"`
	ProductType      string          `json:"product_type"`
	Category         string          `json:"category,omitempty"`
	Unit             string          `json:"unit,omitempty"`
	MinimumThreshold int             `json:"minimum_threshold"`
	TotalEntries     int             `json:"total_entries"`
	TotalExits       int             `json:"total_exits"`
	Balance          int             `json:"balance"`
	Status           string          `json:"status"`              // ok | low | rupture
	AverageUnitCost  decimal.Decimal `json:"average_unit_cost"`   // promedio ponderado de entradas con costo
	StockValue       decimal.Decimal `json:"stock_value"`         // max(balance,0) * costo promedio
}

// HeldProductDTO producto en poder de un empleado (vista "mi material").
type HeldProductDTO struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	ProductType string `json:"product_type"`
	Category    string `json:"category,omitempty"`
	Unit        string `json:"unit,omitempty"`
	Quantity    int    `json:"quantity"`
}

// MonthlyConsumptionDTO salidas de un mes, con el detalle por producto.
type MonthlyConsumptionDTO struct {
	Month      string               `json:"month"` // AAAA-MM
	TotalExits int                  `json:"total_exits"`
	Details    []ConsumptionLineDTO `json:"details"`
}

// ConsumptionLineDTO cantidad salida de un producto en el mes.
type ConsumptionLineDTO struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}
