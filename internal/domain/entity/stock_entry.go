package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReturnToStockSupplier proveedor con el que se registra la reintegración de material al stock general.
const ReturnToStockSupplier = "Retour au stock"

// StockEntry entrada inmutable al stock general.
// UnitCost es opcional y solo alimenta la valorización del inventario.
type StockEntry struct {
	ID            string
	ProductID     string
	Quantity      int
	PurchaseDate  time.Time
	SupplierID    string
	Supplier      string
	InvoiceNumber string
	UnitCost      *decimal.Decimal
	CreatedAt     time.Time
	CreatedBy     string
}
