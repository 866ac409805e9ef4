package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// InitialQuantity > 0 registra además una primera entrada de stock.
type CreateProductRequest struct {
	Name             string           `json:"name" validate:"required,min=1,max=200"`
	Code             string           `json:"code"`
	Barcode          string           `json:"barcode"`
	ProductType      string           `json:"product_type" validate:"omitempty,oneof=equipment consumable"`
	Category         string           `json:"category"`
	Unit             string           `json:"unit"`
	MinimumThreshold int              `json:"minimum_threshold" validate:"min=0"`
	InitialQuantity  int              `json:"initial_quantity" validate:"min=0"`
	Supplier         string           `json:"supplier"`
	UnitCost         *decimal.Decimal `json:"unit_cost,omitempty"`
}

// UpdateProductRequest entrada para actualizar un producto (campos nil no cambian).
type UpdateProductRequest struct {
	Name             *string `json:"name" validate:"omitempty,min=1,max=200"`
	Code             *string `json:"code"`
	Barcode          *string `json:"barcode"`
	ProductType      *string `json:"product_type" validate:"omitempty,oneof=equipment consumable"`
	Category         *string `json:"category"`
	Unit             *string `json:"unit"`
	MinimumThreshold *int    `json:"minimum_threshold" validate:"omitempty,min=0"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Code             string    `json:"code,omitempty"`
	Barcode          string    `json:"barcode,omitempty"`
	ProductType      string    `json:"product_type"`
	Category         string    `json:"category,omitempty"`
	Unit             string    `json:"unit,omitempty"`
	MinimumThreshold int       `json:"minimum_threshold"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
