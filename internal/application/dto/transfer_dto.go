package dto

import "time"

// CreateTransferRequest body para POST /api/transfer-requests.
// Exactamente uno de to_employee_id / return_to_stock.
type CreateTransferRequest struct {
	ProductID     string `json:"product_id" validate:"required"`
	Quantity      int    `json:"quantity" validate:"required,min=1"`
	ToEmployeeID  string `json:"to_employee_id,omitempty"`
	ReturnToStock bool   `json:"return_to_stock"`
	LocationID    string `json:"location_id,omitempty"`
	Purpose       string `json:"purpose,omitempty"`
}

// DecideTransferRequest body para PATCH /api/transfer-requests/:id.
type DecideTransferRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject approved rejected"`
}

// TransferRequestResponse salida de una solicitud de traspaso.
type TransferRequestResponse struct {
	ID             string     `json:"id"`
	RequestedBy    string     `json:"requested_by"`
	FromEmployeeID string     `json:"from_employee_id"`
	ProductID      string     `json:"product_id"`
	Quantity       int        `json:"quantity"`
	ToEmployeeID   string     `json:"to_employee_id,omitempty"`
	ReturnToStock  bool       `json:"return_to_stock"`
	LocationID     string     `json:"location_id,omitempty"`
	Purpose        string     `json:"purpose,omitempty"`
	Status         string     `json:"status"`
	RequestedAt    time.Time  `json:"requested_at"`
	DecidedBy      string     `json:"decided_by,omitempty"`
	DecidedAt      *time.Time `json:"decided_at,omitempty"`
}
