package entity

import "time"

// EmployeeTransfer traspaso inmutable de cantidad entre empleados.
// ToEmployeeID vacío = devolución al stock general.
type EmployeeTransfer struct {
	ID                string
	FromEmployeeID    string
	ToEmployeeID      string
	ProductID         string
	Quantity          int
	TransferRequestID string
	CreatedAt         time.Time
}

// IsReturnToStock indica si el traspaso reintegró la cantidad al stock general.
func (t *EmployeeTransfer) IsReturnToStock() bool {
	return t.ToEmployeeID == ""
}
