package entity

import "time"

// StockExit salida inmutable del stock general hacia un empleado y/o un lugar.
// Las salidas con EmployeeID son las que constituyen la tenencia de ese empleado.
type StockExit struct {
	ID          string
	ProductID   string
	Quantity    int
	EmployeeID  string
	LocationID  string
	Observation string
	Purpose     string
	Date        time.Time
	CreatedBy   string
}
