package entity

import "time"

// Employee persona del establecimiento que puede tener material asignado.
type Employee struct {
	ID         string
	Name       string
	Position   string
	Department string
	CreatedAt  time.Time
}
