package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User cuenta de acceso. EmployeeID enlaza la cuenta con un empleado (vacío si no hay enlace).
// AllowedProductTypes es el valor persistido del alcance de permisos de un admin:
// nil = sin restricción (super-admin), si no una lista separada por comas.
type User struct {
	ID                  string
	Name                string
	Email               string
	PasswordHash        string
	Role                string
	EmployeeID          string
	AllowedProductTypes *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
