package dto

import "time"

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse salida de un usuario (sin password).
// AllowedProductTypes vacío = sin restricción.
type UserResponse struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	Role                string    `json:"role"`
	EmployeeID          string    `json:"employee_id,omitempty"`
	AllowedProductTypes []string  `json:"allowed_product_types"`
	SuperAdmin          bool      `json:"super_admin"`
	CreatedAt           time.Time `json:"created_at"`
}

// CreateAdminRequest entrada para crear un administrador (solo super-admin).
// Scope: "", "all", "equipment", "consumable" o "equipment,consumable".
type CreateAdminRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Scope    string `json:"scope"`
}

// UpdateAdminScopeRequest body para PATCH /api/admin/users/:id.
type UpdateAdminScopeRequest struct {
	Scope string `json:"scope"`
}

// PermissionsResponse respuesta de GET /api/auth/permissions.
type PermissionsResponse struct {
	Role       string   `json:"role"`
	Types      []string `json:"types"`
	SuperAdmin bool     `json:"super_admin"`
}

// EmployeeAccountRequest body para POST /api/employees/:id/account.
// Crea la cuenta del empleado o, si ya existe, reemplaza email y contraseña.
type EmployeeAccountRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// EmployeeAccountResponse estado de la cuenta de un empleado.
type EmployeeAccountResponse struct {
	EmployeeID string `json:"employee_id"`
	HasAccount bool   `json:"has_account"`
	Email      string `json:"email,omitempty"`
	// Created es false cuando la llamada reinició una cuenta existente.
	Created bool `json:"created"`
}
