package access

import "github.com/jhoicas/inventario-escolar/internal/domain/entity"

// Principal usuario autenticado que invoca una operación. Se pasa explícitamente
// a cada caso de uso; el núcleo no lee estado de sesión.
type Principal struct {
	UserID     string
	Role       string
	EmployeeID string
	Scope      Scope
}

// NewPrincipal construye el principal a partir de los datos del token.
// El alcance solo aplica a administradores; un usuario normal queda con alcance vacío.
func NewPrincipal(userID, role, employeeID string, scope Scope) Principal {
	p := Principal{UserID: userID, Role: role, EmployeeID: employeeID}
	if role == entity.RoleAdmin {
		p.Scope = scope
	}
	return p
}

// IsAdmin indica si el principal tiene rol administrador.
func (p Principal) IsAdmin() bool {
	return p.Role == entity.RoleAdmin
}

// IsSuperAdmin admin sin restricción de tipos; único que gestiona otros administradores.
func (p Principal) IsSuperAdmin() bool {
	return p.IsAdmin() && p.Scope.IsAll()
}

// HasEmployee indica si la cuenta está enlazada a un empleado.
func (p Principal) HasEmployee() bool {
	return p.EmployeeID != ""
}

// AllowedTypes alcance del principal. Solo significativo para administradores.
func AllowedTypes(p Principal) Scope {
	return p.Scope
}

// CanAct indica si el principal puede ejecutar una acción de administración
// sobre productos del tipo indicado.
func CanAct(p Principal, t entity.ProductType) bool {
	return p.IsAdmin() && p.Scope.Allows(t)
}
