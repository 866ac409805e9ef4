package repository

import (
	"context"

	"github.com/jhoicas/inventario-escolar/internal/domain/entity"
)

// EmployeeRepository consulta de empleados (el alta/edición queda fuera de este servicio).
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Employee, error)
}
