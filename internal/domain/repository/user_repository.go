package repository

import (
	"context"

	"github.com/jhoicas/inventario-escolar/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// FindByEmployeeID cuenta enlazada a un empleado; (nil, nil) si no tiene.
	FindByEmployeeID(ctx context.Context, employeeID string) (*entity.User, error)
	ListByRole(ctx context.Context, role string) ([]*entity.User, error)
	UpdateAllowedProductTypes(ctx context.Context, id string, value *string) error
	UpdateCredentials(ctx context.Context, id, email, passwordHash string) error
}
