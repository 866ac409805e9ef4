package repository

import (
	"context"

	"github.com/jhoicas/inventario-escolar/internal/domain/entity"
)

// TransferRequestFilter filtros del listado de solicitudes.
// ProductTypes vacío = todos los tipos; RequestedBy vacío = todos los solicitantes.
type TransferRequestFilter struct {
	Status       string
	RequestedBy  string
	ProductTypes []entity.ProductType
	Limit        int
}

// TransferRequestRepository solicitudes de traspaso. No hay borrado: son traza de auditoría.
type TransferRequestRepository interface {
	Create(ctx context.Context, req *entity.TransferRequest) error
	GetByID(ctx context.Context, id string) (*entity.TransferRequest, error)
	// GetForUpdate obtiene la solicitud y bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.TransferRequest, error)
	// UpdateDecision persiste estado, decisor y fecha de decisión.
	UpdateDecision(ctx context.Context, req *entity.TransferRequest) error
	List(ctx context.Context, filter TransferRequestFilter) ([]*entity.TransferRequest, error)
}
