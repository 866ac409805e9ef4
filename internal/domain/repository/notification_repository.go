package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-escolar/internal/domain/entity"
)

// NotificationRepository bandeja de notificaciones por usuario.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*entity.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	// MarkRead marca una notificación del usuario; false si no existe o es de otro usuario.
	MarkRead(ctx context.Context, userID, id string) (bool, error)
	MarkAllRead(ctx context.Context, userID string) error
	// ExistsSince indica si ya se emitió una notificación de ese tipo y relatedID desde since.
	ExistsSince(ctx context.Context, notifType, relatedID string, since time.Time) (bool, error)
}
