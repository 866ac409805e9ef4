package notification

import (
	"context"

	"github.com/jhoicas/inventario-escolar/internal/application/dto"
	"github.com/jhoicas/inventario-escolar/internal/domain"
	"github.com/jhoicas/inventario-escolar/internal/domain/access"
	"github.com/jhoicas/inventario-escolar/internal/domain/repository"
)

const inboxLimit = 100

// UseCase bandeja de notificaciones del principal.
type UseCase struct {
	repo repository.NotificationRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.NotificationRepository) *UseCase {
	return &UseCase{repo: repo}
}

// List devuelve las últimas notificaciones y el contador de no leídas.
func (uc *UseCase) List(ctx context.Context, principal access.Principal, unreadOnly bool) (*dto.NotificationListResponse, error) {
	items, err := uc.repo.ListByUser(ctx, principal.UserID, unreadOnly, inboxLimit)
	if err != nil {
		return nil, err
	}
	unread, err := uc.repo.CountUnread(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	resp := &dto.NotificationListResponse{
		Items:       make([]dto.NotificationResponse, 0, len(items)),
		UnreadCount: unread,
	}
	for _, n := range items {
		resp.Items = append(resp.Items, dto.ToNotificationResponse(n))
	}
	return resp, nil
}

// MarkRead marca una notificación propia como leída; la de otro usuario es NotFound.
func (uc *UseCase) MarkRead(ctx context.Context, principal access.Principal, id string) error {
	ok, err := uc.repo.MarkRead(ctx, principal.UserID, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// MarkAllRead marca como leídas todas las notificaciones del principal.
func (uc *UseCase) MarkAllRead(ctx context.Context, principal access.Principal) error {
	return uc.repo.MarkAllRead(ctx, principal.UserID)
}
