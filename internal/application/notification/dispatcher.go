// Package notification entrega avisos a los usuarios. El envío es best-effort:
// un fallo se registra en el log y nunca se propaga a la operación que lo originó.
package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-escolar/internal/domain/access"
	"github.com/jhoicas/inventario-escolar/internal/domain/entity"
	"github.com/jhoicas/inventario-escolar/internal/domain/repository"
)

// Dispatcher escribe notificaciones en la bandeja de cada destinatario.
type Dispatcher struct {
	repo        repository.NotificationRepository
	userRepo    repository.UserRepository
	dedupWindow time.Duration
	log         zerolog.Logger
	now         func() time.Time
}

// NewDispatcher construye el dispatcher. dedupWindow aplica solo a NotifyAdminsOnce.
func NewDispatcher(repo repository.NotificationRepository, userRepo repository.UserRepository, dedupWindow time.Duration, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		repo:        repo,
		userRepo:    userRepo,
		dedupWindow: dedupWindow,
		log:         log,
		now:         time.Now,
	}
}

// Notify crea una notificación para un usuario.
func (d *Dispatcher) Notify(ctx context.Context, userID, notifType, title, message, relatedID string) {
	if userID == "" {
		return
	}
	if err := d.repo.Create(ctx, d.build(userID, notifType, title, message, relatedID)); err != nil {
		d.log.Warn().Err(err).
			Str("type", notifType).
			Str("related_id", relatedID).
			Str("user_id", userID).
			Msg("notificación no entregada")
	}
}

// NotifyAdmins notifica a cada administrador cuyo alcance cubre el tipo de producto.
func (d *Dispatcher) NotifyAdmins(ctx context.Context, productType entity.ProductType, notifType, title, message, relatedID string) {
	admins, err := d.userRepo.ListByRole(ctx, entity.RoleAdmin)
	if err != nil {
		d.log.Warn().Err(err).
			Str("type", notifType).
			Str("related_id", relatedID).
			Msg("no se pudo obtener la lista de administradores")
		return
	}
	for _, admin := range admins {
		if !access.FromStorage(admin.AllowedProductTypes).Allows(productType) {
			continue
		}
		d.Notify(ctx, admin.ID, notifType, title, message, relatedID)
	}
}

// NotifyAdminsOnce como NotifyAdmins, salvo que ya exista una notificación del mismo tipo
// y relatedID dentro de la ventana de deduplicación.
func (d *Dispatcher) NotifyAdminsOnce(ctx context.Context, productType entity.ProductType, notifType, title, message, relatedID string) {
	since := d.now().Add(-d.dedupWindow)
	exists, err := d.repo.ExistsSince(ctx, notifType, relatedID, since)
	if err != nil {
		d.log.Warn().Err(err).
			Str("type", notifType).
			Str("related_id", relatedID).
			Msg("no se pudo verificar la deduplicación de la alerta")
		return
	}
	if exists {
		return
	}
	d.NotifyAdmins(ctx, productType, notifType, title, message, relatedID)
}

func (d *Dispatcher) build(userID, notifType, title, message, relatedID string) *entity.Notification {
	return &entity.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      notifType,
		Title:     title,
		Message:   message,
		RelatedID: relatedID,
		CreatedAt: d.now(),
	}
}
