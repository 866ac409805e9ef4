package notification_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-escolar/internal/application/notification"
	"github.com/jhoicas/inventario-escolar/internal/domain"
	"github.com/jhoicas/inventario-escolar/internal/domain/access"
	"github.com/jhoicas/inventario-escolar/internal/domain/entity"
	"github.com/jhoicas/inventario-escolar/internal/domain/repository"
	"github.com/jhoicas/inventario-escolar/internal/infrastructure/memory"
)

func TestBandeja_ListarYMarcar(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewNotificationRepository(store)
	users := memory.NewUserRepository(store)
	d := notification.NewDispatcher(repo, users, time.Hour, zerolog.Nop())
	uc := notification.NewUseCase(repo)
	ctx := context.Background()

	d.Notify(ctx, "u1", entity.NotificationTransferRequestApproved, "ok", "m1", "r1")
	d.Notify(ctx, "u1", entity.NotificationTransferRequestRejected, "ko", "m2", "r2")
	d.Notify(ctx, "u2", entity.NotificationTransferRequestNew, "new", "m3", "r3")

	me := access.NewPrincipal("u1", entity.RoleUser, "e1", access.Scope{})
	inbox, err := uc.List(ctx, me, false)
	require.NoError(t, err)
	require.Len(t, inbox.Items, 2)
	assert.Equal(t, 2, inbox.UnreadCount)
	assert.Equal(t, "r2", inbox.Items[0].RelatedID, "más recientes primero")

	// No se puede marcar la notificación de otro usuario
	other, err := repo.ListByUser(ctx, "u2", false, 0)
	require.NoError(t, err)
	assert.ErrorIs(t, uc.MarkRead(ctx, me, other[0].ID), domain.ErrNotFound)

	require.NoError(t, uc.MarkRead(ctx, me, inbox.Items[0].ID))
	unread, err := uc.List(ctx, me, true)
	require.NoError(t, err)
	assert.Len(t, unread.Items, 1)
	assert.Equal(t, 1, unread.UnreadCount)

	require.NoError(t, uc.MarkAllRead(ctx, me))
	after, err := uc.List(ctx, me, false)
	require.NoError(t, err)
	assert.Equal(t, 0, after.UnreadCount)
	assert.Len(t, after.Items, 2)
}

func TestNotifyAdmins_FiltraPorAlcance(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewNotificationRepository(store)
	users := memory.NewUserRepository(store)
	ctx := context.Background()
	eq := "equipment"
	junk := "???"
	require.NoError(t, users.Create(ctx, &entity.User{ID: "a1", Email: "a1@t", Role: entity.RoleAdmin}))
	require.NoError(t, users.Create(ctx, &entity.User{ID: "a2", Email: "a2@t", Role: entity.RoleAdmin, AllowedProductTypes: &eq}))
	require.NoError(t, users.Create(ctx, &entity.User{ID: "a3", Email: "a3@t", Role: entity.RoleAdmin, AllowedProductTypes: &junk}))
	require.NoError(t, users.Create(ctx, &entity.User{ID: "u1", Email: "u1@t", Role: entity.RoleUser}))

	d := notification.NewDispatcher(repo, users, time.Hour, zerolog.Nop())
	d.NotifyAdmins(ctx, entity.ProductTypeConsumable, entity.NotificationStockLow, "t", "m", "p1")

	for id, want := range map[string]int{"a1": 1, "a2": 0, "a3": 1, "u1": 0} {
		n, err := repo.CountUnread(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, n, id)
	}
}

// failingRepo simula una bandeja caída.
type failingRepo struct {
	repository.NotificationRepository
}

func (failingRepo) Create(context.Context, *entity.Notification) error {
	return errors.New("bandeja caída")
}

func TestNotify_FalloNoSePropaga(t *testing.T) {
	store := memory.NewStore()
	d := notification.NewDispatcher(failingRepo{memory.NewNotificationRepository(store)}, memory.NewUserRepository(store), time.Hour, zerolog.Nop())
	assert.NotPanics(t, func() {
		d.Notify(context.Background(), "u1", entity.NotificationTransferRequestApproved, "t", "m", "r")
	})
}
