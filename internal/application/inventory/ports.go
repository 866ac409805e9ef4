package inventory

import (
	"context"

	"github.com/jhoicas/inventario-escolar/internal/domain/entity"
)

// AlertNotifier avisa a los administradores del estado del stock.
// Deduplica por tipo+producto dentro de su ventana y nunca devuelve error.
type AlertNotifier interface {
	NotifyAdminsOnce(ctx context.Context, productType entity.ProductType, notifType, title, message, relatedID string)
}
