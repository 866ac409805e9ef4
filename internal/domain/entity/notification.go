package entity

import "time"

// Tipos de notificación emitidos por el sistema.
const (
	NotificationTransferRequestNew      = "transfer_request_new"
	NotificationTransferRequestApproved = "transfer_request_approved"
	NotificationTransferRequestRejected = "transfer_request_rejected"
	NotificationStockLow                = "stock_low"
	NotificationStockRupture            = "stock_rupture"
)

// Notification aviso dirigido a un usuario.
type Notification struct {
	ID        string
	UserID    string
	Type      string
	Title     string
	Message   string
	RelatedID string
	Read      bool
	CreatedAt time.Time
}
