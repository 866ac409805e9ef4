package transfer

import (
	"context"

	"github.com/jhoicas/inventario-escolar/internal/domain/entity"
	"github.com/jhoicas/inventario-escolar/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// La verificación de tenencia y las escrituras de la aprobación deben ocurrir en la misma tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		requestRepo repository.TransferRequestRepository,
		productRepo repository.ProductRepository,
		entryRepo repository.StockEntryRepository,
		exitRepo repository.StockExitRepository,
		transferRepo repository.EmployeeTransferRepository,
	) error) error
}

// Notifier envío de notificaciones "fire-and-forget": nunca devuelve error al caller.
type Notifier interface {
	Notify(ctx context.Context, userID, notifType, title, message, relatedID string)
	NotifyAdmins(ctx context.Context, productType entity.ProductType, notifType, title, message, relatedID string)
}

// VoucherGenerator genera el bon de transfert (PDF) de una solicitud aprobada.
type VoucherGenerator interface {
	GenerateTransferVoucher(ctx context.Context, data VoucherData) ([]byte, error)
}

// VoucherData datos que necesita el generador del comprobante.
// ToEmployee es nil cuando la cantidad volvió al stock general.
type VoucherData struct {
	Request       *entity.TransferRequest
	Product       *entity.Product
	FromEmployee  *entity.Employee
	ToEmployee    *entity.Employee
	RequesterName string
	DeciderName   string
}
