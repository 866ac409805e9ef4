package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-escolar/internal/domain"
	"github.com/jhoicas/inventario-escolar/internal/domain/access"
	"github.com/jhoicas/inventario-escolar/internal/domain/entity"
	"github.com/jhoicas/inventario-escolar/internal/domain/inventory"
	"github.com/jhoicas/inventario-escolar/internal/domain/repository"
)

// listLimit máximo de solicitudes devueltas por listado.
const listLimit = 100

// UseCase ciclo de vida de las solicitudes de traspaso: pending → approved | rejected.
// El saldo del solicitante se verifica solo al aprobar, dentro de la transacción que escribe el libro.
type UseCase struct {
	txRunner     TxRunner
	requestRepo  repository.TransferRequestRepository
	productRepo  repository.ProductRepository
	employeeRepo repository.EmployeeRepository
	userRepo     repository.UserRepository
	notifier     Notifier
	voucher      VoucherGenerator
	now          func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	requestRepo repository.TransferRequestRepository,
	productRepo repository.ProductRepository,
	employeeRepo repository.EmployeeRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
	voucher VoucherGenerator,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		requestRepo:  requestRepo,
		productRepo:  productRepo,
		employeeRepo: employeeRepo,
		userRepo:     userRepo,
		notifier:     notifier,
		voucher:      voucher,
		now:          time.Now,
	}
}

// CreateInput entrada para crear una solicitud. Exactamente uno de ToEmployeeID / ReturnToStock.
type CreateInput struct {
	ProductID     string
	Quantity      int
	ToEmployeeID  string
	ReturnToStock bool
	LocationID    string
	Purpose       string
}

// Create registra una solicitud en estado pending. No verifica saldo: eso ocurre al aprobar,
// porque varias solicitudes pendientes pueden apuntar a la misma tenencia.
func (uc *UseCase) Create(ctx context.Context, requester access.Principal, in CreateInput) (*entity.TransferRequest, error) {
	if in.ProductID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := entity.ValidateDestination(in.ToEmployeeID, in.ReturnToStock); err != nil {
		return nil, err
	}
	if !requester.HasEmployee() {
		return nil, domain.ErrInvalidRequester
	}
	if in.ToEmployeeID == requester.EmployeeID {
		return nil, fmt.Errorf("%w: el beneficiario es el propio solicitante", domain.ErrInvalidInput)
	}

	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.ToEmployeeID != "" {
		emp, err := uc.employeeRepo.GetByID(ctx, in.ToEmployeeID)
		if err != nil {
			return nil, err
		}
		if emp == nil {
			return nil, domain.ErrNotFound
		}
	}

	req := &entity.TransferRequest{
		ID:             uuid.New().String(),
		RequestedBy:    requester.UserID,
		FromEmployeeID: requester.EmployeeID,
		ProductID:      product.ID,
		Quantity:       in.Quantity,
		ToEmployeeID:   in.ToEmployeeID,
		ReturnToStock:  in.ReturnToStock,
		LocationID:     in.LocationID,
		Purpose:        in.Purpose,
		Status:         entity.TransferStatusPending,
		RequestedAt:    uc.now(),
	}
	if err := uc.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	uc.notifier.NotifyAdmins(ctx, product.Type,
		entity.NotificationTransferRequestNew,
		"Nouvelle demande de transfert",
		fmt.Sprintf("%s demande %d %s", uc.userName(ctx, requester.UserID), req.Quantity, product.Name),
		req.ID,
	)
	return req, nil
}

// Decide aplica la decisión de un administrador sobre una solicitud pendiente.
//
// Aprobar recalcula la tenencia del solicitante desde el libro y, si alcanza, registra en una
// sola transacción el traspaso (más la entrada "Retour au stock" si corresponde) y el nuevo estado.
// Con saldo insuficiente devuelve *domain.InsufficientBalanceError y la solicitud sigue pending.
// La notificación al solicitante se emite después del commit y nunca hace fallar la decisión.
func (uc *UseCase) Decide(ctx context.Context, decider access.Principal, requestID string, decision entity.Decision) (*entity.TransferRequest, error) {
	if !decider.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if decision != entity.DecisionApprove && decision != entity.DecisionReject {
		return nil, domain.ErrInvalidInput
	}
	if requestID == "" {
		return nil, domain.ErrNotFound
	}

	var (
		decided *entity.TransferRequest
		product *entity.Product
	)
	err := uc.txRunner.Run(ctx, func(
		requestRepo repository.TransferRequestRepository,
		productRepo repository.ProductRepository,
		entryRepo repository.StockEntryRepository,
		exitRepo repository.StockExitRepository,
		transferRepo repository.EmployeeTransferRepository,
	) error {
		// Bloquea la fila de la solicitud: una segunda decisión concurrente espera y ve el estado final
		req, err := requestRepo.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		p, err := productRepo.GetByID(ctx, req.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if !access.CanAct(decider, p.Type) {
			return domain.ErrForbidden
		}
		if !req.IsPending() {
			return domain.ErrAlreadyDecided
		}

		now := uc.now()
		if decision == entity.DecisionReject {
			if err := req.Reject(decider.UserID, now); err != nil {
				return err
			}
		} else {
			if err := uc.approve(ctx, req, exitRepo, transferRepo, entryRepo, now); err != nil {
				return err
			}
			if err := req.Approve(decider.UserID, now); err != nil {
				return err
			}
		}
		if err := requestRepo.UpdateDecision(ctx, req); err != nil {
			return err
		}
		decided, product = req, p
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.notifyDecision(ctx, decided, product)
	return decided, nil
}

// approve verifica la tenencia y escribe el libro. Corre dentro de la tx de Decide.
func (uc *UseCase) approve(
	ctx context.Context,
	req *entity.TransferRequest,
	exitRepo repository.StockExitRepository,
	transferRepo repository.EmployeeTransferRepository,
	entryRepo repository.StockEntryRepository,
	now time.Time,
) error {
	if req.FromEmployeeID == "" {
		return domain.ErrInvalidRequester
	}
	// Serializa aprobaciones concurrentes que consumen la misma tenencia
	if err := transferRepo.LockHolding(ctx, req.FromEmployeeID, req.ProductID); err != nil {
		return err
	}
	exits, err := exitRepo.FindByEmployeeAndProduct(ctx, req.FromEmployeeID, req.ProductID)
	if err != nil {
		return err
	}
	transfers, err := transferRepo.FindByEmployeeAndProduct(ctx, req.FromEmployeeID, req.ProductID)
	if err != nil {
		return err
	}
	holding := inventory.EmployeeHolding(req.FromEmployeeID, req.ProductID, exits, transfers)
	if holding < req.Quantity {
		return &domain.InsufficientBalanceError{Available: holding, Requested: req.Quantity}
	}

	toEmployee := req.ToEmployeeID
	if req.ReturnToStock {
		toEmployee = ""
	}
	if err := transferRepo.Append(ctx, &entity.EmployeeTransfer{
		ID:                uuid.New().String(),
		FromEmployeeID:    req.FromEmployeeID,
		ToEmployeeID:      toEmployee,
		ProductID:         req.ProductID,
		Quantity:          req.Quantity,
		TransferRequestID: req.ID,
		CreatedAt:         now,
	}); err != nil {
		return err
	}
	if req.ReturnToStock {
		return entryRepo.Append(ctx, &entity.StockEntry{
			ID:           uuid.New().String(),
			ProductID:    req.ProductID,
			Quantity:     req.Quantity,
			PurchaseDate: now,
			Supplier:     entity.ReturnToStockSupplier,
			CreatedAt:    now,
		})
	}
	return nil
}

func (uc *UseCase) notifyDecision(ctx context.Context, req *entity.TransferRequest, product *entity.Product) {
	notifType := entity.NotificationTransferRequestApproved
	title := "Demande de transfert approuvée"
	verb := "approuvée"
	if req.Status == entity.TransferStatusRejected {
		notifType = entity.NotificationTransferRequestRejected
		title = "Demande de transfert refusée"
		verb = "refusée"
	}
	msg := fmt.Sprintf("Votre demande de %d %s a été %s.", req.Quantity, product.Name, verb)
	uc.notifier.Notify(ctx, req.RequestedBy, notifType, title, msg, req.ID)
}

// List devuelve las solicitudes visibles para el principal: un admin ve las de los tipos de su
// alcance; un usuario solo las propias. status vacío = todos los estados.
func (uc *UseCase) List(ctx context.Context, principal access.Principal, status string) ([]*entity.TransferRequest, error) {
	switch status {
	case "", entity.TransferStatusPending, entity.TransferStatusApproved, entity.TransferStatusRejected:
	default:
		return nil, domain.ErrInvalidInput
	}
	filter := repository.TransferRequestFilter{Status: status, Limit: listLimit}
	if principal.IsAdmin() {
		if !principal.Scope.IsAll() {
			filter.ProductTypes = principal.Scope.Types()
		}
	} else {
		if principal.UserID == "" {
			return nil, domain.ErrUnauthorized
		}
		filter.RequestedBy = principal.UserID
	}
	return uc.requestRepo.List(ctx, filter)
}

// Get obtiene una solicitud si el principal puede verla (solicitante o admin con alcance sobre el producto).
func (uc *UseCase) Get(ctx context.Context, principal access.Principal, id string) (*entity.TransferRequest, error) {
	req, _, err := uc.loadVisible(ctx, principal, id)
	return req, err
}

// Voucher genera el PDF del comprobante de una solicitud aprobada.
func (uc *UseCase) Voucher(ctx context.Context, principal access.Principal, id string) ([]byte, string, error) {
	req, product, err := uc.loadVisible(ctx, principal, id)
	if err != nil {
		return nil, "", err
	}
	if req.Status != entity.TransferStatusApproved {
		return nil, "", fmt.Errorf("%w: la solicitud no está aprobada", domain.ErrInvalidInput)
	}
	from, err := uc.employeeRepo.GetByID(ctx, req.FromEmployeeID)
	if err != nil {
		return nil, "", err
	}
	if from == nil {
		from = &entity.Employee{ID: req.FromEmployeeID}
	}
	var to *entity.Employee
	if !req.ReturnToStock && req.ToEmployeeID != "" {
		to, err = uc.employeeRepo.GetByID(ctx, req.ToEmployeeID)
		if err != nil {
			return nil, "", err
		}
		if to == nil {
			to = &entity.Employee{ID: req.ToEmployeeID}
		}
	}
	pdf, err := uc.voucher.GenerateTransferVoucher(ctx, VoucherData{
		Request:       req,
		Product:       product,
		FromEmployee:  from,
		ToEmployee:    to,
		RequesterName: uc.userName(ctx, req.RequestedBy),
		DeciderName:   uc.userName(ctx, req.DecidedBy),
	})
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("bon-transfert-%s.pdf", shortID(req.ID)), nil
}

func (uc *UseCase) loadVisible(ctx context.Context, principal access.Principal, id string) (*entity.TransferRequest, *entity.Product, error) {
	req, err := uc.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if req == nil {
		return nil, nil, domain.ErrNotFound
	}
	product, err := uc.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, domain.ErrNotFound
	}
	if principal.IsAdmin() {
		if !access.CanAct(principal, product.Type) {
			return nil, nil, domain.ErrForbidden
		}
	} else if req.RequestedBy != principal.UserID {
		return nil, nil, domain.ErrForbidden
	}
	return req, product, nil
}

func (uc *UseCase) userName(ctx context.Context, userID string) string {
	if userID == "" {
		return ""
	}
	u, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return "Un utilisateur"
	}
	return u.Name
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
