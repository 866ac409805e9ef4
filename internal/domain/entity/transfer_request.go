package entity

import (
	"time"

	"github.com/jhoicas/inventario-escolar/internal/domain"
)

// Estados de una solicitud de traspaso. approved y rejected son terminales.
const (
	TransferStatusPending  = "pending"
	TransferStatusApproved = "approved"
	TransferStatusRejected = "rejected"
)

// Decision resultado que un administrador aplica a una solicitud pendiente.
type Decision string

// Decisiones posibles.
const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// ParseDecision acepta tanto el verbo (approve/reject) como el estado destino (approved/rejected).
func ParseDecision(s string) (Decision, bool) {
	switch s {
	case "approve", TransferStatusApproved:
		return DecisionApprove, true
	case "reject", TransferStatusRejected:
		return DecisionReject, true
	}
	return "", false
}

// TransferRequest solicitud de un usuario para ceder cantidad que tiene asignada
// a otro empleado o devolverla al stock general. Nunca se elimina (auditoría).
// FromEmployeeID es el empleado del solicitante en el momento de la solicitud.
type TransferRequest struct {
	ID             string
	RequestedBy    string
	FromEmployeeID string
	ProductID      string
	Quantity       int
	ToEmployeeID   string
	ReturnToStock  bool
	LocationID     string
	Purpose        string
	Status         string
	RequestedAt    time.Time
	DecidedBy      string
	DecidedAt      *time.Time
}

// ValidateDestination exige exactamente un destino: empleado o retorno al stock.
func ValidateDestination(toEmployeeID string, returnToStock bool) error {
	if (toEmployeeID != "") == returnToStock {
		return domain.ErrInvalidInput
	}
	return nil
}

// IsPending indica si la solicitud aún admite una decisión.
func (r *TransferRequest) IsPending() bool {
	return r.Status == TransferStatusPending
}

// Approve marca la solicitud como aprobada. Falla si ya fue decidida.
func (r *TransferRequest) Approve(deciderID string, at time.Time) error {
	return r.decide(TransferStatusApproved, deciderID, at)
}

// Reject marca la solicitud como rechazada. Falla si ya fue decidida.
func (r *TransferRequest) Reject(deciderID string, at time.Time) error {
	return r.decide(TransferStatusRejected, deciderID, at)
}

func (r *TransferRequest) decide(status, deciderID string, at time.Time) error {
	if !r.IsPending() {
		return domain.ErrAlreadyDecided
	}
	r.Status = status
	r.DecidedBy = deciderID
	r.DecidedAt = &at
	return nil
}
