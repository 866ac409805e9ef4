package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists  = errors.New("el email ya está registrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrInvalidRequester    = errors.New("el solicitante no tiene empleado asociado")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrAlreadyDecided      = errors.New("la solicitud ya fue decidida")
	ErrInsufficientBalance = errors.New("saldo insuficiente")
)

// InsufficientBalanceError acompaña a ErrInsufficientBalance con la cantidad realmente disponible,
// para que la interfaz pueda mostrarla al administrador.
type InsufficientBalanceError struct {
	Available int
	Requested int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("%s: disponible %d, solicitado %d", ErrInsufficientBalance, e.Available, e.Requested)
}

// Is permite errors.Is(err, ErrInsufficientBalance).
func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// AvailableFrom extrae la cantidad disponible de un error de saldo insuficiente.
func AvailableFrom(err error) (int, bool) {
	var ib *InsufficientBalanceError
	if errors.As(err, &ib) {
		return ib.Available, true
	}
	return 0, false
}
