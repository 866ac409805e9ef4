package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-escolar/internal/application/dto"
	"github.com/jhoicas/inventario-escolar/internal/domain"
)

// errorMapping código HTTP, código estable y mensaje de cada error de dominio.
var errorMapping = []struct {
	err     error
	status  int
	code    string
	message string
}{
	{domain.ErrInsufficientBalance, fiber.StatusConflict, "INSUFFICIENT_BALANCE", "solde insuffisant"},
	{domain.ErrAlreadyDecided, fiber.StatusConflict, "ALREADY_DECIDED", "la demande a déjà été traitée"},
	{domain.ErrInvalidRequester, fiber.StatusUnprocessableEntity, "INVALID_REQUESTER", "votre compte n'est lié à aucun employé"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", "données invalides"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "accès refusé"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "ressource introuvable"},
	{domain.ErrUserNotFound, fiber.StatusUnauthorized, "UNAUTHORIZED", "identifiants invalides"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", "identifiants invalides"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "DUPLICATE", "cet email est déjà utilisé"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE", "la ressource existe déjà"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT", "opération incompatible avec l'état actuel"},
}

// writeError traduce un error de dominio a la respuesta HTTP. Lo no mapeado es 500 y se registra.
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	for _, m := range errorMapping {
		if !errors.Is(err, m.err) {
			continue
		}
		resp := dto.ErrorResponse{Code: m.code, Message: m.message}
		if available, ok := domain.AvailableFrom(err); ok {
			resp.Available = &available
		}
		return c.Status(m.status).JSON(resp)
	}
	log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "erreur interne"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "authentification requise"})
}
