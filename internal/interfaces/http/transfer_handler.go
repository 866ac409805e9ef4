package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-escolar/internal/application/dto"
	"github.com/jhoicas/inventario-escolar/internal/application/transfer"
	"github.com/jhoicas/inventario-escolar/internal/domain/entity"
)

// TransferHandler solicitudes de traspaso entre empleados.
type TransferHandler struct {
	uc  *transfer.UseCase
	log zerolog.Logger
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *transfer.UseCase, log zerolog.Logger) *TransferHandler {
	return &TransferHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear solicitud de traspaso
// @Description  Queda en estado pending; el saldo se verifica al aprobar.
// @Tags         transfer-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "Producto, cantidad y destino"
// @Success      201   {object}  dto.TransferRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/transfer-requests [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	p, ok := GetPrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	req, err := h.uc.Create(c.UserContext(), p, transfer.CreateInput{
		ProductID:     in.ProductID,
		Quantity:      in.Quantity,
		ToEmployeeID:  in.ToEmployeeID,
		ReturnToStock: in.ReturnToStock,
		LocationID:    in.LocationID,
		Purpose:       in.Purpose,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToTransferRequestResponse(req))
}

// List godoc
// @Summary      Listar solicitudes de traspaso
// @Description  Un admin ve las de su alcance; un usuario, las suyas.
// @Tags         transfer-requests
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending | approved | rejected"
// @Success      200     {object}  dto.ListResponse[dto.TransferRequestResponse]
// @Router       /api/transfer-requests [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	p, ok := GetPrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	list, err := h.uc.List(c.UserContext(), p, c.Query("status"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	items := make([]dto.TransferRequestResponse, 0, len(list))
	for _, r := range list {
		items = append(items, dto.ToTransferRequestResponse(r))
	}
	return c.JSON(dto.NewListResponse(items))
}

// Get godoc
// @Summary      Obtener solicitud de traspaso
// @Tags         transfer-requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.TransferRequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfer-requests/{id} [get]
func (h *TransferHandler) Get(c *fiber.Ctx) error {
	p, ok := GetPrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	req, err := h.uc.Get(c.UserContext(), p, c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToTransferRequestResponse(req))
}

// Decide godoc
// @Summary      Aprobar o rechazar una solicitud
// @Tags         transfer-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la solicitud"
// @Param        body  body  dto.DecideTransferRequest  true  "approve | reject"
// @Success      200   {object}  dto.TransferRequestResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "ALREADY_DECIDED o INSUFFICIENT_BALANCE (con available)"
// @Router       /api/transfer-requests/{id} [patch]
func (h *TransferHandler) Decide(c *fiber.Ctx) error {
	p, ok := GetPrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.DecideTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	decision, ok := entity.ParseDecision(in.Decision)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "décision attendue : approve ou reject"})
	}
	req, err := h.uc.Decide(c.UserContext(), p, c.Params("id"), decision)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToTransferRequestResponse(req))
}

// Voucher godoc
// @Summary      Descargar bon de transfert (PDF)
// @Tags         transfer-requests
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse  "la solicitud no está aprobada"
// @Router       /api/transfer-requests/{id}/voucher [get]
func (h *TransferHandler) Voucher(c *fiber.Ctx) error {
	p, ok := GetPrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	doc, filename, err := h.uc.Voucher(c.UserContext(), p, c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(doc)
}
