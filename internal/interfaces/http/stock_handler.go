package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-escolar/internal/application/dto"
	"github.com/jhoicas/inventario-escolar/internal/application/inventory"
)

// StockHandler libro de entradas/salidas, saldos y tenencias.
type StockHandler struct {
	uc  *inventory.StockUseCase
	log zerolog.Logger
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockUseCase, log zerolog.Logger) *StockHandler {
	return &StockHandler{uc: uc, log: log}
}

// RecordEntry godoc
// @Summary      Registrar entrada de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordEntryRequest  true  "Entrada"
// @Success      201   {object}  dto.StockEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/stock/entries [post]
func (h *StockHandler) RecordEntry(c *fiber.Ctx) error {
	p, ok := GetPrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.RecordEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	entry, err := h.uc.RecordEntry(c.UserContext(), p, inventory.RecordEntryInput{
		ProductID:     in.ProductID,
		Quantity:      in.Quantity,
		PurchaseDate:  in.PurchaseDate,
		SupplierID:    in.SupplierID,
		Supplier:      in.Supplier,
		InvoiceNumber: in.InvoiceNumber,
		UnitCost:      in.UnitCost,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToStockEntryResponse(entry))
}

// RecordExit godoc
// @Summary      Registrar salida de stock
// @Description  Sin piso: el saldo del producto puede quedar negativo.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordExitRequest  true  "Salida"
// @Success      201   {object}  dto.StockExitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/stock/exits [post]
func (h *StockHandler) RecordExit(c *fiber.Ctx) error {
	p, ok := GetPrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.RecordExitRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	exit, err := h.uc.RecordExit(c.UserContext(), p, inventory.RecordExitInput{
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		EmployeeID:  in.EmployeeID,
		LocationID:  in.LocationID,
		Observation: in.Observation,
		Purpose:     in.Purpose,
		Date:        in.Date,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToStockExitResponse(exit))
}

// ListEntries godoc
// @Summary      Listar entradas (más recientes primero)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Success      200  {object}  dto.ListResponse[dto.StockEntryResponse]
// @Router       /api/stock/entries [get]
func (h *StockHandler) ListEntries(c *fiber.Ctx) error {
	list, err := h.uc.ListEntries(c.UserContext(), c.Query("product_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	items := make([]dto.StockEntryResponse, 0, len(list))
	for _, e := range list {
		items = append(items, dto.ToStockEntryResponse(e))
	}
	return c.JSON(dto.NewListResponse(items))
}

// ListExits godoc
// @Summary      Listar salidas (más recientes primero)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Success      200  {object}  dto.ListResponse[dto.StockExitResponse]
// @Router       /api/stock/exits [get]
func (h *StockHandler) ListExits(c *fiber.Ctx) error {
	list, err := h.uc.ListExits(c.UserContext(), c.Query("product_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	items := make([]dto.StockExitResponse, 0, len(list))
	for _, x := range list {
		items = append(items, dto.ToStockExitResponse(x))
	}
	return c.JSON(dto.NewListResponse(items))
}

// ProductBalance godoc
// @Summary      Saldo del stock general de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductBalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/products/{id}/balance [get]
func (h *StockHandler) ProductBalance(c *fiber.Ctx) error {
	out, err := h.uc.ProductBalanceStatus(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// EmployeeHolding godoc
// @Summary      Cantidad de un producto en poder de un empleado
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        employeeId  path  string  true  "ID del empleado"
// @Param        productId   path  string  true  "ID del producto"
// @Success      200  {object}  dto.EmployeeHoldingResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/employees/{employeeId}/holdings/{productId} [get]
func (h *StockHandler) EmployeeHolding(c *fiber.Ctx) error {
	p, ok := GetPrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	employeeID, productID := c.Params("employeeId"), c.Params("productId")
	holding, err := h.uc.ViewHolding(c.UserContext(), p, employeeID, productID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.EmployeeHoldingResponse{EmployeeID: employeeID, ProductID: productID, Holding: holding})
}

// BalanceReport godoc
// @Summary      Informe de stock con valorización
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.StockBalanceDTO]
// @Router       /api/stock/report [get]
func (h *StockHandler) BalanceReport(c *fiber.Ctx) error {
	lines, err := h.uc.BalanceReport(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.NewListResponse(lines))
}

// MonthlyConsumption godoc
// @Summary      Consumo mensual (salidas por mes y producto)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.MonthlyConsumptionDTO]
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/stock/consumption [get]
func (h *StockHandler) MonthlyConsumption(c *fiber.Ctx) error {
	p, ok := GetPrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	months, err := h.uc.MonthlyConsumption(c.UserContext(), p)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.NewListResponse(months))
}

// MyEquipment godoc
// @Summary      Material en poder del empleado autenticado
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.HeldProductDTO]
// @Router       /api/me/equipment [get]
func (h *StockHandler) MyEquipment(c *fiber.Ctx) error {
	p, ok := GetPrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	items, err := h.uc.MyEquipment(c.UserContext(), p)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.NewListResponse(items))
}
