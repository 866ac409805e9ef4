package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-escolar/internal/application/inventory"
)

// DashboardHandler maneja el tablero de administración.
type DashboardHandler struct {
	uc  *inventory.StockUseCase
	log zerolog.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *inventory.StockUseCase, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, log: log}
}

// GetSummary devuelve el resumen del stock dentro del alcance del admin.
// GET /api/dashboard/summary
//
// Respuesta: DashboardSummaryDTO (product_count, low_stock, rupture_count,
// pending_count, total_value, recent_entries[5], recent_exits[5]).
// De paso emite las alertas de stock bajo / ruptura, deduplicadas.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	p, ok := GetPrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	summary, err := h.uc.Dashboard(c.UserContext(), p)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(summary)
}
