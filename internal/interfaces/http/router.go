package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-escolar/internal/application/auth"
	"github.com/jhoicas/inventario-escolar/internal/application/catalog"
	"github.com/jhoicas/inventario-escolar/internal/application/inventory"
	"github.com/jhoicas/inventario-escolar/internal/application/notification"
	"github.com/jhoicas/inventario-escolar/internal/application/transfer"
	"github.com/jhoicas/inventario-escolar/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	ProductUC      *catalog.ProductUseCase
	StockUC        *inventory.StockUseCase
	TransferUC     *transfer.UseCase
	NotificationUC *notification.UseCase
	JWTSecret      string
	Log            zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token; rol y alcance se leen de la cuenta)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), LoadPrincipal(deps.AuthUC, deps.Log))
	protected.Get("/auth/me", authHandler.Me)
	protected.Get("/auth/permissions", authHandler.Permissions)

	admins := protected.Group("/admin/users", adminOnly)
	admins.Get("/", authHandler.ListAdmins)
	admins.Post("/", authHandler.CreateAdmin)
	admins.Patch("/:id", authHandler.UpdateAdminScope)

	// Cuentas de empleados
	protected.Get("/employees/:id/account", adminOnly, authHandler.EmployeeAccount)
	protected.Post("/employees/:id/account", adminOnly, authHandler.SetEmployeeAccount)

	// Products: lectura para todos, escritura para admins (el alcance lo valida el caso de uso)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Log)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", adminOnly, productHandler.Create)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Stock
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC, deps.Log)
	stock.Get("/products/:id/balance", stockHandler.ProductBalance)
	stock.Get("/employees/:employeeId/holdings/:productId", stockHandler.EmployeeHolding) // admin o el propio empleado
	stock.Get("/entries", adminOnly, stockHandler.ListEntries)
	stock.Post("/entries", adminOnly, stockHandler.RecordEntry)
	stock.Get("/exits", adminOnly, stockHandler.ListExits)
	stock.Post("/exits", adminOnly, stockHandler.RecordExit)
	stock.Get("/report", adminOnly, stockHandler.BalanceReport)
	stock.Get("/consumption", adminOnly, stockHandler.MonthlyConsumption)
	protected.Get("/me/equipment", stockHandler.MyEquipment)

	dashboardHandler := NewDashboardHandler(deps.StockUC, deps.Log)
	protected.Get("/dashboard/summary", adminOnly, dashboardHandler.GetSummary)

	// Transfer requests
	transfers := protected.Group("/transfer-requests")
	transferHandler := NewTransferHandler(deps.TransferUC, deps.Log)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/:id", transferHandler.Get)
	transfers.Patch("/:id", adminOnly, transferHandler.Decide)
	transfers.Get("/:id/voucher", transferHandler.Voucher)

	// Notifications
	notifications := protected.Group("/notifications")
	notificationHandler := NewNotificationHandler(deps.NotificationUC, deps.Log)
	notifications.Get("/", notificationHandler.List)
	notifications.Post("/read-all", notificationHandler.MarkAllRead)
	notifications.Post("/:id/read", notificationHandler.MarkRead)
}
