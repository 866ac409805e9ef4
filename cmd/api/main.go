// @title       API Inventaire d'établissement
// @version     1.0
// @description Stock, matériel des employés et demandes de transfert.
// @BasePath    /
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/inventario-escolar/docs"
	"github.com/jhoicas/inventario-escolar/internal/application/auth"
	"github.com/jhoicas/inventario-escolar/internal/application/catalog"
	"github.com/jhoicas/inventario-escolar/internal/application/inventory"
	"github.com/jhoicas/inventario-escolar/internal/application/notification"
	"github.com/jhoicas/inventario-escolar/internal/application/transfer"
	"github.com/jhoicas/inventario-escolar/internal/domain/repository"
	"github.com/jhoicas/inventario-escolar/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/inventario-escolar/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-escolar/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/inventario-escolar/internal/interfaces/http"
	"github.com/jhoicas/inventario-escolar/pkg/config"
	"github.com/jhoicas/inventario-escolar/pkg/logger"
)

// txRunner lo que los casos de uso esperan de la transacción, sea cual sea el driver.
type txRunner interface {
	transfer.TxRunner
	catalog.TxRunner
}

// storage repositorios del driver elegido.
type storage struct {
	products      repository.ProductRepository
	employees     repository.EmployeeRepository
	users         repository.UserRepository
	entries       repository.StockEntryRepository
	exits         repository.StockExitRepository
	transfers     repository.EmployeeTransferRepository
	requests      repository.TransferRequestRepository
	notifications repository.NotificationRepository
	tx            txRunner
	close         func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	dispatcher := notification.NewDispatcher(store.notifications, store.users, cfg.Alerts.DedupWindow, log.Component("notifications"))
	voucher := infrapdf.NewVoucherGenerator(cfg.App.Name)

	authUC := auth.NewAuthUseCase(store.users, store.employees, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	productUC := catalog.NewProductUseCase(store.tx, store.products)
	stockUC := inventory.NewStockUseCase(
		store.products, store.employees, store.entries, store.exits,
		store.transfers, store.requests, dispatcher,
	)
	transferUC := transfer.NewUseCase(
		store.tx, store.requests, store.products, store.employees,
		store.users, dispatcher, voucher,
	)
	notificationUC := notification.NewUseCase(store.notifications)

	if cfg.Admin.Email != "" {
		created, err := authUC.EnsureSuperAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			log.Fatal().Err(err).Msg("crear super-admin inicial")
		}
		if created {
			log.Info().Str("email", cfg.Admin.Email).Msg("super-admin inicial creado")
		}
	}
	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: los tokens no son seguros")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventaire API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Storage.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		ProductUC:      productUC,
		StockUC:        stockUC,
		TransferUC:     transferUC,
		NotificationUC: notificationUC,
		JWTSecret:      cfg.JWT.Secret,
		Log:            log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openStorage conecta PostgreSQL (aplicando migraciones si DB_MIGRATE) o crea el almacén en memoria.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		s := memory.NewStore()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &storage{
			products:      memory.NewProductRepository(s),
			employees:     memory.NewEmployeeRepository(s),
			users:         memory.NewUserRepository(s),
			entries:       memory.NewStockEntryRepository(s),
			exits:         memory.NewStockExitRepository(s),
			transfers:     memory.NewEmployeeTransferRepository(s),
			requests:      memory.NewTransferRequestRepository(s),
			notifications: memory.NewNotificationRepository(s),
			tx:            memory.NewTxRunner(s),
			close:         func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
	if err != nil {
		return nil, err
	}
	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool, log.Component("migrations")); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return &storage{
		products:      postgres.NewProductRepository(pool),
		employees:     postgres.NewEmployeeRepository(pool),
		users:         postgres.NewUserRepository(pool),
		entries:       postgres.NewStockEntryRepository(pool),
		exits:         postgres.NewStockExitRepository(pool),
		transfers:     postgres.NewEmployeeTransferRepository(pool),
		requests:      postgres.NewTransferRequestRepository(pool),
		notifications: postgres.NewNotificationRepository(pool),
		tx:            postgres.NewTxRunner(pool),
		close:         pool.Close,
	}, nil
}
