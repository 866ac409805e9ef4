package transfer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	appinventory "github.com/jhoicas/inventario-escolar/internal/application/inventory"
	"github.com/jhoicas/inventario-escolar/internal/application/notification"
	"github.com/jhoicas/inventario-escolar/internal/application/transfer"
	"github.com/jhoicas/inventario-escolar/internal/domain/access"
	"github.com/jhoicas/inventario-escolar/internal/domain/entity"
	"github.com/jhoicas/inventario-escolar/internal/domain/repository"
	"github.com/jhoicas/inventario-escolar/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: casos de uso reales sobre el almacén en memoria
// ──────────────────────────────────────────────────────────────────────────────

const (
	superAdminID = "admin-super"
	eqAdminID    = "admin-equipment"
	consAdminID  = "admin-consumable"
	requesterID  = "user-a"
	requesterEmp = "emp-a"
	colleagueID  = "user-b"
	colleagueEmp = "emp-b"
	productX     = "prod-x"
	productY     = "prod-y"
	productPaper = "prod-paper"
	strangerEmp  = "emp-unknown"
	unlinkedUser = "user-nolink"
)

type fixture struct {
	store         *memory.Store
	uc            *transfer.UseCase
	products      *memory.ProductRepository
	stock         *appinventory.StockUseCase
	notifications *memory.NotificationRepository
	entries       *memory.StockEntryRepository
	exits         *memory.StockExitRepository
	transfers     *memory.EmployeeTransferRepository
	requests      *memory.TransferRequestRepository
	voucher       *fakeVoucher
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	return newFixtureWith(t, nil)
}

// newFixtureWith permite envolver el TxRunner (inyección de fallos).
func newFixtureWith(t testing.TB, wrap func(transfer.TxRunner) transfer.TxRunner) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		store:         store,
		notifications: memory.NewNotificationRepository(store),
		entries:       memory.NewStockEntryRepository(store),
		exits:         memory.NewStockExitRepository(store),
		transfers:     memory.NewEmployeeTransferRepository(store),
		requests:      memory.NewTransferRequestRepository(store),
		voucher:       &fakeVoucher{},
	}
	products := memory.NewProductRepository(store)
	f.products = products
	employees := memory.NewEmployeeRepository(store)
	users := memory.NewUserRepository(store)

	ctx := context.Background()
	for _, e := range []string{requesterEmp, colleagueEmp} {
		store.AddEmployee(&entity.Employee{ID: e, Name: "Employé " + e})
	}
	eq := string(entity.ProductTypeEquipment)
	cons := string(entity.ProductTypeConsumable)
	for _, u := range []*entity.User{
		{ID: superAdminID, Name: "Direction", Email: "direction@ecole.test", Role: entity.RoleAdmin},
		{ID: eqAdminID, Name: "Intendance", Email: "intendance@ecole.test", Role: entity.RoleAdmin, AllowedProductTypes: &eq},
		{ID: consAdminID, Name: "Économat", Email: "economat@ecole.test", Role: entity.RoleAdmin, AllowedProductTypes: &cons},
		{ID: requesterID, Name: "Alice", Email: "alice@ecole.test", Role: entity.RoleUser, EmployeeID: requesterEmp},
		{ID: colleagueID, Name: "Bruno", Email: "bruno@ecole.test", Role: entity.RoleUser, EmployeeID: colleagueEmp},
		{ID: unlinkedUser, Name: "Sans lien", Email: "nolink@ecole.test", Role: entity.RoleUser},
	} {
		require.NoError(t, users.Create(ctx, u))
	}
	for _, p := range []*entity.Product{
		{ID: productX, Name: "Vidéoprojecteur", Type: entity.ProductTypeEquipment},
		{ID: productY, Name: "Tablette", Type: entity.ProductTypeEquipment},
		{ID: productPaper, Name: "Ramette A4", Type: entity.ProductTypeConsumable},
	} {
		require.NoError(t, products.Create(ctx, p))
	}

	dispatcher := notification.NewDispatcher(f.notifications, users, 24*time.Hour, zerolog.Nop())
	var runner transfer.TxRunner = memory.NewTxRunner(store)
	if wrap != nil {
		runner = wrap(runner)
	}
	f.uc = transfer.NewUseCase(runner, f.requests, products, employees, users, dispatcher, f.voucher)
	f.stock = appinventory.NewStockUseCase(products, employees, f.entries, f.exits, f.transfers, f.requests, dispatcher)
	return f
}

// giveHolding asigna cantidad a un empleado mediante una salida de stock directa.
func (f *fixture) giveHolding(t testing.TB, employeeID, productID string, qty int) {
	t.Helper()
	require.NoError(t, f.exits.Append(context.Background(), &entity.StockExit{
		ID: "exit-" + employeeID + "-" + productID, ProductID: productID, Quantity: qty, EmployeeID: employeeID, Date: time.Now(),
	}))
}

func (f *fixture) holding(t testing.TB, employeeID, productID string) int {
	t.Helper()
	h, err := f.stock.EmployeeHolding(context.Background(), employeeID, productID)
	require.NoError(t, err)
	return h
}

func (f *fixture) balance(t testing.TB, productID string) int {
	t.Helper()
	b, err := f.stock.ProductBalance(context.Background(), productID)
	require.NoError(t, err)
	return b
}

func (f *fixture) ledgerSize(t testing.TB) int {
	t.Helper()
	ctx := context.Background()
	entries, err := f.entries.ListRecent(ctx, "", 0)
	require.NoError(t, err)
	exits, err := f.exits.ListRecent(ctx, "", 0)
	require.NoError(t, err)
	n := len(entries) + len(exits)
	for _, e := range []string{requesterEmp, colleagueEmp} {
		ts, err := f.transfers.ListByEmployee(ctx, e)
		require.NoError(t, err)
		n += len(ts)
	}
	return n
}

func (f *fixture) inbox(t testing.TB, userID string) []*entity.Notification {
	t.Helper()
	items, err := f.notifications.ListByUser(context.Background(), userID, false, 0)
	require.NoError(t, err)
	return items
}

func requester() access.Principal {
	return access.NewPrincipal(requesterID, entity.RoleUser, requesterEmp, access.Scope{})
}

func colleague() access.Principal {
	return access.NewPrincipal(colleagueID, entity.RoleUser, colleagueEmp, access.Scope{})
}

func superAdmin() access.Principal {
	return access.NewPrincipal(superAdminID, entity.RoleAdmin, "", access.All())
}

func scopedAdmin(id string, t entity.ProductType) access.Principal {
	s, _ := access.Restricted(t)
	return access.NewPrincipal(id, entity.RoleAdmin, "", s)
}

func toColleague(productID string, qty int) transfer.CreateInput {
	return transfer.CreateInput{ProductID: productID, Quantity: qty, ToEmployeeID: colleagueEmp}
}

func returnToStock(productID string, qty int) transfer.CreateInput {
	return transfer.CreateInput{ProductID: productID, Quantity: qty, ReturnToStock: true}
}

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba
// ──────────────────────────────────────────────────────────────────────────────

type fakeVoucher struct {
	last transfer.VoucherData
}

func (v *fakeVoucher) GenerateTransferVoucher(_ context.Context, data transfer.VoucherData) ([]byte, error) {
	v.last = data
	return []byte("%PDF-fake"), nil
}

var errInjected = errors.New("fallo inyectado")

// failingUpdateRunner hace fallar UpdateDecision después de que el libro ya fue escrito.
type failingUpdateRunner struct {
	inner transfer.TxRunner
}

func (r failingUpdateRunner) Run(ctx context.Context, fn func(
	requestRepo repository.TransferRequestRepository,
	productRepo repository.ProductRepository,
	entryRepo repository.StockEntryRepository,
	exitRepo repository.StockExitRepository,
	transferRepo repository.EmployeeTransferRepository,
) error) error {
	return r.inner.Run(ctx, func(
		requestRepo repository.TransferRequestRepository,
		productRepo repository.ProductRepository,
		entryRepo repository.StockEntryRepository,
		exitRepo repository.StockExitRepository,
		transferRepo repository.EmployeeTransferRepository,
	) error {
		return fn(failingUpdateRepo{requestRepo}, productRepo, entryRepo, exitRepo, transferRepo)
	})
}

type failingUpdateRepo struct {
	repository.TransferRequestRepository
}

func (failingUpdateRepo) UpdateDecision(context.Context, *entity.TransferRequest) error {
	return errInjected
}
