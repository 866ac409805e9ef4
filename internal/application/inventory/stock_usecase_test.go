package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinventory "github.com/jhoicas/inventario-escolar/internal/application/inventory"
	"github.com/jhoicas/inventario-escolar/internal/application/notification"
	"github.com/jhoicas/inventario-escolar/internal/domain"
	"github.com/jhoicas/inventario-escolar/internal/domain/access"
	"github.com/jhoicas/inventario-escolar/internal/domain/entity"
	"github.com/jhoicas/inventario-escolar/internal/domain/inventory"
	"github.com/jhoicas/inventario-escolar/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

type stockFixture struct {
	uc            *appinventory.StockUseCase
	notifications *memory.NotificationRepository
	transfers     *memory.EmployeeTransferRepository
}

func newStockFixture(t *testing.T) *stockFixture {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()

	products := memory.NewProductRepository(store)
	users := memory.NewUserRepository(store)
	notifications := memory.NewNotificationRepository(store)
	transfers := memory.NewEmployeeTransferRepository(store)

	store.AddEmployee(&entity.Employee{ID: "emp-1", Name: "Claire"})
	cons := string(entity.ProductTypeConsumable)
	require.NoError(t, users.Create(ctx, &entity.User{ID: "admin", Email: "admin@ecole.test", Role: entity.RoleAdmin}))
	require.NoError(t, users.Create(ctx, &entity.User{ID: "admin-cons", Email: "cons@ecole.test", Role: entity.RoleAdmin, AllowedProductTypes: &cons}))
	for _, p := range []*entity.Product{
		{ID: "pc", Name: "Ordinateur portable", Type: entity.ProductTypeEquipment, MinimumThreshold: 2},
		{ID: "craie", Name: "Craie blanche", Type: entity.ProductTypeConsumable, MinimumThreshold: 10},
		{ID: "stylo", Name: "Stylo rouge", Type: entity.ProductTypeConsumable},
	} {
		require.NoError(t, products.Create(ctx, p))
	}

	dispatcher := notification.NewDispatcher(notifications, users, 24*time.Hour, zerolog.Nop())
	uc := appinventory.NewStockUseCase(
		products,
		memory.NewEmployeeRepository(store),
		memory.NewStockEntryRepository(store),
		memory.NewStockExitRepository(store),
		transfers,
		memory.NewTransferRequestRepository(store),
		dispatcher,
	)
	return &stockFixture{uc: uc, notifications: notifications, transfers: transfers}
}

var (
	admin     = access.NewPrincipal("admin", entity.RoleAdmin, "", access.All())
	plainUser = access.NewPrincipal("u-1", entity.RoleUser, "emp-1", access.Scope{})
)

func consumableAdmin() access.Principal {
	s, _ := access.Restricted(entity.ProductTypeConsumable)
	return access.NewPrincipal("admin-cons", entity.RoleAdmin, "", s)
}

func decimalPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// ──────────────────────────────────────────────────────────────────────────────
// Entradas y salidas
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordEntry_ActualizaSaldo(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()

	entry, err := f.uc.RecordEntry(ctx, admin, appinventory.RecordEntryInput{ProductID: "pc", Quantity: 5, Supplier: "Fournisseur A"})
	require.NoError(t, err)
	assert.Equal(t, "admin", entry.CreatedBy)
	assert.False(t, entry.PurchaseDate.IsZero(), "sin fecha de compra se usa la fecha actual")

	balance, err := f.uc.ProductBalance(ctx, "pc")
	require.NoError(t, err)
	assert.Equal(t, 5, balance)
}

func TestRecordEntry_Validaciones(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()

	_, err := f.uc.RecordEntry(ctx, admin, appinventory.RecordEntryInput{ProductID: "pc", Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.RecordEntry(ctx, admin, appinventory.RecordEntryInput{ProductID: "pc", Quantity: 1, UnitCost: decimalPtr(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.RecordEntry(ctx, admin, appinventory.RecordEntryInput{ProductID: "nope", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.RecordEntry(ctx, consumableAdmin(), appinventory.RecordEntryInput{ProductID: "pc", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrForbidden, "admin de consumibles sobre un equipo")

	_, err = f.uc.RecordEntry(ctx, plainUser, appinventory.RecordEntryInput{ProductID: "craie", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRecordExit_SinPisoDeSaldo(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()

	_, err := f.uc.RecordExit(ctx, consumableAdmin(), appinventory.RecordExitInput{ProductID: "craie", Quantity: 4})
	require.NoError(t, err)

	balance, err := f.uc.ProductBalance(ctx, "craie")
	require.NoError(t, err)
	assert.Equal(t, -4, balance, "una salida directa puede dejar el saldo negativo")
}

func TestRecordExit_AEmpleadoCreaTenencia(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()

	_, err := f.uc.RecordExit(ctx, admin, appinventory.RecordExitInput{ProductID: "pc", Quantity: 2, EmployeeID: "emp-1"})
	require.NoError(t, err)

	holding, err := f.uc.EmployeeHolding(ctx, "emp-1", "pc")
	require.NoError(t, err)
	assert.Equal(t, 2, holding)

	_, err = f.uc.RecordExit(ctx, admin, appinventory.RecordExitInput{ProductID: "pc", Quantity: 1, EmployeeID: "emp-x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.EmployeeHolding(ctx, "emp-x", "pc")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListEntries_MasRecientesPrimero(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		d := base.AddDate(0, 0, i)
		_, err := f.uc.RecordEntry(ctx, admin, appinventory.RecordEntryInput{ProductID: "stylo", Quantity: i + 1, PurchaseDate: &d})
		require.NoError(t, err)
	}
	list, err := f.uc.ListEntries(ctx, "stylo")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 3, list[0].Quantity)

	other, err := f.uc.ListEntries(ctx, "pc")
	require.NoError(t, err)
	assert.Empty(t, other)
}

// ──────────────────────────────────────────────────────────────────────────────
// Informe, material propio y dashboard
// ──────────────────────────────────────────────────────────────────────────────

func TestBalanceReport_EstadoYValor(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()

	_, err := f.uc.RecordEntry(ctx, admin, appinventory.RecordEntryInput{ProductID: "pc", Quantity: 4, UnitCost: decimalPtr(500)})
	require.NoError(t, err)
	_, err = f.uc.RecordEntry(ctx, admin, appinventory.RecordEntryInput{ProductID: "pc", Quantity: 4, UnitCost: decimalPtr(700)})
	require.NoError(t, err)
	_, err = f.uc.RecordExit(ctx, admin, appinventory.RecordExitInput{ProductID: "pc", Quantity: 6, EmployeeID: "emp-1"})
	require.NoError(t, err)
	_, err = f.uc.RecordEntry(ctx, admin, appinventory.RecordEntryInput{ProductID: "craie", Quantity: 30})
	require.NoError(t, err)

	report, err := f.uc.BalanceReport(ctx)
	require.NoError(t, err)
	require.Len(t, report, 3)

	byID := map[string]int{}
	for i, line := range report {
		byID[line.ProductID] = i
	}
	pc := report[byID["pc"]]
	assert.Equal(t, 8, pc.TotalEntries)
	assert.Equal(t, 6, pc.TotalExits)
	assert.Equal(t, 2, pc.Balance)
	assert.Equal(t, inventory.StockStatusLow, pc.Status)
	assert.True(t, pc.AverageUnitCost.Equal(decimal.NewFromInt(600)))
	assert.True(t, pc.StockValue.Equal(decimal.NewFromInt(1200)))

	assert.Equal(t, inventory.StockStatusOK, report[byID["craie"]].Status)
	assert.Equal(t, inventory.StockStatusRupture, report[byID["stylo"]].Status)
}

func TestMyEquipment_SoloTenenciasPositivas(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()

	_, err := f.uc.RecordExit(ctx, admin, appinventory.RecordExitInput{ProductID: "pc", Quantity: 1, EmployeeID: "emp-1"})
	require.NoError(t, err)
	_, err = f.uc.RecordExit(ctx, admin, appinventory.RecordExitInput{ProductID: "craie", Quantity: 3, EmployeeID: "emp-1"})
	require.NoError(t, err)
	require.NoError(t, f.transfers.Append(ctx, &entity.EmployeeTransfer{ID: "t1", FromEmployeeID: "emp-1", ProductID: "craie", Quantity: 3}))

	items, err := f.uc.MyEquipment(ctx, plainUser)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "pc", items[0].ProductID)
	assert.Equal(t, 1, items[0].Quantity)

	none, err := f.uc.MyEquipment(ctx, access.NewPrincipal("u-2", entity.RoleUser, "", access.Scope{}))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDashboard_AlertasDeduplicadas(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()

	_, err := f.uc.RecordEntry(ctx, admin, appinventory.RecordEntryInput{ProductID: "craie", Quantity: 5})
	require.NoError(t, err)

	summary, err := f.uc.Dashboard(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.ProductCount)
	require.Len(t, summary.LowStock, 1)
	assert.Equal(t, "craie", summary.LowStock[0].ProductID)
	assert.Equal(t, 2, summary.RuptureCount, "pc y stylo sin stock")
	assert.Len(t, summary.RecentEntries, 1)

	first, err := f.notifications.ListByUser(ctx, "admin", false, 0)
	require.NoError(t, err)
	assert.Len(t, first, 3)
	consInbox, err := f.notifications.ListByUser(ctx, "admin-cons", false, 0)
	require.NoError(t, err)
	assert.Len(t, consInbox, 2, "solo alertas de consumibles")

	// Segunda visita dentro de la ventana: sin duplicados
	_, err = f.uc.Dashboard(ctx, admin)
	require.NoError(t, err)
	again, err := f.notifications.ListByUser(ctx, "admin", false, 0)
	require.NoError(t, err)
	assert.Len(t, again, 3)

	scoped, err := f.uc.Dashboard(ctx, consumableAdmin())
	require.NoError(t, err)
	assert.Equal(t, 2, scoped.ProductCount)

	_, err = f.uc.Dashboard(ctx, plainUser)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDashboard_MovimientosRecientesSegunAlcance(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()

	_, err := f.uc.RecordEntry(ctx, admin, appinventory.RecordEntryInput{ProductID: "pc", Quantity: 4})
	require.NoError(t, err)
	_, err = f.uc.RecordEntry(ctx, admin, appinventory.RecordEntryInput{ProductID: "craie", Quantity: 20})
	require.NoError(t, err)
	_, err = f.uc.RecordExit(ctx, admin, appinventory.RecordExitInput{ProductID: "pc", Quantity: 1, EmployeeID: "emp-1"})
	require.NoError(t, err)
	_, err = f.uc.RecordExit(ctx, admin, appinventory.RecordExitInput{ProductID: "stylo", Quantity: 2})
	require.NoError(t, err)

	scoped, err := f.uc.Dashboard(ctx, consumableAdmin())
	require.NoError(t, err)
	require.Len(t, scoped.RecentEntries, 1)
	assert.Equal(t, "craie", scoped.RecentEntries[0].ProductID)
	require.Len(t, scoped.RecentExits, 1)
	assert.Equal(t, "stylo", scoped.RecentExits[0].ProductID)

	full, err := f.uc.Dashboard(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, full.RecentEntries, 2)
	assert.Len(t, full.RecentExits, 2)
}

func TestViewHolding_AdminOPropioEmpleado(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()

	_, err := f.uc.RecordExit(ctx, admin, appinventory.RecordExitInput{ProductID: "pc", Quantity: 2, EmployeeID: "emp-1"})
	require.NoError(t, err)

	h, err := f.uc.ViewHolding(ctx, plainUser, "emp-1", "pc")
	require.NoError(t, err)
	assert.Equal(t, 2, h)

	h, err = f.uc.ViewHolding(ctx, consumableAdmin(), "emp-1", "pc")
	require.NoError(t, err, "cualquier admin consulta tenencias")
	assert.Equal(t, 2, h)

	other := access.NewPrincipal("u-2", entity.RoleUser, "emp-2", access.Scope{})
	_, err = f.uc.ViewHolding(ctx, other, "emp-1", "pc")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	unlinked := access.NewPrincipal("u-3", entity.RoleUser, "", access.Scope{})
	_, err = f.uc.ViewHolding(ctx, unlinked, "", "pc")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestMonthlyConsumption_AgrupaPorMes(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()
	exit := func(productID string, qty int, d time.Time) {
		t.Helper()
		_, err := f.uc.RecordExit(ctx, admin, appinventory.RecordExitInput{ProductID: productID, Quantity: qty, Date: &d})
		require.NoError(t, err)
	}
	exit("craie", 3, time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC))
	exit("craie", 2, time.Date(2026, 1, 25, 8, 0, 0, 0, time.UTC))
	exit("stylo", 5, time.Date(2026, 1, 31, 23, 30, 0, 0, time.UTC))
	exit("pc", 1, time.Date(2026, 2, 3, 8, 0, 0, 0, time.UTC))
	// 1 de marzo 00:30 en París sigue siendo febrero en UTC
	paris := time.FixedZone("CET", 3600)
	exit("craie", 4, time.Date(2026, 3, 1, 0, 30, 0, 0, paris))

	months, err := f.uc.MonthlyConsumption(ctx, admin)
	require.NoError(t, err)
	require.Len(t, months, 2)
	assert.Equal(t, "2026-02", months[0].Month, "del más reciente al más antiguo")
	assert.Equal(t, 5, months[0].TotalExits)
	assert.Equal(t, "2026-01", months[1].Month)
	assert.Equal(t, 10, months[1].TotalExits)
	require.Len(t, months[1].Details, 2)
	assert.Equal(t, "Craie blanche", months[1].Details[0].ProductName)
	assert.Equal(t, 5, months[1].Details[0].Quantity)
	assert.Equal(t, "Stylo rouge", months[1].Details[1].ProductName)

	scoped, err := f.uc.MonthlyConsumption(ctx, consumableAdmin())
	require.NoError(t, err)
	require.Len(t, scoped, 2)
	assert.Equal(t, 4, scoped[0].TotalExits, "el portátil queda fuera del alcance")
	require.Len(t, scoped[0].Details, 1)
	assert.Equal(t, "craie", scoped[0].Details[0].ProductID)

	_, err = f.uc.MonthlyConsumption(ctx, plainUser)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	empty := newStockFixture(t)
	none, err := empty.uc.MonthlyConsumption(ctx, admin)
	require.NoError(t, err)
	assert.Empty(t, none)
}
