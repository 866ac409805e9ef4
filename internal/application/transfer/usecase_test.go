package transfer_test

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-escolar/internal/application/transfer"
	"github.com/jhoicas/inventario-escolar/internal/domain"
	"github.com/jhoicas/inventario-escolar/internal/domain/access"
	"github.com/jhoicas/inventario-escolar/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_QuedaPendienteSinVerificarSaldo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Sin tenencia: la creación no verifica saldo
	req, err := f.uc.Create(ctx, requester(), toColleague(productX, 4))
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusPending, req.Status)
	assert.Equal(t, requesterEmp, req.FromEmployeeID)
	assert.Equal(t, requesterID, req.RequestedBy)
	assert.Empty(t, req.DecidedBy)
	assert.Nil(t, req.DecidedAt)

	stored, err := f.requests.GetByID(ctx, req.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 4, stored.Quantity)
}

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	unlinked := access.NewPrincipal(unlinkedUser, entity.RoleUser, "", access.Scope{})

	cases := []struct {
		name      string
		principal access.Principal
		in        transfer.CreateInput
		want      error
	}{
		{"cantidad cero", requester(), toColleague(productX, 0), domain.ErrInvalidInput},
		{"cantidad negativa", requester(), toColleague(productX, -2), domain.ErrInvalidInput},
		{"sin producto", requester(), toColleague("", 1), domain.ErrInvalidInput},
		{"ambos destinos", requester(), transfer.CreateInput{ProductID: productX, Quantity: 1, ToEmployeeID: colleagueEmp, ReturnToStock: true}, domain.ErrInvalidInput},
		{"ningún destino", requester(), transfer.CreateInput{ProductID: productX, Quantity: 1}, domain.ErrInvalidInput},
		{"a sí mismo", requester(), transfer.CreateInput{ProductID: productX, Quantity: 1, ToEmployeeID: requesterEmp}, domain.ErrInvalidInput},
		{"sin empleado asociado", unlinked, toColleague(productX, 1), domain.ErrInvalidRequester},
		{"producto inexistente", requester(), toColleague("prod-nope", 1), domain.ErrNotFound},
		{"empleado destino inexistente", requester(), transfer.CreateInput{ProductID: productX, Quantity: 1, ToEmployeeID: strangerEmp}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.Create(ctx, tc.principal, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	all, err := f.uc.List(ctx, superAdmin(), "")
	require.NoError(t, err)
	assert.Empty(t, all, "ninguna solicitud inválida debe persistirse")
}

func TestCreate_NotificaAdminsConAlcance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.uc.Create(ctx, requester(), toColleague(productX, 1))
	require.NoError(t, err)

	for _, id := range []string{superAdminID, eqAdminID} {
		inbox := f.inbox(t, id)
		require.Len(t, inbox, 1, id)
		assert.Equal(t, entity.NotificationTransferRequestNew, inbox[0].Type)
		assert.Equal(t, req.ID, inbox[0].RelatedID)
		assert.Contains(t, inbox[0].Message, "Alice")
	}
	assert.Empty(t, f.inbox(t, consAdminID), "el admin de consumibles no cubre equipos")
}

// ──────────────────────────────────────────────────────────────────────────────
// Decide
// ──────────────────────────────────────────────────────────────────────────────

// Escenario A: traspaso completo a otro empleado.
func TestDecide_AprobarTraspasoAEmpleado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.giveHolding(t, requesterEmp, productX, 10)

	req, err := f.uc.Create(ctx, requester(), toColleague(productX, 10))
	require.NoError(t, err)

	decided, err := f.uc.Decide(ctx, superAdmin(), req.ID, entity.DecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusApproved, decided.Status)
	assert.Equal(t, superAdminID, decided.DecidedBy)
	assert.NotNil(t, decided.DecidedAt)

	assert.Equal(t, 0, f.holding(t, requesterEmp, productX))
	assert.Equal(t, 10, f.holding(t, colleagueEmp, productX))

	transfers, err := f.transfers.FindByEmployeeAndProduct(ctx, requesterEmp, productX)
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	assert.Equal(t, req.ID, transfers[0].TransferRequestID)

	inbox := f.inbox(t, requesterID)
	require.Len(t, inbox, 1)
	assert.Equal(t, entity.NotificationTransferRequestApproved, inbox[0].Type)
}

// Escenario B: dos solicitudes pendientes contra la misma tenencia.
func TestDecide_SegundaAprobacionSinSaldo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.giveHolding(t, requesterEmp, productX, 5)

	first, err := f.uc.Create(ctx, requester(), toColleague(productX, 5))
	require.NoError(t, err)
	second, err := f.uc.Create(ctx, requester(), toColleague(productX, 5))
	require.NoError(t, err)

	_, err = f.uc.Decide(ctx, superAdmin(), first.ID, entity.DecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, 0, f.holding(t, requesterEmp, productX))

	_, err = f.uc.Decide(ctx, superAdmin(), second.ID, entity.DecisionApprove)
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)
	available, ok := domain.AvailableFrom(err)
	require.True(t, ok)
	assert.Equal(t, 0, available)

	stored, err := f.requests.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusPending, stored.Status, "sigue pendiente para reintentar o rechazar")
	assert.Empty(t, stored.DecidedBy)

	// Todavía se puede rechazar
	rejected, err := f.uc.Decide(ctx, superAdmin(), second.ID, entity.DecisionReject)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusRejected, rejected.Status)
}

// Escenario C: devolución al stock general.
func TestDecide_AprobarDevolucionAlStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.entries.Append(ctx, &entity.StockEntry{ID: "in-y", ProductID: productY, Quantity: 20}))
	f.giveHolding(t, requesterEmp, productY, 3)
	before := f.balance(t, productY)

	req, err := f.uc.Create(ctx, requester(), returnToStock(productY, 3))
	require.NoError(t, err)
	_, err = f.uc.Decide(ctx, superAdmin(), req.ID, entity.DecisionApprove)
	require.NoError(t, err)

	assert.Equal(t, 0, f.holding(t, requesterEmp, productY))
	assert.Equal(t, before+3, f.balance(t, productY))

	entries, err := f.entries.ListByProduct(ctx, productY)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	var returned *entity.StockEntry
	for _, e := range entries {
		if e.Supplier == entity.ReturnToStockSupplier {
			returned = e
		}
	}
	require.NotNil(t, returned, "debe existir la entrada de reintegración")
	assert.Equal(t, 3, returned.Quantity)

	transfers, err := f.transfers.FindByEmployeeAndProduct(ctx, requesterEmp, productY)
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	assert.True(t, transfers[0].IsReturnToStock())
}

func TestDecide_Rechazar_SinMovimientosEnLibro(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.giveHolding(t, requesterEmp, productX, 2)
	req, err := f.uc.Create(ctx, requester(), toColleague(productX, 2))
	require.NoError(t, err)
	size := f.ledgerSize(t)

	decided, err := f.uc.Decide(ctx, scopedAdmin(eqAdminID, entity.ProductTypeEquipment), req.ID, entity.DecisionReject)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusRejected, decided.Status)
	assert.Equal(t, eqAdminID, decided.DecidedBy)
	assert.Equal(t, size, f.ledgerSize(t))
	assert.Equal(t, 2, f.holding(t, requesterEmp, productX))

	inbox := f.inbox(t, requesterID)
	require.Len(t, inbox, 1)
	assert.Equal(t, entity.NotificationTransferRequestRejected, inbox[0].Type)
}

func TestDecide_DosVecesFallaConAlreadyDecided(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.giveHolding(t, requesterEmp, productX, 8)
	req, err := f.uc.Create(ctx, requester(), toColleague(productX, 3))
	require.NoError(t, err)

	_, err = f.uc.Decide(ctx, superAdmin(), req.ID, entity.DecisionApprove)
	require.NoError(t, err)
	size := f.ledgerSize(t)

	for _, d := range []entity.Decision{entity.DecisionApprove, entity.DecisionReject} {
		_, err = f.uc.Decide(ctx, superAdmin(), req.ID, d)
		assert.ErrorIs(t, err, domain.ErrAlreadyDecided)
	}
	assert.Equal(t, size, f.ledgerSize(t), "no debe aplicarse dos veces")
	assert.Equal(t, 5, f.holding(t, requesterEmp, productX))
	assert.Equal(t, 3, f.holding(t, colleagueEmp, productX))
}

func TestDecide_AlcanceInsuficiente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.giveHolding(t, requesterEmp, productPaper, 10)
	req, err := f.uc.Create(ctx, requester(), toColleague(productPaper, 4))
	require.NoError(t, err)
	size := f.ledgerSize(t)

	_, err = f.uc.Decide(ctx, scopedAdmin(eqAdminID, entity.ProductTypeEquipment), req.ID, entity.DecisionApprove)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.Decide(ctx, colleague(), req.ID, entity.DecisionApprove)
	assert.ErrorIs(t, err, domain.ErrForbidden, "un usuario no decide")

	assert.Equal(t, size, f.ledgerSize(t))
	stored, err := f.requests.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusPending, stored.Status)

	// El admin de consumibles sí puede
	_, err = f.uc.Decide(ctx, scopedAdmin(consAdminID, entity.ProductTypeConsumable), req.ID, entity.DecisionApprove)
	require.NoError(t, err)
}

func TestDecide_EntradasInvalidas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Decide(ctx, superAdmin(), "req-nope", entity.DecisionApprove)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Decide(ctx, superAdmin(), "req-nope", entity.Decision("maybe"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDecide_FalloAMitadNoDejaEstadoParcial(t *testing.T) {
	f := newFixtureWith(t, func(inner transfer.TxRunner) transfer.TxRunner {
		return failingUpdateRunner{inner: inner}
	})
	ctx := context.Background()
	f.giveHolding(t, requesterEmp, productY, 3)
	req, err := f.uc.Create(ctx, requester(), returnToStock(productY, 3))
	require.NoError(t, err)
	size := f.ledgerSize(t)
	balance := f.balance(t, productY)

	_, err = f.uc.Decide(ctx, superAdmin(), req.ID, entity.DecisionApprove)
	require.ErrorIs(t, err, errInjected)

	assert.Equal(t, size, f.ledgerSize(t), "ni traspaso ni entrada deben quedar registrados")
	assert.Equal(t, balance, f.balance(t, productY))
	assert.Equal(t, 3, f.holding(t, requesterEmp, productY))
	stored, err := f.requests.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusPending, stored.Status)
	assert.Empty(t, f.inbox(t, requesterID), "sin commit no hay notificación")
}

func TestDecide_AprobacionesConcurrentesSobreLaMismaTenencia(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.giveHolding(t, requesterEmp, productX, 5)

	ids := make([]string, 4)
	for i := range ids {
		req, err := f.uc.Create(ctx, requester(), toColleague(productX, 5))
		require.NoError(t, err)
		ids[i] = req.ID
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		approved  int
		shortfall int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := f.uc.Decide(ctx, superAdmin(), id, entity.DecisionApprove)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				approved++
			case errors.Is(err, domain.ErrInsufficientBalance):
				shortfall++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 1, approved)
	assert.Equal(t, 3, shortfall)
	assert.Equal(t, 0, f.holding(t, requesterEmp, productX))
	assert.Equal(t, 5, f.holding(t, colleagueEmp, productX))
}

// Secuencias aleatorias de solicitudes y decisiones: la tenencia nunca es negativa
// y la suma de tenencias + saldo devuelto se conserva.
func TestDecide_PropiedadesSobreSecuenciasAleatorias(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 20; round++ {
		f := newFixture(t)
		ctx := context.Background()
		f.giveHolding(t, requesterEmp, productX, 1+rng.Intn(10))
		f.giveHolding(t, colleagueEmp, productX, 1+rng.Intn(10))
		initialTotal := f.holding(t, requesterEmp, productX) + f.holding(t, colleagueEmp, productX)
		initialBalance := f.balance(t, productX)

		actors := []access.Principal{requester(), colleague()}
		var pending []string
		for step := 0; step < 30; step++ {
			if len(pending) == 0 || rng.Intn(2) == 0 {
				who := actors[rng.Intn(2)]
				in := transfer.CreateInput{ProductID: productX, Quantity: 1 + rng.Intn(6)}
				if rng.Intn(4) == 0 {
					in.ReturnToStock = true
				} else if who.EmployeeID == requesterEmp {
					in.ToEmployeeID = colleagueEmp
				} else {
					in.ToEmployeeID = requesterEmp
				}
				req, err := f.uc.Create(ctx, who, in)
				require.NoError(t, err)
				pending = append(pending, req.ID)
				continue
			}
			i := rng.Intn(len(pending))
			id := pending[i]
			decision := entity.DecisionApprove
			if rng.Intn(3) == 0 {
				decision = entity.DecisionReject
			}
			_, err := f.uc.Decide(ctx, superAdmin(), id, decision)
			if errors.Is(err, domain.ErrInsufficientBalance) {
				continue
			}
			require.NoError(t, err)
			pending = append(pending[:i], pending[i+1:]...)

			a := f.holding(t, requesterEmp, productX)
			b := f.holding(t, colleagueEmp, productX)
			require.GreaterOrEqual(t, a, 0)
			require.GreaterOrEqual(t, b, 0)
			returned := f.balance(t, productX) - initialBalance
			require.Equal(t, initialTotal, a+b+returned, "conservación")
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas y comprobante
// ──────────────────────────────────────────────────────────────────────────────

func TestList_VisibilidadPorRolYAlcance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	eqReq, err := f.uc.Create(ctx, requester(), toColleague(productX, 1))
	require.NoError(t, err)
	consReq, err := f.uc.Create(ctx, requester(), toColleague(productPaper, 1))
	require.NoError(t, err)
	otherReq, err := f.uc.Create(ctx, colleague(), returnToStock(productX, 1))
	require.NoError(t, err)

	all, err := f.uc.List(ctx, superAdmin(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	cons, err := f.uc.List(ctx, scopedAdmin(consAdminID, entity.ProductTypeConsumable), "")
	require.NoError(t, err)
	require.Len(t, cons, 1)
	assert.Equal(t, consReq.ID, cons[0].ID)

	own, err := f.uc.List(ctx, colleague(), "")
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, otherReq.ID, own[0].ID)

	_, err = f.uc.Decide(ctx, superAdmin(), eqReq.ID, entity.DecisionReject)
	require.NoError(t, err)
	pending, err := f.uc.List(ctx, superAdmin(), entity.TransferStatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	_, err = f.uc.List(ctx, superAdmin(), "archived")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGet_Visibilidad(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req, err := f.uc.Create(ctx, requester(), toColleague(productX, 1))
	require.NoError(t, err)

	_, err = f.uc.Get(ctx, requester(), req.ID)
	assert.NoError(t, err)
	_, err = f.uc.Get(ctx, colleague(), req.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden, "el beneficiario no es el solicitante")
	_, err = f.uc.Get(ctx, scopedAdmin(consAdminID, entity.ProductTypeConsumable), req.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.uc.Get(ctx, superAdmin(), "req-nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVoucher_SoloSolicitudesAprobadas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.giveHolding(t, requesterEmp, productX, 2)
	req, err := f.uc.Create(ctx, requester(), toColleague(productX, 2))
	require.NoError(t, err)

	_, _, err = f.uc.Voucher(ctx, requester(), req.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Decide(ctx, superAdmin(), req.ID, entity.DecisionApprove)
	require.NoError(t, err)

	pdf, filename, err := f.uc.Voucher(ctx, requester(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), pdf)
	assert.Contains(t, filename, req.ID[:8])
	assert.Equal(t, "Alice", f.voucher.last.RequesterName)
	assert.Equal(t, "Direction", f.voucher.last.DeciderName)
	require.NotNil(t, f.voucher.last.ToEmployee)
	assert.Equal(t, colleagueEmp, f.voucher.last.ToEmployee.ID)
}
