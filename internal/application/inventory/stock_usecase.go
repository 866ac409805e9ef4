package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-escolar/internal/application/dto"
	"github.com/jhoicas/inventario-escolar/internal/domain"
	"github.com/jhoicas/inventario-escolar/internal/domain/access"
	"github.com/jhoicas/inventario-escolar/internal/domain/entity"
	"github.com/jhoicas/inventario-escolar/internal/domain/inventory"
	"github.com/jhoicas/inventario-escolar/internal/domain/repository"
)

const (
	ledgerListLimit = 200 // tope de ListEntries / ListExits
	dashboardRecent = 5   // últimas entradas/salidas en el dashboard
)

// StockUseCase operaciones sobre el libro de stock: entradas, salidas, saldos y tenencias.
// Ningún saldo se guarda: todo se recalcula desde el libro en cada consulta.
type StockUseCase struct {
	productRepo  repository.ProductRepository
	employeeRepo repository.EmployeeRepository
	entryRepo    repository.StockEntryRepository
	exitRepo     repository.StockExitRepository
	transferRepo repository.EmployeeTransferRepository
	requestRepo  repository.TransferRequestRepository
	alerts       AlertNotifier
	now          func() time.Time
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	productRepo repository.ProductRepository,
	employeeRepo repository.EmployeeRepository,
	entryRepo repository.StockEntryRepository,
	exitRepo repository.StockExitRepository,
	transferRepo repository.EmployeeTransferRepository,
	requestRepo repository.TransferRequestRepository,
	alerts AlertNotifier,
) *StockUseCase {
	return &StockUseCase{
		productRepo:  productRepo,
		employeeRepo: employeeRepo,
		entryRepo:    entryRepo,
		exitRepo:     exitRepo,
		transferRepo: transferRepo,
		requestRepo:  requestRepo,
		alerts:       alerts,
		now:          time.Now,
	}
}

// ProductBalance Σ entradas − Σ salidas del producto. Puede ser negativo.
func (uc *StockUseCase) ProductBalance(ctx context.Context, productID string) (int, error) {
	if _, err := uc.product(ctx, productID); err != nil {
		return 0, err
	}
	return uc.balanceOf(ctx, productID)
}

// ProductBalanceStatus saldo del producto junto con su estado de alerta.
func (uc *StockUseCase) ProductBalanceStatus(ctx context.Context, productID string) (*dto.ProductBalanceResponse, error) {
	p, err := uc.product(ctx, productID)
	if err != nil {
		return nil, err
	}
	balance, err := uc.balanceOf(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &dto.ProductBalanceResponse{
		ProductID: p.ID,
		Balance:   balance,
		Status:    inventory.StockStatus(balance, p.MinimumThreshold),
	}, nil
}

func (uc *StockUseCase) balanceOf(ctx context.Context, productID string) (int, error) {
	in, err := uc.entryRepo.SumForProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	out, err := uc.exitRepo.SumForProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	return inventory.ProductBalance(in, out), nil
}

// EmployeeHolding cantidad del producto en poder del empleado, recalculada desde todo el historial.
func (uc *StockUseCase) EmployeeHolding(ctx context.Context, employeeID, productID string) (int, error) {
	emp, err := uc.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return 0, err
	}
	if emp == nil {
		return 0, domain.ErrNotFound
	}
	if _, err := uc.product(ctx, productID); err != nil {
		return 0, err
	}
	exits, err := uc.exitRepo.FindByEmployeeAndProduct(ctx, employeeID, productID)
	if err != nil {
		return 0, err
	}
	transfers, err := uc.transferRepo.FindByEmployeeAndProduct(ctx, employeeID, productID)
	if err != nil {
		return 0, err
	}
	return inventory.EmployeeHolding(employeeID, productID, exits, transfers), nil
}

// ViewHolding EmployeeHolding para un principal: un admin consulta a cualquier empleado,
// un usuario solo al empleado enlazado a su cuenta.
func (uc *StockUseCase) ViewHolding(ctx context.Context, principal access.Principal, employeeID, productID string) (int, error) {
	if !principal.IsAdmin() && (!principal.HasEmployee() || principal.EmployeeID != employeeID) {
		return 0, domain.ErrForbidden
	}
	return uc.EmployeeHolding(ctx, employeeID, productID)
}

// MyEquipment productos con tenencia > 0 del empleado del principal.
func (uc *StockUseCase) MyEquipment(ctx context.Context, principal access.Principal) ([]dto.HeldProductDTO, error) {
	if !principal.HasEmployee() {
		return []dto.HeldProductDTO{}, nil
	}
	exits, err := uc.exitRepo.ListByEmployee(ctx, principal.EmployeeID)
	if err != nil {
		return nil, err
	}
	transfers, err := uc.transferRepo.ListByEmployee(ctx, principal.EmployeeID)
	if err != nil {
		return nil, err
	}
	holdings := inventory.HoldingsByProduct(principal.EmployeeID, exits, transfers)

	out := make([]dto.HeldProductDTO, 0, len(holdings))
	for productID, qty := range holdings {
		if qty <= 0 {
			continue
		}
		p, err := uc.productRepo.GetByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			continue
		}
		out = append(out, dto.HeldProductDTO{
			ProductID:   p.ID,
			ProductName: p.Name,
			ProductType: string(p.Type),
			Category:    p.Category,
			Unit:        p.Unit,
			Quantity:    qty,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductName < out[j].ProductName })
	return out, nil
}

// RecordEntryInput entrada al stock general.
type RecordEntryInput struct {
	ProductID     string
	Quantity      int
	PurchaseDate  *time.Time
	SupplierID    string
	Supplier      string
	InvoiceNumber string
	UnitCost      *decimal.Decimal
}

// RecordEntry registra una entrada. Requiere admin con alcance sobre el tipo del producto.
func (uc *StockUseCase) RecordEntry(ctx context.Context, principal access.Principal, in RecordEntryInput) (*entity.StockEntry, error) {
	if in.ProductID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.product(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if !access.CanAct(principal, p.Type) {
		return nil, domain.ErrForbidden
	}
	now := uc.now()
	purchase := now
	if in.PurchaseDate != nil {
		purchase = *in.PurchaseDate
	}
	entry := &entity.StockEntry{
		ID:            uuid.New().String(),
		ProductID:     p.ID,
		Quantity:      in.Quantity,
		PurchaseDate:  purchase,
		SupplierID:    in.SupplierID,
		Supplier:      in.Supplier,
		InvoiceNumber: in.InvoiceNumber,
		UnitCost:      in.UnitCost,
		CreatedAt:     now,
		CreatedBy:     principal.UserID,
	}
	if err := uc.entryRepo.Append(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// RecordExitInput salida del stock general hacia un empleado y/o lugar.
type RecordExitInput struct {
	ProductID   string
	Quantity    int
	EmployeeID  string
	LocationID  string
	Observation string
	Purpose     string
	Date        *time.Time
}

// RecordExit registra una salida. No hay piso: el saldo del producto puede quedar negativo.
func (uc *StockUseCase) RecordExit(ctx context.Context, principal access.Principal, in RecordExitInput) (*entity.StockExit, error) {
	if in.ProductID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.product(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if !access.CanAct(principal, p.Type) {
		return nil, domain.ErrForbidden
	}
	if in.EmployeeID != "" {
		emp, err := uc.employeeRepo.GetByID(ctx, in.EmployeeID)
		if err != nil {
			return nil, err
		}
		if emp == nil {
			return nil, domain.ErrNotFound
		}
	}
	date := uc.now()
	if in.Date != nil {
		date = *in.Date
	}
	exit := &entity.StockExit{
		ID:          uuid.New().String(),
		ProductID:   p.ID,
		Quantity:    in.Quantity,
		EmployeeID:  in.EmployeeID,
		LocationID:  in.LocationID,
		Observation: in.Observation,
		Purpose:     in.Purpose,
		Date:        date,
		CreatedBy:   principal.UserID,
	}
	if err := uc.exitRepo.Append(ctx, exit); err != nil {
		return nil, err
	}
	return exit, nil
}

// ListEntries últimas entradas (todas o de un producto), más recientes primero.
func (uc *StockUseCase) ListEntries(ctx context.Context, productID string) ([]*entity.StockEntry, error) {
	return uc.entryRepo.ListRecent(ctx, productID, ledgerListLimit)
}

// ListExits últimas salidas (todas o de un producto), más recientes primero.
func (uc *StockUseCase) ListExits(ctx context.Context, productID string) ([]*entity.StockExit, error) {
	return uc.exitRepo.ListRecent(ctx, productID, ledgerListLimit)
}

// BalanceReport saldo, estado y valorización de cada producto.
//
// Productos, Σ entradas y Σ salidas se consultan en paralelo; el costo promedio
// sale de las entradas de cada producto que tienen costo unitario.
func (uc *StockUseCase) BalanceReport(ctx context.Context) ([]dto.StockBalanceDTO, error) {
	type productsResult struct {
		items []*entity.Product
		err   error
	}
	type sumsResult struct {
		sums map[string]int
		err  error
	}
	productsCh := make(chan productsResult, 1)
	entriesCh := make(chan sumsResult, 1)
	exitsCh := make(chan sumsResult, 1)

	go func() {
		items, err := uc.productRepo.List(ctx, repository.ProductFilter{})
		productsCh <- productsResult{items, err}
	}()
	go func() {
		sums, err := uc.entryRepo.SumByProduct(ctx)
		entriesCh <- sumsResult{sums, err}
	}()
	go func() {
		sums, err := uc.exitRepo.SumByProduct(ctx)
		exitsCh <- sumsResult{sums, err}
	}()

	products := <-productsCh
	entries := <-entriesCh
	exits := <-exitsCh
	if products.err != nil {
		return nil, fmt.Errorf("balance report: products: %w", products.err)
	}
	if entries.err != nil {
		return nil, fmt.Errorf("balance report: entries: %w", entries.err)
	}
	if exits.err != nil {
		return nil, fmt.Errorf("balance report: exits: %w", exits.err)
	}

	report := make([]dto.StockBalanceDTO, 0, len(products.items))
	for _, p := range products.items {
		productEntries, err := uc.entryRepo.ListByProduct(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		avg := inventory.AverageUnitCost(productEntries)
		in, out := entries.sums[p.ID], exits.sums[p.ID]
		balance := inventory.ProductBalance(in, out)
		report = append(report, dto.StockBalanceDTO{
			ProductID:        p.ID,
			ProductName:      p.Name,
			ProductType:      string(p.Type),
			Category:         p.Category,
			Unit:             p.Unit,
			MinimumThreshold: p.MinimumThreshold,
			TotalEntries:     in,
			TotalExits:       out,
			Balance:          balance,
			Status:           inventory.StockStatus(balance, p.MinimumThreshold),
			AverageUnitCost:  avg.Round(2),
			StockValue:       inventory.StockValue(balance, avg).Round(2),
		})
	}
	return report, nil
}

// Dashboard resumen para un administrador sobre los productos de su alcance.
// Dispara además las alertas de stock bajo y ruptura (deduplicadas por el notificador).
func (uc *StockUseCase) Dashboard(ctx context.Context, principal access.Principal) (*dto.DashboardSummaryDTO, error) {
	if !principal.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	report, err := uc.BalanceReport(ctx)
	if err != nil {
		return nil, err
	}

	summary := &dto.DashboardSummaryDTO{
		LowStock:      []dto.StockBalanceDTO{},
		TotalValue:    decimal.Zero,
		RecentEntries: []dto.StockEntryResponse{},
		RecentExits:   []dto.StockExitResponse{},
	}
	inScope := make(map[string]bool, len(report))
	for _, line := range report {
		pt := entity.ProductType(line.ProductType)
		if !access.CanAct(principal, pt) {
			continue
		}
		inScope[line.ProductID] = true
		summary.ProductCount++
		summary.TotalValue = summary.TotalValue.Add(line.StockValue)
		switch line.Status {
		case inventory.StockStatusLow:
			summary.LowStock = append(summary.LowStock, line)
			uc.alerts.NotifyAdminsOnce(ctx, pt, entity.NotificationStockLow,
				"Stock faible",
				fmt.Sprintf("%s : %d restant(s) (seuil %d)", line.ProductName, line.Balance, line.MinimumThreshold),
				line.ProductID)
		case inventory.StockStatusRupture:
			summary.RuptureCount++
			uc.alerts.NotifyAdminsOnce(ctx, pt, entity.NotificationStockRupture,
				"Rupture de stock",
				fmt.Sprintf("%s est en rupture de stock", line.ProductName),
				line.ProductID)
		}
	}

	filter := repository.TransferRequestFilter{Status: entity.TransferStatusPending}
	if !principal.Scope.IsAll() {
		filter.ProductTypes = principal.Scope.Types()
	}
	pending, err := uc.requestRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	summary.PendingCount = len(pending)

	// Solo movimientos de productos dentro del alcance
	recentEntries, err := uc.entryRepo.ListRecent(ctx, "", ledgerListLimit)
	if err != nil {
		return nil, err
	}
	for _, e := range recentEntries {
		if len(summary.RecentEntries) == dashboardRecent {
			break
		}
		if inScope[e.ProductID] {
			summary.RecentEntries = append(summary.RecentEntries, dto.ToStockEntryResponse(e))
		}
	}
	recentExits, err := uc.exitRepo.ListRecent(ctx, "", ledgerListLimit)
	if err != nil {
		return nil, err
	}
	for _, x := range recentExits {
		if len(summary.RecentExits) == dashboardRecent {
			break
		}
		if inScope[x.ProductID] {
			summary.RecentExits = append(summary.RecentExits, dto.ToStockExitResponse(x))
		}
	}
	return summary, nil
}

// MonthlyConsumption salidas agrupadas por mes (AAAA-MM, UTC), del más reciente al más antiguo,
// con el detalle por producto. Solo cuenta productos dentro del alcance del administrador.
func (uc *StockUseCase) MonthlyConsumption(ctx context.Context, principal access.Principal) ([]dto.MonthlyConsumptionDTO, error) {
	if !principal.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	products, err := uc.productRepo.List(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		if access.CanAct(principal, p.Type) {
			byID[p.ID] = p
		}
	}
	exits, err := uc.exitRepo.ListRecent(ctx, "", 0)
	if err != nil {
		return nil, err
	}

	months := map[string]*dto.MonthlyConsumptionDTO{}
	lines := map[string]map[string]int{} // mes → producto → índice en Details
	for _, x := range exits {
		p, ok := byID[x.ProductID]
		if !ok {
			continue
		}
		key := x.Date.UTC().Format("2006-01")
		m, ok := months[key]
		if !ok {
			m = &dto.MonthlyConsumptionDTO{Month: key, Details: []dto.ConsumptionLineDTO{}}
			months[key] = m
			lines[key] = map[string]int{}
		}
		m.TotalExits += x.Quantity
		if i, ok := lines[key][p.ID]; ok {
			m.Details[i].Quantity += x.Quantity
			continue
		}
		lines[key][p.ID] = len(m.Details)
		m.Details = append(m.Details, dto.ConsumptionLineDTO{ProductID: p.ID, ProductName: p.Name, Quantity: x.Quantity})
	}

	out := make([]dto.MonthlyConsumptionDTO, 0, len(months))
	for _, m := range months {
		sort.Slice(m.Details, func(i, j int) bool { return m.Details[i].ProductName < m.Details[j].ProductName })
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	return out, nil
}

func (uc *StockUseCase) product(ctx context.Context, id string) (*entity.Product, error) {
	if id == "" {
		return nil, domain.ErrNotFound
	}
	p, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}
