package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-escolar/internal/domain/entity"
	"github.com/jhoicas/inventario-escolar/internal/domain/repository"
)

var (
	_ repository.StockEntryRepository       = (*StockEntryRepo)(nil)
	_ repository.StockExitRepository        = (*StockExitRepo)(nil)
	_ repository.EmployeeTransferRepository = (*EmployeeTransferRepo)(nil)
)

// ─── Entradas ───────────────────────────────────────────────────────────────

const entryColumns = `id, product_id, quantity, purchase_date, supplier_id, supplier, invoice_number, unit_cost, created_at, created_by`

// StockEntryRepo entradas al stock general (solo inserción).
type StockEntryRepo struct {
	q Querier
}

// NewStockEntryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockEntryRepository(q Querier) *StockEntryRepo {
	return &StockEntryRepo{q: q}
}

func (r *StockEntryRepo) Append(ctx context.Context, e *entity.StockEntry) error {
	query := `INSERT INTO stock_entries (` + entryColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.ProductID, e.Quantity, e.PurchaseDate, nullable(e.SupplierID), e.Supplier,
		e.InvoiceNumber, e.UnitCost, e.CreatedAt, nullable(e.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("insert stock entry: %w", err)
	}
	return nil
}

func (r *StockEntryRepo) SumByProduct(ctx context.Context) (map[string]int, error) {
	return sumByProduct(ctx, r.q, `SELECT product_id, SUM(quantity) FROM stock_entries GROUP BY product_id`)
}

func (r *StockEntryRepo) SumForProduct(ctx context.Context, productID string) (int, error) {
	var sum int
	if err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(quantity), 0) FROM stock_entries WHERE product_id = $1`, productID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum stock entries: %w", err)
	}
	return sum, nil
}

func (r *StockEntryRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockEntry, error) {
	return r.list(ctx, `SELECT `+entryColumns+` FROM stock_entries WHERE product_id = $1 ORDER BY created_at`, productID)
}

func (r *StockEntryRepo) ListRecent(ctx context.Context, productID string, limit int) ([]*entity.StockEntry, error) {
	query, args := recentQuery(`SELECT `+entryColumns+` FROM stock_entries`, "created_at", productID, limit)
	return r.list(ctx, query, args...)
}

func (r *StockEntryRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockEntry
	for rows.Next() {
		var e entity.StockEntry
		var supplierID, createdBy *string
		if err := rows.Scan(&e.ID, &e.ProductID, &e.Quantity, &e.PurchaseDate, &supplierID, &e.Supplier,
			&e.InvoiceNumber, &e.UnitCost, &e.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan stock entry: %w", err)
		}
		e.SupplierID = deref(supplierID)
		e.CreatedBy = deref(createdBy)
		list = append(list, &e)
	}
	return list, rows.Err()
}

// ─── Salidas ────────────────────────────────────────────────────────────────

const exitColumns = `id, product_id, quantity, employee_id, location_id, observation, purpose, date, created_by`

// StockExitRepo salidas del stock general (solo inserción).
type StockExitRepo struct {
	q Querier
}

// NewStockExitRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockExitRepository(q Querier) *StockExitRepo {
	return &StockExitRepo{q: q}
}

func (r *StockExitRepo) Append(ctx context.Context, x *entity.StockExit) error {
	query := `INSERT INTO stock_exits (` + exitColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		x.ID, x.ProductID, x.Quantity, nullable(x.EmployeeID), nullable(x.LocationID),
		x.Observation, x.Purpose, x.Date, nullable(x.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("insert stock exit: %w", err)
	}
	return nil
}

func (r *StockExitRepo) SumByProduct(ctx context.Context) (map[string]int, error) {
	return sumByProduct(ctx, r.q, `SELECT product_id, SUM(quantity) FROM stock_exits GROUP BY product_id`)
}

func (r *StockExitRepo) SumForProduct(ctx context.Context, productID string) (int, error) {
	var sum int
	if err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(quantity), 0) FROM stock_exits WHERE product_id = $1`, productID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum stock exits: %w", err)
	}
	return sum, nil
}

func (r *StockExitRepo) FindByEmployeeAndProduct(ctx context.Context, employeeID, productID string) ([]*entity.StockExit, error) {
	return r.list(ctx, `SELECT `+exitColumns+` FROM stock_exits WHERE employee_id = $1 AND product_id = $2 ORDER BY date`, employeeID, productID)
}

func (r *StockExitRepo) ListByEmployee(ctx context.Context, employeeID string) ([]*entity.StockExit, error) {
	return r.list(ctx, `SELECT `+exitColumns+` FROM stock_exits WHERE employee_id = $1 ORDER BY date`, employeeID)
}

func (r *StockExitRepo) ListRecent(ctx context.Context, productID string, limit int) ([]*entity.StockExit, error) {
	query, args := recentQuery(`SELECT `+exitColumns+` FROM stock_exits`, "date", productID, limit)
	return r.list(ctx, query, args...)
}

func (r *StockExitRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockExit, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock exits: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockExit
	for rows.Next() {
		var x entity.StockExit
		var employeeID, locationID, createdBy *string
		if err := rows.Scan(&x.ID, &x.ProductID, &x.Quantity, &employeeID, &locationID,
			&x.Observation, &x.Purpose, &x.Date, &createdBy); err != nil {
			return nil, fmt.Errorf("scan stock exit: %w", err)
		}
		x.EmployeeID = deref(employeeID)
		x.LocationID = deref(locationID)
		x.CreatedBy = deref(createdBy)
		list = append(list, &x)
	}
	return list, rows.Err()
}

// ─── Traspasos ──────────────────────────────────────────────────────────────

const transferColumns = `id, from_employee_id, to_employee_id, product_id, quantity, transfer_request_id, created_at`

// EmployeeTransferRepo traspasos entre empleados (solo inserción).
type EmployeeTransferRepo struct {
	q Querier
}

// NewEmployeeTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEmployeeTransferRepository(q Querier) *EmployeeTransferRepo {
	return &EmployeeTransferRepo{q: q}
}

func (r *EmployeeTransferRepo) Append(ctx context.Context, t *entity.EmployeeTransfer) error {
	query := `INSERT INTO employee_transfers (` + transferColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.FromEmployeeID, nullable(t.ToEmployeeID), t.ProductID, t.Quantity,
		nullable(t.TransferRequestID), t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert employee transfer: %w", err)
	}
	return nil
}

func (r *EmployeeTransferRepo) FindByEmployeeAndProduct(ctx context.Context, employeeID, productID string) ([]*entity.EmployeeTransfer, error) {
	query := `SELECT ` + transferColumns + ` FROM employee_transfers
		WHERE product_id = $2 AND (from_employee_id = $1 OR to_employee_id = $1)
		ORDER BY created_at`
	return r.list(ctx, query, employeeID, productID)
}

func (r *EmployeeTransferRepo) ListByEmployee(ctx context.Context, employeeID string) ([]*entity.EmployeeTransfer, error) {
	query := `SELECT ` + transferColumns + ` FROM employee_transfers
		WHERE from_employee_id = $1 OR to_employee_id = $1
		ORDER BY created_at`
	return r.list(ctx, query, employeeID)
}

// LockHolding toma un advisory lock transaccional por empleado+producto.
// Fuera de una tx el lock se libera al terminar la sentencia y no protege nada.
func (r *EmployeeTransferRepo) LockHolding(ctx context.Context, employeeID, productID string) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1 || ':' || $2))`, employeeID, productID); err != nil {
		return fmt.Errorf("lock holding: %w", err)
	}
	return nil
}

func (r *EmployeeTransferRepo) list(ctx context.Context, query string, args ...any) ([]*entity.EmployeeTransfer, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list employee transfers: %w", err)
	}
	defer rows.Close()
	var list []*entity.EmployeeTransfer
	for rows.Next() {
		var t entity.EmployeeTransfer
		var toEmployeeID, requestID *string
		if err := rows.Scan(&t.ID, &t.FromEmployeeID, &toEmployeeID, &t.ProductID, &t.Quantity,
			&requestID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan employee transfer: %w", err)
		}
		t.ToEmployeeID = deref(toEmployeeID)
		t.TransferRequestID = deref(requestID)
		list = append(list, &t)
	}
	return list, rows.Err()
}

// ─── Auxiliares ─────────────────────────────────────────────────────────────

func sumByProduct(ctx context.Context, q Querier, query string) (map[string]int, error) {
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sum by product: %w", err)
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var productID string
		var qty int
		if err := rows.Scan(&productID, &qty); err != nil {
			return nil, fmt.Errorf("scan sum by product: %w", err)
		}
		out[productID] = qty
	}
	return out, rows.Err()
}

// recentQuery añade filtro opcional por producto, orden descendente y límite (0 = sin límite).
func recentQuery(base, orderColumn, productID string, limit int) (string, []any) {
	query := base
	args := []any{}
	if productID != "" {
		args = append(args, productID)
		query += fmt.Sprintf(" WHERE product_id = $%d", len(args))
	}
	query += " ORDER BY " + orderColumn + " DESC, id DESC"
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	return query, args
}
