package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-escolar/internal/domain"
	"github.com/jhoicas/inventario-escolar/internal/domain/entity"
	"github.com/jhoicas/inventario-escolar/internal/domain/repository"
)

var _ repository.TransferRequestRepository = (*TransferRequestRepo)(nil)

const requestColumns = `tr.id, tr.requested_by, tr.from_employee_id, tr.product_id, tr.quantity, tr.to_employee_id,
	tr.return_to_stock, tr.location_id, tr.purpose, tr.status, tr.requested_at, tr.decided_by, tr.decided_at`

// TransferRequestRepo solicitudes de traspaso sobre PostgreSQL (usable con pool o tx).
type TransferRequestRepo struct {
	q Querier
}

// NewTransferRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRequestRepository(q Querier) *TransferRequestRepo {
	return &TransferRequestRepo{q: q}
}

// Create persiste una solicitud nueva.
func (r *TransferRequestRepo) Create(ctx context.Context, req *entity.TransferRequest) error {
	query := `
		INSERT INTO transfer_requests (id, requested_by, from_employee_id, product_id, quantity, to_employee_id,
			return_to_stock, location_id, purpose, status, requested_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		req.ID, req.RequestedBy, req.FromEmployeeID, req.ProductID, req.Quantity, nullable(req.ToEmployeeID),
		req.ReturnToStock, nullable(req.LocationID), req.Purpose, req.Status, req.RequestedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert transfer request: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud; (nil, nil) si no existe.
func (r *TransferRequestRepo) GetByID(ctx context.Context, id string) (*entity.TransferRequest, error) {
	return r.get(ctx, `SELECT `+requestColumns+` FROM transfer_requests tr WHERE tr.id = $1`, id)
}

// GetForUpdate obtiene la solicitud con SELECT ... FOR UPDATE: una segunda decisión concurrente
// espera al commit de la primera y ve el estado ya decidido.
func (r *TransferRequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.TransferRequest, error) {
	return r.get(ctx, `SELECT `+requestColumns+` FROM transfer_requests tr WHERE tr.id = $1 FOR UPDATE`, id)
}

// UpdateDecision persiste estado, decisor y fecha. Solo actualiza solicitudes aún pendientes.
func (r *TransferRequestRepo) UpdateDecision(ctx context.Context, req *entity.TransferRequest) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE transfer_requests SET status = $2, decided_by = $3, decided_at = $4
		WHERE id = $1 AND status = 'pending'`,
		req.ID, req.Status, nullable(req.DecidedBy), req.DecidedAt,
	)
	if err != nil {
		return fmt.Errorf("update transfer decision: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyDecided
	}
	return nil
}

// List lista solicitudes, más recientes primero.
func (r *TransferRequestRepo) List(ctx context.Context, filter repository.TransferRequestFilter) ([]*entity.TransferRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM transfer_requests tr JOIN products p ON p.id = tr.product_id WHERE 1=1`
	args := []any{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND tr.status = $%d", len(args))
	}
	if filter.RequestedBy != "" {
		args = append(args, filter.RequestedBy)
		query += fmt.Sprintf(" AND tr.requested_by = $%d", len(args))
	}
	if len(filter.ProductTypes) > 0 {
		types := make([]string, len(filter.ProductTypes))
		for i, t := range filter.ProductTypes {
			types[i] = string(t)
		}
		args = append(args, types)
		query += fmt.Sprintf(" AND p.product_type = ANY($%d)", len(args))
	}
	query += " ORDER BY tr.requested_at DESC, tr.id DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfer requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.TransferRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer request: %w", err)
		}
		list = append(list, req)
	}
	return list, rows.Err()
}

func (r *TransferRequestRepo) get(ctx context.Context, query, id string) (*entity.TransferRequest, error) {
	req, err := scanRequest(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer request: %w", err)
	}
	return req, nil
}

func scanRequest(row pgx.Row) (*entity.TransferRequest, error) {
	var req entity.TransferRequest
	var toEmployeeID, locationID, decidedBy *string
	if err := row.Scan(&req.ID, &req.RequestedBy, &req.FromEmployeeID, &req.ProductID, &req.Quantity, &toEmployeeID,
		&req.ReturnToStock, &locationID, &req.Purpose, &req.Status, &req.RequestedAt, &decidedBy, &req.DecidedAt); err != nil {
		return nil, err
	}
	req.ToEmployeeID = deref(toEmployeeID)
	req.LocationID = deref(locationID)
	req.DecidedBy = deref(decidedBy)
	return &req, nil
}
