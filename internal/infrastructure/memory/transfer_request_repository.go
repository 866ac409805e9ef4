package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-escolar/internal/domain"
	"github.com/jhoicas/inventario-escolar/internal/domain/entity"
	"github.com/jhoicas/inventario-escolar/internal/domain/repository"
)

// TransferRequestRepository implementa repository.TransferRequestRepository en memoria.
type TransferRequestRepository struct {
	s    *Store
	held bool
}

// NewTransferRequestRepository crea el repositorio.
func NewTransferRequestRepository(s *Store) *TransferRequestRepository {
	return &TransferRequestRepository{s: s}
}

func (r *TransferRequestRepository) Create(_ context.Context, req *entity.TransferRequest) error {
	defer r.s.writeLock(r.held)()
	if _, ok := r.s.requests[req.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.requests[req.ID] = cloneRequest(req)
	return nil
}

func (r *TransferRequestRepository) GetByID(_ context.Context, id string) (*entity.TransferRequest, error) {
	defer r.s.readLock(r.held)()
	req, ok := r.s.requests[id]
	if !ok {
		return nil, nil
	}
	return cloneRequest(req), nil
}

// GetForUpdate equivale a GetByID: la tx en memoria ya tiene el lock de escritura.
func (r *TransferRequestRepository) GetForUpdate(ctx context.Context, id string) (*entity.TransferRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *TransferRequestRepository) UpdateDecision(_ context.Context, req *entity.TransferRequest) error {
	defer r.s.writeLock(r.held)()
	if _, ok := r.s.requests[req.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.requests[req.ID] = cloneRequest(req)
	return nil
}

func (r *TransferRequestRepository) List(_ context.Context, filter repository.TransferRequestFilter) ([]*entity.TransferRequest, error) {
	defer r.s.readLock(r.held)()
	var allowed map[entity.ProductType]bool
	if len(filter.ProductTypes) > 0 {
		allowed = make(map[entity.ProductType]bool, len(filter.ProductTypes))
		for _, t := range filter.ProductTypes {
			allowed[t] = true
		}
	}
	out := make([]*entity.TransferRequest, 0)
	for _, req := range r.s.requests {
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		if filter.RequestedBy != "" && req.RequestedBy != filter.RequestedBy {
			continue
		}
		if allowed != nil {
			p, ok := r.s.products[req.ProductID]
			if !ok || !allowed[p.Type] {
				continue
			}
		}
		out = append(out, cloneRequest(req))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RequestedAt.Equal(out[j].RequestedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].RequestedAt.After(out[j].RequestedAt)
	})
	return truncate(out, filter.Limit), nil
}

func cloneRequest(req *entity.TransferRequest) *entity.TransferRequest {
	cp := *req
	if req.DecidedAt != nil {
		at := *req.DecidedAt
		cp.DecidedAt = &at
	}
	return &cp
}
