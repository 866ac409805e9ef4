package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/inventario-escolar/internal/domain"
	"github.com/jhoicas/inventario-escolar/internal/domain/entity"
	"github.com/jhoicas/inventario-escolar/internal/domain/repository"
)

// ProductRepository implementa repository.ProductRepository en memoria.
type ProductRepository struct {
	s    *Store
	held bool
}

// NewProductRepository crea el repositorio.
func NewProductRepository(s *Store) *ProductRepository {
	return &ProductRepository{s: s}
}

func (r *ProductRepository) Create(_ context.Context, p *entity.Product) error {
	defer r.s.writeLock(r.held)()
	if _, ok := r.s.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	if p.Code != "" && r.codeTaken(p.Code, p.ID) {
		return domain.ErrDuplicate
	}
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *ProductRepository) GetByID(_ context.Context, id string) (*entity.Product, error) {
	defer r.s.readLock(r.held)()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *ProductRepository) Update(_ context.Context, p *entity.Product) error {
	defer r.s.writeLock(r.held)()
	if _, ok := r.s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	if p.Code != "" && r.codeTaken(p.Code, p.ID) {
		return domain.ErrDuplicate
	}
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

// Delete elimina el producto si ningún registro del libro ni solicitud lo referencia.
func (r *ProductRepository) Delete(_ context.Context, id string) error {
	defer r.s.writeLock(r.held)()
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	for _, e := range r.s.entries {
		if e.ProductID == id {
			return domain.ErrConflict
		}
	}
	for _, x := range r.s.exits {
		if x.ProductID == id {
			return domain.ErrConflict
		}
	}
	for _, t := range r.s.transfers {
		if t.ProductID == id {
			return domain.ErrConflict
		}
	}
	for _, req := range r.s.requests {
		if req.ProductID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.products, id)
	return nil
}

func (r *ProductRepository) List(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	defer r.s.readLock(r.held)()
	q := strings.ToLower(filter.Query)
	out := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		if filter.Category != "" && !strings.EqualFold(p.Category, filter.Category) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.EqualFold(p.Code, filter.Query) && !strings.EqualFold(p.Barcode, filter.Query) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *ProductRepository) codeTaken(code, exceptID string) bool {
	for _, other := range r.s.products {
		if other.ID != exceptID && strings.EqualFold(other.Code, code) {
			return true
		}
	}
	return false
}
