package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-escolar/internal/domain/entity"
)

// StockEntryRepository implementa repository.StockEntryRepository en memoria.
type StockEntryRepository struct {
	s    *Store
	held bool
}

// NewStockEntryRepository crea el repositorio.
func NewStockEntryRepository(s *Store) *StockEntryRepository {
	return &StockEntryRepository{s: s}
}

func (r *StockEntryRepository) Append(_ context.Context, e *entity.StockEntry) error {
	defer r.s.writeLock(r.held)()
	cp := *e
	r.s.entries = append(r.s.entries, &cp)
	return nil
}

func (r *StockEntryRepository) SumByProduct(_ context.Context) (map[string]int, error) {
	defer r.s.readLock(r.held)()
	out := make(map[string]int)
	for _, e := range r.s.entries {
		out[e.ProductID] += e.Quantity
	}
	return out, nil
}

func (r *StockEntryRepository) SumForProduct(_ context.Context, productID string) (int, error) {
	defer r.s.readLock(r.held)()
	total := 0
	for _, e := range r.s.entries {
		if e.ProductID == productID {
			total += e.Quantity
		}
	}
	return total, nil
}

func (r *StockEntryRepository) ListByProduct(_ context.Context, productID string) ([]*entity.StockEntry, error) {
	defer r.s.readLock(r.held)()
	var out []*entity.StockEntry
	for _, e := range r.s.entries {
		if e.ProductID == productID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *StockEntryRepository) ListRecent(_ context.Context, productID string, limit int) ([]*entity.StockEntry, error) {
	defer r.s.readLock(r.held)()
	var out []*entity.StockEntry
	for i := len(r.s.entries) - 1; i >= 0; i-- {
		e := r.s.entries[i]
		if productID != "" && e.ProductID != productID {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return truncate(out, limit), nil
}

// StockExitRepository implementa repository.StockExitRepository en memoria.
type StockExitRepository struct {
	s    *Store
	held bool
}

// NewStockExitRepository crea el repositorio.
func NewStockExitRepository(s *Store) *StockExitRepository {
	return &StockExitRepository{s: s}
}

func (r *StockExitRepository) Append(_ context.Context, x *entity.StockExit) error {
	defer r.s.writeLock(r.held)()
	cp := *x
	r.s.exits = append(r.s.exits, &cp)
	return nil
}

func (r *StockExitRepository) SumByProduct(_ context.Context) (map[string]int, error) {
	defer r.s.readLock(r.held)()
	out := make(map[string]int)
	for _, x := range r.s.exits {
		out[x.ProductID] += x.Quantity
	}
	return out, nil
}

func (r *StockExitRepository) SumForProduct(_ context.Context, productID string) (int, error) {
	defer r.s.readLock(r.held)()
	total := 0
	for _, x := range r.s.exits {
		if x.ProductID == productID {
			total += x.Quantity
		}
	}
	return total, nil
}

func (r *StockExitRepository) FindByEmployeeAndProduct(_ context.Context, employeeID, productID string) ([]*entity.StockExit, error) {
	defer r.s.readLock(r.held)()
	var out []*entity.StockExit
	for _, x := range r.s.exits {
		if x.EmployeeID == employeeID && x.ProductID == productID {
			cp := *x
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *StockExitRepository) ListByEmployee(_ context.Context, employeeID string) ([]*entity.StockExit, error) {
	defer r.s.readLock(r.held)()
	var out []*entity.StockExit
	for _, x := range r.s.exits {
		if x.EmployeeID == employeeID {
			cp := *x
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *StockExitRepository) ListRecent(_ context.Context, productID string, limit int) ([]*entity.StockExit, error) {
	defer r.s.readLock(r.held)()
	var out []*entity.StockExit
	for i := len(r.s.exits) - 1; i >= 0; i-- {
		x := r.s.exits[i]
		if productID != "" && x.ProductID != productID {
			continue
		}
		cp := *x
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return truncate(out, limit), nil
}

// EmployeeTransferRepository implementa repository.EmployeeTransferRepository en memoria.
type EmployeeTransferRepository struct {
	s    *Store
	held bool
}

// NewEmployeeTransferRepository crea el repositorio.
func NewEmployeeTransferRepository(s *Store) *EmployeeTransferRepository {
	return &EmployeeTransferRepository{s: s}
}

func (r *EmployeeTransferRepository) Append(_ context.Context, t *entity.EmployeeTransfer) error {
	defer r.s.writeLock(r.held)()
	cp := *t
	r.s.transfers = append(r.s.transfers, &cp)
	return nil
}

func (r *EmployeeTransferRepository) FindByEmployeeAndProduct(_ context.Context, employeeID, productID string) ([]*entity.EmployeeTransfer, error) {
	defer r.s.readLock(r.held)()
	var out []*entity.EmployeeTransfer
	for _, t := range r.s.transfers {
		if t.ProductID != productID {
			continue
		}
		if t.FromEmployeeID == employeeID || t.ToEmployeeID == employeeID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *EmployeeTransferRepository) ListByEmployee(_ context.Context, employeeID string) ([]*entity.EmployeeTransfer, error) {
	defer r.s.readLock(r.held)()
	var out []*entity.EmployeeTransfer
	for _, t := range r.s.transfers {
		if t.FromEmployeeID == employeeID || t.ToEmployeeID == employeeID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

// LockHolding no hace nada: dentro de una tx el lock de escritura del Store ya serializa.
func (r *EmployeeTransferRepository) LockHolding(_ context.Context, _, _ string) error {
	return nil
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
