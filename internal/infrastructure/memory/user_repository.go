package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/inventario-escolar/internal/domain"
	"github.com/jhoicas/inventario-escolar/internal/domain/entity"
)

// UserRepository implementa repository.UserRepository en memoria.
type UserRepository struct {
	s    *Store
	held bool
}

// NewUserRepository crea el repositorio.
func NewUserRepository(s *Store) *UserRepository {
	return &UserRepository{s: s}
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	defer r.s.writeLock(r.held)()
	for _, other := range r.s.users {
		if other.ID == u.ID || strings.EqualFold(other.Email, u.Email) {
			return domain.ErrDuplicate
		}
	}
	r.s.users[u.ID] = cloneUser(u)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	defer r.s.readLock(r.held)()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	defer r.s.readLock(r.held)()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *UserRepository) FindByEmployeeID(_ context.Context, employeeID string) (*entity.User, error) {
	defer r.s.readLock(r.held)()
	for _, u := range r.s.users {
		if employeeID != "" && u.EmployeeID == employeeID {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *UserRepository) ListByRole(_ context.Context, role string) ([]*entity.User, error) {
	defer r.s.readLock(r.held)()
	var out []*entity.User
	for _, u := range r.s.users {
		if u.Role == role {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r *UserRepository) UpdateAllowedProductTypes(_ context.Context, id string, value *string) error {
	defer r.s.writeLock(r.held)()
	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	cp := cloneUser(u)
	cp.AllowedProductTypes = nil
	if value != nil {
		v := *value
		cp.AllowedProductTypes = &v
	}
	r.s.users[id] = cp
	return nil
}

func (r *UserRepository) UpdateCredentials(_ context.Context, id, email, passwordHash string) error {
	defer r.s.writeLock(r.held)()
	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	for _, other := range r.s.users {
		if other.ID != id && strings.EqualFold(other.Email, email) {
			return domain.ErrDuplicate
		}
	}
	cp := cloneUser(u)
	cp.Email = email
	cp.PasswordHash = passwordHash
	r.s.users[id] = cp
	return nil
}

func cloneUser(u *entity.User) *entity.User {
	cp := *u
	if u.AllowedProductTypes != nil {
		v := *u.AllowedProductTypes
		cp.AllowedProductTypes = &v
	}
	return &cp
}

// EmployeeRepository implementa repository.EmployeeRepository en memoria.
type EmployeeRepository struct {
	s *Store
}

// NewEmployeeRepository crea el repositorio.
func NewEmployeeRepository(s *Store) *EmployeeRepository {
	return &EmployeeRepository{s: s}
}

func (r *EmployeeRepository) GetByID(_ context.Context, id string) (*entity.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.employees[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}
