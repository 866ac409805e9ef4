// Package memory implementa los repositorios en memoria de proceso.
// Sirve para desarrollo (STORAGE_DRIVER=memory) y para las pruebas; no persiste nada.
package memory

import (
	"sync"

	"github.com/jhoicas/inventario-escolar/internal/domain/entity"
)

// Store estado compartido por todos los repositorios en memoria.
// Un único RWMutex protege todo; TxRunner toma el lock de escritura durante la transacción
// y los repositorios atados a ella (held=true) no vuelven a bloquear.
type Store struct {
	mu sync.RWMutex

	products      map[string]*entity.Product
	employees     map[string]*entity.Employee
	users         map[string]*entity.User
	requests      map[string]*entity.TransferRequest
	entries       []*entity.StockEntry
	exits         []*entity.StockExit
	transfers     []*entity.EmployeeTransfer
	notifications []*entity.Notification
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products:  make(map[string]*entity.Product),
		employees: make(map[string]*entity.Employee),
		users:     make(map[string]*entity.User),
		requests:  make(map[string]*entity.TransferRequest),
	}
}

// AddEmployee registra un empleado. El alta de empleados no pertenece a este servicio;
// se usa para cargar datos de desarrollo y en pruebas.
func (s *Store) AddEmployee(e *entity.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *e
	s.employees[e.ID] = &cp
}

func (s *Store) readLock(held bool) func() {
	if held {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) writeLock(held bool) func() {
	if held {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// snapshot estado mínimo para deshacer una transacción: el libro solo crece
// y los mapas guardan copias que nunca se mutan en sitio.
type snapshot struct {
	products      map[string]*entity.Product
	users         map[string]*entity.User
	requests      map[string]*entity.TransferRequest
	entries       int
	exits         int
	transfers     int
	notifications int
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		products:      cloneMap(s.products),
		users:         cloneMap(s.users),
		requests:      cloneMap(s.requests),
		entries:       len(s.entries),
		exits:         len(s.exits),
		transfers:     len(s.transfers),
		notifications: len(s.notifications),
	}
}

func (s *Store) restore(snap snapshot) {
	s.products = snap.products
	s.users = snap.users
	s.requests = snap.requests
	s.entries = s.entries[:snap.entries]
	s.exits = s.exits[:snap.exits]
	s.transfers = s.transfers[:snap.transfers]
	s.notifications = s.notifications[:snap.notifications]
}

func cloneMap[V any](m map[string]*V) map[string]*V {
	out := make(map[string]*V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
