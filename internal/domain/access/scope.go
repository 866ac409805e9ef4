// Package access modela quién actúa (Principal) y sobre qué tipos de producto puede actuar (Scope).
package access

import (
	"sort"
	"strings"

	"github.com/jhoicas/inventario-escolar/internal/domain"
	"github.com/jhoicas/inventario-escolar/internal/domain/entity"
)

// Scope alcance de permisos de un administrador: All o Restricted(conjunto de tipos).
// El valor cero no permite ningún tipo.
type Scope struct {
	all   bool
	types map[entity.ProductType]struct{}
}

// All alcance sin restricción (super-admin).
func All() Scope {
	return Scope{all: true}
}

// Restricted construye un alcance limitado. Si cubre todos los tipos conocidos se normaliza a All.
func Restricted(types ...entity.ProductType) (Scope, error) {
	set := make(map[entity.ProductType]struct{}, len(types))
	for _, t := range types {
		pt, ok := entity.ParseProductType(string(t))
		if !ok {
			return Scope{}, domain.ErrInvalidInput
		}
		set[pt] = struct{}{}
	}
	if len(set) == 0 {
		return Scope{}, domain.ErrInvalidInput
	}
	if len(set) == len(entity.ProductTypes) {
		return All(), nil
	}
	return Scope{types: set}, nil
}

// ParseScope valida el alcance recibido en la frontera (API).
// "", "all" y la lista completa equivalen a All; cualquier tipo desconocido es ErrInvalidInput.
func ParseScope(raw string) (Scope, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" || raw == "all" {
		return All(), nil
	}
	var types []entity.ProductType
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		types = append(types, entity.ProductType(part))
	}
	return Restricted(types...)
}

// FromStorage interpreta el valor persistido (columna nullable).
// Tolerante como el dato histórico: nil, vacío o sin tipos válidos = All.
func FromStorage(raw *string) Scope {
	if raw == nil {
		return All()
	}
	var types []entity.ProductType
	for _, part := range strings.Split(*raw, ",") {
		if pt, ok := entity.ParseProductType(part); ok {
			types = append(types, pt)
		}
	}
	s, err := Restricted(types...)
	if err != nil {
		return All()
	}
	return s
}

// IsAll indica si el alcance no tiene restricción.
func (s Scope) IsAll() bool {
	return s.all
}

// Allows indica si el alcance cubre el tipo de producto.
func (s Scope) Allows(t entity.ProductType) bool {
	if s.all {
		return true
	}
	_, ok := s.types[t]
	return ok
}

// Types devuelve los tipos cubiertos en orden estable (todos si es All).
func (s Scope) Types() []entity.ProductType {
	if s.all {
		out := make([]entity.ProductType, len(entity.ProductTypes))
		copy(out, entity.ProductTypes)
		return out
	}
	out := make([]entity.ProductType, 0, len(s.types))
	for t := range s.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// String representación compacta: "" para All, lista separada por comas si no.
func (s Scope) String() string {
	if s.all {
		return ""
	}
	types := s.Types()
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

// ToStorage valor para la columna nullable allowed_product_types.
func (s Scope) ToStorage() *string {
	if s.all {
		return nil
	}
	v := s.String()
	return &v
}
