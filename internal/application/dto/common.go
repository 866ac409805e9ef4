package dto

// ErrorResponse cuerpo de error HTTP.
// Available solo se informa con INSUFFICIENT_BALANCE: cantidad que el empleado tiene realmente.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Available *int   `json:"available,omitempty"`
}

// ListResponse envoltorio genérico de listados sin paginación (los listados tienen tope fijo).
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

// NewListResponse garantiza un arreglo JSON ([]) aun sin resultados.
func NewListResponse[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Count: len(items)}
}
