package catalog

import (
	"context"

	"github.com/jhoicas/inventario-escolar/internal/domain/repository"
)

// TxRunner ejecuta el alta de un producto y su entrada inicial en una sola transacción.
type TxRunner interface {
	RunCatalog(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		entryRepo repository.StockEntryRepository,
	) error) error
}
