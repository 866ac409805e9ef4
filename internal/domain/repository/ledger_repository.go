package repository

import (
	"context"

	"github.com/jhoicas/inventario-escolar/internal/domain/entity"
)

// El libro (ledger) es de solo inserción: estos puertos no exponen Update ni Delete.

// StockEntryRepository entradas al stock general.
type StockEntryRepository interface {
	Append(ctx context.Context, entry *entity.StockEntry) error
	// SumByProduct devuelve Σ cantidad por producto (productos sin entradas no aparecen).
	SumByProduct(ctx context.Context) (map[string]int, error)
	SumForProduct(ctx context.Context, productID string) (int, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockEntry, error)
	// ListRecent lista las últimas entradas, opcionalmente de un producto (productID vacío = todas).
	ListRecent(ctx context.Context, productID string, limit int) ([]*entity.StockEntry, error)
}

// StockExitRepository salidas del stock general.
type StockExitRepository interface {
	Append(ctx context.Context, exit *entity.StockExit) error
	SumByProduct(ctx context.Context) (map[string]int, error)
	SumForProduct(ctx context.Context, productID string) (int, error)
	FindByEmployeeAndProduct(ctx context.Context, employeeID, productID string) ([]*entity.StockExit, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]*entity.StockExit, error)
	ListRecent(ctx context.Context, productID string, limit int) ([]*entity.StockExit, error)
}

// EmployeeTransferRepository traspasos entre empleados (o hacia el stock).
type EmployeeTransferRepository interface {
	Append(ctx context.Context, transfer *entity.EmployeeTransfer) error
	// FindByEmployeeAndProduct traspasos donde el empleado es origen o destino.
	FindByEmployeeAndProduct(ctx context.Context, employeeID, productID string) ([]*entity.EmployeeTransfer, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]*entity.EmployeeTransfer, error)
	// LockHolding serializa, hasta el fin de la transacción, las operaciones sobre la tenencia employee+product.
	LockHolding(ctx context.Context, employeeID, productID string) error
}
