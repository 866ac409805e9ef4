package memory

import (
	"context"

	"github.com/jhoicas/inventario-escolar/internal/domain/repository"
)

// TxRunner transacciones en memoria: serializa con el lock de escritura del Store
// y restaura el estado previo si fn devuelve error.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run implementa transfer.TxRunner.
func (r *TxRunner) Run(ctx context.Context, fn func(
	requestRepo repository.TransferRequestRepository,
	productRepo repository.ProductRepository,
	entryRepo repository.StockEntryRepository,
	exitRepo repository.StockExitRepository,
	transferRepo repository.EmployeeTransferRepository,
) error) error {
	return r.run(ctx, func() error {
		return fn(
			&TransferRequestRepository{s: r.s, held: true},
			&ProductRepository{s: r.s, held: true},
			&StockEntryRepository{s: r.s, held: true},
			&StockExitRepository{s: r.s, held: true},
			&EmployeeTransferRepository{s: r.s, held: true},
		)
	})
}

// RunCatalog implementa catalog.TxRunner.
func (r *TxRunner) RunCatalog(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	entryRepo repository.StockEntryRepository,
) error) error {
	return r.run(ctx, func() error {
		return fn(
			&ProductRepository{s: r.s, held: true},
			&StockEntryRepository{s: r.s, held: true},
		)
	})
}

func (r *TxRunner) run(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	snap := r.s.snapshot()
	if err := fn(); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}
