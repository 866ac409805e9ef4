package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-escolar/internal/application/dto"
	"github.com/jhoicas/inventario-escolar/internal/domain"
	"github.com/jhoicas/inventario-escolar/internal/domain/access"
	"github.com/jhoicas/inventario-escolar/internal/domain/entity"
	"github.com/jhoicas/inventario-escolar/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock nunca se edita aquí: se deriva del libro.
type ProductUseCase struct {
	txRunner TxRunner
	repo     repository.ProductRepository
	now      func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner TxRunner, repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, repo: repo, now: time.Now}
}

// Create crea un producto (tipo por defecto: equipment). Con InitialQuantity > 0 registra
// también la primera entrada de stock en la misma transacción.
func (uc *ProductUseCase) Create(ctx context.Context, principal access.Principal, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.MinimumThreshold < 0 || in.InitialQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	productType := entity.ProductTypeEquipment
	if strings.TrimSpace(in.ProductType) != "" {
		pt, ok := entity.ParseProductType(in.ProductType)
		if !ok {
			return nil, domain.ErrInvalidInput
		}
		productType = pt
	}
	if !access.CanAct(principal, productType) {
		return nil, domain.ErrForbidden
	}

	now := uc.now()
	product := &entity.Product{
		ID:               uuid.New().String(),
		Name:             name,
		Code:             strings.TrimSpace(in.Code),
		Barcode:          strings.TrimSpace(in.Barcode),
		Type:             productType,
		Category:         strings.TrimSpace(in.Category),
		Unit:             strings.TrimSpace(in.Unit),
		MinimumThreshold: in.MinimumThreshold,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	err := uc.txRunner.RunCatalog(ctx, func(productRepo repository.ProductRepository, entryRepo repository.StockEntryRepository) error {
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}
		if in.InitialQuantity == 0 {
			return nil
		}
		return entryRepo.Append(ctx, &entity.StockEntry{
			ID:           uuid.New().String(),
			ProductID:    product.ID,
			Quantity:     in.InitialQuantity,
			PurchaseDate: now,
			Supplier:     strings.TrimSpace(in.Supplier),
			UnitCost:     in.UnitCost,
			CreatedAt:    now,
			CreatedBy:    principal.UserID,
		})
	})
	if err != nil {
		return nil, err
	}
	return dto.ToProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToProductResponse(product), nil
}

// Update actualiza un producto. Exige alcance sobre el tipo actual y, si cambia, sobre el nuevo.
func (uc *ProductUseCase) Update(ctx context.Context, principal access.Principal, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if !access.CanAct(principal, product.Type) {
		return nil, domain.ErrForbidden
	}
	if in.ProductType != nil {
		pt, ok := entity.ParseProductType(*in.ProductType)
		if !ok {
			return nil, domain.ErrInvalidInput
		}
		if !access.CanAct(principal, pt) {
			return nil, domain.ErrForbidden
		}
		product.Type = pt
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = name
	}
	if in.Code != nil {
		product.Code = strings.TrimSpace(*in.Code)
	}
	if in.Barcode != nil {
		product.Barcode = strings.TrimSpace(*in.Barcode)
	}
	if in.Category != nil {
		product.Category = strings.TrimSpace(*in.Category)
	}
	if in.Unit != nil {
		product.Unit = strings.TrimSpace(*in.Unit)
	}
	if in.MinimumThreshold != nil {
		if *in.MinimumThreshold < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.MinimumThreshold = *in.MinimumThreshold
	}
	product.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return dto.ToProductResponse(product), nil
}

// List lista productos, opcionalmente por categoría y texto.
func (uc *ProductUseCase) List(ctx context.Context, category, query string) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx, repository.ProductFilter{
		Category: strings.TrimSpace(category),
		Query:    strings.TrimSpace(query),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *dto.ToProductResponse(p))
	}
	return items, nil
}

// Delete elimina un producto. Si el libro lo referencia, el repositorio devuelve ErrConflict.
func (uc *ProductUseCase) Delete(ctx context.Context, principal access.Principal, id string) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if !access.CanAct(principal, product.Type) {
		return domain.ErrForbidden
	}
	return uc.repo.Delete(ctx, id)
}
