package dto

import (
	"github.com/jhoicas/inventario-escolar/internal/domain/access"
	"github.com/jhoicas/inventario-escolar/internal/domain/entity"
)

// ToProductResponse entidad → salida HTTP.
func ToProductResponse(p *entity.Product) *ProductResponse {
	return &ProductResponse{
		ID:               p.ID,
		Name:             p.Name,
		Code:             p.Code,
		Barcode:          p.Barcode,
		ProductType:      string(p.Type),
		Category:         p.Category,
		Unit:             p.Unit,
		MinimumThreshold: p.MinimumThreshold,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func ToStockEntryResponse(e *entity.StockEntry) StockEntryResponse {
	return StockEntryResponse{
		ID:            e.ID,
		ProductID:     e.ProductID,
		Quantity:      e.Quantity,
		PurchaseDate:  e.PurchaseDate,
		SupplierID:    e.SupplierID,
		Supplier:      e.Supplier,
		InvoiceNumber: e.InvoiceNumber,
		UnitCost:      e.UnitCost,
		CreatedAt:     e.CreatedAt,
	}
}

func ToStockExitResponse(x *entity.StockExit) StockExitResponse {
	return StockExitResponse{
		ID:          x.ID,
		ProductID:   x.ProductID,
		Quantity:    x.Quantity,
		EmployeeID:  x.EmployeeID,
		LocationID:  x.LocationID,
		Observation: x.Observation,
		Purpose:     x.Purpose,
		Date:        x.Date,
	}
}

// ToTransferRequestResponse entidad → salida HTTP.
func ToTransferRequestResponse(r *entity.TransferRequest) TransferRequestResponse {
	return TransferRequestResponse{
		ID:             r.ID,
		RequestedBy:    r.RequestedBy,
		FromEmployeeID: r.FromEmployeeID,
		ProductID:      r.ProductID,
		Quantity:       r.Quantity,
		ToEmployeeID:   r.ToEmployeeID,
		ReturnToStock:  r.ReturnToStock,
		LocationID:     r.LocationID,
		Purpose:        r.Purpose,
		Status:         r.Status,
		RequestedAt:    r.RequestedAt,
		DecidedBy:      r.DecidedBy,
		DecidedAt:      r.DecidedAt,
	}
}

func ToNotificationResponse(n *entity.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		RelatedID: n.RelatedID,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

// ToUserResponse entidad → salida HTTP. El alcance se lee del valor persistido.
func ToUserResponse(u *entity.User) UserResponse {
	resp := UserResponse{
		ID:                  u.ID,
		Name:                u.Name,
		Email:               u.Email,
		Role:                u.Role,
		EmployeeID:          u.EmployeeID,
		AllowedProductTypes: []string{},
		CreatedAt:           u.CreatedAt,
	}
	if u.Role == entity.RoleAdmin {
		scope := access.FromStorage(u.AllowedProductTypes)
		resp.SuperAdmin = scope.IsAll()
		if !scope.IsAll() {
			resp.AllowedProductTypes = TypeNames(scope.Types())
		}
	}
	return resp
}

// TypeNames convierte tipos de producto a cadenas.
func TypeNames(types []entity.ProductType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}
