package entity

import (
	"strings"
	"time"
)

// ProductType distingue el material que permanece (equipo) del que se consume.
type ProductType string

// Tipos de producto válidos.
const (
	ProductTypeEquipment  ProductType = "equipment"
	ProductTypeConsumable ProductType = "consumable"
)

// ProductTypes lista los tipos en orden estable.
var ProductTypes = []ProductType{ProductTypeEquipment, ProductTypeConsumable}

// ParseProductType normaliza el valor recibido; ok=false si no es un tipo conocido.
func ParseProductType(s string) (ProductType, bool) {
	switch ProductType(strings.ToLower(strings.TrimSpace(s))) {
	case ProductTypeEquipment:
		return ProductTypeEquipment, true
	case ProductTypeConsumable:
		return ProductTypeConsumable, true
	}
	return "", false
}

// Product representa un artículo del inventario del establecimiento.
// El stock no se guarda aquí: se deriva siempre del libro de entradas y salidas.
type Product struct {
	ID               string
	Name             string
	Code             string
	Barcode          string
	Type             ProductType
	Category         string
	Unit             string
	MinimumThreshold int // umbral de alerta; 0 = sin alerta de stock bajo
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
