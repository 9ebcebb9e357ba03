package inventory

import (
	"strings"

	"github.com/gadgetstock/backend/internal/domain/shared"
)

// ProductType is the model a unit is an instance of (e.g. "Phone X 128GB")
type ProductType struct {
	shared.BaseEntity
	Name  string
	Brand string
}

// NewProductType creates a product type
func NewProductType(name, brand string) (*ProductType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Product type name cannot be empty")
	}
	return &ProductType{BaseEntity: shared.NewBaseEntity(), Name: name, Brand: strings.TrimSpace(brand)}, nil
}

// Accessory is a non-serialized article counted per branch in the stock ledger
type Accessory struct {
	shared.BaseEntity
	Name string
	SKU  string
}

// NewAccessory creates an accessory
func NewAccessory(name, sku string) (*Accessory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Accessory name cannot be empty")
	}
	return &Accessory{BaseEntity: shared.NewBaseEntity(), Name: name, SKU: strings.TrimSpace(sku)}, nil
}
