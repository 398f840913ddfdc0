package products

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/CAHEKA/servisRest/pkg/db/models"
	"github.com/CAHEKA/servisRest/pkg/enums"
)

// ProductDTO is the API shape of a catalog product. Money is rendered with
// two decimal places at this boundary.
type ProductDTO struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Category       *string   `json:"category,omitempty"`
	Price          string    `json:"price"`
	DiscountType   string    `json:"discount_type"`
	DiscountAmount string    `json:"discount_amount"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name           string
	Category       *string
	Price          decimal.Decimal
	DiscountType   enums.DiscountType
	DiscountAmount decimal.Decimal
}

func toDTO(p *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:             p.ID,
		Name:           p.Name,
		Category:       p.Category,
		Price:          p.Price.StringFixed(2),
		DiscountType:   p.DiscountType.String(),
		DiscountAmount: p.DiscountAmount.StringFixed(2),
	}
}
