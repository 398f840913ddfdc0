package cart

import (
	"github.com/google/uuid"

	"github.com/CAHEKA/servisRest/internal/pricing"
)

// CartItemDTO is the API shape of a priced cart line.
type CartItemDTO struct {
	ProductID    uuid.UUID `json:"product_id"`
	Name         string    `json:"name"`
	Category     *string   `json:"category,omitempty"`
	Quantity     int       `json:"quantity"`
	UnitPrice    string    `json:"unit_price"`
	LineDiscount string    `json:"line_discount"`
	LineTotal    string    `json:"line_total"`
}

// CartSummaryDTO is the API shape of a priced cart. Amounts are rendered
// with two decimal places here and nowhere earlier.
type CartSummaryDTO struct {
	Items                  []CartItemDTO `json:"items"`
	TotalPrice             string        `json:"total_price"`
	TotalDiscount          string        `json:"total_discount"`
	TotalPriceWithDiscount string        `json:"total_price_with_discount"`
}

func toSummaryDTO(summary pricing.CartSummary) *CartSummaryDTO {
	items := make([]CartItemDTO, 0, len(summary.Items))
	for _, line := range summary.Items {
		items = append(items, CartItemDTO{
			ProductID:    line.ProductID,
			Name:         line.Name,
			Category:     line.Category,
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice.StringFixed(2),
			LineDiscount: line.LineDiscount.StringFixed(2),
			LineTotal:    line.LineTotal.StringFixed(2),
		})
	}
	return &CartSummaryDTO{
		Items:                  items,
		TotalPrice:             summary.TotalPrice.StringFixed(2),
		TotalDiscount:          summary.TotalDiscount.StringFixed(2),
		TotalPriceWithDiscount: summary.TotalPriceWithDiscount.StringFixed(2),
	}
}
