package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/CAHEKA/servisRest/pkg/db/models"
)

// OrderItemDTO is the API shape of a persisted order line snapshot.
type OrderItemDTO struct {
	ProductID    uuid.UUID `json:"product_id"`
	Name         string    `json:"name"`
	Category     *string   `json:"category,omitempty"`
	Quantity     int       `json:"quantity"`
	UnitPrice    string    `json:"unit_price"`
	LineDiscount string    `json:"line_discount"`
	LineTotal    string    `json:"line_total"`
}

// OrderDTO is the API shape of a persisted order.
type OrderDTO struct {
	ID            uuid.UUID      `json:"id"`
	OrderNumber   int64          `json:"order_number"`
	TotalPrice    string         `json:"total_price"`
	TotalDiscount string         `json:"total_discount"`
	Total         string         `json:"total"`
	CreatedAt     time.Time      `json:"created_at"`
	Items         []OrderItemDTO `json:"items"`
}

func toDTO(order *models.Order) *OrderDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			ProductID:    item.ProductID,
			Name:         item.Name,
			Category:     item.Category,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice.StringFixed(2),
			LineDiscount: item.LineDiscount.StringFixed(2),
			LineTotal:    item.LineTotal.StringFixed(2),
		})
	}
	return &OrderDTO{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		TotalPrice:    order.TotalPrice.StringFixed(2),
		TotalDiscount: order.TotalDiscount.StringFixed(2),
		Total:         order.Total.StringFixed(2),
		CreatedAt:     order.CreatedAt,
		Items:         items,
	}
}
