package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order aggregates the priced snapshot taken at checkout. OrderNumber is
// allocated by the store's sequence, monotonically increasing and globally
// unique; it is never derived from an order count.
type Order struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber   int64           `gorm:"column:order_number;not null;uniqueIndex"`
	UserID        uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	TotalPrice    decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null"`
	TotalDiscount decimal.Decimal `gorm:"column:total_discount;type:numeric(12,2);not null"`
	Total         decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}
