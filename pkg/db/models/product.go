package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/CAHEKA/servisRest/pkg/enums"
)

// Product represents a catalog listing. Price and discount amount are stored
// as exact decimals; the pricing engine never touches floats.
type Product struct {
	ID             uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string             `gorm:"column:name;not null"`
	Category       *string            `gorm:"column:category"`
	Price          decimal.Decimal    `gorm:"column:price;type:numeric(12,2);not null"`
	DiscountType   enums.DiscountType `gorm:"column:discount_type;type:text;not null;default:'none'"`
	DiscountAmount decimal.Decimal    `gorm:"column:discount_amount;type:numeric(12,2);not null;default:0"`
	IsActive       bool               `gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
