// Package pricing resolves product discounts and aggregates cart totals.
// It is a pure computation layer: no storage, no rounding until the
// presentation boundary renders amounts with two decimal places.
package pricing

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/CAHEKA/servisRest/pkg/db/models"
	"github.com/CAHEKA/servisRest/pkg/enums"
	pkgerrors "github.com/CAHEKA/servisRest/pkg/errors"
)

var (
	hundred = decimal.NewFromInt(100)
)

// PricedLine is the result of resolving one product at a given quantity.
// All amounts are exact decimals; LineTotal is never negative.
type PricedLine struct {
	ProductID    uuid.UUID
	Name         string
	Category     *string
	Quantity     int
	UnitPrice    decimal.Decimal
	LineDiscount decimal.Decimal
	LineTotal    decimal.Decimal
}

// CartSummary aggregates priced lines. Line order is preserved as given.
type CartSummary struct {
	Items                  []PricedLine
	TotalPrice             decimal.Decimal
	TotalDiscount          decimal.Decimal
	TotalPriceWithDiscount decimal.Decimal
}

// ResolvePrice applies the product's discount policy to a quantity.
//
// Percentage discounts take a share in [0,100] of the gross line price.
// Fixed discounts are per-unit amounts, so the deduction scales with
// quantity. Either way the discount is capped at the gross line price.
// An unrecognized discount type is an error, never a silent no-discount.
func ResolvePrice(product models.Product, quantity int) (PricedLine, error) {
	if quantity < 1 {
		return PricedLine{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	qty := decimal.NewFromInt(int64(quantity))
	gross := product.Price.Mul(qty)

	var discount decimal.Decimal
	switch product.DiscountType {
	case enums.DiscountTypeNone, "":
		discount = decimal.Zero
	case enums.DiscountTypePercentage:
		pct := product.DiscountAmount
		if pct.IsNegative() || pct.GreaterThan(hundred) {
			return PricedLine{}, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("percentage discount %s out of range [0,100]", pct.String()))
		}
		discount = gross.Mul(pct).Div(hundred)
	case enums.DiscountTypeFixed:
		fixed := product.DiscountAmount
		if fixed.IsNegative() {
			return PricedLine{}, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("fixed discount %s must not be negative", fixed.String()))
		}
		discount = fixed.Mul(qty)
	default:
		return PricedLine{}, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown discount type %q", product.DiscountType))
	}

	if discount.GreaterThan(gross) {
		discount = gross
	}

	return PricedLine{
		ProductID:    product.ID,
		Name:         product.Name,
		Category:     product.Category,
		Quantity:     quantity,
		UnitPrice:    product.Price,
		LineDiscount: discount,
		LineTotal:    gross.Sub(discount),
	}, nil
}

// SummarizeCart folds priced lines into cart totals. An empty slice is a
// valid cart and yields zero totals.
func SummarizeCart(lines []PricedLine) CartSummary {
	summary := CartSummary{
		Items:                  lines,
		TotalPrice:             decimal.Zero,
		TotalDiscount:          decimal.Zero,
		TotalPriceWithDiscount: decimal.Zero,
	}
	for _, line := range lines {
		gross := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		summary.TotalPrice = summary.TotalPrice.Add(gross)
		summary.TotalDiscount = summary.TotalDiscount.Add(line.LineDiscount)
		summary.TotalPriceWithDiscount = summary.TotalPriceWithDiscount.Add(line.LineTotal)
	}
	return summary
}
