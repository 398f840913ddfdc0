package enums

// DiscountType is the closed set of discount policies a product can carry.
// Anything outside this set is rejected by the pricing engine rather than
// silently treated as "no discount".
type DiscountType string

const (
	DiscountTypeNone       DiscountType = "none"
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

func (d DiscountType) IsValid() bool {
	switch d {
	case DiscountTypeNone, DiscountTypePercentage, DiscountTypeFixed:
		return true
	}
	return false
}

func (d DiscountType) String() string {
	return string(d)
}
