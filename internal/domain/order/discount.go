package order

import "github.com/shopspring/decimal"

// DiscountType represents how a discount value is interpreted
type DiscountType string

const (
	DiscountNone       DiscountType = "none"
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// IsValid checks if the type belongs to the closed set
func (t DiscountType) IsValid() bool {
	switch t {
	case DiscountNone, DiscountPercentage, DiscountFixed:
		return true
	}
	return false
}

// String returns the string representation of DiscountType
func (t DiscountType) String() string {
	return string(t)
}

// Discount pairs a type with a value. The zero value means no discount.
type Discount struct {
	Type  DiscountType    `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// Applies reports whether the discount should be transmitted at all: only
// when its type is not none and its value is greater than zero.
func (d Discount) Applies() bool {
	return d.Type != "" && d.Type != DiscountNone && d.Value.GreaterThan(decimal.Zero)
}
