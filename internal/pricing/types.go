package pricing

import "math"

// Money represents a monetary value in currency units. Computation keeps full
// floating precision; rounding happens only at presentation time.
type Money = float64

// Round2 rounds a monetary value to two decimal places for display.
func Round2(v Money) Money {
	return math.Round(v*100) / 100
}

// Size identifies a selectable item size.
type Size string

// Known pizza sizes.
const (
	SizeSmall  Size = "Small"
	SizeMedium Size = "Medium"
	SizeLarge  Size = "Large"
	SizeFamily Size = "Family"
)

// PricingType selects the pricing strategy of a menu item.
type PricingType string

const (
	// PricingFixed means the item has a single flat price.
	PricingFixed PricingType = "FIXED"
	// PricingSizeBased means the price is looked up from the size map.
	PricingSizeBased PricingType = "SIZE_BASED"
)

// Item is the pricing-relevant projection of a menu item. Richer catalog
// attributes (names, availability, sub-item slots) live in the menu package.
type Item struct {
	ID          string
	CategoryID  string
	PricingType PricingType
	Price       Money
	SizePrices  map[Size]Money
}

// Topping is a priced add-on carried on a cart line.
type Topping struct {
	ID    string
	Name  string
	Price Money
}

// Line is one cart line: a configured item with a quantity and the precomputed
// total price for the full quantity.
type Line struct {
	ItemID     string
	CategoryID string
	Size       Size
	Quantity   int
	TotalPrice Money
}

// ManualDiscountType distinguishes staff-entered discount kinds.
type ManualDiscountType string

const (
	// ManualPercentage applies a percentage to the post-deal running total.
	ManualPercentage ManualDiscountType = "PERCENTAGE"
	// ManualFixed subtracts a flat amount from the running total.
	ManualFixed ManualDiscountType = "FIXED"
)

// ManualDiscount is a single staff-entered discount. At most one is active per
// order.
type ManualDiscount struct {
	Type  ManualDiscountType
	Value float64
}

// Summary aggregates the computed order totals.
type Summary struct {
	Subtotal Money
	Discount Money
	Total    Money
}

// AppliedDeal reports one matched promotion for display purposes.
type AppliedDeal struct {
	Name         string
	TimesApplied int
	Amount       Money
}
