package pricing

// Rule is the closed set of automatic discount rules. Rules are applied in a
// fixed priority order (combo, then BOGO, then percentage) and within each kind
// in the order the rules are listed. That ordering is part of the observable
// contract: changing it changes computed discounts.
type Rule interface {
	// RuleName returns the display name used in the applied-deal breakdown.
	RuleName() string

	rule()
}

// ComboRequirement restricts one slot of a combo bundle.
type ComboRequirement struct {
	CategoryID string
	Quantity   int
	// ItemID, when non-empty, restricts the slot to a specific menu item.
	ItemID string
	// Size, when non-empty, restricts the slot to a specific size.
	Size Size
}

// ComboRule sells a specific multi-category bundle for a fixed total price.
// The discount is the excess of the matched units' combined original price
// over the bundle price, floored at zero.
type ComboRule struct {
	Name         string
	BundlePrice  Money
	Requirements []ComboRequirement
}

// RuleName implements Rule.
func (r ComboRule) RuleName() string { return r.Name }

func (ComboRule) rule() {}

// BogoRule discounts the cheapest eligible units in a category: for every
// Buy+Get units, Get units receive PercentOff percent off.
type BogoRule struct {
	Name       string
	CategoryID string
	Buy        int
	Get        int
	PercentOff float64
}

// RuleName implements Rule.
func (r BogoRule) RuleName() string { return r.Name }

func (BogoRule) rule() {}

// PercentageRule discounts every remaining unit in a category by PercentOff
// percent.
type PercentageRule struct {
	Name       string
	CategoryID string
	PercentOff float64
}

// RuleName implements Rule.
func (r PercentageRule) RuleName() string { return r.Name }

func (PercentageRule) rule() {}
