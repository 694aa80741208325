package deals

import (
	"time"

	"github.com/noah-isme/backend-pos/internal/pricing"
)

// RuleType enumerates the supported promotion kinds.
type RuleType string

const (
	TypeCombo      RuleType = "COMBO"
	TypeBogo       RuleType = "BOGO"
	TypePercentage RuleType = "PERCENTAGE"
)

// Requirement is one slot of a combo bundle.
type Requirement struct {
	CategoryID string       `json:"categoryId" validate:"required"`
	Quantity   int          `json:"quantity" validate:"gt=0"`
	ItemID     string       `json:"requiredItemId,omitempty"`
	Size       pricing.Size `json:"requiredSize,omitempty"`
}

// Rule is a stored discount rule. Value carries the bundle price for combos
// and the percentage for the other two kinds.
type Rule struct {
	ID    string   `json:"id"`
	Name  string   `json:"name" validate:"required"`
	Type  RuleType `json:"type" validate:"required,oneof=COMBO BOGO PERCENTAGE"`
	Value float64  `json:"value" validate:"gte=0"`

	TargetCategoryID string        `json:"targetCategoryId,omitempty"`
	BuyQuantity      int           `json:"buyQuantity,omitempty"`
	GetQuantity      int           `json:"getQuantity,omitempty"`
	Requirements     []Requirement `json:"comboRequirements,omitempty" validate:"dive"`

	Active    bool      `json:"active"`
	Priority  int       `json:"priority"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// ToPricingRule converts a stored rule into the engine's sum type. It reports
// false for rows the engine cannot evaluate, which the caller skips the same
// way the engine skips malformed rules.
func (r Rule) ToPricingRule() (pricing.Rule, bool) {
	switch r.Type {
	case TypeCombo:
		if len(r.Requirements) == 0 {
			return nil, false
		}
		reqs := make([]pricing.ComboRequirement, 0, len(r.Requirements))
		for _, req := range r.Requirements {
			reqs = append(reqs, pricing.ComboRequirement{
				CategoryID: req.CategoryID,
				Quantity:   req.Quantity,
				ItemID:     req.ItemID,
				Size:       req.Size,
			})
		}
		return pricing.ComboRule{Name: r.Name, BundlePrice: r.Value, Requirements: reqs}, true
	case TypeBogo:
		if r.TargetCategoryID == "" || r.BuyQuantity <= 0 || r.GetQuantity <= 0 {
			return nil, false
		}
		return pricing.BogoRule{
			Name:       r.Name,
			CategoryID: r.TargetCategoryID,
			Buy:        r.BuyQuantity,
			Get:        r.GetQuantity,
			PercentOff: r.Value,
		}, true
	case TypePercentage:
		if r.TargetCategoryID == "" {
			return nil, false
		}
		return pricing.PercentageRule{Name: r.Name, CategoryID: r.TargetCategoryID, PercentOff: r.Value}, true
	default:
		return nil, false
	}
}

// ToPricingRules converts stored rules in order, dropping unconvertible rows.
func ToPricingRules(rules []Rule) []pricing.Rule {
	out := make([]pricing.Rule, 0, len(rules))
	for _, r := range rules {
		if converted, ok := r.ToPricingRule(); ok {
			out = append(out, converted)
		}
	}
	return out
}
