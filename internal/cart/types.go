package cart

import (
	"time"

	"github.com/noah-isme/backend-pos/internal/pricing"
)

// SubItemSelection records the item chosen for one slot of a composite line,
// such as the left half of a half-and-half pizza or the drink in a bundle.
type SubItemSelection struct {
	ConfigID string       `json:"configId"`
	ItemID   string       `json:"itemId"`
	ItemName string       `json:"itemName"`
	Size     pricing.Size `json:"size,omitempty"`
}

// Line is one cart entry. Topping snapshots are embedded so the line reprices
// without a catalog round trip and survives later catalog edits.
type Line struct {
	ID              string            `json:"id"`
	ItemID          string            `json:"itemId"`
	ItemName        string            `json:"itemName"`
	CategoryID      string            `json:"categoryId"`
	Size            pricing.Size      `json:"size,omitempty"`
	Quantity        int               `json:"quantity"`
	AddedToppings   []pricing.Topping `json:"addedToppings,omitempty"`
	RemovedToppings []string          `json:"removedToppings,omitempty"`
	SelectedOption  *pricing.Topping  `json:"selectedOption,omitempty"`
	// SubItems is stored in the item's config order so tickets print
	// halves and bundle picks the way the menu defines them.
	SubItems []SubItemSelection `json:"subItems,omitempty"`
	Notes    string             `json:"notes,omitempty"`

	// UnitPrice and TotalPrice are recomputed on every mutation so
	// TotalPrice == UnitPrice * Quantity always holds.
	UnitPrice  pricing.Money `json:"unitPrice"`
	TotalPrice pricing.Money `json:"totalPrice"`
}

// Cart is a terminal's in-progress order, held in Redis until submission.
type Cart struct {
	ID               string                  `json:"id"`
	Lines            []Line                  `json:"lines"`
	ManualDiscount   *pricing.ManualDiscount `json:"manualDiscount,omitempty"`
	AutoDealsEnabled bool                    `json:"autoDealsEnabled"`
	CreatedAt        time.Time               `json:"createdAt"`
	UpdatedAt        time.Time               `json:"updatedAt"`
}

// PricingLines converts cart lines into engine input, preserving order.
func (c Cart) PricingLines() []pricing.Line {
	out := make([]pricing.Line, 0, len(c.Lines))
	for _, line := range c.Lines {
		out = append(out, pricing.Line{
			ItemID:     line.ItemID,
			CategoryID: line.CategoryID,
			Size:       line.Size,
			Quantity:   line.Quantity,
			TotalPrice: line.TotalPrice,
		})
	}
	return out
}

// Summary is the priced view of a cart returned to terminals.
type Summary struct {
	Cart         Cart                  `json:"cart"`
	Totals       pricing.Summary       `json:"totals"`
	AppliedDeals []pricing.AppliedDeal `json:"appliedDeals"`
}
