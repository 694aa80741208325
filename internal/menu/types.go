package menu

import (
	"time"

	"github.com/noah-isme/backend-pos/internal/pricing"
)

// ToppingType classifies modifiers for the order screen.
type ToppingType string

const (
	ToppingRegular ToppingType = "TOPPING"
	ToppingSauce   ToppingType = "SAUCE_OPTION"
	ToppingBase    ToppingType = "BASE_OPTION"
	ToppingSide    ToppingType = "SIDE"
	ToppingOption  ToppingType = "OPTION"
)

// ItemKind distinguishes plain items from composed ones.
type ItemKind string

const (
	KindSingle      ItemKind = "SINGLE"
	KindHalfAndHalf ItemKind = "HALF_AND_HALF"
	KindBundle      ItemKind = "BUNDLE"
)

// Category groups menu items and drives kitchen ticket ordering.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
	// TicketPriority orders sections on kitchen tickets. Nil means
	// unprioritised and prints last.
	TicketPriority *int `json:"ticketPriority,omitempty"`
	SortOrder      int  `json:"sortOrder"`
}

// Topping is a modifier that can be added to an item. Price is per unit and
// folded into the line's unit price.
type Topping struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Price          pricing.Money  `json:"price"`
	Type           ToppingType    `json:"type"`
	Available      bool           `json:"available"`
	AvailableSizes []pricing.Size `json:"availableSizes,omitempty"`
}

// SubItemConfig describes one slot of a bundle or half-and-half item, such as
// "Left Half" or "Choose Drink".
type SubItemConfig struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	AllowCategories []string     `json:"allowCategories"`
	ForceSize       pricing.Size `json:"forceSize,omitempty"`
	ForceItemID     string       `json:"forceItemId,omitempty"`
}

// Item is a sellable menu entry.
type Item struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	CategoryID  string   `json:"categoryId"`
	Description string   `json:"description,omitempty"`
	Available   bool     `json:"available"`
	Kind        ItemKind `json:"itemType"`

	SubItemConfigs []SubItemConfig `json:"subItemConfigs,omitempty"`
	AllowModifiers bool            `json:"allowModifiers"`

	PricingType pricing.PricingType            `json:"pricingType"`
	Price       pricing.Money                  `json:"price,omitempty"`
	SizePrices  map[pricing.Size]pricing.Money `json:"sizePrices,omitempty"`

	AvailableSizes  []pricing.Size `json:"availableSizes"`
	DefaultToppings []string       `json:"defaultToppings"`

	RequiredSelectionIDs   []string `json:"requiredSelectionIds,omitempty"`
	RequiredSelectionLabel string   `json:"requiredSelectionLabel,omitempty"`

	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Snapshot is the full catalog served to terminals in one payload.
type Snapshot struct {
	Categories []Category `json:"categories"`
	Items      []Item     `json:"items"`
	Toppings   []Topping  `json:"toppings"`
}

// ToPricingItem converts a menu item into the shape the pricing engine
// consumes.
func ToPricingItem(it Item) pricing.Item {
	prices := make(map[pricing.Size]pricing.Money, len(it.SizePrices))
	for size, price := range it.SizePrices {
		prices[size] = price
	}
	return pricing.Item{
		ID:          it.ID,
		CategoryID:  it.CategoryID,
		PricingType: it.PricingType,
		Price:       it.Price,
		SizePrices:  prices,
	}
}
