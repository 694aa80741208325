package cart

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-pos/internal/menu"
	"github.com/noah-isme/backend-pos/internal/obs"
	"github.com/noah-isme/backend-pos/internal/pricing"
)

// ErrInvalidInput is returned when the provided payload is invalid.
var ErrInvalidInput = errors.New("invalid input")

// Catalog resolves menu records for line pricing.
type Catalog interface {
	GetItem(ctx context.Context, id string) (menu.Item, error)
	GetTopping(ctx context.Context, id string) (menu.Topping, error)
}

// RuleSource supplies the active discount rules in priority order.
type RuleSource interface {
	ActiveRules(ctx context.Context) ([]pricing.Rule, error)
}

// Service encapsulates cart domain operations.
type Service struct {
	Store   Store
	Catalog Catalog
	Rules   RuleSource
	Now     func() time.Time
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Create opens a fresh cart with automatic deals enabled.
func (s *Service) Create(ctx context.Context) (Cart, error) {
	if s == nil || s.Store == nil {
		return Cart{}, errors.New("cart service not configured")
	}
	now := s.now()
	c := Cart{
		ID:               uuid.NewString(),
		AutoDealsEnabled: true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.Store.Save(ctx, c); err != nil {
		return Cart{}, fmt.Errorf("save cart: %w", err)
	}
	return c, nil
}

// Get loads a cart by ID.
func (s *Service) Get(ctx context.Context, id string) (Cart, error) {
	if s == nil || s.Store == nil {
		return Cart{}, errors.New("cart service not configured")
	}
	return s.Store.Get(ctx, id)
}

// Delete abandons a cart.
func (s *Service) Delete(ctx context.Context, id string) error {
	if s == nil || s.Store == nil {
		return errors.New("cart service not configured")
	}
	return s.Store.Delete(ctx, id)
}

// SubItemInput selects an item for one slot of a composite line.
type SubItemInput struct {
	ConfigID string       `json:"configId"`
	ItemID   string       `json:"itemId"`
	Size     pricing.Size `json:"size,omitempty"`
}

// LineInput describes a line to add.
type LineInput struct {
	ItemID           string         `json:"itemId"`
	Size             pricing.Size   `json:"size,omitempty"`
	Quantity         int            `json:"quantity"`
	AddedToppingIDs  []string       `json:"addedToppingIds,omitempty"`
	RemovedToppings  []string       `json:"removedToppings,omitempty"`
	SelectedOptionID string         `json:"selectedOptionId,omitempty"`
	SubItems         []SubItemInput `json:"subItems,omitempty"`
	Notes            string         `json:"notes,omitempty"`
}

// AddLine resolves the item against the catalog, prices it, and appends it.
func (s *Service) AddLine(ctx context.Context, cartID string, input LineInput) (Cart, error) {
	if s == nil || s.Store == nil || s.Catalog == nil {
		return Cart{}, errors.New("cart service not configured")
	}
	if input.Quantity <= 0 {
		return Cart{}, fmt.Errorf("quantity must be positive: %w", ErrInvalidInput)
	}
	c, err := s.Store.Get(ctx, cartID)
	if err != nil {
		return Cart{}, err
	}
	item, err := s.Catalog.GetItem(ctx, input.ItemID)
	if err != nil {
		if errors.Is(err, menu.ErrNotFound) {
			return Cart{}, fmt.Errorf("unknown item %q: %w", input.ItemID, ErrInvalidInput)
		}
		return Cart{}, err
	}
	if !item.Available {
		return Cart{}, fmt.Errorf("item %q is unavailable: %w", item.Name, ErrInvalidInput)
	}

	var added []pricing.Topping
	for _, id := range input.AddedToppingIDs {
		t, err := s.resolveTopping(ctx, id, input.Size)
		if err != nil {
			return Cart{}, err
		}
		added = append(added, t)
	}
	var option *pricing.Topping
	if input.SelectedOptionID != "" {
		t, err := s.resolveTopping(ctx, input.SelectedOptionID, input.Size)
		if err != nil {
			return Cart{}, err
		}
		option = &t
	}
	subItems, err := s.resolveSubItems(ctx, item, input.SubItems)
	if err != nil {
		return Cart{}, err
	}

	line := Line{
		ID:              uuid.NewString(),
		ItemID:          item.ID,
		ItemName:        item.Name,
		CategoryID:      item.CategoryID,
		Size:            input.Size,
		Quantity:        input.Quantity,
		AddedToppings:   added,
		RemovedToppings: input.RemovedToppings,
		SelectedOption:  option,
		SubItems:        subItems,
		Notes:           input.Notes,
	}
	repriceLine(&line, menu.ToPricingItem(item))

	c.Lines = append(c.Lines, line)
	c.UpdatedAt = s.now()
	if err := s.Store.Save(ctx, c); err != nil {
		return Cart{}, fmt.Errorf("save cart: %w", err)
	}
	return c, nil
}

// LineUpdate carries mutable line fields. Nil fields are left untouched.
type LineUpdate struct {
	Quantity *int    `json:"quantity,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// UpdateLine changes quantity or notes on an existing line and reprices it.
func (s *Service) UpdateLine(ctx context.Context, cartID, lineID string, update LineUpdate) (Cart, error) {
	if s == nil || s.Store == nil || s.Catalog == nil {
		return Cart{}, errors.New("cart service not configured")
	}
	if update.Quantity != nil && *update.Quantity <= 0 {
		return Cart{}, fmt.Errorf("quantity must be positive: %w", ErrInvalidInput)
	}
	c, err := s.Store.Get(ctx, cartID)
	if err != nil {
		return Cart{}, err
	}
	idx := -1
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Cart{}, fmt.Errorf("unknown line %q: %w", lineID, ErrInvalidInput)
	}
	line := &c.Lines[idx]
	if update.Quantity != nil {
		line.Quantity = *update.Quantity
	}
	if update.Notes != nil {
		line.Notes = *update.Notes
	}
	item, err := s.Catalog.GetItem(ctx, line.ItemID)
	if err == nil {
		repriceLine(line, menu.ToPricingItem(item))
	} else {
		// Item vanished from the catalog mid-order; keep the captured
		// unit price rather than zeroing a line the customer can see.
		line.TotalPrice = line.UnitPrice * pricing.Money(line.Quantity)
	}
	c.UpdatedAt = s.now()
	if err := s.Store.Save(ctx, c); err != nil {
		return Cart{}, fmt.Errorf("save cart: %w", err)
	}
	return c, nil
}

// RemoveLine deletes a line from the cart.
func (s *Service) RemoveLine(ctx context.Context, cartID, lineID string) (Cart, error) {
	if s == nil || s.Store == nil {
		return Cart{}, errors.New("cart service not configured")
	}
	c, err := s.Store.Get(ctx, cartID)
	if err != nil {
		return Cart{}, err
	}
	kept := c.Lines[:0]
	removed := false
	for _, line := range c.Lines {
		if line.ID == lineID {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	if !removed {
		return Cart{}, fmt.Errorf("unknown line %q: %w", lineID, ErrInvalidInput)
	}
	c.Lines = kept
	c.UpdatedAt = s.now()
	if err := s.Store.Save(ctx, c); err != nil {
		return Cart{}, fmt.Errorf("save cart: %w", err)
	}
	return c, nil
}

// SetManualDiscount applies or clears the staff discount on a cart.
func (s *Service) SetManualDiscount(ctx context.Context, cartID string, discount *pricing.ManualDiscount) (Cart, error) {
	if s == nil || s.Store == nil {
		return Cart{}, errors.New("cart service not configured")
	}
	if discount != nil {
		if discount.Value <= 0 {
			return Cart{}, fmt.Errorf("discount value must be positive: %w", ErrInvalidInput)
		}
		switch discount.Type {
		case pricing.ManualPercentage:
			if discount.Value > 100 {
				return Cart{}, fmt.Errorf("percentage discount cannot exceed 100: %w", ErrInvalidInput)
			}
		case pricing.ManualFixed:
		default:
			return Cart{}, fmt.Errorf("unknown discount type %q: %w", discount.Type, ErrInvalidInput)
		}
	}
	c, err := s.Store.Get(ctx, cartID)
	if err != nil {
		return Cart{}, err
	}
	c.ManualDiscount = discount
	c.UpdatedAt = s.now()
	if err := s.Store.Save(ctx, c); err != nil {
		return Cart{}, fmt.Errorf("save cart: %w", err)
	}
	return c, nil
}

// SetAutoDeals toggles automatic deal evaluation for the cart.
func (s *Service) SetAutoDeals(ctx context.Context, cartID string, enabled bool) (Cart, error) {
	if s == nil || s.Store == nil {
		return Cart{}, errors.New("cart service not configured")
	}
	c, err := s.Store.Get(ctx, cartID)
	if err != nil {
		return Cart{}, err
	}
	c.AutoDealsEnabled = enabled
	c.UpdatedAt = s.now()
	if err := s.Store.Save(ctx, c); err != nil {
		return Cart{}, fmt.Errorf("save cart: %w", err)
	}
	return c, nil
}

// Summarize prices the cart through the engine with the active rules.
func (s *Service) Summarize(ctx context.Context, cartID string) (Summary, error) {
	if s == nil || s.Store == nil || s.Rules == nil {
		return Summary{}, errors.New("cart service not configured")
	}
	c, err := s.Store.Get(ctx, cartID)
	if err != nil {
		return Summary{}, err
	}
	rules, err := s.Rules.ActiveRules(ctx)
	if err != nil {
		return Summary{}, err
	}

	start := time.Now()
	totals, applied, err := pricing.Compute(c.PricingLines(), rules, c.ManualDiscount, c.AutoDealsEnabled)
	if err != nil {
		return Summary{}, err
	}
	if obs.PricingComputeDuration != nil {
		obs.PricingComputeDuration.Observe(obs.DurationMillis(time.Since(start)))
	}
	if obs.CartRecomputeTotal != nil {
		obs.CartRecomputeTotal.Inc()
	}
	return Summary{Cart: c, Totals: totals, AppliedDeals: applied}, nil
}

// resolveTopping snapshots a topping for a line, rejecting ones the terminal
// should never have offered. Size-restricted toppings only attach to lines of
// an allowed size.
func (s *Service) resolveTopping(ctx context.Context, id string, size pricing.Size) (pricing.Topping, error) {
	t, err := s.Catalog.GetTopping(ctx, id)
	if err != nil {
		if errors.Is(err, menu.ErrNotFound) {
			return pricing.Topping{}, fmt.Errorf("unknown topping %q: %w", id, ErrInvalidInput)
		}
		return pricing.Topping{}, err
	}
	if !t.Available {
		return pricing.Topping{}, fmt.Errorf("topping %q is unavailable: %w", t.Name, ErrInvalidInput)
	}
	if len(t.AvailableSizes) > 0 && !slices.Contains(t.AvailableSizes, size) {
		return pricing.Topping{}, fmt.Errorf("topping %q is not available for size %q: %w", t.Name, size, ErrInvalidInput)
	}
	return pricing.Topping{ID: t.ID, Name: t.Name, Price: t.Price}, nil
}

// resolveSubItems validates composite selections against the item's slot
// configs and returns them in config order, the order tickets print them in.
func (s *Service) resolveSubItems(ctx context.Context, item menu.Item, inputs []SubItemInput) ([]SubItemSelection, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	if len(item.SubItemConfigs) == 0 {
		return nil, fmt.Errorf("item %q does not take sub-items: %w", item.Name, ErrInvalidInput)
	}
	byConfig := make(map[string]SubItemInput, len(inputs))
	for _, in := range inputs {
		if _, dup := byConfig[in.ConfigID]; dup {
			return nil, fmt.Errorf("duplicate sub-item for config %q: %w", in.ConfigID, ErrInvalidInput)
		}
		byConfig[in.ConfigID] = in
	}
	var out []SubItemSelection
	for _, cfg := range item.SubItemConfigs {
		in, ok := byConfig[cfg.ID]
		if !ok {
			continue
		}
		delete(byConfig, cfg.ID)
		sub, err := s.Catalog.GetItem(ctx, in.ItemID)
		if err != nil {
			if errors.Is(err, menu.ErrNotFound) {
				return nil, fmt.Errorf("unknown sub-item %q: %w", in.ItemID, ErrInvalidInput)
			}
			return nil, err
		}
		if !sub.Available {
			return nil, fmt.Errorf("sub-item %q is unavailable: %w", sub.Name, ErrInvalidInput)
		}
		if cfg.ForceItemID != "" && sub.ID != cfg.ForceItemID {
			return nil, fmt.Errorf("slot %q only takes a fixed item: %w", cfg.Name, ErrInvalidInput)
		}
		if len(cfg.AllowCategories) > 0 && !slices.Contains(cfg.AllowCategories, sub.CategoryID) {
			return nil, fmt.Errorf("item %q is not allowed in slot %q: %w", sub.Name, cfg.Name, ErrInvalidInput)
		}
		size := in.Size
		if cfg.ForceSize != "" {
			size = cfg.ForceSize
		}
		out = append(out, SubItemSelection{ConfigID: cfg.ID, ItemID: sub.ID, ItemName: sub.Name, Size: size})
	}
	for id := range byConfig {
		return nil, fmt.Errorf("unknown sub-item config %q: %w", id, ErrInvalidInput)
	}
	return out, nil
}

// repriceLine recomputes unit and total price from the catalog snapshot.
func repriceLine(line *Line, item pricing.Item) {
	line.UnitPrice = pricing.UnitPrice(item, line.Size, line.AddedToppings, line.SelectedOption)
	line.TotalPrice = line.UnitPrice * pricing.Money(line.Quantity)
}
