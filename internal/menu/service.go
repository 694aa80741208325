package menu

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-pos/internal/common"
	"github.com/noah-isme/backend-pos/internal/pricing"
)

// Service orchestrates catalog reads, admin writes, and snapshot caching.
type Service struct {
	store Store
	cache *Cache
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Store Store
	Cache *Cache
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("menu: store is required")
	}
	return &Service{store: cfg.Store, cache: cfg.Cache}, nil
}

// Snapshot returns the full catalog, preferring the Redis cache.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	if hit, err := s.cache.GetSnapshot(ctx, &snap); err == nil && hit {
		return snap, nil
	}
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("menu: list categories: %w", err)
	}
	items, err := s.store.ListItems(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("menu: list items: %w", err)
	}
	toppings, err := s.store.ListToppings(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("menu: list toppings: %w", err)
	}
	snap = Snapshot{Categories: categories, Items: items, Toppings: toppings}
	_ = s.cache.SetSnapshot(ctx, snap)
	return snap, nil
}

// Categories lists categories in display order.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	return s.store.ListCategories(ctx)
}

// GetItem fetches one menu item.
func (s *Service) GetItem(ctx context.Context, id string) (Item, error) {
	return s.store.GetItem(ctx, id)
}

// GetTopping fetches one topping.
func (s *Service) GetTopping(ctx context.Context, id string) (Topping, error) {
	return s.store.GetTopping(ctx, id)
}

// SaveCategory upserts a category and invalidates the snapshot cache.
func (s *Service) SaveCategory(ctx context.Context, c Category) (Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return Category{}, &common.AppError{Code: "VALIDATION", Message: "category name is required", HTTPStatus: http.StatusBadRequest}
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if err := s.store.UpsertCategory(ctx, c); err != nil {
		return Category{}, fmt.Errorf("menu: save category: %w", err)
	}
	_ = s.cache.Invalidate(ctx)
	return c, nil
}

// DeleteCategory removes a category.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Invalidate(ctx)
	return nil
}

// SaveItem validates and upserts a menu item. It returns non-blocking
// warnings, such as size-priced items missing a price for an advertised size.
// A missing size price does not fail the save because the register falls back
// to charging zero for the base and the shop may still be mid-edit.
func (s *Service) SaveItem(ctx context.Context, it Item) (Item, []string, error) {
	it.Name = strings.TrimSpace(it.Name)
	if it.Name == "" {
		return Item{}, nil, &common.AppError{Code: "VALIDATION", Message: "item name is required", HTTPStatus: http.StatusBadRequest}
	}
	if strings.TrimSpace(it.CategoryID) == "" {
		return Item{}, nil, &common.AppError{Code: "VALIDATION", Message: "item category is required", HTTPStatus: http.StatusBadRequest}
	}
	switch it.Kind {
	case "":
		it.Kind = KindSingle
	case KindSingle, KindHalfAndHalf, KindBundle:
	default:
		return Item{}, nil, &common.AppError{Code: "VALIDATION", Message: "unknown item type", HTTPStatus: http.StatusBadRequest, Details: map[string]any{"itemType": it.Kind}}
	}
	switch it.PricingType {
	case pricing.PricingFixed, pricing.PricingSizeBased:
	default:
		return Item{}, nil, &common.AppError{Code: "VALIDATION", Message: "unknown pricing type", HTTPStatus: http.StatusBadRequest, Details: map[string]any{"pricingType": it.PricingType}}
	}
	if it.Price < 0 {
		return Item{}, nil, &common.AppError{Code: "VALIDATION", Message: "price must not be negative", HTTPStatus: http.StatusBadRequest}
	}
	for size, price := range it.SizePrices {
		if price < 0 {
			return Item{}, nil, &common.AppError{Code: "VALIDATION", Message: "size price must not be negative", HTTPStatus: http.StatusBadRequest, Details: map[string]any{"size": size}}
		}
	}
	if it.ID == "" {
		it.ID = uuid.NewString()
	}

	warnings := sizePriceWarnings(it)

	if err := s.store.UpsertItem(ctx, it); err != nil {
		return Item{}, nil, fmt.Errorf("menu: save item: %w", err)
	}
	_ = s.cache.Invalidate(ctx)
	return it, warnings, nil
}

// DeleteItem removes a menu item.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	if err := s.store.DeleteItem(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Invalidate(ctx)
	return nil
}

// SaveTopping validates and upserts a topping.
func (s *Service) SaveTopping(ctx context.Context, t Topping) (Topping, error) {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return Topping{}, &common.AppError{Code: "VALIDATION", Message: "topping name is required", HTTPStatus: http.StatusBadRequest}
	}
	if t.Price < 0 {
		return Topping{}, &common.AppError{Code: "VALIDATION", Message: "topping price must not be negative", HTTPStatus: http.StatusBadRequest}
	}
	switch t.Type {
	case "":
		t.Type = ToppingRegular
	case ToppingRegular, ToppingSauce, ToppingBase, ToppingSide, ToppingOption:
	default:
		return Topping{}, &common.AppError{Code: "VALIDATION", Message: "unknown topping type", HTTPStatus: http.StatusBadRequest, Details: map[string]any{"type": t.Type}}
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if err := s.store.UpsertTopping(ctx, t); err != nil {
		return Topping{}, fmt.Errorf("menu: save topping: %w", err)
	}
	_ = s.cache.Invalidate(ctx)
	return t, nil
}

// DeleteTopping removes a topping.
func (s *Service) DeleteTopping(ctx context.Context, id string) error {
	if err := s.store.DeleteTopping(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Invalidate(ctx)
	return nil
}

func sizePriceWarnings(it Item) []string {
	if it.PricingType != pricing.PricingSizeBased {
		return nil
	}
	var warnings []string
	for _, size := range it.AvailableSizes {
		if price, ok := it.SizePrices[size]; !ok || price <= 0 {
			warnings = append(warnings, fmt.Sprintf("no price configured for size %s; base charges as 0 until set", size))
		}
	}
	return warnings
}
