package menu_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-pos/internal/common"
	"github.com/noah-isme/backend-pos/internal/menu"
	"github.com/noah-isme/backend-pos/internal/pricing"
)

type fakeStore struct {
	categories map[string]menu.Category
	items      map[string]menu.Item
	toppings   map[string]menu.Topping
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		categories: map[string]menu.Category{},
		items:      map[string]menu.Item{},
		toppings:   map[string]menu.Topping{},
	}
}

func (f *fakeStore) ListCategories(context.Context) ([]menu.Category, error) {
	out := make([]menu.Category, 0, len(f.categories))
	for _, c := range f.categories {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeStore) UpsertCategory(_ context.Context, c menu.Category) error {
	f.categories[c.ID] = c
	return nil
}

func (f *fakeStore) DeleteCategory(_ context.Context, id string) error {
	if _, ok := f.categories[id]; !ok {
		return menu.ErrNotFound
	}
	delete(f.categories, id)
	return nil
}

func (f *fakeStore) ListItems(context.Context) ([]menu.Item, error) {
	out := make([]menu.Item, 0, len(f.items))
	for _, it := range f.items {
		out = append(out, it)
	}
	return out, nil
}

func (f *fakeStore) GetItem(_ context.Context, id string) (menu.Item, error) {
	it, ok := f.items[id]
	if !ok {
		return menu.Item{}, menu.ErrNotFound
	}
	return it, nil
}

func (f *fakeStore) UpsertItem(_ context.Context, it menu.Item) error {
	f.items[it.ID] = it
	return nil
}

func (f *fakeStore) DeleteItem(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return menu.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeStore) ListToppings(context.Context) ([]menu.Topping, error) {
	out := make([]menu.Topping, 0, len(f.toppings))
	for _, t := range f.toppings {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeStore) GetTopping(_ context.Context, id string) (menu.Topping, error) {
	t, ok := f.toppings[id]
	if !ok {
		return menu.Topping{}, menu.ErrNotFound
	}
	return t, nil
}

func (f *fakeStore) UpsertTopping(_ context.Context, t menu.Topping) error {
	f.toppings[t.ID] = t
	return nil
}

func (f *fakeStore) DeleteTopping(_ context.Context, id string) error {
	if _, ok := f.toppings[id]; !ok {
		return menu.ErrNotFound
	}
	delete(f.toppings, id)
	return nil
}

func newService(t *testing.T, store menu.Store) *menu.Service {
	t.Helper()
	svc, err := menu.NewService(menu.ServiceConfig{Store: store})
	require.NoError(t, err)
	return svc
}

func TestSaveItemAssignsIDAndDefaults(t *testing.T) {
	store := newFakeStore()
	svc := newService(t, store)

	saved, warnings, err := svc.SaveItem(context.Background(), menu.Item{
		Name:        "Garlic Bread",
		CategoryID:  "cat-sides",
		PricingType: pricing.PricingFixed,
		Price:       6.5,
		Available:   true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	require.Equal(t, menu.KindSingle, saved.Kind)
	require.Empty(t, warnings)
	require.Len(t, store.items, 1)
}

func TestSaveItemRejectsMissingName(t *testing.T) {
	svc := newService(t, newFakeStore())

	_, _, err := svc.SaveItem(context.Background(), menu.Item{CategoryID: "cat-pizza"})
	require.Error(t, err)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "VALIDATION", appErr.Code)
}

func TestSaveItemWarnsOnMissingSizePrice(t *testing.T) {
	svc := newService(t, newFakeStore())

	saved, warnings, err := svc.SaveItem(context.Background(), menu.Item{
		Name:           "Margherita",
		CategoryID:     "cat-pizza",
		PricingType:    pricing.PricingSizeBased,
		AvailableSizes: []pricing.Size{pricing.SizeSmall, pricing.SizeLarge, pricing.SizeFamily},
		SizePrices: map[pricing.Size]pricing.Money{
			pricing.SizeSmall: 12,
			pricing.SizeLarge: 18,
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0], "Family")
}

func TestSaveItemRejectsNegativeSizePrice(t *testing.T) {
	svc := newService(t, newFakeStore())

	_, _, err := svc.SaveItem(context.Background(), menu.Item{
		Name:        "Margherita",
		CategoryID:  "cat-pizza",
		PricingType: pricing.PricingSizeBased,
		SizePrices:  map[pricing.Size]pricing.Money{pricing.SizeSmall: -1},
	})
	require.Error(t, err)
}

func TestSnapshotAggregatesCatalog(t *testing.T) {
	store := newFakeStore()
	svc := newService(t, store)
	ctx := context.Background()

	_, err := svc.SaveCategory(ctx, menu.Category{Name: "Pizzas"})
	require.NoError(t, err)
	_, _, err = svc.SaveItem(ctx, menu.Item{Name: "Capricciosa", CategoryID: "cat-pizza", PricingType: pricing.PricingFixed, Price: 20})
	require.NoError(t, err)
	_, err = svc.SaveTopping(ctx, menu.Topping{Name: "Olives", Price: 1.5})
	require.NoError(t, err)

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Categories, 1)
	require.Len(t, snap.Items, 1)
	require.Len(t, snap.Toppings, 1)
}

func TestSaveToppingDefaultsType(t *testing.T) {
	svc := newService(t, newFakeStore())

	saved, err := svc.SaveTopping(context.Background(), menu.Topping{Name: "Chilli Flakes", Price: 0.5})
	require.NoError(t, err)
	require.Equal(t, menu.ToppingRegular, saved.Type)
}

func TestDeleteItemMissing(t *testing.T) {
	svc := newService(t, newFakeStore())
	require.ErrorIs(t, svc.DeleteItem(context.Background(), "nope"), menu.ErrNotFound)
}

func TestToPricingItemCopiesSizePrices(t *testing.T) {
	it := menu.Item{
		ID:          "item-1",
		CategoryID:  "cat-pizza",
		PricingType: pricing.PricingSizeBased,
		SizePrices:  map[pricing.Size]pricing.Money{pricing.SizeMedium: 15},
	}
	pi := menu.ToPricingItem(it)
	require.Equal(t, it.ID, pi.ID)
	require.Equal(t, pricing.Money(15), pi.SizePrices[pricing.SizeMedium])

	pi.SizePrices[pricing.SizeMedium] = 99
	require.Equal(t, pricing.Money(15), it.SizePrices[pricing.SizeMedium])
}
