package cart_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-pos/internal/cart"
	"github.com/noah-isme/backend-pos/internal/menu"
	"github.com/noah-isme/backend-pos/internal/pricing"
)

type fakeCatalog struct {
	items    map[string]menu.Item
	toppings map[string]menu.Topping
}

func (f *fakeCatalog) GetItem(_ context.Context, id string) (menu.Item, error) {
	it, ok := f.items[id]
	if !ok {
		return menu.Item{}, menu.ErrNotFound
	}
	return it, nil
}

func (f *fakeCatalog) GetTopping(_ context.Context, id string) (menu.Topping, error) {
	t, ok := f.toppings[id]
	if !ok {
		return menu.Topping{}, menu.ErrNotFound
	}
	return t, nil
}

type staticRules struct {
	rules []pricing.Rule
}

func (s staticRules) ActiveRules(context.Context) ([]pricing.Rule, error) {
	return s.rules, nil
}

func newTestService(t *testing.T, rules []pricing.Rule) *cart.Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	catalog := &fakeCatalog{
		items: map[string]menu.Item{
			"item-margherita": {
				ID: "item-margherita", Name: "Margherita", CategoryID: "cat-pizza",
				Available: true, PricingType: pricing.PricingSizeBased,
				AvailableSizes: []pricing.Size{pricing.SizeSmall, pricing.SizeLarge},
				SizePrices: map[pricing.Size]pricing.Money{
					pricing.SizeSmall: 12,
					pricing.SizeLarge: 18,
				},
			},
			"item-garlic-bread": {
				ID: "item-garlic-bread", Name: "Garlic Bread", CategoryID: "cat-sides",
				Available: true, PricingType: pricing.PricingFixed, Price: 6.5,
			},
			"item-retired": {
				ID: "item-retired", Name: "Retired", CategoryID: "cat-sides",
				Available: false, PricingType: pricing.PricingFixed, Price: 5,
			},
			"item-pepperoni": {
				ID: "item-pepperoni", Name: "Pepperoni", CategoryID: "cat-pizza",
				Available: true, PricingType: pricing.PricingSizeBased,
				SizePrices: map[pricing.Size]pricing.Money{pricing.SizeLarge: 19},
			},
			"item-half-half": {
				ID: "item-half-half", Name: "Half & Half", CategoryID: "cat-pizza",
				Available: true, Kind: menu.KindHalfAndHalf,
				PricingType: pricing.PricingSizeBased,
				SizePrices:  map[pricing.Size]pricing.Money{pricing.SizeLarge: 22},
				SubItemConfigs: []menu.SubItemConfig{
					{ID: "cfg-left", Name: "Left Half", AllowCategories: []string{"cat-pizza"}},
					{ID: "cfg-right", Name: "Right Half", AllowCategories: []string{"cat-pizza"}},
				},
			},
		},
		toppings: map[string]menu.Topping{
			"top-olives":  {ID: "top-olives", Name: "Olives", Price: 1.5, Available: true},
			"opt-gf":      {ID: "opt-gf", Name: "Gluten Free Base", Price: 3, Type: menu.ToppingBase, Available: true},
			"top-retired": {ID: "top-retired", Name: "Truffle", Price: 4, Available: false},
			"top-family": {
				ID: "top-family", Name: "Party Sprinkle", Price: 2, Available: true,
				AvailableSizes: []pricing.Size{pricing.SizeFamily},
			},
		},
	}
	return &cart.Service{
		Store:   cart.NewRedisStore(client, time.Hour),
		Catalog: catalog,
		Rules:   staticRules{rules: rules},
	}
}

func TestAddLinePricesFromCatalog(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	c, err := svc.Create(ctx)
	require.NoError(t, err)
	require.True(t, c.AutoDealsEnabled)

	c, err = svc.AddLine(ctx, c.ID, cart.LineInput{
		ItemID:           "item-margherita",
		Size:             pricing.SizeLarge,
		Quantity:         2,
		AddedToppingIDs:  []string{"top-olives"},
		SelectedOptionID: "opt-gf",
	})
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)

	line := c.Lines[0]
	require.InDelta(t, 22.5, float64(line.UnitPrice), 1e-9) // 18 + 1.5 + 3
	require.InDelta(t, 45.0, float64(line.TotalPrice), 1e-9)
}

func TestAddLineMissingSizePriceChargesExtrasOnly(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	c, err := svc.Create(ctx)
	require.NoError(t, err)

	c, err = svc.AddLine(ctx, c.ID, cart.LineInput{
		ItemID:          "item-margherita",
		Size:            pricing.SizeFamily,
		Quantity:        1,
		AddedToppingIDs: []string{"top-olives"},
	})
	require.NoError(t, err)
	require.InDelta(t, 1.5, float64(c.Lines[0].TotalPrice), 1e-9)
}

func TestAddLineValidation(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	c, err := svc.Create(ctx)
	require.NoError(t, err)

	_, err = svc.AddLine(ctx, c.ID, cart.LineInput{ItemID: "item-garlic-bread", Quantity: 0})
	require.ErrorIs(t, err, cart.ErrInvalidInput)

	_, err = svc.AddLine(ctx, c.ID, cart.LineInput{ItemID: "nope", Quantity: 1})
	require.ErrorIs(t, err, cart.ErrInvalidInput)

	_, err = svc.AddLine(ctx, c.ID, cart.LineInput{ItemID: "item-retired", Quantity: 1})
	require.ErrorIs(t, err, cart.ErrInvalidInput)

	_, err = svc.AddLine(ctx, "missing-cart", cart.LineInput{ItemID: "item-garlic-bread", Quantity: 1})
	require.ErrorIs(t, err, cart.ErrNotFound)
}

func TestAddLineRejectsRestrictedToppings(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	c, err := svc.Create(ctx)
	require.NoError(t, err)

	_, err = svc.AddLine(ctx, c.ID, cart.LineInput{
		ItemID: "item-margherita", Size: pricing.SizeLarge, Quantity: 1,
		AddedToppingIDs: []string{"top-retired"},
	})
	require.ErrorIs(t, err, cart.ErrInvalidInput)

	_, err = svc.AddLine(ctx, c.ID, cart.LineInput{
		ItemID: "item-margherita", Size: pricing.SizeLarge, Quantity: 1,
		AddedToppingIDs: []string{"top-family"},
	})
	require.ErrorIs(t, err, cart.ErrInvalidInput)

	_, err = svc.AddLine(ctx, c.ID, cart.LineInput{
		ItemID: "item-margherita", Size: pricing.SizeLarge, Quantity: 1,
		SelectedOptionID: "top-retired",
	})
	require.ErrorIs(t, err, cart.ErrInvalidInput)

	c, err = svc.AddLine(ctx, c.ID, cart.LineInput{
		ItemID: "item-margherita", Size: pricing.SizeFamily, Quantity: 1,
		AddedToppingIDs: []string{"top-family"},
	})
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
}

func TestAddLineRecordsSubItemsInConfigOrder(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	c, err := svc.Create(ctx)
	require.NoError(t, err)

	c, err = svc.AddLine(ctx, c.ID, cart.LineInput{
		ItemID:   "item-half-half",
		Size:     pricing.SizeLarge,
		Quantity: 1,
		SubItems: []cart.SubItemInput{
			{ConfigID: "cfg-right", ItemID: "item-pepperoni"},
			{ConfigID: "cfg-left", ItemID: "item-margherita"},
		},
	})
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)

	subs := c.Lines[0].SubItems
	require.Len(t, subs, 2)
	require.Equal(t, "cfg-left", subs[0].ConfigID)
	require.Equal(t, "Margherita", subs[0].ItemName)
	require.Equal(t, "cfg-right", subs[1].ConfigID)
	require.Equal(t, "Pepperoni", subs[1].ItemName)
}

func TestAddLineSubItemValidation(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	c, err := svc.Create(ctx)
	require.NoError(t, err)

	// Plain items take no sub-items.
	_, err = svc.AddLine(ctx, c.ID, cart.LineInput{
		ItemID: "item-garlic-bread", Quantity: 1,
		SubItems: []cart.SubItemInput{{ConfigID: "cfg-left", ItemID: "item-margherita"}},
	})
	require.ErrorIs(t, err, cart.ErrInvalidInput)

	_, err = svc.AddLine(ctx, c.ID, cart.LineInput{
		ItemID: "item-half-half", Size: pricing.SizeLarge, Quantity: 1,
		SubItems: []cart.SubItemInput{{ConfigID: "cfg-nope", ItemID: "item-margherita"}},
	})
	require.ErrorIs(t, err, cart.ErrInvalidInput)

	_, err = svc.AddLine(ctx, c.ID, cart.LineInput{
		ItemID: "item-half-half", Size: pricing.SizeLarge, Quantity: 1,
		SubItems: []cart.SubItemInput{{ConfigID: "cfg-left", ItemID: "item-retired"}},
	})
	require.ErrorIs(t, err, cart.ErrInvalidInput)

	// Garlic bread is cat-sides; the halves only allow cat-pizza.
	_, err = svc.AddLine(ctx, c.ID, cart.LineInput{
		ItemID: "item-half-half", Size: pricing.SizeLarge, Quantity: 1,
		SubItems: []cart.SubItemInput{{ConfigID: "cfg-left", ItemID: "item-garlic-bread"}},
	})
	require.ErrorIs(t, err, cart.ErrInvalidInput)

	_, err = svc.AddLine(ctx, c.ID, cart.LineInput{
		ItemID: "item-half-half", Size: pricing.SizeLarge, Quantity: 1,
		SubItems: []cart.SubItemInput{
			{ConfigID: "cfg-left", ItemID: "item-margherita"},
			{ConfigID: "cfg-left", ItemID: "item-pepperoni"},
		},
	})
	require.ErrorIs(t, err, cart.ErrInvalidInput)
}

func TestUpdateLineKeepsTotalInvariant(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	c, err := svc.Create(ctx)
	require.NoError(t, err)
	c, err = svc.AddLine(ctx, c.ID, cart.LineInput{ItemID: "item-garlic-bread", Quantity: 1})
	require.NoError(t, err)

	qty := 3
	c, err = svc.UpdateLine(ctx, c.ID, c.Lines[0].ID, cart.LineUpdate{Quantity: &qty})
	require.NoError(t, err)
	line := c.Lines[0]
	require.Equal(t, 3, line.Quantity)
	require.InDelta(t, float64(line.UnitPrice)*3, float64(line.TotalPrice), 1e-9)

	zero := 0
	_, err = svc.UpdateLine(ctx, c.ID, line.ID, cart.LineUpdate{Quantity: &zero})
	require.ErrorIs(t, err, cart.ErrInvalidInput)
}

func TestRemoveLine(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	c, err := svc.Create(ctx)
	require.NoError(t, err)
	c, err = svc.AddLine(ctx, c.ID, cart.LineInput{ItemID: "item-garlic-bread", Quantity: 1})
	require.NoError(t, err)

	c, err = svc.RemoveLine(ctx, c.ID, c.Lines[0].ID)
	require.NoError(t, err)
	require.Empty(t, c.Lines)

	_, err = svc.RemoveLine(ctx, c.ID, "nope")
	require.ErrorIs(t, err, cart.ErrInvalidInput)
}

func TestManualDiscountValidation(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	c, err := svc.Create(ctx)
	require.NoError(t, err)

	_, err = svc.SetManualDiscount(ctx, c.ID, &pricing.ManualDiscount{Type: pricing.ManualPercentage, Value: 110})
	require.ErrorIs(t, err, cart.ErrInvalidInput)

	_, err = svc.SetManualDiscount(ctx, c.ID, &pricing.ManualDiscount{Type: pricing.ManualFixed, Value: -5})
	require.ErrorIs(t, err, cart.ErrInvalidInput)

	c, err = svc.SetManualDiscount(ctx, c.ID, &pricing.ManualDiscount{Type: pricing.ManualFixed, Value: 5})
	require.NoError(t, err)
	require.NotNil(t, c.ManualDiscount)

	c, err = svc.SetManualDiscount(ctx, c.ID, nil)
	require.NoError(t, err)
	require.Nil(t, c.ManualDiscount)
}

func TestSummarizeAppliesRulesAndManualDiscount(t *testing.T) {
	svc := newTestService(t, []pricing.Rule{
		pricing.PercentageRule{Name: "Pizza 10% Off", CategoryID: "cat-pizza", PercentOff: 10},
	})
	ctx := context.Background()

	c, err := svc.Create(ctx)
	require.NoError(t, err)
	c, err = svc.AddLine(ctx, c.ID, cart.LineInput{ItemID: "item-margherita", Size: pricing.SizeSmall, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.SetManualDiscount(ctx, c.ID, &pricing.ManualDiscount{Type: pricing.ManualFixed, Value: 4})
	require.NoError(t, err)

	summary, err := svc.Summarize(ctx, c.ID)
	require.NoError(t, err)
	// subtotal 24, auto 2.4, manual 4 on top
	require.InDelta(t, 24.0, float64(summary.Totals.Subtotal), 1e-9)
	require.InDelta(t, 6.4, float64(summary.Totals.Discount), 1e-9)
	require.InDelta(t, 17.6, float64(summary.Totals.Total), 1e-9)
	require.Len(t, summary.AppliedDeals, 1)
	require.Equal(t, "Pizza 10% Off", summary.AppliedDeals[0].Name)
}

func TestSummarizeRespectsAutoDealsToggle(t *testing.T) {
	svc := newTestService(t, []pricing.Rule{
		pricing.PercentageRule{Name: "Pizza 10% Off", CategoryID: "cat-pizza", PercentOff: 10},
	})
	ctx := context.Background()

	c, err := svc.Create(ctx)
	require.NoError(t, err)
	c, err = svc.AddLine(ctx, c.ID, cart.LineInput{ItemID: "item-margherita", Size: pricing.SizeSmall, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.SetAutoDeals(ctx, c.ID, false)
	require.NoError(t, err)

	summary, err := svc.Summarize(ctx, c.ID)
	require.NoError(t, err)
	require.Zero(t, summary.Totals.Discount)
	require.Empty(t, summary.AppliedDeals)
}
