package pricing

import "testing"

func TestUnitPriceFixedIgnoresSize(t *testing.T) {
	item := Item{ID: "m1", CategoryID: "c1", PricingType: PricingFixed, Price: 12.5}
	got := UnitPrice(item, SizeLarge, nil, nil)
	if got != 12.5 {
		t.Fatalf("expected 12.5, got %v", got)
	}
}

func TestUnitPriceSizeBased(t *testing.T) {
	item := Item{
		ID:          "m2",
		CategoryID:  "c1",
		PricingType: PricingSizeBased,
		SizePrices:  map[Size]Money{SizeSmall: 10, SizeLarge: 16},
	}
	if got := UnitPrice(item, SizeSmall, nil, nil); got != 10 {
		t.Fatalf("expected 10 for small, got %v", got)
	}
	if got := UnitPrice(item, SizeLarge, nil, nil); got != 16 {
		t.Fatalf("expected 16 for large, got %v", got)
	}
}

func TestUnitPriceMissingSizeFallsBackToZero(t *testing.T) {
	item := Item{
		ID:          "m2",
		CategoryID:  "c1",
		PricingType: PricingSizeBased,
		SizePrices:  map[Size]Money{SizeSmall: 10},
	}
	extras := []Topping{{ID: "t1", Name: "Olives", Price: 1.5}}
	option := &Topping{ID: "o1", Name: "BBQ Base", Price: 2}
	got := UnitPrice(item, SizeLarge, extras, option)
	if got != 3.5 {
		t.Fatalf("expected extras-only price 3.5, got %v", got)
	}
}

func TestUnitPriceToppingsAndOption(t *testing.T) {
	item := Item{ID: "m1", CategoryID: "c1", PricingType: PricingFixed, Price: 9}
	extras := []Topping{
		{ID: "t1", Name: "Mushroom", Price: 1},
		{ID: "t2", Name: "Ham", Price: 2},
	}
	option := &Topping{ID: "s1", Name: "Garlic Sauce", Price: 0.5}
	got := UnitPrice(item, "", extras, option)
	if got != 12.5 {
		t.Fatalf("expected 12.5, got %v", got)
	}
}

func TestUnitPriceFixedWithoutPrice(t *testing.T) {
	item := Item{ID: "m3", CategoryID: "c2", PricingType: PricingFixed}
	if got := UnitPrice(item, "", nil, nil); got != 0 {
		t.Fatalf("expected 0 for unpriced fixed item, got %v", got)
	}
}
