package pricing

import "testing"

func TestExpandUnitsPreservesOrderAndBakesToppings(t *testing.T) {
	// A line total of $27 over 2 units means toppings are already baked in:
	// every unit prices at $13.50.
	lines := []Line{
		{ItemID: "m1", CategoryID: "c1", Quantity: 2, TotalPrice: 27},
		{ItemID: "m2", CategoryID: "c2", Quantity: 1, TotalPrice: 4},
	}
	units, err := expandUnits(lines)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(units) != 3 {
		t.Fatalf("expected 3 units, got %d", len(units))
	}
	if units[0].itemID != "m1" || units[1].itemID != "m1" || units[2].itemID != "m2" {
		t.Fatalf("unit order does not follow cart order: %+v", units)
	}
	if units[0].unitPrice != 13.5 || units[1].unitPrice != 13.5 {
		t.Fatalf("expected baked unit price 13.5, got %v", units[0].unitPrice)
	}
	for i, u := range units {
		if u.used {
			t.Fatalf("unit %d should start unused", i)
		}
	}
}

func TestMatchComboOnceDoesNotReuseTentativeMatches(t *testing.T) {
	// Two requirements over the same category must claim distinct units.
	units := []unit{
		{itemID: "m1", categoryID: "c1", unitPrice: 10},
		{itemID: "m2", categoryID: "c1", unitPrice: 12},
	}
	reqs := []ComboRequirement{
		{CategoryID: "c1", Quantity: 1},
		{CategoryID: "c1", Quantity: 1},
	}
	matched := matchComboOnce(units, reqs)
	if len(matched) != 2 {
		t.Fatalf("expected both units matched, got %v", matched)
	}
	if matched[0] == matched[1] {
		t.Fatalf("requirements reused the same unit: %v", matched)
	}

	// With only one unit available the second requirement must fail the
	// whole attempt.
	single := []unit{{itemID: "m1", categoryID: "c1", unitPrice: 10}}
	if got := matchComboOnce(single, reqs); got != nil {
		t.Fatalf("expected no match, got %v", got)
	}
}

func TestApplyComboMatchesInPoolOrder(t *testing.T) {
	units := []unit{
		{itemID: "m1", categoryID: "c1", unitPrice: 20},
		{itemID: "m2", categoryID: "c1", unitPrice: 10},
	}
	rule := ComboRule{
		Name:         "Single Slot",
		BundlePrice:  15,
		Requirements: []ComboRequirement{{CategoryID: "c1", Quantity: 1}},
	}
	saved, applied := applyCombo(units, rule)
	// First attempt consumes the first unit in pool order ($20, saves $5);
	// the second attempt consumes the $10 unit which saves nothing.
	if applied != 2 {
		t.Fatalf("expected two applications, got %d", applied)
	}
	if saved != 5 {
		t.Fatalf("expected total saving 5, got %v", saved)
	}
	if !units[0].used || !units[1].used {
		t.Fatalf("expected both units consumed")
	}
}

func TestApplyBogoLeavesBuyUnitsAvailable(t *testing.T) {
	units := []unit{
		{itemID: "m1", categoryID: "c4", unitPrice: 5},
		{itemID: "m2", categoryID: "c4", unitPrice: 8},
		{itemID: "m3", categoryID: "c4", unitPrice: 6},
	}
	rule := BogoRule{Name: "BOGO", CategoryID: "c4", Buy: 1, Get: 1, PercentOff: 100}
	saved, groups := applyBogo(units, rule)
	if groups != 1 {
		t.Fatalf("expected one group, got %d", groups)
	}
	if saved != 5 {
		t.Fatalf("expected cheapest unit discounted, saved %v", saved)
	}
	if !units[0].used {
		t.Fatalf("expected the $5 unit consumed")
	}
	if units[1].used || units[2].used {
		t.Fatalf("only the discounted unit should be marked used")
	}
}

func TestApplyPercentageConsumesRemainder(t *testing.T) {
	units := []unit{
		{itemID: "m1", categoryID: "c2", unitPrice: 10, used: true},
		{itemID: "m2", categoryID: "c2", unitPrice: 10},
		{itemID: "m3", categoryID: "c3", unitPrice: 10},
	}
	saved, count := applyPercentage(units, PercentageRule{Name: "20%", CategoryID: "c2", PercentOff: 20})
	if count != 1 {
		t.Fatalf("expected one unit discounted, got %d", count)
	}
	if saved != 2 {
		t.Fatalf("expected saving 2, got %v", saved)
	}
	if units[2].used {
		t.Fatalf("unit in another category must not be touched")
	}
}
