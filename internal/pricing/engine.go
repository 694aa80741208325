package pricing

// Compute calculates order totals for a cart snapshot: the subtotal, automatic
// deal discounts, the manual discount, and the final payable total, together
// with the per-rule applied-deal breakdown.
//
// This is the single canonical pricing algorithm. Both the live cart summary
// and order submission must call through here so the displayed discount always
// equals the charged discount.
//
// The computation is pure: it allocates a fresh unit pool per call and touches
// no shared state, so concurrent invocations are safe.
func Compute(lines []Line, rules []Rule, manual *ManualDiscount, autoDealsEnabled bool) (Summary, []AppliedDeal, error) {
	var subtotal Money
	for _, line := range lines {
		subtotal += line.TotalPrice
	}

	units, err := expandUnits(lines)
	if err != nil {
		return Summary{}, nil, err
	}

	var autoDiscount Money
	var deals []AppliedDeal
	if autoDealsEnabled {
		autoDiscount, deals = applyRules(units, rules)
	}

	// The manual discount applies to the running total after automatic
	// deals, never to the raw subtotal.
	running := subtotal - autoDiscount
	var manualAmount Money
	if manual != nil {
		switch manual.Type {
		case ManualPercentage:
			manualAmount = running * manual.Value / 100
		case ManualFixed:
			manualAmount = manual.Value
		}
	}

	discount := autoDiscount + manualAmount
	total := subtotal - discount
	if total < 0 {
		// The only safety net against over-discounting, applied exactly once.
		total = 0
	}
	return Summary{Subtotal: subtotal, Discount: discount, Total: total}, deals, nil
}

// applyRules runs the promotion engine over the unit pool in the fixed
// priority order: combos first, then BOGO, then percentage. Units consumed by
// an earlier rule are never discounted again by a later one.
func applyRules(units []unit, rules []Rule) (Money, []AppliedDeal) {
	var total Money
	var deals []AppliedDeal

	record := func(name string, saved Money, applied int) {
		if applied <= 0 {
			return
		}
		total += saved
		deals = append(deals, AppliedDeal{Name: name, TimesApplied: applied, Amount: saved})
	}

	for _, r := range rules {
		if combo, ok := r.(ComboRule); ok {
			saved, applied := applyCombo(units, combo)
			record(combo.Name, saved, applied)
		}
	}
	for _, r := range rules {
		if bogo, ok := r.(BogoRule); ok {
			saved, applied := applyBogo(units, bogo)
			record(bogo.Name, saved, applied)
		}
	}
	for _, r := range rules {
		if pct, ok := r.(PercentageRule); ok {
			saved, applied := applyPercentage(units, pct)
			record(pct.Name, saved, applied)
		}
	}
	return total, deals
}
