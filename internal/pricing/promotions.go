package pricing

import "sort"

// applyCombo greedily matches whole bundles against unused units. Each attempt
// must satisfy every requirement simultaneously; units tentatively matched by
// an earlier requirement in the same attempt are not reusable by a later one.
// Matching repeats until a full bundle can no longer be assembled.
func applyCombo(units []unit, rule ComboRule) (Money, int) {
	if len(rule.Requirements) == 0 {
		return 0, 0
	}
	var saved Money
	var applied int
	for {
		matched := matchComboOnce(units, rule.Requirements)
		if matched == nil {
			break
		}
		var original Money
		for _, idx := range matched {
			units[idx].used = true
			original += units[idx].unitPrice
		}
		discount := original - rule.BundlePrice
		if discount < 0 {
			// A combo never increases the price.
			discount = 0
		}
		saved += discount
		applied++
	}
	return saved, applied
}

// matchComboOnce attempts one full bundle match, scanning unused units in pool
// order per requirement. It returns the matched indices, or nil when any
// requirement cannot be satisfied.
func matchComboOnce(units []unit, reqs []ComboRequirement) []int {
	var matched []int
	taken := make(map[int]bool)
	for _, req := range reqs {
		found := 0
		for i := range units {
			if found >= req.Quantity {
				break
			}
			u := units[i]
			if u.used || taken[i] {
				continue
			}
			if u.categoryID != req.CategoryID {
				continue
			}
			if req.ItemID != "" && u.itemID != req.ItemID {
				continue
			}
			if req.Size != "" && u.size != req.Size {
				continue
			}
			matched = append(matched, i)
			taken[i] = true
			found++
		}
		if found < req.Quantity {
			return nil
		}
	}
	return matched
}

// applyBogo discounts the cheapest eligible units: for every Buy+Get units in
// the target category, Get units receive PercentOff off. Discounting the
// cheapest units first matches standard retail BOGO policy.
func applyBogo(units []unit, rule BogoRule) (Money, int) {
	if rule.CategoryID == "" || rule.Buy <= 0 || rule.Get <= 0 {
		return 0, 0
	}
	var available []int
	for i := range units {
		if !units[i].used && units[i].categoryID == rule.CategoryID {
			available = append(available, i)
		}
	}
	sort.SliceStable(available, func(a, b int) bool {
		return units[available[a]].unitPrice < units[available[b]].unitPrice
	})
	groupSize := rule.Buy + rule.Get
	groups := len(available) / groupSize
	toDiscount := groups * rule.Get
	var saved Money
	for i := 0; i < toDiscount; i++ {
		idx := available[i]
		saved += units[idx].unitPrice * rule.PercentOff / 100
		units[idx].used = true
	}
	return saved, groups
}

// applyPercentage discounts every remaining unused unit in the target category.
// A rule without a target category is skipped.
func applyPercentage(units []unit, rule PercentageRule) (Money, int) {
	if rule.CategoryID == "" {
		return 0, 0
	}
	var saved Money
	var count int
	for i := range units {
		if units[i].used || units[i].categoryID != rule.CategoryID {
			continue
		}
		saved += units[i].unitPrice * rule.PercentOff / 100
		units[i].used = true
		count++
	}
	return saved, count
}
