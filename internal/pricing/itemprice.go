package pricing

// UnitPrice computes the price of one unit of a configured item: base price
// plus added toppings plus the selected required option.
//
// Missing price configuration never blocks checkout: a FIXED item without a
// price and a SIZE_BASED item priced at a size absent from its size map both
// contribute a base of zero. Catalog-save validation is expected to surface
// such gaps before they reach a terminal.
func UnitPrice(item Item, size Size, added []Topping, option *Topping) Money {
	var base Money
	switch item.PricingType {
	case PricingFixed:
		base = item.Price
	case PricingSizeBased:
		if size != "" && item.SizePrices != nil {
			base = item.SizePrices[size]
		}
	}
	for _, t := range added {
		base += t.Price
	}
	if option != nil {
		base += option.Price
	}
	return base
}
