package pricing

import "errors"

// ErrInvalidQuantity is returned when a cart line carries a non-positive
// quantity. The engine fails fast rather than produce a nonsensical total.
var ErrInvalidQuantity = errors.New("pricing: line quantity must be positive")

// unit is one individually priced instance of purchased quantity, the atom of
// deal matching. Added toppings are baked into unitPrice before expansion, so
// toppings are never separately discountable.
type unit struct {
	itemID     string
	categoryID string
	size       Size
	unitPrice  Money
	used       bool
}

// expandUnits flattens cart lines into a fresh unit pool, one unit per unit of
// quantity, preserving cart order. The pool is allocated per call and must
// never be shared between computations.
func expandUnits(lines []Line) ([]unit, error) {
	var total int
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		total += line.Quantity
	}
	units := make([]unit, 0, total)
	for _, line := range lines {
		unitPrice := line.TotalPrice / Money(line.Quantity)
		for i := 0; i < line.Quantity; i++ {
			units = append(units, unit{
				itemID:     line.ItemID,
				categoryID: line.CategoryID,
				size:       line.Size,
				unitPrice:  unitPrice,
			})
		}
	}
	return units, nil
}
