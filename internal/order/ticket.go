package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/noah-isme/backend-pos/internal/cart"
	"github.com/noah-isme/backend-pos/internal/menu"
	"github.com/noah-isme/backend-pos/internal/pricing"
)

// TicketCatalog resolves the catalog data needed to lay out a kitchen ticket.
type TicketCatalog interface {
	Categories(ctx context.Context) ([]menu.Category, error)
	GetTopping(ctx context.Context, id string) (menu.Topping, error)
}

// TicketLine is one printed line on a kitchen ticket.
type TicketLine struct {
	Text      string        `json:"text"`
	Modifiers []string      `json:"modifiers,omitempty"`
	Notes     string        `json:"notes,omitempty"`
	Total     pricing.Money `json:"total"`
}

// Ticket is the kitchen-facing view of an order. Lines are grouped by the
// category's ticket priority so the kitchen reads sections in station order.
type Ticket struct {
	OrderID         string       `json:"orderId"`
	OrderType       Type         `json:"orderType"`
	CustomerName    string       `json:"customerName"`
	CustomerPhone   string       `json:"customerPhone,omitempty"`
	DeliveryAddress string       `json:"deliveryAddress,omitempty"`
	Lines           []TicketLine `json:"lines"`
}

// BuildTicket assembles the kitchen ticket for an order.
func BuildTicket(ctx context.Context, catalog TicketCatalog, o Order) (Ticket, error) {
	if catalog == nil {
		return Ticket{}, errors.New("order: ticket catalog not configured")
	}
	categories, err := catalog.Categories(ctx)
	if err != nil {
		return Ticket{}, fmt.Errorf("order: load categories: %w", err)
	}
	priorities := make(map[string]int, len(categories))
	for _, c := range categories {
		if c.TicketPriority != nil {
			priorities[c.ID] = *c.TicketPriority
		}
	}

	lines := append([]cart.Line(nil), o.Lines...)
	sort.SliceStable(lines, func(a, b int) bool {
		return ticketPriority(priorities, lines[a].CategoryID) < ticketPriority(priorities, lines[b].CategoryID)
	})

	ticket := Ticket{
		OrderID:         o.ID,
		OrderType:       o.OrderType,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		DeliveryAddress: o.DeliveryAddress,
		Lines:           make([]TicketLine, 0, len(lines)),
	}
	for _, line := range lines {
		ticket.Lines = append(ticket.Lines, buildTicketLine(ctx, catalog, line))
	}
	return ticket, nil
}

// Unprioritised categories print after every prioritised one.
func ticketPriority(priorities map[string]int, categoryID string) int {
	if p, ok := priorities[categoryID]; ok {
		return p
	}
	return 999
}

func buildTicketLine(ctx context.Context, catalog TicketCatalog, line cart.Line) TicketLine {
	var base, sauce *pricing.Topping
	var standard []pricing.Topping
	for i := range line.AddedToppings {
		t := line.AddedToppings[i]
		switch toppingType(ctx, catalog, t.ID) {
		case menu.ToppingBase:
			if base == nil {
				base = &line.AddedToppings[i]
				continue
			}
		case menu.ToppingSauce:
			if sauce == nil {
				sauce = &line.AddedToppings[i]
				continue
			}
		}
		standard = append(standard, t)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d x ", line.Quantity)
	if abbrev := sizeAbbreviation(line.Size); abbrev != "" {
		b.WriteString(abbrev + " ")
	}
	if sauce != nil {
		b.WriteString(sauce.Name + " ")
	}
	if line.SelectedOption != nil {
		b.WriteString(line.SelectedOption.Name + " ")
	}
	b.WriteString(line.ItemName)
	if base != nil {
		fmt.Fprintf(&b, " (%s)", base.Name)
	}

	var mods []string
	// Sub-items are stored in the item's config order, so halves and
	// bundle picks print the way the menu lays them out.
	for _, sub := range line.SubItems {
		text := sub.ItemName
		if sub.Size != "" && sub.Size != line.Size {
			text = fmt.Sprintf("%s (%s)", sub.ItemName, sub.Size)
		}
		mods = append(mods, text)
	}
	for _, t := range standard {
		mods = append(mods, "add "+t.Name)
	}
	for _, id := range line.RemovedToppings {
		name := id
		if t, err := catalog.GetTopping(ctx, id); err == nil {
			name = t.Name
		}
		mods = append(mods, "NO "+name)
	}
	return TicketLine{Text: b.String(), Modifiers: mods, Notes: line.Notes, Total: line.TotalPrice}
}

func toppingType(ctx context.Context, catalog TicketCatalog, id string) menu.ToppingType {
	t, err := catalog.GetTopping(ctx, id)
	if err != nil {
		return menu.ToppingRegular
	}
	return t.Type
}

func sizeAbbreviation(size pricing.Size) string {
	switch size {
	case pricing.SizeSmall:
		return "S"
	case pricing.SizeMedium:
		return "M"
	case pricing.SizeLarge:
		return "L"
	case pricing.SizeFamily:
		return "F"
	default:
		return ""
	}
}
