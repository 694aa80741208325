package order

import (
	"time"

	"github.com/noah-isme/backend-pos/internal/cart"
	"github.com/noah-isme/backend-pos/internal/pricing"
)

// Status tracks the offline-first sync lifecycle. Orders are committed
// locally as queued and move to synced once the back office accepts them.
type Status string

const (
	StatusQueued Status = "queued"
	StatusSynced Status = "synced"
)

// Type distinguishes how the customer receives the order.
type Type string

const (
	TypePickup   Type = "pickup"
	TypeDelivery Type = "delivery"
)

// Order is a finalised sale.
type Order struct {
	ID               string                  `json:"id"`
	Lines            []cart.Line             `json:"lines"`
	Subtotal         pricing.Money           `json:"subtotal"`
	Discount         pricing.Money           `json:"discount"`
	Total            pricing.Money           `json:"total"`
	AppliedDeals     []pricing.AppliedDeal   `json:"appliedDeals,omitempty"`
	ManualDiscount   *pricing.ManualDiscount `json:"manualDiscount,omitempty"`
	AutoDealsEnabled bool                    `json:"autoDealsEnabled"`

	StaffID         string `json:"staffId"`
	Status          Status `json:"status"`
	OrderType       Type   `json:"orderType"`
	CustomerName    string `json:"customerName"`
	CustomerPhone   string `json:"customerPhone,omitempty"`
	DeliveryAddress string `json:"deliveryAddress,omitempty"`

	CreatedAt time.Time  `json:"createdAt"`
	SyncedAt  *time.Time `json:"syncedAt,omitempty"`
}
