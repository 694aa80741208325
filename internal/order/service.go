package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-pos/internal/cart"
	"github.com/noah-isme/backend-pos/internal/events"
	"github.com/noah-isme/backend-pos/internal/obs"
	"github.com/noah-isme/backend-pos/internal/pricing"
)

// ErrInvalidInput is returned when the submission payload is invalid.
var ErrInvalidInput = errors.New("order: invalid input")

// ErrEmptyCart is returned when submitting a cart with no lines.
var ErrEmptyCart = errors.New("order: cart is empty")

// Enqueuer schedules background sync of a committed order.
type Enqueuer interface {
	EnqueueOrderSync(ctx context.Context, orderID string) error
}

// Service finalises carts into persisted orders.
type Service struct {
	Store    Store
	Carts    *cart.Service
	Rules    cart.RuleSource
	Bus      *events.Bus
	Enqueuer Enqueuer
	Log      zerolog.Logger
	Now      func() time.Time
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// SubmitInput carries the checkout details collected at the register.
type SubmitInput struct {
	CartID          string `json:"cartId"`
	OrderType       Type   `json:"orderType"`
	CustomerName    string `json:"customerName"`
	CustomerPhone   string `json:"customerPhone,omitempty"`
	DeliveryAddress string `json:"deliveryAddress,omitempty"`
}

// Submit snapshots the cart, prices it through the engine, and commits the
// order. The totals persisted here come from the same computation the
// terminal displayed, so the charged amount always matches the shown amount.
func (s *Service) Submit(ctx context.Context, staffID string, in SubmitInput) (Order, error) {
	if s == nil || s.Store == nil || s.Carts == nil || s.Rules == nil {
		return Order{}, errors.New("order service not configured")
	}
	if strings.TrimSpace(staffID) == "" {
		return Order{}, fmt.Errorf("staff is required: %w", ErrInvalidInput)
	}
	if strings.TrimSpace(in.CartID) == "" {
		return Order{}, fmt.Errorf("cartId is required: %w", ErrInvalidInput)
	}
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	if in.CustomerName == "" {
		return Order{}, fmt.Errorf("customer name is required: %w", ErrInvalidInput)
	}
	switch in.OrderType {
	case TypePickup:
	case TypeDelivery:
		if strings.TrimSpace(in.DeliveryAddress) == "" {
			return Order{}, fmt.Errorf("delivery orders need an address: %w", ErrInvalidInput)
		}
	default:
		return Order{}, fmt.Errorf("unknown order type %q: %w", in.OrderType, ErrInvalidInput)
	}

	snapshot, err := s.Carts.Get(ctx, in.CartID)
	if err != nil {
		return Order{}, err
	}
	if len(snapshot.Lines) == 0 {
		return Order{}, ErrEmptyCart
	}
	rules, err := s.Rules.ActiveRules(ctx)
	if err != nil {
		return Order{}, err
	}
	totals, applied, err := pricing.Compute(snapshot.PricingLines(), rules, snapshot.ManualDiscount, snapshot.AutoDealsEnabled)
	if err != nil {
		return Order{}, err
	}

	o := Order{
		ID:               uuid.NewString(),
		Lines:            snapshot.Lines,
		Subtotal:         totals.Subtotal,
		Discount:         totals.Discount,
		Total:            totals.Total,
		AppliedDeals:     applied,
		ManualDiscount:   snapshot.ManualDiscount,
		AutoDealsEnabled: snapshot.AutoDealsEnabled,
		StaffID:          staffID,
		Status:           StatusQueued,
		OrderType:        in.OrderType,
		CustomerName:     in.CustomerName,
		CustomerPhone:    strings.TrimSpace(in.CustomerPhone),
		DeliveryAddress:  strings.TrimSpace(in.DeliveryAddress),
		CreatedAt:        s.now(),
	}
	if err := s.Store.Create(ctx, o); err != nil {
		if obs.OrdersTotal != nil {
			obs.OrdersTotal.WithLabelValues(string(in.OrderType), "error").Inc()
		}
		return Order{}, fmt.Errorf("order: persist: %w", err)
	}
	if obs.OrdersTotal != nil {
		obs.OrdersTotal.WithLabelValues(string(in.OrderType), "ok").Inc()
	}
	recordDealMetrics(o)

	// The sale is committed; everything below is best effort.
	if s.Bus != nil {
		if _, err := s.Bus.Emit(ctx, events.TopicOrderCreated, o.ID, map[string]any{
			"orderId": o.ID,
			"total":   o.Total,
			"staffId": o.StaffID,
		}); err != nil {
			s.Log.Warn().Err(err).Str("order_id", o.ID).Msg("emit order.created failed")
		}
	}
	if s.Enqueuer != nil {
		if err := s.Enqueuer.EnqueueOrderSync(ctx, o.ID); err != nil {
			// The sweep in the worker will pick the order up anyway.
			s.Log.Warn().Err(err).Str("order_id", o.ID).Msg("enqueue order sync failed")
		}
	}
	if err := s.Carts.Delete(ctx, in.CartID); err != nil {
		s.Log.Warn().Err(err).Str("cart_id", in.CartID).Msg("clear cart after submit failed")
	}
	return o, nil
}

// Get fetches one order with its items.
func (s *Service) Get(ctx context.Context, id string) (Order, error) {
	if s == nil || s.Store == nil {
		return Order{}, errors.New("order service not configured")
	}
	return s.Store.Get(ctx, id)
}

// List returns the order history page.
func (s *Service) List(ctx context.Context, params ListParams) ([]Order, int64, error) {
	if s == nil || s.Store == nil {
		return nil, 0, errors.New("order service not configured")
	}
	return s.Store.List(ctx, params)
}

// MarkSynced records a successful back office push.
func (s *Service) MarkSynced(ctx context.Context, id string) error {
	if s == nil || s.Store == nil {
		return errors.New("order service not configured")
	}
	if err := s.Store.MarkSynced(ctx, id, s.now()); err != nil {
		return err
	}
	if s.Bus != nil {
		if _, err := s.Bus.Emit(ctx, events.TopicOrderSynced, id, map[string]any{"orderId": id}); err != nil {
			s.Log.Warn().Err(err).Str("order_id", id).Msg("emit order.synced failed")
		}
	}
	return nil
}

func recordDealMetrics(o Order) {
	if obs.DiscountAmount != nil && o.Discount > 0 {
		var auto pricing.Money
		for _, deal := range o.AppliedDeals {
			auto += deal.Amount
		}
		if auto > 0 {
			obs.DiscountAmount.WithLabelValues("auto").Add(float64(auto))
		}
		if manual := o.Discount - auto; manual > 0 {
			obs.DiscountAmount.WithLabelValues("manual").Add(float64(manual))
		}
	}
	if obs.DealsAppliedTotal != nil {
		for _, deal := range o.AppliedDeals {
			obs.DealsAppliedTotal.WithLabelValues(deal.Name).Inc()
		}
	}
}
