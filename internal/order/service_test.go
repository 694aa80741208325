package order_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-pos/internal/cart"
	"github.com/noah-isme/backend-pos/internal/events"
	"github.com/noah-isme/backend-pos/internal/menu"
	"github.com/noah-isme/backend-pos/internal/order"
	"github.com/noah-isme/backend-pos/internal/pricing"
)

type memStore struct {
	orders map[string]order.Order
}

func newMemStore() *memStore {
	return &memStore{orders: map[string]order.Order{}}
}

func (m *memStore) Create(_ context.Context, o order.Order) error {
	m.orders[o.ID] = o
	return nil
}

func (m *memStore) Get(_ context.Context, id string) (order.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return order.Order{}, order.ErrNotFound
	}
	return o, nil
}

func (m *memStore) List(_ context.Context, _ order.ListParams) ([]order.Order, int64, error) {
	out := make([]order.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o)
	}
	return out, int64(len(out)), nil
}

func (m *memStore) ListQueued(_ context.Context, _ int) ([]order.Order, error) {
	var out []order.Order
	for _, o := range m.orders {
		if o.Status == order.StatusQueued {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memStore) MarkSynced(_ context.Context, id string, at time.Time) error {
	o, ok := m.orders[id]
	if !ok || o.Status != order.StatusQueued {
		return order.ErrNotFound
	}
	o.Status = order.StatusSynced
	o.SyncedAt = &at
	m.orders[id] = o
	return nil
}

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

type captureEnqueuer struct {
	orderIDs []string
}

func (c *captureEnqueuer) EnqueueOrderSync(_ context.Context, orderID string) error {
	c.orderIDs = append(c.orderIDs, orderID)
	return nil
}

type stubEventStore struct {
	topics []string
}

func (s *stubEventStore) InsertDomainEvent(_ context.Context, topic, aggregateID string, payload []byte) (events.Event, error) {
	s.topics = append(s.topics, topic)
	return events.Event{ID: uuid.New(), Topic: topic, AggregateID: aggregateID, Payload: payload, OccurredAt: time.Now()}, nil
}

type fixture struct {
	svc      *order.Service
	carts    *cart.Service
	store    *memStore
	enqueuer *captureEnqueuer
	events   *stubEventStore
}

func newFixture(t *testing.T, rules []pricing.Rule) fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	catalog := &fakeCatalog{
		items: map[string]menu.Item{
			"item-margherita": {
				ID: "item-margherita", Name: "Margherita", CategoryID: "cat-pizza",
				Available: true, PricingType: pricing.PricingSizeBased,
				SizePrices: map[pricing.Size]pricing.Money{pricing.SizeLarge: 18},
			},
			"item-cola": {
				ID: "item-cola", Name: "Cola", CategoryID: "cat-drinks",
				Available: true, PricingType: pricing.PricingFixed, Price: 3.5,
			},
		},
		toppings: map[string]menu.Topping{},
	}
	carts := &cart.Service{
		Store:   cart.NewRedisStore(client, time.Hour),
		Catalog: catalog,
		Rules:   staticRules{rules: rules},
	}
	store := newMemStore()
	enqueuer := &captureEnqueuer{}
	eventStore := &stubEventStore{}
	svc := &order.Service{
		Store:    store,
		Carts:    carts,
		Rules:    staticRules{rules: rules},
		Bus:      &events.Bus{Store: eventStore},
		Enqueuer: enqueuer,
	}
	return fixture{svc: svc, carts: carts, store: store, enqueuer: enqueuer, events: eventStore}
}

func seedCart(t *testing.T, f fixture) cart.Cart {
	t.Helper()
	ctx := context.Background()
	c, err := f.carts.Create(ctx)
	require.NoError(t, err)
	c, err = f.carts.AddLine(ctx, c.ID, cart.LineInput{ItemID: "item-margherita", Size: pricing.SizeLarge, Quantity: 2})
	require.NoError(t, err)
	c, err = f.carts.AddLine(ctx, c.ID, cart.LineInput{ItemID: "item-cola", Quantity: 1})
	require.NoError(t, err)
	return c
}

func TestSubmitPersistsEngineTotals(t *testing.T) {
	f := newFixture(t, []pricing.Rule{
		pricing.PercentageRule{Name: "Pizza 10% Off", CategoryID: "cat-pizza", PercentOff: 10},
	})
	ctx := context.Background()
	c := seedCart(t, f)

	o, err := f.svc.Submit(ctx, "staff-1", order.SubmitInput{
		CartID:       c.ID,
		OrderType:    order.TypePickup,
		CustomerName: "Dana",
	})
	require.NoError(t, err)
	require.Equal(t, order.StatusQueued, o.Status)
	// subtotal 39.5 (2x18 + 3.5), 10% off both pizzas = 3.6
	require.InDelta(t, 39.5, float64(o.Subtotal), 1e-9)
	require.InDelta(t, 3.6, float64(o.Discount), 1e-9)
	require.InDelta(t, 35.9, float64(o.Total), 1e-9)
	require.Len(t, o.AppliedDeals, 1)
	require.Equal(t, 2, o.AppliedDeals[0].TimesApplied)

	// committed, scheduled for sync, and the cart is gone
	require.Contains(t, f.store.orders, o.ID)
	require.Equal(t, []string{o.ID}, f.enqueuer.orderIDs)
	require.Equal(t, []string{events.TopicOrderCreated}, f.events.topics)
	_, err = f.carts.Get(ctx, c.ID)
	require.ErrorIs(t, err, cart.ErrNotFound)
}

func TestSubmitValidation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	c := seedCart(t, f)

	_, err := f.svc.Submit(ctx, "", order.SubmitInput{CartID: c.ID, OrderType: order.TypePickup, CustomerName: "Dana"})
	require.ErrorIs(t, err, order.ErrInvalidInput)

	_, err = f.svc.Submit(ctx, "staff-1", order.SubmitInput{CartID: c.ID, OrderType: order.TypePickup})
	require.ErrorIs(t, err, order.ErrInvalidInput)

	_, err = f.svc.Submit(ctx, "staff-1", order.SubmitInput{CartID: c.ID, OrderType: order.TypeDelivery, CustomerName: "Dana"})
	require.ErrorIs(t, err, order.ErrInvalidInput)

	_, err = f.svc.Submit(ctx, "staff-1", order.SubmitInput{CartID: c.ID, OrderType: "drive-thru", CustomerName: "Dana"})
	require.ErrorIs(t, err, order.ErrInvalidInput)
}

func TestSubmitEmptyCart(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	c, err := f.carts.Create(ctx)
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, "staff-1", order.SubmitInput{CartID: c.ID, OrderType: order.TypePickup, CustomerName: "Dana"})
	require.ErrorIs(t, err, order.ErrEmptyCart)
}

func TestMarkSyncedTransitionsOnce(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	c := seedCart(t, f)

	o, err := f.svc.Submit(ctx, "staff-1", order.SubmitInput{CartID: c.ID, OrderType: order.TypePickup, CustomerName: "Dana"})
	require.NoError(t, err)

	require.NoError(t, f.svc.MarkSynced(ctx, o.ID))
	synced, err := f.svc.Get(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, order.StatusSynced, synced.Status)
	require.NotNil(t, synced.SyncedAt)
	require.Contains(t, f.events.topics, events.TopicOrderSynced)

	// already synced orders are not flipped again
	require.ErrorIs(t, f.svc.MarkSynced(ctx, o.ID), order.ErrNotFound)
}
