package menu

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noah-isme/backend-pos/internal/pricing"
)

// ErrStoreUnavailable indicates the catalog store dependency is not configured.
var ErrStoreUnavailable = errors.New("menu: store unavailable")

// ErrNotFound indicates the requested catalog record does not exist.
var ErrNotFound = errors.New("menu: not found")

// Store provides database accessors for catalog records.
type Store interface {
	ListCategories(ctx context.Context) ([]Category, error)
	UpsertCategory(ctx context.Context, c Category) error
	DeleteCategory(ctx context.Context, id string) error

	ListItems(ctx context.Context) ([]Item, error)
	GetItem(ctx context.Context, id string) (Item, error)
	UpsertItem(ctx context.Context, it Item) error
	DeleteItem(ctx context.Context, id string) error

	ListToppings(ctx context.Context) ([]Topping, error)
	GetTopping(ctx context.Context, id string) (Topping, error)
	UpsertTopping(ctx context.Context, t Topping) error
	DeleteTopping(ctx context.Context, id string) error
}

// NewStore constructs a Store backed by a pgx connection pool.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

type pgStore struct {
	pool *pgxpool.Pool
}

func (s *pgStore) ListCategories(ctx context.Context) ([]Category, error) {
	if s == nil || s.pool == nil {
		return nil, ErrStoreUnavailable
	}
	rows, err := s.pool.Query(ctx, `SELECT id, name, icon, ticket_priority, sort_order FROM categories ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		var icon sql.NullString
		var priority sql.NullInt32
		if err := rows.Scan(&c.ID, &c.Name, &icon, &priority, &c.SortOrder); err != nil {
			return nil, err
		}
		if icon.Valid {
			c.Icon = icon.String
		}
		if priority.Valid {
			p := int(priority.Int32)
			c.TicketPriority = &p
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *pgStore) UpsertCategory(ctx context.Context, c Category) error {
	if s == nil || s.pool == nil {
		return ErrStoreUnavailable
	}
	var priority any
	if c.TicketPriority != nil {
		priority = *c.TicketPriority
	}
	_, err := s.pool.Exec(ctx, `INSERT INTO categories (id, name, icon, ticket_priority, sort_order)
VALUES ($1, $2, NULLIF($3, ''), $4, $5)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, icon = EXCLUDED.icon,
  ticket_priority = EXCLUDED.ticket_priority, sort_order = EXCLUDED.sort_order`,
		c.ID, c.Name, c.Icon, priority, c.SortOrder)
	return err
}

func (s *pgStore) DeleteCategory(ctx context.Context, id string) error {
	if s == nil || s.pool == nil {
		return ErrStoreUnavailable
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const itemColumns = `id, name, category_id, description, available, kind, sub_item_configs,
allow_modifiers, pricing_type, price, size_prices, available_sizes, default_toppings,
required_selection_ids, required_selection_label, updated_at`

func (s *pgStore) ListItems(ctx context.Context) ([]Item, error) {
	if s == nil || s.pool == nil {
		return nil, ErrStoreUnavailable
	}
	rows, err := s.pool.Query(ctx, `SELECT `+itemColumns+` FROM menu_items ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *pgStore) GetItem(ctx context.Context, id string) (Item, error) {
	if s == nil || s.pool == nil {
		return Item{}, ErrStoreUnavailable
	}
	row := s.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM menu_items WHERE id = $1`, id)
	it, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, ErrNotFound
	}
	return it, err
}

func (s *pgStore) UpsertItem(ctx context.Context, it Item) error {
	if s == nil || s.pool == nil {
		return ErrStoreUnavailable
	}
	subConfigs, err := json.Marshal(it.SubItemConfigs)
	if err != nil {
		return fmt.Errorf("menu: encode sub item configs: %w", err)
	}
	sizePrices, err := json.Marshal(it.SizePrices)
	if err != nil {
		return fmt.Errorf("menu: encode size prices: %w", err)
	}
	sizes, err := json.Marshal(it.AvailableSizes)
	if err != nil {
		return fmt.Errorf("menu: encode sizes: %w", err)
	}
	defaults, err := json.Marshal(it.DefaultToppings)
	if err != nil {
		return fmt.Errorf("menu: encode default toppings: %w", err)
	}
	required, err := json.Marshal(it.RequiredSelectionIDs)
	if err != nil {
		return fmt.Errorf("menu: encode required selections: %w", err)
	}
	_, err = s.pool.Exec(ctx, `INSERT INTO menu_items
(id, name, category_id, description, available, kind, sub_item_configs, allow_modifiers,
 pricing_type, price, size_prices, available_sizes, default_toppings,
 required_selection_ids, required_selection_label, updated_at)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NULLIF($15, ''), now())
ON CONFLICT (id) DO UPDATE SET
  name = EXCLUDED.name, category_id = EXCLUDED.category_id,
  description = EXCLUDED.description, available = EXCLUDED.available,
  kind = EXCLUDED.kind, sub_item_configs = EXCLUDED.sub_item_configs,
  allow_modifiers = EXCLUDED.allow_modifiers, pricing_type = EXCLUDED.pricing_type,
  price = EXCLUDED.price, size_prices = EXCLUDED.size_prices,
  available_sizes = EXCLUDED.available_sizes, default_toppings = EXCLUDED.default_toppings,
  required_selection_ids = EXCLUDED.required_selection_ids,
  required_selection_label = EXCLUDED.required_selection_label,
  updated_at = now()`,
		it.ID, it.Name, it.CategoryID, it.Description, it.Available, string(it.Kind),
		subConfigs, it.AllowModifiers, string(it.PricingType), it.Price, sizePrices,
		sizes, defaults, required, it.RequiredSelectionLabel)
	return err
}

func (s *pgStore) DeleteItem(ctx context.Context, id string) error {
	if s == nil || s.pool == nil {
		return ErrStoreUnavailable
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *pgStore) ListToppings(ctx context.Context) ([]Topping, error) {
	if s == nil || s.pool == nil {
		return nil, ErrStoreUnavailable
	}
	rows, err := s.pool.Query(ctx, `SELECT id, name, price, type, available, available_sizes FROM toppings ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Topping
	for rows.Next() {
		t, err := scanTopping(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *pgStore) GetTopping(ctx context.Context, id string) (Topping, error) {
	if s == nil || s.pool == nil {
		return Topping{}, ErrStoreUnavailable
	}
	row := s.pool.QueryRow(ctx, `SELECT id, name, price, type, available, available_sizes FROM toppings WHERE id = $1`, id)
	t, err := scanTopping(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Topping{}, ErrNotFound
	}
	return t, err
}

func (s *pgStore) UpsertTopping(ctx context.Context, t Topping) error {
	if s == nil || s.pool == nil {
		return ErrStoreUnavailable
	}
	sizes, err := json.Marshal(t.AvailableSizes)
	if err != nil {
		return fmt.Errorf("menu: encode sizes: %w", err)
	}
	_, err = s.pool.Exec(ctx, `INSERT INTO toppings (id, name, price, type, available, available_sizes)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price,
  type = EXCLUDED.type, available = EXCLUDED.available, available_sizes = EXCLUDED.available_sizes`,
		t.ID, t.Name, t.Price, string(t.Type), t.Available, sizes)
	return err
}

func (s *pgStore) DeleteTopping(ctx context.Context, id string) error {
	if s == nil || s.pool == nil {
		return ErrStoreUnavailable
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM toppings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanItem(row pgx.Row) (Item, error) {
	var it Item
	var description, requiredLabel sql.NullString
	var kind, pricingType string
	var price sql.NullFloat64
	var subConfigs, sizePrices, sizes, defaults, required []byte
	var updatedAt sql.NullTime
	err := row.Scan(&it.ID, &it.Name, &it.CategoryID, &description, &it.Available, &kind,
		&subConfigs, &it.AllowModifiers, &pricingType, &price, &sizePrices, &sizes,
		&defaults, &required, &requiredLabel, &updatedAt)
	if err != nil {
		return Item{}, err
	}
	it.Kind = ItemKind(kind)
	it.PricingType = pricing.PricingType(pricingType)
	if description.Valid {
		it.Description = description.String
	}
	if requiredLabel.Valid {
		it.RequiredSelectionLabel = requiredLabel.String
	}
	if price.Valid {
		it.Price = price.Float64
	}
	if updatedAt.Valid {
		it.UpdatedAt = updatedAt.Time
	}
	if err := decodeJSON(subConfigs, &it.SubItemConfigs); err != nil {
		return Item{}, err
	}
	if err := decodeJSON(sizePrices, &it.SizePrices); err != nil {
		return Item{}, err
	}
	if err := decodeJSON(sizes, &it.AvailableSizes); err != nil {
		return Item{}, err
	}
	if err := decodeJSON(defaults, &it.DefaultToppings); err != nil {
		return Item{}, err
	}
	if err := decodeJSON(required, &it.RequiredSelectionIDs); err != nil {
		return Item{}, err
	}
	return it, nil
}

func scanTopping(row pgx.Row) (Topping, error) {
	var t Topping
	var typ string
	var sizes []byte
	if err := row.Scan(&t.ID, &t.Name, &t.Price, &typ, &t.Available, &sizes); err != nil {
		return Topping{}, err
	}
	t.Type = ToppingType(typ)
	if err := decodeJSON(sizes, &t.AvailableSizes); err != nil {
		return Topping{}, err
	}
	return t, nil
}

func decodeJSON(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}
