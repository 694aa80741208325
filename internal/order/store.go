package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noah-isme/backend-pos/internal/cart"
	"github.com/noah-isme/backend-pos/internal/pricing"
)

// ErrStoreUnavailable indicates the order store dependency is not configured.
var ErrStoreUnavailable = errors.New("order: store unavailable")

// ErrNotFound indicates the requested order does not exist.
var ErrNotFound = errors.New("order: not found")

// ListParams filters the order history.
type ListParams struct {
	From   time.Time
	To     time.Time
	Status Status
	Limit  int
	Offset int
}

// Store provides database accessors for orders.
type Store interface {
	Create(ctx context.Context, o Order) error
	Get(ctx context.Context, id string) (Order, error)
	List(ctx context.Context, params ListParams) ([]Order, int64, error)
	ListQueued(ctx context.Context, limit int) ([]Order, error)
	MarkSynced(ctx context.Context, id string, at time.Time) error
}

// NewStore constructs a Store backed by a pgx connection pool.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

type pgStore struct {
	pool *pgxpool.Pool
}

// Create persists the order header and its line items atomically.
func (s *pgStore) Create(ctx context.Context, o Order) error {
	if s == nil || s.pool == nil {
		return ErrStoreUnavailable
	}
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	applied, err := json.Marshal(o.AppliedDeals)
	if err != nil {
		return fmt.Errorf("order: encode applied deals: %w", err)
	}
	var manual []byte
	if o.ManualDiscount != nil {
		manual, err = json.Marshal(o.ManualDiscount)
		if err != nil {
			return fmt.Errorf("order: encode manual discount: %w", err)
		}
	}
	_, err = tx.Exec(ctx, `INSERT INTO orders
(id, subtotal, discount, total, applied_deals, manual_discount, auto_deals_enabled,
 staff_id, status, order_type, customer_name, customer_phone, delivery_address, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, ''), NULLIF($13, ''), $14)`,
		o.ID, o.Subtotal, o.Discount, o.Total, applied, manual, o.AutoDealsEnabled,
		o.StaffID, string(o.Status), string(o.OrderType), o.CustomerName,
		o.CustomerPhone, o.DeliveryAddress, o.CreatedAt)
	if err != nil {
		return err
	}

	for i, line := range o.Lines {
		toppings, err := json.Marshal(line.AddedToppings)
		if err != nil {
			return fmt.Errorf("order: encode toppings: %w", err)
		}
		removed, err := json.Marshal(line.RemovedToppings)
		if err != nil {
			return fmt.Errorf("order: encode removed toppings: %w", err)
		}
		var option []byte
		if line.SelectedOption != nil {
			option, err = json.Marshal(line.SelectedOption)
			if err != nil {
				return fmt.Errorf("order: encode option: %w", err)
			}
		}
		var subItems []byte
		if len(line.SubItems) > 0 {
			subItems, err = json.Marshal(line.SubItems)
			if err != nil {
				return fmt.Errorf("order: encode sub-items: %w", err)
			}
		}
		_, err = tx.Exec(ctx, `INSERT INTO order_items
(id, order_id, position, item_id, item_name, category_id, size, quantity,
 added_toppings, removed_toppings, selected_option, sub_items, notes, unit_price, total_price)
VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, $11, $12, NULLIF($13, ''), $14, $15)`,
			line.ID, o.ID, i, line.ItemID, line.ItemName, line.CategoryID,
			string(line.Size), line.Quantity, toppings, removed, option, subItems,
			line.Notes, line.UnitPrice, line.TotalPrice)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

const orderColumns = `id, subtotal, discount, total, applied_deals, manual_discount, auto_deals_enabled,
staff_id, status, order_type, customer_name, customer_phone, delivery_address, created_at, synced_at`

// Get fetches an order with its items.
func (s *pgStore) Get(ctx context.Context, id string) (Order, error) {
	if s == nil || s.pool == nil {
		return Order{}, ErrStoreUnavailable
	}
	row := s.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	o.Lines, err = s.listItems(ctx, o.ID)
	if err != nil {
		return Order{}, err
	}
	return o, nil
}

// List returns order headers matching params plus the total match count.
func (s *pgStore) List(ctx context.Context, params ListParams) ([]Order, int64, error) {
	if s == nil || s.pool == nil {
		return nil, 0, ErrStoreUnavailable
	}
	limit := params.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	where := ` WHERE ($1::timestamptz IS NULL OR created_at >= $1)
  AND ($2::timestamptz IS NULL OR created_at < $2)
  AND ($3 = '' OR status = $3)`
	from := nullableTime(params.From)
	to := nullableTime(params.To)

	var total int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM orders`+where, from, to, string(params.Status)).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := s.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders`+where+
		` ORDER BY created_at DESC LIMIT $4 OFFSET $5`, from, to, string(params.Status), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, o)
	}
	return out, total, rows.Err()
}

// ListQueued returns the oldest unsynced orders with their items.
func (s *pgStore) ListQueued(ctx context.Context, limit int) ([]Order, error) {
	if s == nil || s.pool == nil {
		return nil, ErrStoreUnavailable
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE status = $1 ORDER BY created_at LIMIT $2`,
		string(StatusQueued), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Lines, err = s.listItems(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// MarkSynced flips a queued order to synced.
func (s *pgStore) MarkSynced(ctx context.Context, id string, at time.Time) error {
	if s == nil || s.pool == nil {
		return ErrStoreUnavailable
	}
	tag, err := s.pool.Exec(ctx, `UPDATE orders SET status = $1, synced_at = $2 WHERE id = $3 AND status = $4`,
		string(StatusSynced), at, id, string(StatusQueued))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *pgStore) listItems(ctx context.Context, orderID string) ([]cart.Line, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, item_id, item_name, category_id, size, quantity,
added_toppings, removed_toppings, selected_option, sub_items, notes, unit_price, total_price
FROM order_items WHERE order_id = $1 ORDER BY position`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []cart.Line
	for rows.Next() {
		var line cart.Line
		var size, notes sql.NullString
		var toppings, removed, option, subItems []byte
		if err := rows.Scan(&line.ID, &line.ItemID, &line.ItemName, &line.CategoryID,
			&size, &line.Quantity, &toppings, &removed, &option, &subItems, &notes,
			&line.UnitPrice, &line.TotalPrice); err != nil {
			return nil, err
		}
		if size.Valid {
			line.Size = pricing.Size(size.String)
		}
		if notes.Valid {
			line.Notes = notes.String
		}
		if len(toppings) > 0 {
			if err := json.Unmarshal(toppings, &line.AddedToppings); err != nil {
				return nil, err
			}
		}
		if len(removed) > 0 {
			if err := json.Unmarshal(removed, &line.RemovedToppings); err != nil {
				return nil, err
			}
		}
		if len(option) > 0 {
			if err := json.Unmarshal(option, &line.SelectedOption); err != nil {
				return nil, err
			}
		}
		if len(subItems) > 0 {
			if err := json.Unmarshal(subItems, &line.SubItems); err != nil {
				return nil, err
			}
		}
		out = append(out, line)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	var applied, manual []byte
	var status, orderType string
	var phone, address sql.NullString
	var syncedAt sql.NullTime
	err := row.Scan(&o.ID, &o.Subtotal, &o.Discount, &o.Total, &applied, &manual,
		&o.AutoDealsEnabled, &o.StaffID, &status, &orderType, &o.CustomerName,
		&phone, &address, &o.CreatedAt, &syncedAt)
	if err != nil {
		return Order{}, err
	}
	o.Status = Status(status)
	o.OrderType = Type(orderType)
	if phone.Valid {
		o.CustomerPhone = phone.String
	}
	if address.Valid {
		o.DeliveryAddress = address.String
	}
	if syncedAt.Valid {
		t := syncedAt.Time
		o.SyncedAt = &t
	}
	if len(applied) > 0 {
		if err := json.Unmarshal(applied, &o.AppliedDeals); err != nil {
			return Order{}, err
		}
	}
	if len(manual) > 0 {
		if err := json.Unmarshal(manual, &o.ManualDiscount); err != nil {
			return Order{}, err
		}
	}
	return o, nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
