package reporting

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noah-isme/backend-pos/internal/pricing"
)

// ErrStoreUnavailable indicates the reporting store has no database configured.
var ErrStoreUnavailable = errors.New("reporting: store unavailable")

// DailySalesRow aggregates one day of committed orders.
type DailySalesRow struct {
	Day       time.Time     `json:"day"`
	Orders    int64         `json:"orders"`
	Revenue   pricing.Money `json:"revenue"`
	Discounts pricing.Money `json:"discounts"`
}

// TopItemRow aggregates sales for one menu item.
type TopItemRow struct {
	ItemID   string        `json:"itemId"`
	ItemName string        `json:"itemName"`
	Quantity int64         `json:"quantity"`
	Revenue  pricing.Money `json:"revenue"`
}

// Querier defines the database access required for reporting operations.
type Querier interface {
	DailySales(ctx context.Context, from, to time.Time) ([]DailySalesRow, error)
	TopItems(ctx context.Context, from, to time.Time, limit, offset int) ([]TopItemRow, error)
}

// NewStore constructs a Querier backed by a pgx connection pool.
func NewStore(pool *pgxpool.Pool) Querier {
	return &pgStore{pool: pool}
}

type pgStore struct {
	pool *pgxpool.Pool
}

func (s *pgStore) DailySales(ctx context.Context, from, to time.Time) ([]DailySalesRow, error) {
	if s == nil || s.pool == nil {
		return nil, ErrStoreUnavailable
	}
	rows, err := s.pool.Query(ctx, `
		SELECT date_trunc('day', created_at) AS day,
		       count(*) AS orders,
		       coalesce(sum(total), 0) AS revenue,
		       coalesce(sum(discount), 0) AS discounts
		FROM orders
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY 1
		ORDER BY 1
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DailySalesRow
	for rows.Next() {
		var row DailySalesRow
		if err := rows.Scan(&row.Day, &row.Orders, &row.Revenue, &row.Discounts); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *pgStore) TopItems(ctx context.Context, from, to time.Time, limit, offset int) ([]TopItemRow, error) {
	if s == nil || s.pool == nil {
		return nil, ErrStoreUnavailable
	}
	rows, err := s.pool.Query(ctx, `
		SELECT oi.item_id,
		       oi.item_name,
		       sum(oi.quantity) AS quantity,
		       coalesce(sum(oi.total_price), 0) AS revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.created_at >= $1 AND o.created_at < $2
		GROUP BY oi.item_id, oi.item_name
		ORDER BY quantity DESC, oi.item_name
		LIMIT $3 OFFSET $4
	`, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TopItemRow
	for rows.Next() {
		var row TopItemRow
		if err := rows.Scan(&row.ItemID, &row.ItemName, &row.Quantity, &row.Revenue); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
