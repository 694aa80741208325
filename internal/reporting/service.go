package reporting

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Service provides cached access to sales aggregates.
type Service struct {
	Q            Querier
	R            *redis.Client
	TTL          time.Duration
	DefaultRange int
	Now          func() time.Time
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func cacheKey(parts ...any) string {
	formatted := make([]string, 0, len(parts))
	for _, part := range parts {
		formatted = append(formatted, fmt.Sprint(part))
	}
	return strings.Join(formatted, ":")
}

// DailySales returns the day-by-day sales summary between the provided
// bounds, inclusive of from and exclusive of to.
func (s *Service) DailySales(ctx context.Context, from, to time.Time) ([]DailySalesRow, error) {
	if s == nil || s.Q == nil {
		return nil, fmt.Errorf("reporting service not configured")
	}
	key := cacheKey("rp", "sales", from.Format("2006-01-02"), to.Format("2006-01-02"))
	if rows, ok := getFromCache[DailySalesRow](ctx, s, key); ok {
		return rows, nil
	}
	rows, err := s.Q.DailySales(ctx, from, to)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, rows)
	return rows, nil
}

// TopItems returns the best selling items in the window ordered by quantity sold.
func (s *Service) TopItems(ctx context.Context, from, to time.Time, limit, offset int) ([]TopItemRow, error) {
	if s == nil || s.Q == nil {
		return nil, fmt.Errorf("reporting service not configured")
	}
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	key := cacheKey("rp", "top", from.Format("2006-01-02"), to.Format("2006-01-02"), limit, offset)
	if rows, ok := getFromCache[TopItemRow](ctx, s, key); ok {
		return rows, nil
	}
	rows, err := s.Q.TopItems(ctx, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, rows)
	return rows, nil
}

func getFromCache[T any](ctx context.Context, s *Service, key string) ([]T, bool) {
	if s.R == nil || s.TTL <= 0 {
		return nil, false
	}
	data, err := s.R.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var rows []T
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, false
	}
	return rows, true
}

func (s *Service) store(ctx context.Context, key string, value any) {
	if s.R == nil || s.TTL <= 0 {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = s.R.Set(ctx, key, data, s.TTL).Err()
}
