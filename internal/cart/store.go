package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound indicates the requested cart could not be located.
var ErrNotFound = errors.New("cart not found")

// Store persists carts as JSON documents with a sliding TTL.
type Store interface {
	Get(ctx context.Context, id string) (Cart, error)
	Save(ctx context.Context, c Cart) error
	Delete(ctx context.Context, id string) error
}

// NewRedisStore constructs a Store backed by Redis.
func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisStore{client: client, ttl: ttl}
}

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func cartKey(id string) string {
	return "cart:v1:" + id
}

func (s *redisStore) Get(ctx context.Context, id string) (Cart, error) {
	if s == nil || s.client == nil {
		return Cart{}, errors.New("cart store not configured")
	}
	data, err := s.client.Get(ctx, cartKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return Cart{}, ErrNotFound
		}
		return Cart{}, err
	}
	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return Cart{}, err
	}
	// Reading a cart keeps it alive while the terminal is in use.
	_ = s.client.Expire(ctx, cartKey(id), s.ttl).Err()
	return c, nil
}

func (s *redisStore) Save(ctx context.Context, c Cart) error {
	if s == nil || s.client == nil {
		return errors.New("cart store not configured")
	}
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, cartKey(c.ID), data, s.ttl).Err()
}

func (s *redisStore) Delete(ctx context.Context, id string) error {
	if s == nil || s.client == nil {
		return errors.New("cart store not configured")
	}
	return s.client.Del(ctx, cartKey(id)).Err()
}
