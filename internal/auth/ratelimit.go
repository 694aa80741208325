package auth

import (
	"net/http"
	"time"

	redis "github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// DefaultLoginRate allows a handful of PIN attempts per terminal per minute.
var DefaultLoginRate = limiter.Rate{Period: time.Minute, Limit: 10}

// NewLoginLimiter builds the per-IP rate limiting middleware guarding the
// login endpoint. PINs are short, so brute force has to be throttled here.
func NewLoginLimiter(rdb *redis.Client, rate limiter.Rate) (func(http.Handler) http.Handler, error) {
	store, err := limiterredis.NewStoreWithOptions(rdb, limiter.StoreOptions{
		Prefix: "limiter:login",
	})
	if err != nil {
		return nil, err
	}
	if rate.Limit <= 0 {
		rate = DefaultLoginRate
	}
	middleware := stdlib.NewMiddleware(limiter.New(store, rate))
	return middleware.Handler, nil
}
