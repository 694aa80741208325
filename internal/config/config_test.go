package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-pos/internal/config"
)

func TestLoadRequiresCoreSettings(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{
		"DATABASE_URL": "",
		"REDIS_URL":    "redis://localhost:6379",
		"JWT_SECRET":   "secret",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"DATABASE_URL":   "postgres://localhost/pos",
		"REDIS_URL":      "redis://localhost:6379",
		"JWT_SECRET":     "secret",
		"PORT":           "",
		"CART_TTL":       "",
		"CURRENCY_CODE":  "",
		"SYNC_ENDPOINT":  "",
		"MENU_CACHE_TTL": "",
	})
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, "USD", cfg.CurrencyCode)
	require.Equal(t, 24*time.Hour, cfg.CartTTL)
	require.Equal(t, 5*time.Minute, cfg.MenuCacheTTL)
	require.Equal(t, 10, cfg.SyncMaxRetries)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"DATABASE_URL":     "postgres://localhost/pos",
		"REDIS_URL":        "redis://localhost:6379",
		"JWT_SECRET":       "secret",
		"PORT":             "9090",
		"CURRENCY_CODE":    "EUR",
		"CART_TTL":         "2h",
		"SYNC_MAX_RETRIES": "3",
	})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, "EUR", cfg.CurrencyCode)
	require.Equal(t, 2*time.Hour, cfg.CartTTL)
	require.Equal(t, 3, cfg.SyncMaxRetries)
}
