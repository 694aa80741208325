package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noah-isme/backend-pos/internal/common"
)

// Profile holds the shop details printed on receipts and used by reports.
type Profile struct {
	Name     string  `json:"name" validate:"required"`
	Address  string  `json:"address,omitempty"`
	ABN      string  `json:"abn,omitempty"`
	Currency string  `json:"currency" validate:"required,len=3"`
	TaxRate  float64 `json:"taxRate" validate:"gte=0,lte=1"`
}

// ErrStoreUnavailable indicates the settings store dependency is not configured.
var ErrStoreUnavailable = errors.New("settings: store unavailable")

// Store provides database accessors for the shop profile.
type Store interface {
	Get(ctx context.Context) (Profile, error)
	Update(ctx context.Context, p Profile) error
}

// NewStore constructs a Store backed by a pgx connection pool.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

type pgStore struct {
	pool *pgxpool.Pool
}

// The profile lives in a single row keyed by id 1.
func (s *pgStore) Get(ctx context.Context) (Profile, error) {
	if s == nil || s.pool == nil {
		return Profile{}, ErrStoreUnavailable
	}
	row := s.pool.QueryRow(ctx, `SELECT name, address, abn, currency, tax_rate FROM shop_profile WHERE id = 1`)
	var p Profile
	var address, abn sql.NullString
	if err := row.Scan(&p.Name, &address, &abn, &p.Currency, &p.TaxRate); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{Currency: "USD"}, nil
		}
		return Profile{}, err
	}
	if address.Valid {
		p.Address = address.String
	}
	if abn.Valid {
		p.ABN = abn.String
	}
	return p, nil
}

func (s *pgStore) Update(ctx context.Context, p Profile) error {
	if s == nil || s.pool == nil {
		return ErrStoreUnavailable
	}
	_, err := s.pool.Exec(ctx, `INSERT INTO shop_profile (id, name, address, abn, currency, tax_rate, updated_at)
VALUES (1, $1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, now())
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, address = EXCLUDED.address,
  abn = EXCLUDED.abn, currency = EXCLUDED.currency, tax_rate = EXCLUDED.tax_rate,
  updated_at = now()`,
		p.Name, p.Address, p.ABN, p.Currency, p.TaxRate)
	return err
}

// Service validates and serves shop profile updates.
type Service struct {
	store    Store
	validate *validator.Validate
}

// NewService constructs a Service.
func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, errors.New("settings: store is required")
	}
	return &Service{store: store, validate: validator.New()}, nil
}

// Get returns the current shop profile.
func (s *Service) Get(ctx context.Context) (Profile, error) {
	return s.store.Get(ctx)
}

// Update validates and persists the shop profile.
func (s *Service) Update(ctx context.Context, p Profile) (Profile, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
	if err := s.validate.Struct(p); err != nil {
		return Profile{}, &common.AppError{
			Code:       "VALIDATION",
			Message:    "invalid shop profile",
			HTTPStatus: http.StatusBadRequest,
			Err:        err,
			Details:    map[string]any{"reason": err.Error()},
		}
	}
	if err := s.store.Update(ctx, p); err != nil {
		return Profile{}, fmt.Errorf("settings: update profile: %w", err)
	}
	return p, nil
}
