package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrStoreUnavailable indicates the staff store has no database configured.
var ErrStoreUnavailable = errors.New("auth: store unavailable")

// ErrNotFound indicates the staff member does not exist.
var ErrNotFound = errors.New("auth: staff not found")

// StaffRecord is the persisted staff row, including the PIN hash.
type StaffRecord struct {
	ID        string
	Name      string
	Role      string
	PinHash   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store provides database accessors for staff accounts.
type Store interface {
	CreateStaff(ctx context.Context, rec StaffRecord) error
	GetStaff(ctx context.Context, id string) (StaffRecord, error)
	ListStaff(ctx context.Context, includeInactive bool) ([]StaffRecord, error)
	UpdatePin(ctx context.Context, id, pinHash string, at time.Time) error
	SetActive(ctx context.Context, id string, active bool, at time.Time) error
}

// NewStore constructs a Store backed by a pgx connection pool.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

type pgStore struct {
	pool *pgxpool.Pool
}

func (s *pgStore) CreateStaff(ctx context.Context, rec StaffRecord) error {
	if s == nil || s.pool == nil {
		return ErrStoreUnavailable
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO staff (id, name, role, pin_hash, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`, rec.ID, rec.Name, rec.Role, rec.PinHash, rec.Active, rec.CreatedAt)
	return err
}

func (s *pgStore) GetStaff(ctx context.Context, id string) (StaffRecord, error) {
	if s == nil || s.pool == nil {
		return StaffRecord{}, ErrStoreUnavailable
	}
	return s.scanOne(s.pool.QueryRow(ctx, `
		SELECT id, name, role, pin_hash, active, created_at, updated_at
		FROM staff WHERE id = $1
	`, id))
}

func (s *pgStore) scanOne(row pgx.Row) (StaffRecord, error) {
	var rec StaffRecord
	err := row.Scan(&rec.ID, &rec.Name, &rec.Role, &rec.PinHash, &rec.Active, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return StaffRecord{}, ErrNotFound
	}
	if err != nil {
		return StaffRecord{}, err
	}
	return rec, nil
}

func (s *pgStore) ListStaff(ctx context.Context, includeInactive bool) ([]StaffRecord, error) {
	if s == nil || s.pool == nil {
		return nil, ErrStoreUnavailable
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, role, pin_hash, active, created_at, updated_at
		FROM staff
		WHERE active OR $1
		ORDER BY name
	`, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StaffRecord
	for rows.Next() {
		var rec StaffRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Role, &rec.PinHash, &rec.Active, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *pgStore) UpdatePin(ctx context.Context, id, pinHash string, at time.Time) error {
	if s == nil || s.pool == nil {
		return ErrStoreUnavailable
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE staff SET pin_hash = $2, updated_at = $3 WHERE id = $1
	`, id, pinHash, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *pgStore) SetActive(ctx context.Context, id string, active bool, at time.Time) error {
	if s == nil || s.pool == nil {
		return ErrStoreUnavailable
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE staff SET active = $2, updated_at = $3 WHERE id = $1
	`, id, active, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
