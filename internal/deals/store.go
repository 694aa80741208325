package deals

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrStoreUnavailable indicates the deals store dependency is not configured.
var ErrStoreUnavailable = errors.New("deals: store unavailable")

// ErrNotFound indicates the requested rule does not exist.
var ErrNotFound = errors.New("deals: rule not found")

// Store provides database accessors for discount rules.
type Store interface {
	List(ctx context.Context) ([]Rule, error)
	ListActive(ctx context.Context) ([]Rule, error)
	Get(ctx context.Context, id string) (Rule, error)
	Upsert(ctx context.Context, r Rule) error
	Delete(ctx context.Context, id string) error
}

// NewStore constructs a Store backed by a pgx connection pool.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

type pgStore struct {
	pool *pgxpool.Pool
}

const ruleColumns = `id, name, type, value, target_category_id, buy_quantity, get_quantity, requirements, active, priority, updated_at`

func (s *pgStore) List(ctx context.Context) ([]Rule, error) {
	if s == nil || s.pool == nil {
		return nil, ErrStoreUnavailable
	}
	rows, err := s.pool.Query(ctx, `SELECT `+ruleColumns+` FROM discount_rules ORDER BY priority, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRules(rows)
}

func (s *pgStore) ListActive(ctx context.Context) ([]Rule, error) {
	if s == nil || s.pool == nil {
		return nil, ErrStoreUnavailable
	}
	rows, err := s.pool.Query(ctx, `SELECT `+ruleColumns+` FROM discount_rules WHERE active ORDER BY priority, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRules(rows)
}

func (s *pgStore) Get(ctx context.Context, id string) (Rule, error) {
	if s == nil || s.pool == nil {
		return Rule{}, ErrStoreUnavailable
	}
	row := s.pool.QueryRow(ctx, `SELECT `+ruleColumns+` FROM discount_rules WHERE id = $1`, id)
	r, err := scanRule(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Rule{}, ErrNotFound
	}
	return r, err
}

func (s *pgStore) Upsert(ctx context.Context, r Rule) error {
	if s == nil || s.pool == nil {
		return ErrStoreUnavailable
	}
	requirements, err := json.Marshal(r.Requirements)
	if err != nil {
		return fmt.Errorf("deals: encode requirements: %w", err)
	}
	_, err = s.pool.Exec(ctx, `INSERT INTO discount_rules
(id, name, type, value, target_category_id, buy_quantity, get_quantity, requirements, active, priority, updated_at)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10, now())
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, type = EXCLUDED.type,
  value = EXCLUDED.value, target_category_id = EXCLUDED.target_category_id,
  buy_quantity = EXCLUDED.buy_quantity, get_quantity = EXCLUDED.get_quantity,
  requirements = EXCLUDED.requirements, active = EXCLUDED.active,
  priority = EXCLUDED.priority, updated_at = now()`,
		r.ID, r.Name, string(r.Type), r.Value, r.TargetCategoryID,
		r.BuyQuantity, r.GetQuantity, requirements, r.Active, r.Priority)
	return err
}

func (s *pgStore) Delete(ctx context.Context, id string) error {
	if s == nil || s.pool == nil {
		return ErrStoreUnavailable
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM discount_rules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collectRules(rows pgx.Rows) ([]Rule, error) {
	var out []Rule
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanRule(row pgx.Row) (Rule, error) {
	var r Rule
	var typ string
	var target sql.NullString
	var requirements []byte
	var updatedAt sql.NullTime
	err := row.Scan(&r.ID, &r.Name, &typ, &r.Value, &target, &r.BuyQuantity,
		&r.GetQuantity, &requirements, &r.Active, &r.Priority, &updatedAt)
	if err != nil {
		return Rule{}, err
	}
	r.Type = RuleType(typ)
	if target.Valid {
		r.TargetCategoryID = target.String
	}
	if updatedAt.Valid {
		r.UpdatedAt = updatedAt.Time
	}
	if len(requirements) > 0 {
		if err := json.Unmarshal(requirements, &r.Requirements); err != nil {
			return Rule{}, err
		}
	}
	return r, nil
}
