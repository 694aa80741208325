package deals

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/noah-isme/backend-pos/internal/common"
	"github.com/noah-isme/backend-pos/internal/pricing"
)

// Service manages discount rules and evaluates previews.
type Service struct {
	store    Store
	validate *validator.Validate
}

// NewService constructs a Service.
func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, errors.New("deals: store is required")
	}
	return &Service{store: store, validate: validator.New()}, nil
}

// List returns every stored rule in priority order.
func (s *Service) List(ctx context.Context) ([]Rule, error) {
	return s.store.List(ctx)
}

// Get fetches one rule.
func (s *Service) Get(ctx context.Context, id string) (Rule, error) {
	return s.store.Get(ctx, id)
}

// ActiveRules returns the active rules converted for the pricing engine, in
// priority order.
func (s *Service) ActiveRules(ctx context.Context) ([]pricing.Rule, error) {
	rows, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("deals: list active: %w", err)
	}
	return ToPricingRules(rows), nil
}

// Save validates and persists a rule.
func (s *Service) Save(ctx context.Context, r Rule) (Rule, error) {
	r.Name = strings.TrimSpace(r.Name)
	if err := s.validate.Struct(r); err != nil {
		return Rule{}, &common.AppError{
			Code:       "VALIDATION",
			Message:    "invalid discount rule",
			HTTPStatus: http.StatusBadRequest,
			Err:        err,
			Details:    map[string]any{"reason": err.Error()},
		}
	}
	if err := validateByType(r); err != nil {
		return Rule{}, err
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if err := s.store.Upsert(ctx, r); err != nil {
		return Rule{}, fmt.Errorf("deals: save rule: %w", err)
	}
	return r, nil
}

// Delete removes a rule.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// PreviewRequest carries a hypothetical cart for dry-run evaluation.
type PreviewRequest struct {
	Lines            []pricing.Line          `json:"lines"`
	ManualDiscount   *pricing.ManualDiscount `json:"manualDiscount,omitempty"`
	AutoDealsEnabled bool                    `json:"autoDealsEnabled"`
}

// PreviewResult describes the outcome of evaluating the active rules against
// a cart without mutating state.
type PreviewResult struct {
	Summary      pricing.Summary       `json:"summary"`
	AppliedDeals []pricing.AppliedDeal `json:"appliedDeals"`
}

// Preview performs a dry-run pricing computation for the given lines.
func (s *Service) Preview(ctx context.Context, req PreviewRequest) (PreviewResult, error) {
	rules, err := s.ActiveRules(ctx)
	if err != nil {
		return PreviewResult{}, err
	}
	summary, applied, err := pricing.Compute(req.Lines, rules, req.ManualDiscount, req.AutoDealsEnabled)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidQuantity) {
			return PreviewResult{}, &common.AppError{
				Code:       "VALIDATION",
				Message:    "line quantities must be positive",
				HTTPStatus: http.StatusBadRequest,
				Err:        err,
			}
		}
		return PreviewResult{}, err
	}
	return PreviewResult{Summary: summary, AppliedDeals: applied}, nil
}

func validateByType(r Rule) error {
	bad := func(msg string) error {
		return &common.AppError{Code: "VALIDATION", Message: msg, HTTPStatus: http.StatusBadRequest}
	}
	switch r.Type {
	case TypeCombo:
		if len(r.Requirements) == 0 {
			return bad("combo rules need at least one requirement")
		}
		if r.Value <= 0 {
			return bad("combo rules need a positive bundle price")
		}
	case TypeBogo:
		if r.TargetCategoryID == "" {
			return bad("bogo rules need a target category")
		}
		if r.BuyQuantity <= 0 || r.GetQuantity <= 0 {
			return bad("bogo rules need positive buy and get quantities")
		}
		if r.Value <= 0 || r.Value > 100 {
			return bad("bogo percent off must be in (0, 100]")
		}
	case TypePercentage:
		if r.TargetCategoryID == "" {
			return bad("percentage rules need a target category")
		}
		if r.Value <= 0 || r.Value > 100 {
			return bad("percent off must be in (0, 100]")
		}
	}
	return nil
}
