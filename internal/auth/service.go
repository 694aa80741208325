package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/noah-isme/backend-pos/internal/common"
)

const defaultAccessTTL = 12 * time.Hour

// Staff roles.
const (
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
)

const roleClaim = "role"

// Service coordinates staff authentication and account management.
type Service struct {
	store     Store
	secret    []byte
	accessTTL time.Duration
	now       func() time.Time
	signer    jwa.SignatureAlgorithm
	validator TokenValidator
	issuer    string
	audience  string
	clockSkew time.Duration
}

// Config configures the auth service.
type Config struct {
	Store          Store
	Secret         string
	AccessTokenTTL time.Duration
	Issuer         string
	Audience       string
	ClockSkew      time.Duration
}

// Staff represents a safe subset of the staff model returned to clients.
type Staff struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginResult bundles the token material returned after a successful login.
type LoginResult struct {
	Staff        Staff     `json:"staff"`
	AccessToken  string    `json:"access_token"`
	AccessExpiry time.Time `json:"access_expires_at"`
}

// NewService constructs a Service instance with sane defaults.
func NewService(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("auth: store is required")
	}
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return nil, errors.New("auth: secret is required")
	}
	accessTTL := cfg.AccessTokenTTL
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}

	issuer := strings.TrimSpace(cfg.Issuer)
	if issuer == "" {
		issuer = "backend-pos"
	}
	audience := strings.TrimSpace(cfg.Audience)
	if audience == "" {
		audience = "pos-terminal"
	}
	clockSkew := cfg.ClockSkew
	if clockSkew < 0 {
		clockSkew = 0
	}

	return &Service{
		store:     cfg.Store,
		secret:    []byte(secret),
		accessTTL: accessTTL,
		now:       time.Now,
		signer:    jwa.HS256,
		validator: TokenValidator{
			Issuer:    issuer,
			Audience:  audience,
			ClockSkew: clockSkew,
			Algorithm: jwa.HS256,
		},
		issuer:    issuer,
		audience:  audience,
		clockSkew: clockSkew,
	}, nil
}

// WithNow allows tests to override the time provider.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Login verifies a staff PIN and issues an access token for the shift.
func (s *Service) Login(ctx context.Context, staffID, pin string) (LoginResult, error) {
	staffID = strings.TrimSpace(staffID)
	if staffID == "" || pin == "" {
		return LoginResult{}, invalidCredentials(nil)
	}

	rec, err := s.store.GetStaff(ctx, staffID)
	if err != nil {
		return LoginResult{}, invalidCredentials(err)
	}
	if !rec.Active {
		return LoginResult{}, invalidCredentials(nil)
	}

	ok, err := argon2id.ComparePasswordAndHash(pin, rec.PinHash)
	if err != nil || !ok {
		return LoginResult{}, invalidCredentials(err)
	}

	token, expiry, err := s.signAccessToken(rec.ID, rec.Role)
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign access token: %w", err)
	}

	return LoginResult{
		Staff:        convertRecord(rec),
		AccessToken:  token,
		AccessExpiry: expiry,
	}, nil
}

// Me fetches the currently authenticated staff member.
func (s *Service) Me(ctx context.Context, staffID string) (Staff, error) {
	if strings.TrimSpace(staffID) == "" {
		return Staff{}, unauthorized(nil)
	}
	rec, err := s.store.GetStaff(ctx, staffID)
	if err != nil {
		return Staff{}, unauthorized(err)
	}
	return convertRecord(rec), nil
}

// CreateStaff registers a new staff member with the supplied PIN.
func (s *Service) CreateStaff(ctx context.Context, name, role, pin string) (Staff, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Staff{}, common.NewAppError("VALIDATION", "name is required", httpStatusBadRequest, nil)
	}
	role = strings.ToUpper(strings.TrimSpace(role))
	if role != RoleAdmin && role != RoleStaff {
		return Staff{}, common.NewAppError("VALIDATION", "role must be ADMIN or STAFF", httpStatusBadRequest, nil)
	}
	if err := validatePin(pin); err != nil {
		return Staff{}, err
	}

	hash, err := argon2id.CreateHash(pin, argon2id.DefaultParams)
	if err != nil {
		return Staff{}, fmt.Errorf("hash pin: %w", err)
	}

	rec := StaffRecord{
		ID:        uuid.NewString(),
		Name:      name,
		Role:      role,
		PinHash:   hash,
		Active:    true,
		CreatedAt: s.now(),
	}
	rec.UpdatedAt = rec.CreatedAt
	if err := s.store.CreateStaff(ctx, rec); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Staff{}, common.NewAppError("NAME_ALREADY_USED", "a staff member with that name already exists", httpStatusConflict, err)
		}
		return Staff{}, fmt.Errorf("create staff: %w", err)
	}
	return convertRecord(rec), nil
}

// ListStaff returns staff accounts, active ones only unless includeInactive is set.
func (s *Service) ListStaff(ctx context.Context, includeInactive bool) ([]Staff, error) {
	recs, err := s.store.ListStaff(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]Staff, 0, len(recs))
	for _, rec := range recs {
		out = append(out, convertRecord(rec))
	}
	return out, nil
}

// SetPin replaces a staff member's PIN.
func (s *Service) SetPin(ctx context.Context, staffID, pin string) error {
	if err := validatePin(pin); err != nil {
		return err
	}
	hash, err := argon2id.CreateHash(pin, argon2id.DefaultParams)
	if err != nil {
		return fmt.Errorf("hash pin: %w", err)
	}
	return s.store.UpdatePin(ctx, staffID, hash, s.now())
}

// SetActive enables or disables a staff account. Accounts are never deleted
// because committed orders reference them.
func (s *Service) SetActive(ctx context.Context, staffID string, active bool) error {
	return s.store.SetActive(ctx, staffID, active, s.now())
}

// ParseAccessToken validates an access token and returns the staff ID and role.
func (s *Service) ParseAccessToken(token string) (string, string, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return "", "", common.NewAppError("UNAUTHORIZED", "missing token", httpStatusUnauthorized, nil)
	}
	algorithm, err := extractTokenAlgorithm(trimmed)
	if err != nil {
		return "", "", common.NewAppError("UNAUTHORIZED", "invalid token", httpStatusUnauthorized, err)
	}
	if s.validator.Algorithm != "" && algorithm != s.validator.Algorithm {
		return "", "", common.NewAppError("UNAUTHORIZED", "invalid token", httpStatusUnauthorized, fmt.Errorf("unexpected token algorithm %s", algorithm))
	}
	parsed, err := jwt.ParseString(trimmed, jwt.WithKey(algorithm, s.secret))
	if err != nil {
		return "", "", common.NewAppError("UNAUTHORIZED", "invalid token", httpStatusUnauthorized, err)
	}
	if err := s.validator.Validate(parsed, algorithm, s.now()); err != nil {
		return "", "", common.NewAppError("UNAUTHORIZED", "invalid token", httpStatusUnauthorized, err)
	}
	role := ""
	if raw, ok := parsed.Get(roleClaim); ok {
		role, _ = raw.(string)
	}
	return parsed.Subject(), role, nil
}

func extractTokenAlgorithm(token string) (jwa.SignatureAlgorithm, error) {
	message, err := jws.ParseString(token)
	if err != nil {
		return "", err
	}
	signatures := message.Signatures()
	if len(signatures) == 0 {
		return "", errors.New("auth: token contains no signatures")
	}
	var algorithm jwa.SignatureAlgorithm
	for _, sig := range signatures {
		headers := sig.ProtectedHeaders()
		if headers == nil {
			return "", errors.New("auth: token missing protected headers")
		}
		alg := headers.Algorithm()
		if alg == "" {
			return "", errors.New("auth: token missing algorithm")
		}
		if alg == jwa.NoSignature {
			return "", errors.New("auth: token uses none algorithm")
		}
		if algorithm == "" {
			algorithm = alg
		} else if algorithm != alg {
			return "", fmt.Errorf("auth: mixed token algorithms detected")
		}
	}
	return algorithm, nil
}

func (s *Service) signAccessToken(staffID, role string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.accessTTL)
	builder := jwt.NewBuilder().
		Subject(staffID).
		Issuer(s.issuer).
		Audience([]string{s.audience}).
		IssuedAt(now).
		NotBefore(now.Add(-s.clockSkew)).
		Expiration(expiresAt).
		Claim(roleClaim, role)
	token, err := builder.Build()
	if err != nil {
		return "", time.Time{}, err
	}
	signed, err := jwt.Sign(token, jwt.WithKey(s.signer, s.secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return string(signed), expiresAt, nil
}

func validatePin(pin string) error {
	if len(pin) < 4 || len(pin) > 8 {
		return common.NewAppError("VALIDATION", "pin must be 4 to 8 digits", httpStatusBadRequest, nil)
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return common.NewAppError("VALIDATION", "pin must be 4 to 8 digits", httpStatusBadRequest, nil)
		}
	}
	return nil
}

func invalidCredentials(err error) error {
	return common.NewAppError("INVALID_CREDENTIALS", "invalid staff or pin", httpStatusUnauthorized, err)
}

func unauthorized(err error) error {
	return common.NewAppError("UNAUTHORIZED", "unauthorized", httpStatusUnauthorized, err)
}

func convertRecord(rec StaffRecord) Staff {
	return Staff{
		ID:        rec.ID,
		Name:      rec.Name,
		Role:      rec.Role,
		Active:    rec.Active,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

const httpStatusBadRequest = 400
const httpStatusUnauthorized = 401
const httpStatusConflict = 409
