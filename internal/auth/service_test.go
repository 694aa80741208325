package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-pos/internal/auth"
)

type fakeStore struct {
	staff map[string]auth.StaffRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{staff: map[string]auth.StaffRecord{}}
}

func (f *fakeStore) CreateStaff(_ context.Context, rec auth.StaffRecord) error {
	f.staff[rec.ID] = rec
	return nil
}

func (f *fakeStore) GetStaff(_ context.Context, id string) (auth.StaffRecord, error) {
	rec, ok := f.staff[id]
	if !ok {
		return auth.StaffRecord{}, auth.ErrNotFound
	}
	return rec, nil
}

func (f *fakeStore) ListStaff(_ context.Context, includeInactive bool) ([]auth.StaffRecord, error) {
	var out []auth.StaffRecord
	for _, rec := range f.staff {
		if rec.Active || includeInactive {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdatePin(_ context.Context, id, pinHash string, at time.Time) error {
	rec, ok := f.staff[id]
	if !ok {
		return auth.ErrNotFound
	}
	rec.PinHash = pinHash
	rec.UpdatedAt = at
	f.staff[id] = rec
	return nil
}

func (f *fakeStore) SetActive(_ context.Context, id string, active bool, at time.Time) error {
	rec, ok := f.staff[id]
	if !ok {
		return auth.ErrNotFound
	}
	rec.Active = active
	rec.UpdatedAt = at
	f.staff[id] = rec
	return nil
}

func newService(t *testing.T, store auth.Store) *auth.Service {
	t.Helper()
	svc, err := auth.NewService(auth.Config{
		Store:          store,
		Secret:         "test-secret-please-rotate",
		AccessTokenTTL: time.Hour,
	})
	require.NoError(t, err)
	return svc
}

func seedStaff(t *testing.T, store *fakeStore, id, role, pin string, active bool) {
	t.Helper()
	hash, err := argon2id.CreateHash(pin, argon2id.DefaultParams)
	require.NoError(t, err)
	store.staff[id] = auth.StaffRecord{
		ID:      id,
		Name:    "Staff " + id,
		Role:    role,
		PinHash: hash,
		Active:  active,
	}
}

func TestLoginIssuesTokenWithRole(t *testing.T) {
	store := newFakeStore()
	seedStaff(t, store, "staff-1", auth.RoleAdmin, "4321", true)
	svc := newService(t, store)

	result, err := svc.Login(context.Background(), "staff-1", "4321")
	require.NoError(t, err)
	require.Equal(t, "staff-1", result.Staff.ID)
	require.NotEmpty(t, result.AccessToken)
	require.True(t, result.AccessExpiry.After(time.Now()))

	staffID, role, err := svc.ParseAccessToken(result.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "staff-1", staffID)
	require.Equal(t, auth.RoleAdmin, role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	store := newFakeStore()
	seedStaff(t, store, "staff-1", auth.RoleStaff, "4321", true)
	seedStaff(t, store, "staff-2", auth.RoleStaff, "1111", false)
	svc := newService(t, store)

	cases := []struct {
		name    string
		staffID string
		pin     string
	}{
		{"wrong pin", "staff-1", "9999"},
		{"unknown staff", "ghost", "4321"},
		{"inactive staff", "staff-2", "1111"},
		{"empty pin", "staff-1", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.staffID, tc.pin)
			require.Error(t, err)
			require.Contains(t, err.Error(), "invalid staff or pin")
		})
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	store := newFakeStore()
	seedStaff(t, store, "staff-1", auth.RoleStaff, "4321", true)
	svc := newService(t, store)

	past := time.Now().Add(-48 * time.Hour)
	svc.WithNow(func() time.Time { return past })
	result, err := svc.Login(context.Background(), "staff-1", "4321")
	require.NoError(t, err)

	svc.WithNow(time.Now)
	_, _, err = svc.ParseAccessToken(result.AccessToken)
	require.Error(t, err)
}

func TestParseAccessTokenRejectsForeignSignature(t *testing.T) {
	store := newFakeStore()
	seedStaff(t, store, "staff-1", auth.RoleStaff, "4321", true)

	issuing, err := auth.NewService(auth.Config{Store: store, Secret: "other-secret"})
	require.NoError(t, err)
	result, err := issuing.Login(context.Background(), "staff-1", "4321")
	require.NoError(t, err)

	svc := newService(t, store)
	_, _, err = svc.ParseAccessToken(result.AccessToken)
	require.Error(t, err)
}

func TestCreateStaffValidation(t *testing.T) {
	svc := newService(t, newFakeStore())

	cases := []struct {
		name      string
		staffName string
		role      string
		pin       string
		wantMsg   string
	}{
		{"missing name", "", "STAFF", "1234", "name is required"},
		{"bad role", "Dana", "OWNER", "1234", "role must be ADMIN or STAFF"},
		{"short pin", "Dana", "STAFF", "12", "pin must be 4 to 8 digits"},
		{"non numeric pin", "Dana", "STAFF", "12ab", "pin must be 4 to 8 digits"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateStaff(context.Background(), tc.staffName, tc.role, tc.pin)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestCreateStaffHashesPin(t *testing.T) {
	store := newFakeStore()
	svc := newService(t, store)

	staff, err := svc.CreateStaff(context.Background(), "  Dana  ", "staff", "123456")
	require.NoError(t, err)
	require.Equal(t, "Dana", staff.Name)
	require.Equal(t, auth.RoleStaff, staff.Role)
	require.True(t, staff.Active)

	rec := store.staff[staff.ID]
	require.NotEqual(t, "123456", rec.PinHash)
	ok, err := argon2id.ComparePasswordAndHash("123456", rec.PinHash)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestSetPinAndDeactivate(t *testing.T) {
	store := newFakeStore()
	seedStaff(t, store, "staff-1", auth.RoleStaff, "4321", true)
	svc := newService(t, store)

	require.NoError(t, svc.SetPin(context.Background(), "staff-1", "8765"))
	_, err := svc.Login(context.Background(), "staff-1", "4321")
	require.Error(t, err)
	_, err = svc.Login(context.Background(), "staff-1", "8765")
	require.NoError(t, err)

	require.NoError(t, svc.SetActive(context.Background(), "staff-1", false))
	_, err = svc.Login(context.Background(), "staff-1", "8765")
	require.Error(t, err)

	require.ErrorIs(t, svc.SetPin(context.Background(), "ghost", "1234"), auth.ErrNotFound)
}

func TestListStaffFiltersInactive(t *testing.T) {
	store := newFakeStore()
	seedStaff(t, store, "staff-1", auth.RoleStaff, "4321", true)
	seedStaff(t, store, "staff-2", auth.RoleStaff, "4321", false)
	svc := newService(t, store)

	active, err := svc.ListStaff(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, active, 1)

	all, err := svc.ListStaff(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, all, 2)
}
