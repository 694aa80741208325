package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-pos/internal/auth"
	"github.com/noah-isme/backend-pos/internal/common"
)

func login(t *testing.T, svc *auth.Service, staffID, pin string) string {
	t.Helper()
	result, err := svc.Login(context.Background(), staffID, pin)
	require.NoError(t, err)
	return result.AccessToken
}

func TestRequireAuthPopulatesStaffContext(t *testing.T) {
	store := newFakeStore()
	seedStaff(t, store, "staff-1", auth.RoleStaff, "4321", true)
	svc := newService(t, store)
	mw := auth.Middleware{Service: svc}

	var gotID, gotRole string
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = common.StaffID(r.Context())
		gotRole, _ = common.StaffRole(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+login(t, svc, "staff-1", "4321"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "staff-1", gotID)
	require.Equal(t, auth.RoleStaff, gotRole)
}

func TestRequireAuthRejectsMissingAndBadTokens(t *testing.T) {
	svc := newService(t, newFakeStore())
	mw := auth.Middleware{Service: svc}
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	for name, header := range map[string]string{
		"missing": "",
		"garbage": "Bearer not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireRoleForbidsOtherRoles(t *testing.T) {
	store := newFakeStore()
	seedStaff(t, store, "admin-1", auth.RoleAdmin, "4321", true)
	seedStaff(t, store, "staff-1", auth.RoleStaff, "1234", true)
	svc := newService(t, store)
	mw := auth.Middleware{Service: svc}

	handler := mw.RequireAuth(mw.RequireRole(auth.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	adminReq := httptest.NewRequest(http.MethodGet, "/admin", nil)
	adminReq.Header.Set("Authorization", "Bearer "+login(t, svc, "admin-1", "4321"))
	adminRec := httptest.NewRecorder()
	handler.ServeHTTP(adminRec, adminReq)
	require.Equal(t, http.StatusNoContent, adminRec.Code)

	staffReq := httptest.NewRequest(http.MethodGet, "/admin", nil)
	staffReq.Header.Set("Authorization", "Bearer "+login(t, svc, "staff-1", "1234"))
	staffRec := httptest.NewRecorder()
	handler.ServeHTTP(staffRec, staffReq)
	require.Equal(t, http.StatusForbidden, staffRec.Code)
}
