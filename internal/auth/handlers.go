package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-pos/internal/common"
)

// Handler exposes HTTP handlers for authentication and staff management.
type Handler struct {
	Service *Service
}

type loginRequest struct {
	StaffID string `json:"staffId"`
	Pin     string `json:"pin"`
}

type createStaffRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
	Pin  string `json:"pin"`
}

type setPinRequest struct {
	Pin string `json:"pin"`
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

// Routes mounts login and session endpoints. Login should sit behind the
// login rate limiter.
func (h *Handler) Routes(r chi.Router, loginLimiter func(http.Handler) http.Handler) {
	login := http.Handler(http.HandlerFunc(h.Login))
	if loginLimiter != nil {
		login = loginLimiter(login)
	}
	r.Method(http.MethodPost, "/auth/login", login)
	r.Get("/auth/staff", h.LoginScreenStaff)
}

// SessionRoutes mounts endpoints that require an authenticated staff member.
func (h *Handler) SessionRoutes(r chi.Router) {
	r.Get("/auth/me", h.Me)
}

// AdminRoutes mounts staff management endpoints.
func (h *Handler) AdminRoutes(r chi.Router) {
	r.Post("/staff", h.CreateStaff)
	r.Get("/staff", h.ListStaff)
	r.Put("/staff/{id}/pin", h.SetPin)
	r.Put("/staff/{id}/active", h.SetActive)
}

// Login handles POST /api/v1/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request payload", nil)
		return
	}
	result, err := h.Service.Login(r.Context(), req.StaffID, req.Pin)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, result)
}

// LoginScreenStaff handles GET /api/v1/auth/staff. The terminal shows active
// staff so a cashier can pick their name before entering a PIN.
func (h *Handler) LoginScreenStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.Service.ListStaff(r.Context(), false)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, staff)
}

// Me handles GET /api/v1/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	staffID, ok := common.StaffID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token", nil)
		return
	}
	staff, err := h.Service.Me(r.Context(), staffID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, staff)
}

// CreateStaff handles POST /api/v1/admin/staff.
func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req createStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request payload", nil)
		return
	}
	staff, err := h.Service.CreateStaff(r.Context(), req.Name, req.Role, req.Pin)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusCreated, staff)
}

// ListStaff handles GET /api/v1/admin/staff.
func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	includeInactive := strings.EqualFold(r.URL.Query().Get("include_inactive"), "true")
	staff, err := h.Service.ListStaff(r.Context(), includeInactive)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, staff)
}

// SetPin handles PUT /api/v1/admin/staff/{id}/pin.
func (h *Handler) SetPin(w http.ResponseWriter, r *http.Request) {
	var req setPinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request payload", nil)
		return
	}
	if err := h.Service.SetPin(r.Context(), chi.URLParam(r, "id"), req.Pin); err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, map[string]any{"message": "pin updated"})
}

// SetActive handles PUT /api/v1/admin/staff/{id}/active.
func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	var req setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request payload", nil)
		return
	}
	if err := h.Service.SetActive(r.Context(), chi.URLParam(r, "id"), req.Active); err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, map[string]any{"message": "staff updated"})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		common.JSONError(w, http.StatusNotFound, "STAFF_NOT_FOUND", "staff not found", nil)
		return
	}
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		code := appErr.Code
		if code == "" {
			code = "INTERNAL"
		}
		message := appErr.Message
		if message == "" {
			message = "internal error"
		}
		common.JSONError(w, status, code, message, appErr.Details)
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
}
