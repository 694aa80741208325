package menu

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-pos/internal/common"
)

// Handler exposes catalog endpoints.
type Handler struct {
	service *Service
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service *Service
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{service: cfg.Service}
}

// Routes mounts public catalog endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/menu", h.Menu)
	r.Get("/categories", h.Categories)
}

// AdminRoutes mounts catalog management endpoints.
func (h *Handler) AdminRoutes(r chi.Router) {
	r.Post("/categories", h.SaveCategory)
	r.Delete("/categories/{id}", h.DeleteCategory)
	r.Post("/items", h.SaveItem)
	r.Get("/items/{id}", h.GetItem)
	r.Delete("/items/{id}", h.DeleteItem)
	r.Post("/toppings", h.SaveTopping)
	r.Delete("/toppings/{id}", h.DeleteTopping)
}

// Menu handles GET /api/v1/menu.
func (h *Handler) Menu(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, snap)
}

// Categories handles GET /api/v1/categories.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Categories(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, rows)
}

// SaveCategory handles POST /api/v1/admin/menu/categories.
func (h *Handler) SaveCategory(w http.ResponseWriter, r *http.Request) {
	var payload Category
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid JSON body", nil)
		return
	}
	saved, err := h.service.SaveCategory(r.Context(), payload)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, saved)
}

// DeleteCategory handles DELETE /api/v1/admin/menu/categories/{id}.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SaveItem handles POST /api/v1/admin/menu/items. Validation warnings are
// returned alongside the saved item so the admin UI can surface them.
func (h *Handler) SaveItem(w http.ResponseWriter, r *http.Request) {
	var payload Item
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid JSON body", nil)
		return
	}
	saved, warnings, err := h.service.SaveItem(r.Context(), payload)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": saved, "warnings": warnings})
}

// GetItem handles GET /api/v1/admin/menu/items/{id}.
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	it, err := h.service.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, it)
}

// DeleteItem handles DELETE /api/v1/admin/menu/items/{id}.
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SaveTopping handles POST /api/v1/admin/menu/toppings.
func (h *Handler) SaveTopping(w http.ResponseWriter, r *http.Request) {
	var payload Topping
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid JSON body", nil)
		return
	}
	saved, err := h.service.SaveTopping(r.Context(), payload)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, saved)
}

// DeleteTopping handles DELETE /api/v1/admin/menu/toppings/{id}.
func (h *Handler) DeleteTopping(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteTopping(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "catalog record not found", nil)
		return
	}
	common.WriteError(w, err)
}
