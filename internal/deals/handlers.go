package deals

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-pos/internal/common"
)

// Handler exposes discount rule endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts terminal-facing endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/deals/preview", h.Preview)
}

// AdminRoutes mounts rule management endpoints.
func (h *Handler) AdminRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Save)
	r.Get("/{id}", h.Get)
	r.Delete("/{id}", h.Delete)
}

// List handles GET /api/v1/admin/deals.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, rows)
}

// Get handles GET /api/v1/admin/deals/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	rule, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, rule)
}

// Save handles POST /api/v1/admin/deals.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var payload Rule
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid JSON body", nil)
		return
	}
	saved, err := h.service.Save(r.Context(), payload)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, saved)
}

// Delete handles DELETE /api/v1/admin/deals/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Preview handles POST /api/v1/deals/preview. It evaluates the active rules
// against a hypothetical cart without persisting anything.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	var payload PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid JSON body", nil)
		return
	}
	result, err := h.service.Preview(r.Context(), payload)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, result)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "discount rule not found", nil)
		return
	}
	common.WriteError(w, err)
}
