package cart

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-pos/internal/common"
	"github.com/noah-isme/backend-pos/internal/pricing"
)

// Handler exposes cart endpoints for terminals.
type Handler struct {
	Svc *Service
}

// Routes mounts cart endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/carts", h.Create)
	r.Get("/carts/{id}", h.Get)
	r.Delete("/carts/{id}", h.Delete)
	r.Get("/carts/{id}/summary", h.Summary)
	r.Post("/carts/{id}/lines", h.AddLine)
	r.Patch("/carts/{id}/lines/{lineID}", h.UpdateLine)
	r.Delete("/carts/{id}/lines/{lineID}", h.RemoveLine)
	r.Put("/carts/{id}/manual-discount", h.SetManualDiscount)
	r.Delete("/carts/{id}/manual-discount", h.ClearManualDiscount)
	r.Put("/carts/{id}/auto-deals", h.SetAutoDeals)
}

// Create handles POST /api/v1/carts.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	c, err := h.Svc.Create(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusCreated, c)
}

// Get handles GET /api/v1/carts/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.Svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, c)
}

// Delete handles DELETE /api/v1/carts/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Summary handles GET /api/v1/carts/{id}/summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Svc.Summarize(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, summary)
}

// AddLine handles POST /api/v1/carts/{id}/lines.
func (h *Handler) AddLine(w http.ResponseWriter, r *http.Request) {
	var input LineInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid JSON body", nil)
		return
	}
	c, err := h.Svc.AddLine(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, c)
}

// UpdateLine handles PATCH /api/v1/carts/{id}/lines/{lineID}.
func (h *Handler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	var update LineUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid JSON body", nil)
		return
	}
	c, err := h.Svc.UpdateLine(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "lineID"), update)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, c)
}

// RemoveLine handles DELETE /api/v1/carts/{id}/lines/{lineID}.
func (h *Handler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	c, err := h.Svc.RemoveLine(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "lineID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, c)
}

// SetManualDiscount handles PUT /api/v1/carts/{id}/manual-discount.
func (h *Handler) SetManualDiscount(w http.ResponseWriter, r *http.Request) {
	var discount pricing.ManualDiscount
	if err := json.NewDecoder(r.Body).Decode(&discount); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid JSON body", nil)
		return
	}
	c, err := h.Svc.SetManualDiscount(r.Context(), chi.URLParam(r, "id"), &discount)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, c)
}

// ClearManualDiscount handles DELETE /api/v1/carts/{id}/manual-discount.
func (h *Handler) ClearManualDiscount(w http.ResponseWriter, r *http.Request) {
	c, err := h.Svc.SetManualDiscount(r.Context(), chi.URLParam(r, "id"), nil)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, c)
}

// SetAutoDeals handles PUT /api/v1/carts/{id}/auto-deals.
func (h *Handler) SetAutoDeals(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid JSON body", nil)
		return
	}
	c, err := h.Svc.SetAutoDeals(r.Context(), chi.URLParam(r, "id"), payload.Enabled)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, c)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "CART_NOT_FOUND", "cart not found", nil)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, pricing.ErrInvalidQuantity):
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
	default:
		common.WriteError(w, err)
	}
}
