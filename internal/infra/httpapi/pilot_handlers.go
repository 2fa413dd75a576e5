package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"pilot_license_tracker/internal/app"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListPilots(w http.ResponseWriter, r *http.Request) {
	pilots, err := h.pilots.List(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toPilotResponses(pilots, time.Now()))
}

func (h *Handler) GetPilot(w http.ResponseWriter, r *http.Request) {
	p, err := h.pilots.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toPilotResponse(p, time.Now()))
}

func (h *Handler) CreatePilot(w http.ResponseWriter, r *http.Request) {
	var in app.PilotInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	p, err := h.pilots.Create(r.Context(), in)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toPilotResponse(p, time.Now()))
}

func (h *Handler) UpdatePilot(w http.ResponseWriter, r *http.Request) {
	var in app.PilotInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	p, err := h.pilots.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toPilotResponse(p, time.Now()))
}

func (h *Handler) DeletePilot(w http.ResponseWriter, r *http.Request) {
	if err := h.pilots.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.pilots.Stats(r.Context(), time.Now())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
