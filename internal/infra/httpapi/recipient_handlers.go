package httpapi

import (
	"encoding/json"
	"net/http"

	"pilot_license_tracker/internal/app"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListRecipients(w http.ResponseWriter, r *http.Request) {
	recipients, err := h.recipients.List(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	out := make([]RecipientResponse, 0, len(recipients))
	for _, m := range recipients {
		out = append(out, toRecipientResponse(m))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateRecipient(w http.ResponseWriter, r *http.Request) {
	var in app.RecipientInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	m, err := h.recipients.Create(r.Context(), in)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toRecipientResponse(m))
}

func (h *Handler) UpdateRecipient(w http.ResponseWriter, r *http.Request) {
	var in app.RecipientInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	m, err := h.recipients.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toRecipientResponse(m))
}

func (h *Handler) DeleteRecipient(w http.ResponseWriter, r *http.Request) {
	if err := h.recipients.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
