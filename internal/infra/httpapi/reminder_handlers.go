package httpapi

import (
	"encoding/json"
	"net/http"
	"time"
)

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	token, ok := h.sessions.Login(in.Password)
	if !ok {
		respondError(w, http.StatusUnauthorized, "invalid password")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// RunReminders triggers a reminder pass interactively and returns its report.
func (h *Handler) RunReminders(w http.ResponseWriter, r *http.Request) {
	report, err := h.reminders.RunCheck(r.Context(), time.Now())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}
