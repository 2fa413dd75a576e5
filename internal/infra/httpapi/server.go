package httpapi

import (
	"net/http"

	"pilot_license_tracker/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
)

// Handler bundles the application services behind the HTTP surface.
type Handler struct {
	pilots     *app.PilotService
	recipients *app.RecipientService
	reminders  *app.ReminderService
	sessions   *SessionStore
	logger     *logrus.Logger
}

func NewHandler(
	pilots *app.PilotService,
	recipients *app.RecipientService,
	reminders *app.ReminderService,
	sessions *SessionStore,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		pilots:     pilots,
		recipients: recipients,
		reminders:  reminders,
		sessions:   sessions,
		logger:     logger,
	}
}

// NewRouter wires all routes. Everything under /api except login sits behind
// the admin session gate.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.sessions.Middleware)

			r.Route("/pilots", func(r chi.Router) {
				r.Get("/", h.ListPilots)
				r.Post("/", h.CreatePilot)
				r.Get("/{id}", h.GetPilot)
				r.Put("/{id}", h.UpdatePilot)
				r.Delete("/{id}", h.DeletePilot)
			})

			r.Route("/managers", func(r chi.Router) {
				r.Get("/", h.ListRecipients)
				r.Post("/", h.CreateRecipient)
				r.Put("/{id}", h.UpdateRecipient)
				r.Delete("/{id}", h.DeleteRecipient)
			})

			r.Get("/stats", h.Stats)
			r.Post("/reminders/run", h.RunReminders)
		})
	})

	return r
}
