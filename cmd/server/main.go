package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pilot_license_tracker/internal/app"
	"pilot_license_tracker/internal/domain/reminder"
	"pilot_license_tracker/internal/infra/config"
	idb "pilot_license_tracker/internal/infra/database"
	"pilot_license_tracker/internal/infra/email"
	"pilot_license_tracker/internal/infra/httpapi"
	"pilot_license_tracker/internal/infra/logger"
	"pilot_license_tracker/internal/infra/scheduler"

	"github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("UAV License Tracker starting...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: could not load application configuration: %v", err)
	}
	logger.Init(cfg)
	lg := logger.Get()
	lg.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"log_level":   cfg.LogLevel,
	}).Info("configuration loaded")

	if cfg.AdminPassword == "" {
		lg.Fatal("ADMIN_PASSWORD is not set")
	}

	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		lg.Fatalf("could not connect to database: %v", err)
	}
	defer db.Close()
	if err := idb.Migrate(db); err != nil {
		lg.Fatalf("could not apply database migrations: %v", err)
	}
	lg.Info("database ready")

	pilotRepo := idb.NewPostgresPilotRepository(db)
	recipientRepo := idb.NewPostgresRecipientRepository(db)
	ledgerRepo := idb.NewPostgresLedgerRepository(db)

	dispatcher, err := buildDispatcher(cfg, lg)
	if err != nil {
		lg.Fatalf("could not set up email dispatcher: %v", err)
	}

	pilotService := app.NewPilotService(pilotRepo, lg)
	recipientService := app.NewRecipientService(recipientRepo, lg)
	reminderService := app.NewReminderService(
		pilotRepo, recipientRepo, ledgerRepo, dispatcher,
		app.ReminderConfig{
			LeadDays:    cfg.ReminderLeadDays,
			SendDelay:   cfg.SendDelay,
			SendTimeout: cfg.SendTimeout,
		},
		lg,
	)

	sched := scheduler.NewReminderScheduler(
		reminderService, lg,
		cfg.CronSpecDailyCheck, cfg.CronSpecLedgerPurge, cfg.LedgerRetentionDays,
	)
	if err := sched.Start(); err != nil {
		lg.Fatalf("could not start scheduler: %v", err)
	}

	sessions := httpapi.NewSessionStore(cfg.AdminPassword, cfg.SessionTTL)
	handler := httpapi.NewHandler(pilotService, recipientService, reminderService, sessions, lg)
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpapi.NewRouter(handler, cfg.AllowedOrigins),
	}

	go func() {
		lg.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Fatalf("HTTP server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lg.Info("shutting down")
	sched.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.WithError(err).Error("HTTP server shutdown failed")
	}
	lg.Info("shut down gracefully")
}

func buildDispatcher(cfg *config.AppConfig, lg *logrus.Logger) (reminder.Dispatcher, error) {
	switch cfg.EmailDriver {
	case "sendgrid":
		return email.NewSendgridDispatcher(cfg.SendgridAPIKey, cfg.FromName, cfg.FromEmail)
	default:
		lg.Warn("using console email dispatcher, no real mail will be sent")
		return email.NewConsoleDispatcher(lg), nil
	}
}
