// Command remind performs a single reminder pass and exits. It is meant to be
// invoked by an external daily scheduler; a non-zero exit code signals an
// unrecoverable failure so the scheduler can alert on it.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"pilot_license_tracker/internal/app"
	"pilot_license_tracker/internal/domain/reminder"
	"pilot_license_tracker/internal/infra/config"
	idb "pilot_license_tracker/internal/infra/database"
	"pilot_license_tracker/internal/infra/email"
	"pilot_license_tracker/internal/infra/logger"

	"github.com/sirupsen/logrus"
)

func main() {
	purge := flag.Bool("purge", false, "also purge ledger entries past the retention window")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: could not load application configuration: %v", err)
	}
	logger.Init(cfg)
	lg := logger.Get()

	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		lg.Errorf("could not connect to database: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	dispatcher, err := buildDispatcher(cfg, lg)
	if err != nil {
		lg.Errorf("could not set up email dispatcher: %v", err)
		os.Exit(1)
	}
	reminderService := app.NewReminderService(
		idb.NewPostgresPilotRepository(db),
		idb.NewPostgresRecipientRepository(db),
		idb.NewPostgresLedgerRepository(db),
		dispatcher,
		app.ReminderConfig{
			LeadDays:    cfg.ReminderLeadDays,
			SendDelay:   cfg.SendDelay,
			SendTimeout: cfg.SendTimeout,
		},
		lg,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	report, err := reminderService.RunCheck(ctx, time.Now())
	if err != nil {
		lg.Errorf("reminder run failed: %v", err)
		os.Exit(1)
	}
	lg.WithFields(logrus.Fields{
		"checked":   report.Checked,
		"triggered": report.Triggered,
		"sent":      report.Sent,
		"failed":    report.Failed,
		"skipped":   report.SkippedAlreadySent,
	}).Info("reminder run finished")

	if *purge {
		cutoff := time.Now().AddDate(0, 0, -cfg.LedgerRetentionDays)
		if _, err := reminderService.PurgeLedger(ctx, cutoff); err != nil {
			lg.Errorf("ledger purge failed: %v", err)
			os.Exit(1)
		}
	}
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
