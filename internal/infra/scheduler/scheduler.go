package scheduler

import (
	"context"
	"time"

	"pilot_license_tracker/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ReminderScheduler owns the periodic jobs: the daily reminder check and the
// monthly ledger purge.
type ReminderScheduler struct {
	cronEngine      *cron.Cron
	reminders       *app.ReminderService
	logger          *logrus.Logger
	specDailyCheck  string
	specLedgerPurge string
	retentionDays   int
}

func NewReminderScheduler(
	reminders *app.ReminderService,
	logger *logrus.Logger,
	specDailyCheck string, // e.g. "0 8 * * *" (08:00 daily)
	specLedgerPurge string, // e.g. "0 3 1 * *" (03:00 on the 1st)
	retentionDays int,
) *ReminderScheduler {
	return &ReminderScheduler{
		cronEngine:      cron.New(cron.WithLocation(time.Local)),
		reminders:       reminders,
		logger:          logger,
		specDailyCheck:  specDailyCheck,
		specLedgerPurge: specLedgerPurge,
		retentionDays:   retentionDays,
	}
}

func (s *ReminderScheduler) Start() error {
	_, err := s.cronEngine.AddFunc(s.specDailyCheck, func() {
		s.logger.Info("cron job triggered: daily reminder check")
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
		defer cancel()
		report, err := s.reminders.RunCheck(ctx, time.Now())
		if err != nil {
			s.logger.WithError(err).Error("scheduled reminder run failed")
			return
		}
		s.logger.WithField("sent", report.Sent).Info("scheduled reminder run finished")
	})
	if err != nil {
		return err
	}

	_, err = s.cronEngine.AddFunc(s.specLedgerPurge, func() {
		s.logger.Info("cron job triggered: reminder ledger purge")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
		if _, err := s.reminders.PurgeLedger(ctx, cutoff); err != nil {
			s.logger.WithError(err).Error("scheduled ledger purge failed")
		}
	})
	if err != nil {
		return err
	}

	s.cronEngine.Start()
	s.logger.Info("reminder scheduler started")
	return nil
}

// Stop halts scheduling and waits for any running job to finish.
func (s *ReminderScheduler) Stop() {
	s.logger.Info("stopping reminder scheduler")
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.logger.Info("reminder scheduler stopped")
}
