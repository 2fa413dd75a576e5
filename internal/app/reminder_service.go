package app

import (
	"context"
	"fmt"
	"time"

	"pilot_license_tracker/internal/domain/pilot"
	"pilot_license_tracker/internal/domain/recipient"
	"pilot_license_tracker/internal/domain/reminder"

	"github.com/sirupsen/logrus"
)

const (
	defaultLeadDays    = 45
	defaultSendTimeout = 10 * time.Second
)

// ReminderConfig carries the tunables for a reminder run. It is handed in at
// construction time; the service never reads ambient configuration.
type ReminderConfig struct {
	// LeadDays is the exact day count that triggers a reminder. The
	// comparison is strict equality, not a range: the job runs once a day,
	// so each field instance crosses the mark exactly once. A run missed on
	// that day means the reminder is skipped for that instance.
	LeadDays int
	// SendDelay is the courtesy pacing between consecutive outbound emails.
	SendDelay time.Duration
	// SendTimeout bounds each individual dispatch call; a timeout counts as
	// a dispatch failure.
	SendTimeout time.Duration
}

// ReminderService evaluates every tracked field of every pilot against the
// exact lead-day trigger and dispatches at most one reminder per field
// instance, recording each confirmed send in the ledger.
type ReminderService struct {
	pilots     pilot.Repository
	recipients recipient.Repository
	ledger     reminder.LedgerRepository
	dispatcher reminder.Dispatcher
	cfg        ReminderConfig
	logger     *logrus.Logger
}

func NewReminderService(
	pilots pilot.Repository,
	recipients recipient.Repository,
	ledger reminder.LedgerRepository,
	dispatcher reminder.Dispatcher,
	cfg ReminderConfig,
	logger *logrus.Logger,
) *ReminderService {
	if cfg.LeadDays <= 0 {
		cfg.LeadDays = defaultLeadDays
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaultSendTimeout
	}
	return &ReminderService{
		pilots:     pilots,
		recipients: recipients,
		ledger:     ledger,
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     logger,
	}
}

// RunCheck performs one reminder pass over all pilots.
//
// A repository read failure aborts the whole run before anything is written.
// Dispatch and ledger failures are isolated per field instance: a failure for
// one pilot never blocks the others, and a failed field simply stays eligible
// while its trigger day lasts.
func (s *ReminderService) RunCheck(ctx context.Context, now time.Time) (*reminder.Report, error) {
	pilots, err := s.pilots.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing pilots: %w", err)
	}
	managers, err := s.recipients.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing manager recipients: %w", err)
	}
	if len(managers) == 0 {
		s.logger.Warn("manager mailing list is empty, reminders go to pilots only")
	}

	report := &reminder.Report{}
	for _, p := range pilots {
		if p.Email == "" {
			s.logger.WithField("pilot_id", p.ID).Warn("pilot has no email address, skipping")
			continue
		}
		for _, f := range p.TrackedFields() {
			report.Checked++
			if reminder.DaysUntil(now, f.Expiry) != s.cfg.LeadDays {
				continue
			}
			report.Triggered++
			s.processField(ctx, now, p, f, managers, report)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"checked":   report.Checked,
		"triggered": report.Triggered,
		"sent":      report.Sent,
		"failed":    report.Failed,
		"skipped":   report.SkippedAlreadySent,
	}).Info("reminder run complete")
	return report, nil
}

// processField handles one triggered field instance: dedup check, pilot
// dispatch, ledger write, manager fan-out.
func (s *ReminderService) processField(
	ctx context.Context,
	now time.Time,
	p *pilot.Pilot,
	f reminder.TrackedField,
	managers []*recipient.ManagerRecipient,
	report *reminder.Report,
) {
	key := reminder.NewKey(p.ID, f.Kind, f.Expiry)
	log := s.logger.WithFields(logrus.Fields{
		"pilot_id": p.ID,
		"kind":     f.Kind,
		"expiry":   key.ExpiryDay,
	})

	sent, err := s.ledger.WasSent(ctx, key)
	if err != nil {
		log.WithError(err).Error("ledger lookup failed")
		report.Failed++
		report.Failures = append(report.Failures, key)
		return
	}
	if sent {
		report.SkippedAlreadySent++
		log.Info("reminder already sent for this field instance")
		return
	}

	notice := reminder.Notice{
		RecipientName:  p.FullName(),
		RecipientEmail: p.Email,
		PilotName:      p.FullName(),
		Kind:           f.Kind,
		ExpiryDate:     f.Expiry,
		DaysRemaining:  s.cfg.LeadDays,
	}
	if err := s.dispatch(ctx, notice); err != nil {
		log.WithError(err).Error("reminder dispatch failed")
		report.Failed++
		report.Failures = append(report.Failures, key)
		return
	}
	report.Sent++
	log.Info("reminder sent to pilot")

	// Write the marker before fanning out to managers: the pilot send alone
	// gates the ledger entry, and manager failures must not unwind it.
	entry := &reminder.Entry{Key: key, PilotName: p.FullName(), SentAt: now}
	if err := s.ledger.MarkSent(ctx, entry); err != nil {
		// The reminder went out but the marker did not stick. If the trigger
		// window is still open on the next run a duplicate could be sent.
		log.WithError(err).Error("ledger write failed after successful dispatch")
	}

	s.fanOut(ctx, notice, managers)
}

// fanOut sends a copy of the pilot's reminder to every manager recipient.
// Manager sends are independent of each other and of the pilot's ledger
// entry; failures are logged and dropped.
func (s *ReminderService) fanOut(ctx context.Context, subject reminder.Notice, managers []*recipient.ManagerRecipient) {
	for _, m := range managers {
		copied := subject
		copied.RecipientName = m.Name
		copied.RecipientEmail = m.Email
		if err := s.dispatch(ctx, copied); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"manager_email": m.Email,
				"pilot_name":    subject.PilotName,
			}).Error("manager copy dispatch failed")
		}
	}
}

// dispatch sends one notice under a bounded deadline, then applies the pacing
// delay so consecutive sends do not hammer the provider.
func (s *ReminderService) dispatch(ctx context.Context, n reminder.Notice) error {
	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.SendTimeout)
	defer cancel()
	err := s.dispatcher.Send(sendCtx, n)
	s.pause(ctx)
	return err
}

func (s *ReminderService) pause(ctx context.Context) {
	if s.cfg.SendDelay <= 0 {
		return
	}
	select {
	case <-time.After(s.cfg.SendDelay):
	case <-ctx.Done():
	}
}

// PurgeLedger drops ledger entries older than the retention cutoff.
func (s *ReminderService) PurgeLedger(ctx context.Context, cutoff time.Time) (int64, error) {
	purged, err := s.ledger.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging reminder ledger: %w", err)
	}
	if purged > 0 {
		s.logger.WithField("purged", purged).Info("old ledger entries removed")
	}
	return purged, nil
}
