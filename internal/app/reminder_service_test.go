package app_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"testing"
	"time"

	"pilot_license_tracker/internal/app"
	"pilot_license_tracker/internal/domain/pilot"
	"pilot_license_tracker/internal/domain/recipient"
	"pilot_license_tracker/internal/domain/reminder"
	"pilot_license_tracker/internal/infra/database/inmem"
	"pilot_license_tracker/internal/infra/email"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	lg := logrus.New()
	lg.SetOutput(io.Discard)
	return lg
}

type fixture struct {
	pilots     *inmem.PilotRepository
	recipients *inmem.RecipientRepository
	ledger     *inmem.LedgerRepository
	mailer     *email.Recorder
	svc        *app.ReminderService
}

func newFixture() *fixture {
	f := &fixture{
		pilots:     inmem.NewPilotRepository(),
		recipients: inmem.NewRecipientRepository(),
		ledger:     inmem.NewLedgerRepository(),
		mailer:     email.NewRecorder(),
	}
	f.svc = app.NewReminderService(
		f.pilots, f.recipients, f.ledger, f.mailer,
		app.ReminderConfig{LeadDays: 45, SendDelay: 0, SendTimeout: time.Second},
		quietLogger(),
	)
	return f
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedPilot(t *testing.T, f *fixture, p *pilot.Pilot) {
	t.Helper()
	require.NoError(t, f.pilots.Create(context.Background(), p))
}

func seedManager(t *testing.T, f *fixture, id, name, addr string) {
	t.Helper()
	require.NoError(t, f.recipients.Create(context.Background(), &recipient.ManagerRecipient{
		ID: id, Name: name, Email: addr,
	}))
}

func TestRunCheckSendsAtExactLeadDay(t *testing.T) {
	f := newFixture()
	expiry := day(2025, time.February, 15)
	seedPilot(t, f, &pilot.Pilot{
		ID: "p1", FirstName: "Dana", LastName: "Rotem", Email: "dana@example.com",
		MedicalExpiry: expiry,
	})

	now := time.Date(2025, time.January, 1, 8, 30, 0, 0, time.UTC) // 45 days out
	report, err := f.svc.RunCheck(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Checked)
	assert.Equal(t, 1, report.Triggered)
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, 0, report.SkippedAlreadySent)

	notices := f.mailer.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, "dana@example.com", notices[0].RecipientEmail)
	assert.Equal(t, "Dana Rotem", notices[0].PilotName)
	assert.Equal(t, reminder.KindMedical, notices[0].Kind)
	assert.Equal(t, 45, notices[0].DaysRemaining)

	sent, err := f.ledger.WasSent(context.Background(), reminder.NewKey("p1", reminder.KindMedical, expiry))
	require.NoError(t, err)
	assert.True(t, sent)
}

func TestRunCheckSecondRunSendsNothing(t *testing.T) {
	f := newFixture()
	expiry := day(2025, time.February, 15)
	seedPilot(t, f, &pilot.Pilot{
		ID: "p1", FirstName: "Dana", Email: "dana@example.com", MedicalExpiry: expiry,
	})
	now := day(2025, time.January, 1)

	_, err := f.svc.RunCheck(context.Background(), now)
	require.NoError(t, err)

	report, err := f.svc.RunCheck(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Triggered)
	assert.Equal(t, 0, report.Sent)
	assert.Equal(t, 1, report.SkippedAlreadySent)
	assert.Len(t, f.mailer.Notices(), 1)
}

func TestRunCheckNoTriggerOutsideExactDay(t *testing.T) {
	f := newFixture()
	expiry := day(2025, time.February, 15)
	seedPilot(t, f, &pilot.Pilot{
		ID: "p1", FirstName: "Dana", Email: "dana@example.com", MedicalExpiry: expiry,
	})

	for _, now := range []time.Time{
		day(2024, time.December, 31), // 46 days: too early
		day(2025, time.January, 2),   // 44 days: window already passed
	} {
		report, err := f.svc.RunCheck(context.Background(), now)
		require.NoError(t, err)
		assert.Equal(t, 0, report.Triggered, "now=%s", now)
		assert.Empty(t, f.mailer.Notices())
	}
}

func TestRunCheckRenewalFiresForNewExpiryDate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	first := day(2025, time.February, 15)
	p := &pilot.Pilot{ID: "p1", FirstName: "Dana", Email: "dana@example.com", MedicalExpiry: first}
	seedPilot(t, f, p)

	_, err := f.svc.RunCheck(ctx, day(2025, time.January, 1))
	require.NoError(t, err)
	require.Len(t, f.mailer.Notices(), 1)

	// Certificate renewed: the expiry date moves, the ledger key changes.
	renewed := day(2025, time.August, 20)
	p.MedicalExpiry = renewed
	require.NoError(t, f.pilots.Update(ctx, p))

	report, err := f.svc.RunCheck(ctx, renewed.AddDate(0, 0, -45))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, 0, report.SkippedAlreadySent)
	assert.Len(t, f.mailer.Notices(), 2)
	assert.Equal(t, 2, f.ledger.Len())
}

func TestRunCheckNonInstructorIgnoresInstructorDate(t *testing.T) {
	f := newFixture()
	instructorExpiry := day(2025, time.February, 15)
	seedPilot(t, f, &pilot.Pilot{
		ID: "p1", FirstName: "Dana", Email: "dana@example.com",
		MedicalExpiry:    day(2026, time.January, 1),
		IsInstructor:     false,
		InstructorExpiry: sql.NullTime{Time: instructorExpiry, Valid: true},
	})

	report, err := f.svc.RunCheck(context.Background(), day(2025, time.January, 1))
	require.NoError(t, err)
	// The stale instructor date is not even evaluated.
	assert.Equal(t, 1, report.Checked)
	assert.Equal(t, 0, report.Triggered)
	assert.Empty(t, f.mailer.Notices())
}

func TestRunCheckInstructorTracksBothFields(t *testing.T) {
	f := newFixture()
	expiry := day(2025, time.February, 15)
	seedPilot(t, f, &pilot.Pilot{
		ID: "p1", FirstName: "Dana", Email: "dana@example.com",
		MedicalExpiry:    expiry,
		IsInstructor:     true,
		InstructorExpiry: sql.NullTime{Time: expiry, Valid: true},
	})

	report, err := f.svc.RunCheck(context.Background(), day(2025, time.January, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, report.Checked)
	assert.Equal(t, 2, report.Sent)

	kinds := make(map[reminder.Kind]bool)
	for _, n := range f.mailer.Notices() {
		kinds[n.Kind] = true
	}
	assert.True(t, kinds[reminder.KindMedical])
	assert.True(t, kinds[reminder.KindInstructor])
}

func TestRunCheckDispatchFailureIsIsolated(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	expiry := day(2025, time.February, 15)
	seedPilot(t, f, &pilot.Pilot{ID: "pa", FirstName: "Alice", Email: "alice@example.com", MedicalExpiry: expiry})
	seedPilot(t, f, &pilot.Pilot{ID: "pb", FirstName: "Boaz", Email: "boaz@example.com", MedicalExpiry: expiry})
	f.mailer.FailFor("alice@example.com")

	report, err := f.svc.RunCheck(ctx, day(2025, time.January, 1))
	require.NoError(t, err)

	assert.Equal(t, 2, report.Triggered)
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "pa", report.Failures[0].PilotID)

	sentA, _ := f.ledger.WasSent(ctx, reminder.NewKey("pa", reminder.KindMedical, expiry))
	sentB, _ := f.ledger.WasSent(ctx, reminder.NewKey("pb", reminder.KindMedical, expiry))
	assert.False(t, sentA, "failed dispatch must not write a ledger entry")
	assert.True(t, sentB)
}

func TestRunCheckFansOutToManagers(t *testing.T) {
	f := newFixture()
	expiry := day(2025, time.February, 15)
	seedPilot(t, f, &pilot.Pilot{ID: "p1", FirstName: "Dana", Email: "dana@example.com", MedicalExpiry: expiry})
	seedManager(t, f, "m1", "Maya", "maya@example.com")
	seedManager(t, f, "m2", "Noam", "noam@example.com")

	report, err := f.svc.RunCheck(context.Background(), day(2025, time.January, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)

	notices := f.mailer.Notices()
	require.Len(t, notices, 3) // pilot + 2 managers

	addresses := make(map[string]bool)
	for _, n := range notices {
		addresses[n.RecipientEmail] = true
		assert.Equal(t, reminder.KindMedical, n.Kind)
		assert.Equal(t, expiry, n.ExpiryDate)
		assert.Equal(t, 45, n.DaysRemaining)
		assert.Equal(t, "Dana", n.PilotName)
	}
	assert.True(t, addresses["dana@example.com"])
	assert.True(t, addresses["maya@example.com"])
	assert.True(t, addresses["noam@example.com"])
}

func TestRunCheckManagerFailureDoesNotAffectLedger(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	expiry := day(2025, time.February, 15)
	seedPilot(t, f, &pilot.Pilot{ID: "p1", FirstName: "Dana", Email: "dana@example.com", MedicalExpiry: expiry})
	seedManager(t, f, "m1", "Maya", "maya@example.com")
	seedManager(t, f, "m2", "Noam", "noam@example.com")
	f.mailer.FailFor("maya@example.com")

	report, err := f.svc.RunCheck(ctx, day(2025, time.January, 1))
	require.NoError(t, err)

	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, 0, report.Failed)
	assert.Len(t, f.mailer.Notices(), 2) // pilot + the surviving manager

	sent, _ := f.ledger.WasSent(ctx, reminder.NewKey("p1", reminder.KindMedical, expiry))
	assert.True(t, sent)
}

func TestRunCheckSkipsPilotsWithoutEmail(t *testing.T) {
	f := newFixture()
	seedPilot(t, f, &pilot.Pilot{
		ID: "p1", FirstName: "Dana", MedicalExpiry: day(2025, time.February, 15),
	})

	report, err := f.svc.RunCheck(context.Background(), day(2025, time.January, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, report.Checked)
	assert.Empty(t, f.mailer.Notices())
}

type failingPilotRepo struct {
	pilot.Repository
}

func (failingPilotRepo) ListAll(context.Context) ([]*pilot.Pilot, error) {
	return nil, errors.New("connection refused")
}

func TestRunCheckRepositoryFailureAbortsRun(t *testing.T) {
	f := newFixture()
	svc := app.NewReminderService(
		failingPilotRepo{}, f.recipients, f.ledger, f.mailer,
		app.ReminderConfig{LeadDays: 45, SendTimeout: time.Second},
		quietLogger(),
	)

	report, err := svc.RunCheck(context.Background(), day(2025, time.January, 1))
	require.Error(t, err)
	assert.Nil(t, report)
	assert.Empty(t, f.mailer.Notices())
	assert.Equal(t, 0, f.ledger.Len())
}

type failingLedger struct {
	reminder.LedgerRepository
	failLookup bool
	failWrite  bool
}

func (l *failingLedger) WasSent(ctx context.Context, key reminder.Key) (bool, error) {
	if l.failLookup {
		return false, errors.New("ledger unavailable")
	}
	return l.LedgerRepository.WasSent(ctx, key)
}

func (l *failingLedger) MarkSent(ctx context.Context, entry *reminder.Entry) error {
	if l.failWrite {
		return errors.New("ledger unavailable")
	}
	return l.LedgerRepository.MarkSent(ctx, entry)
}

func TestRunCheckLedgerLookupFailureCountsAsFailed(t *testing.T) {
	f := newFixture()
	expiry := day(2025, time.February, 15)
	seedPilot(t, f, &pilot.Pilot{
		ID: "p1", FirstName: "Dana", Email: "dana@example.com", MedicalExpiry: expiry,
	})
	svc := app.NewReminderService(
		f.pilots, f.recipients, &failingLedger{LedgerRepository: f.ledger, failLookup: true}, f.mailer,
		app.ReminderConfig{LeadDays: 45, SendTimeout: time.Second},
		quietLogger(),
	)

	report, err := svc.RunCheck(context.Background(), day(2025, time.January, 1))
	require.NoError(t, err)

	// A field whose dedup state is unknown must not be dispatched.
	assert.Equal(t, 1, report.Triggered)
	assert.Equal(t, 0, report.Sent)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, reminder.NewKey("p1", reminder.KindMedical, expiry), report.Failures[0])
	assert.Empty(t, f.mailer.Notices())
}

func TestRunCheckLedgerWriteFailureDoesNotUnwindSend(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	expiry := day(2025, time.February, 15)
	seedPilot(t, f, &pilot.Pilot{
		ID: "p1", FirstName: "Dana", Email: "dana@example.com", MedicalExpiry: expiry,
	})
	seedManager(t, f, "m1", "Maya", "maya@example.com")
	svc := app.NewReminderService(
		f.pilots, f.recipients, &failingLedger{LedgerRepository: f.ledger, failWrite: true}, f.mailer,
		app.ReminderConfig{LeadDays: 45, SendTimeout: time.Second},
		quietLogger(),
	)

	report, err := svc.RunCheck(ctx, day(2025, time.January, 1))
	require.NoError(t, err)

	// The reminder went out; the missing marker is logged, not surfaced.
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, 0, report.Failed)
	assert.Len(t, f.mailer.Notices(), 2) // pilot + manager copy

	// Without the marker the field stays eligible, so a later run within the
	// trigger window resends. That duplicate risk is the accepted trade-off.
	sent, err := f.ledger.WasSent(ctx, reminder.NewKey("p1", reminder.KindMedical, expiry))
	require.NoError(t, err)
	assert.False(t, sent)
}

func TestPurgeLedgerDropsOldEntriesOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	old := &reminder.Entry{
		Key:    reminder.NewKey("p1", reminder.KindMedical, day(2024, time.March, 1)),
		SentAt: day(2024, time.January, 15),
	}
	recent := &reminder.Entry{
		Key:    reminder.NewKey("p1", reminder.KindMedical, day(2025, time.March, 1)),
		SentAt: day(2025, time.January, 15),
	}
	require.NoError(t, f.ledger.MarkSent(ctx, old))
	require.NoError(t, f.ledger.MarkSent(ctx, recent))

	purged, err := f.svc.PurgeLedger(ctx, day(2025, time.January, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
	assert.Equal(t, 1, f.ledger.Len())
}
