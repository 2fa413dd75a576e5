package email

import (
	"context"

	"pilot_license_tracker/internal/domain/reminder"

	"github.com/sirupsen/logrus"
)

// ConsoleDispatcher writes reminders to the log instead of sending them.
// Used in development.
type ConsoleDispatcher struct {
	logger *logrus.Logger
}

var _ reminder.Dispatcher = (*ConsoleDispatcher)(nil)

func NewConsoleDispatcher(logger *logrus.Logger) *ConsoleDispatcher {
	return &ConsoleDispatcher{logger: logger}
}

func (d *ConsoleDispatcher) Send(ctx context.Context, n reminder.Notice) error {
	d.logger.WithFields(logrus.Fields{
		"to":      n.RecipientEmail,
		"subject": subjectLine(n),
	}).Info("console email:\n" + textBody(n))
	return nil
}
