package email

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"pilot_license_tracker/internal/domain/reminder"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendgridDispatcher delivers reminders through the SendGrid transactional
// mail API.
type SendgridDispatcher struct {
	key  string
	from *sgmail.Email
}

var _ reminder.Dispatcher = (*SendgridDispatcher)(nil)

func NewSendgridDispatcher(apiKey, fromName, fromEmail string) (*SendgridDispatcher, error) {
	if apiKey == "" {
		return nil, errors.New("sendgrid API key is not set")
	}
	if fromEmail == "" {
		return nil, errors.New("sender email address is not set")
	}
	return &SendgridDispatcher{
		key:  apiKey,
		from: sgmail.NewEmail(fromName, fromEmail),
	}, nil
}

func (d *SendgridDispatcher) Send(ctx context.Context, n reminder.Notice) error {
	m := sgmail.NewV3Mail()
	m.SetFrom(d.from)

	p := sgmail.NewPersonalization()
	p.AddTos(sgmail.NewEmail(n.RecipientName, n.RecipientEmail))
	p.Subject = subjectLine(n)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", textBody(n)))

	req := sendgrid.GetRequest(d.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sending reminder email: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid rejected reminder email: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
