package email

import (
	"fmt"

	"pilot_license_tracker/internal/domain/reminder"
)

const expiryDateDisplay = "02 Jan 2006"

func subjectLine(n reminder.Notice) string {
	return fmt.Sprintf("Reminder: %s of %s expires in %d days", n.Kind.Label(), n.PilotName, n.DaysRemaining)
}

func textBody(n reminder.Notice) string {
	return fmt.Sprintf(
		"Hello %s,\n\n"+
			"The %s of %s expires on %s, %d days from now.\n"+
			"Please make sure the renewal is arranged before that date.\n\n"+
			"This reminder was generated automatically by the UAV license tracker.\n",
		n.RecipientName, n.Kind.Label(), n.PilotName,
		n.ExpiryDate.Format(expiryDateDisplay), n.DaysRemaining,
	)
}
