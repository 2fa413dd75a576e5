package reminder

import (
	"context"
	"time"
)

// Kind identifies which tracked document a reminder is about.
type Kind string

const (
	KindMedical    Kind = "medical"
	KindInstructor Kind = "instructor"
)

// Label returns the human-readable document name used in outbound mail.
// The mapping is owned here because it determines dispatch payload
// correctness, not presentation.
func (k Kind) Label() string {
	switch k {
	case KindMedical:
		return "medical certificate"
	case KindInstructor:
		return "instructor license"
	default:
		return string(k)
	}
}

// TrackedField is one expiry-dated attribute of a pilot that is subject to
// reminder evaluation.
type TrackedField struct {
	Kind   Kind
	Expiry time.Time
}

// Notice is the payload handed to a Dispatcher. For the pilot's own reminder
// the recipient fields match the pilot; for manager copies only the recipient
// is overridden and the pilot fields stay intact.
type Notice struct {
	RecipientName  string
	RecipientEmail string
	PilotName      string
	Kind           Kind
	ExpiryDate     time.Time
	DaysRemaining  int
}

// Dispatcher hands a single reminder to the outbound email provider. A nil
// error means the provider accepted the message.
type Dispatcher interface {
	Send(ctx context.Context, n Notice) error
}
