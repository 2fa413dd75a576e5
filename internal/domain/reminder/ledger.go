package reminder

import (
	"context"
	"time"
)

// Key uniquely identifies one reminder-worthy field instance. The expiry date
// is part of the key: when a document is renewed the date changes, the key
// changes, and a new reminder may legitimately fire for the new instance.
type Key struct {
	PilotID   string
	Kind      Kind
	ExpiryDay string // calendar day, formatted 2006-01-02
}

// NewKey builds a ledger key from a pilot id, a field kind and the field's
// expiry timestamp, truncated to its calendar day.
func NewKey(pilotID string, kind Kind, expiry time.Time) Key {
	return Key{
		PilotID:   pilotID,
		Kind:      kind,
		ExpiryDay: expiry.Format("2006-01-02"),
	}
}

func (k Key) String() string {
	return k.PilotID + "_" + string(k.Kind) + "_" + k.ExpiryDay
}

// Entry is the durable marker preventing a duplicate reminder for one field
// instance. Entries are written once, after a confirmed pilot dispatch, and
// never updated.
type Entry struct {
	Key       Key
	PilotName string
	SentAt    time.Time
}

// LedgerRepository is the durable keyed record store behind the dedup check.
// Reads and writes are independent per key; no cross-key transaction is
// needed because each field instance is evaluated and written in isolation.
type LedgerRepository interface {
	WasSent(ctx context.Context, key Key) (bool, error)
	MarkSent(ctx context.Context, entry *Entry) error
	// PurgeOlderThan removes entries dispatched before the cutoff and
	// returns how many were deleted. Storage hygiene only: the key already
	// encodes the specific expiry instance, so purging old entries cannot
	// cause a duplicate send.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
