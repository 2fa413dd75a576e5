package reminder

import (
	"math"
	"time"
)

// DaysUntil returns the number of whole calendar days from the reference date
// to the expiry date. Both inputs are truncated to midnight in the reference's
// location before subtraction, so the time-of-day of either value never shifts
// the count. A negative result means the expiry date has already passed.
func DaysUntil(reference, expiry time.Time) int {
	ref := midnight(reference)
	exp := midnight(expiry.In(reference.Location()))
	// Across DST transitions the span between two midnights is not an exact
	// multiple of 24h; ceil rounds the fractional day up.
	return int(math.Ceil(exp.Sub(ref).Hours() / 24))
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Status is the display bucket for a tracked expiry date. It drives dashboard
// color coding only; reminder triggering uses the exact lead-day rule in the
// reminder service, never these buckets.
type Status string

const (
	StatusExpired  Status = "expired"
	StatusCritical Status = "critical"
	StatusWarning  Status = "warning"
	StatusGood     Status = "good"
)

// StatusOf buckets a day count produced by DaysUntil.
func StatusOf(days int) Status {
	switch {
	case days < 0:
		return StatusExpired
	case days <= 7:
		return StatusCritical
	case days <= 30:
		return StatusWarning
	default:
		return StatusGood
	}
}
