package email

import (
	"context"
	"fmt"
	"sync"

	"pilot_license_tracker/internal/domain/reminder"
)

// Recorder captures every dispatched notice instead of sending it, and can be
// told to fail for specific recipient addresses. Test double.
type Recorder struct {
	mu      sync.Mutex
	notices []reminder.Notice
	failFor map[string]struct{}
}

var _ reminder.Dispatcher = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{failFor: make(map[string]struct{})}
}

// FailFor makes every send to the given address return an error.
func (r *Recorder) FailFor(email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failFor[email] = struct{}{}
}

func (r *Recorder) Send(ctx context.Context, n reminder.Notice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, fail := r.failFor[n.RecipientEmail]; fail {
		return fmt.Errorf("simulated dispatch failure for %s", n.RecipientEmail)
	}
	r.notices = append(r.notices, n)
	return nil
}

// Notices returns a copy of everything successfully "sent".
func (r *Recorder) Notices() []reminder.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]reminder.Notice, len(r.notices))
	copy(out, r.notices)
	return out
}
