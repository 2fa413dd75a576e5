package inmem

import (
	"context"
	"sync"
	"time"

	"pilot_license_tracker/internal/domain/reminder"
)

type LedgerRepository struct {
	mu      sync.RWMutex
	entries map[reminder.Key]reminder.Entry
}

var _ reminder.LedgerRepository = (*LedgerRepository)(nil)

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{entries: make(map[reminder.Key]reminder.Entry)}
}

func (r *LedgerRepository) WasSent(ctx context.Context, key reminder.Key) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[key]
	return ok, nil
}

func (r *LedgerRepository) MarkSent(ctx context.Context, entry *reminder.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// First write wins, matching the ON CONFLICT DO NOTHING semantics of the
	// Postgres implementation.
	if _, ok := r.entries[entry.Key]; ok {
		return nil
	}
	r.entries[entry.Key] = *entry
	return nil
}

func (r *LedgerRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var purged int64
	for key, entry := range r.entries {
		if entry.SentAt.Before(cutoff) {
			delete(r.entries, key)
			purged++
		}
	}
	return purged, nil
}

// Len reports the number of stored entries. Test helper.
func (r *LedgerRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
