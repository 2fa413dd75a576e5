package inmem

import (
	"context"
	"sort"
	"sync"
	"time"

	"pilot_license_tracker/internal/domain/recipient"
	"pilot_license_tracker/internal/infra/database"
)

type RecipientRepository struct {
	mu         sync.RWMutex
	recipients map[string]recipient.ManagerRecipient
}

var _ recipient.Repository = (*RecipientRepository)(nil)

func NewRecipientRepository() *RecipientRepository {
	return &RecipientRepository{recipients: make(map[string]recipient.ManagerRecipient)}
}

func (r *RecipientRepository) Create(ctx context.Context, m *recipient.ManagerRecipient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.recipients {
		if existing.Email == m.Email {
			return database.ErrDuplicateRecipientEmail
		}
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	r.recipients[m.ID] = *m
	return nil
}

func (r *RecipientRepository) GetByID(ctx context.Context, id string) (*recipient.ManagerRecipient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.recipients[id]
	if !ok {
		return nil, database.ErrRecipientNotFound
	}
	return &m, nil
}

func (r *RecipientRepository) Update(ctx context.Context, m *recipient.ManagerRecipient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.recipients[m.ID]; !ok {
		return database.ErrRecipientNotFound
	}
	r.recipients[m.ID] = *m
	return nil
}

func (r *RecipientRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.recipients[id]; !ok {
		return database.ErrRecipientNotFound
	}
	delete(r.recipients, id)
	return nil
}

func (r *RecipientRepository) ListAll(ctx context.Context) ([]*recipient.ManagerRecipient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*recipient.ManagerRecipient, 0, len(r.recipients))
	for id := range r.recipients {
		m := r.recipients[id]
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
