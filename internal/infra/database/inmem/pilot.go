// Package inmem provides in-memory repository implementations used by tests
// and local development.
package inmem

import (
	"context"
	"sort"
	"sync"
	"time"

	"pilot_license_tracker/internal/domain/pilot"
	"pilot_license_tracker/internal/infra/database"
)

type PilotRepository struct {
	mu     sync.RWMutex
	pilots map[string]pilot.Pilot
}

var _ pilot.Repository = (*PilotRepository)(nil)

func NewPilotRepository() *PilotRepository {
	return &PilotRepository{pilots: make(map[string]pilot.Pilot)}
}

func (r *PilotRepository) Create(ctx context.Context, p *pilot.Pilot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	r.pilots[p.ID] = *p
	return nil
}

func (r *PilotRepository) GetByID(ctx context.Context, id string) (*pilot.Pilot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pilots[id]
	if !ok {
		return nil, database.ErrPilotNotFound
	}
	return &p, nil
}

func (r *PilotRepository) Update(ctx context.Context, p *pilot.Pilot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pilots[p.ID]; !ok {
		return database.ErrPilotNotFound
	}
	p.UpdatedAt = time.Now()
	r.pilots[p.ID] = *p
	return nil
}

func (r *PilotRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pilots[id]; !ok {
		return database.ErrPilotNotFound
	}
	delete(r.pilots, id)
	return nil
}

func (r *PilotRepository) ListAll(ctx context.Context) ([]*pilot.Pilot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*pilot.Pilot, 0, len(r.pilots))
	for id := range r.pilots {
		p := r.pilots[id]
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
