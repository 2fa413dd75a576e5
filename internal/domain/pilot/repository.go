package pilot

import (
	"context"
)

// Repository defines the operations for persisting and retrieving Pilot
// records. Implementations must hand the core the current normalized shape;
// any legacy-schema coercion happens inside the repository.
type Repository interface {
	Create(ctx context.Context, p *Pilot) error
	GetByID(ctx context.Context, id string) (*Pilot, error)
	Update(ctx context.Context, p *Pilot) error
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]*Pilot, error)
}
