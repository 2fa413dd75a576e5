package recipient

import (
	"context"
	"time"
)

// ManagerRecipient is a member of the notification mailing list. Every
// manager receives a copy of every reminder the primary pilot receives.
type ManagerRecipient struct {
	ID        string
	Name      string
	Email     string
	Position  string // optional role label, may be empty
	CreatedAt time.Time
}

// Repository defines the operations for the manager mailing list.
type Repository interface {
	Create(ctx context.Context, m *ManagerRecipient) error
	GetByID(ctx context.Context, id string) (*ManagerRecipient, error)
	Update(ctx context.Context, m *ManagerRecipient) error
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]*ManagerRecipient, error)
}
