package savedset

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists saved code sets. All reads and deletes are scoped to
// the owning user.
type Repository interface {
	Create(ctx context.Context, set *SavedCodeSet) error
	GetByID(ctx context.Context, id uuid.UUID, userID string) (*SavedCodeSet, error)
	ListByUser(ctx context.Context, userID string) ([]Summary, error)
	Delete(ctx context.Context, id uuid.UUID, userID string) (bool, error)
}
