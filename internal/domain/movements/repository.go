package movements

import (
	"context"

	"github.com/sebastiansledz/qrsaws-sub000/internal/core/id"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain"
)

// ListFilter narrows movement listings.
type ListFilter struct {
	BladeID id.ID
	Op      OpCode

	Limit  int
	Offset int
}

// Repository is the movement persistence contract. Insert-only.
type Repository interface {
	// Create inserts one movement row.
	Create(ctx context.Context, m *Movement) error

	// GetByID loads one movement.
	GetByID(ctx context.Context, movementID id.ID) (*Movement, error)

	// LastByOp returns the blade's most recent movement with the given
	// operation code, or nil when none exists.
	LastByOp(ctx context.Context, bladeID id.ID, op OpCode) (*Movement, error)

	// ListByBlade returns the blade's movements, newest first.
	ListByBlade(ctx context.Context, bladeID id.ID, limit, offset int) (domain.ListResult[*Movement], error)

	// List returns movements matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Movement], error)
}
