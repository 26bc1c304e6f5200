package location

import (
	"context"

	"stockgap/internal/core/id"
)

// Repository defines read access to the location catalog.
type Repository interface {
	// GetByID retrieves a location, or a NOT_FOUND error.
	GetByID(ctx context.Context, id id.ID) (*Location, error)

	// Exists reports whether a location id is present in the catalog.
	Exists(ctx context.Context, id id.ID) (bool, error)

	// ListActiveChildIDs returns ids of the active direct children of a
	// location. Inactive children are omitted, which is what prunes their
	// subtrees during traversal.
	ListActiveChildIDs(ctx context.Context, parentID id.ID) ([]id.ID, error)
}
