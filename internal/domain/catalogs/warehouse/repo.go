package warehouse

import (
	"context"

	"stockgap/internal/core/id"
)

// Repository defines read access to the Warehouse catalog.
// The reconciliation service is a consumer of warehouse data; catalog
// maintenance happens elsewhere.
type Repository interface {
	// GetByID retrieves a warehouse, or a NOT_FOUND error.
	GetByID(ctx context.Context, id id.ID) (*Warehouse, error)

	// ListActive returns active warehouses ordered by name (wizard dropdown).
	ListActive(ctx context.Context) ([]Warehouse, error)
}
