package salespoint

import (
	"context"

	"stockgap/internal/core/id"
)

// Repository defines read access to the sales point catalog.
type Repository interface {
	// ListByWarehouse returns sales points bound to a warehouse.
	ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]SalesPoint, error)

	// ListIDsByWarehouse returns just the ids (restriction set for the
	// sales aggregator). May be empty; callers must not treat an empty
	// set as "no restriction".
	ListIDsByWarehouse(ctx context.Context, warehouseID id.ID) ([]id.ID, error)
}
