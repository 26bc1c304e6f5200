package product

import (
	"context"
)

// Repository defines read access to the product catalog.
type Repository interface {
	// ListEligible returns all products that may appear in gap reports:
	// inventory-tracked, active, with an active category.
	ListEligible(ctx context.Context) ([]Product, error)
}
