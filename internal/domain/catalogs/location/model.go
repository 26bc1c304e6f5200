// Package location provides the stock location catalog.
// Locations form a containment tree (shelf inside zone inside warehouse
// floor); each node carries an active flag. Deactivating a node hides its
// whole subtree from stock computations, even if descendants stay flagged
// active.
package location

import (
	"context"

	"stockgap/internal/core/apperror"
	"stockgap/internal/core/id"
)

// Location is a physical stock location.
type Location struct {
	ID id.ID `db:"id" json:"id"`

	// Code is a human-readable identifier
	Code string `db:"code" json:"code"`

	// Name is the display name
	Name string `db:"name" json:"name"`

	// ParentID points to the containing location (nil for roots)
	ParentID *id.ID `db:"parent_id" json:"parentId,omitempty"`

	// Active indicates whether the location participates in stock moves
	Active bool `db:"active" json:"active"`
}

// Validate checks entity invariants.
func (l *Location) Validate(ctx context.Context) error {
	if l.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}

// IsRoot returns true if the location has no parent.
func (l *Location) IsRoot() bool {
	return l.ParentID == nil || id.IsNil(*l.ParentID)
}
