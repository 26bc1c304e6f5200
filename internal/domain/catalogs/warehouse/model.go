// Package warehouse provides the Warehouse catalog.
// A warehouse ties together a root stock location (the top of its physical
// location tree) and the sales points that consume from it.
package warehouse

import (
	"context"

	"stockgap/internal/core/apperror"
	"stockgap/internal/core/id"
)

// WarehouseType defines the type of warehouse.
type WarehouseType string

const (
	TypeMain   WarehouseType = "main"
	TypeRetail WarehouseType = "retail"
	TypeDepot  WarehouseType = "depot"
)

// Warehouse represents a storage site for goods.
type Warehouse struct {
	ID id.ID `db:"id" json:"id"`

	// Code is a human-readable identifier
	Code string `db:"code" json:"code"`

	// Name is the display name
	Name string `db:"name" json:"name"`

	// Type defines the warehouse category
	Type WarehouseType `db:"type" json:"type"`

	// RootLocationID is the warehouse's designated stock location.
	// The reconciliation pipeline expands this into the full location set.
	RootLocationID *id.ID `db:"root_location_id" json:"rootLocationId,omitempty"`

	// Address is the physical address
	Address *string `db:"address" json:"address,omitempty"`

	// IsActive indicates if warehouse is operational
	IsActive bool `db:"is_active" json:"isActive"`
}

// Validate checks entity invariants.
func (w *Warehouse) Validate(ctx context.Context) error {
	if w.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if !isValidWarehouseType(w.Type) {
		return apperror.NewValidation("invalid warehouse type").
			WithDetail("field", "type").
			WithDetail("value", string(w.Type))
	}
	return nil
}

// HasRootLocation reports whether the warehouse can be analyzed.
func (w *Warehouse) HasRootLocation() bool {
	return w.RootLocationID != nil && !id.IsNil(*w.RootLocationID)
}

func isValidWarehouseType(t WarehouseType) bool {
	switch t {
	case TypeMain, TypeRetail, TypeDepot:
		return true
	}
	return false
}
