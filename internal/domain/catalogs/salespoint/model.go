// Package salespoint provides the point-of-sale register catalog.
// Each sales point is bound to the warehouse it draws stock from.
package salespoint

import (
	"stockgap/internal/core/id"
)

// SalesPoint is a POS register/session configuration.
type SalesPoint struct {
	ID id.ID `db:"id" json:"id"`

	// Name is the display name
	Name string `db:"name" json:"name"`

	// WarehouseID is the warehouse this register consumes from
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// Active indicates the register is in use
	Active bool `db:"active" json:"active"`
}
