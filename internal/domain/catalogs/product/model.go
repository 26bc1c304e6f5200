// Package product provides the product catalog.
// The reconciliation pipeline only needs eligibility (is this product
// inventory-tracked and active) and the category for display grouping.
package product

import (
	"stockgap/internal/core/id"
)

// Product is a sellable, storable good.
type Product struct {
	ID id.ID `db:"id" json:"id"`

	// SKU is the stock-keeping reference shown to analysts
	SKU string `db:"sku" json:"sku"`

	// Name is the display name
	Name string `db:"name" json:"name"`

	// CategoryID references the product category
	CategoryID id.ID `db:"category_id" json:"categoryId"`

	// Tracked indicates the product carries per-unit inventory accounting.
	// Services and untracked consumables never appear in gap reports.
	Tracked bool `db:"tracked" json:"tracked"`

	// Active indicates the product is not archived
	Active bool `db:"active" json:"active"`
}

// Category groups products for reporting.
type Category struct {
	ID     id.ID  `db:"id" json:"id"`
	Name   string `db:"name" json:"name"`
	Active bool   `db:"active" json:"active"`
}

// Eligible reports whether the product may appear in a gap report.
// Category activity is checked at query time (the repo joins categories).
func (p *Product) Eligible() bool {
	return p.Tracked && p.Active
}
