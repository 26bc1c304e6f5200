// Package gap implements stock gap analysis: reconciling theoretical stock
// (opening stock + receipts - POS sales) against the stock the movement
// ledger actually records, per product, for one warehouse and date window.
package gap

import (
	"time"

	"stockgap/internal/core/id"
	"stockgap/internal/core/types"
)

// MovementStatus is the lifecycle state of a stock movement.
type MovementStatus string

const (
	MovementDraft     MovementStatus = "draft"
	MovementDone      MovementStatus = "done"
	MovementCancelled MovementStatus = "cancelled"
)

// OrderStatus is the lifecycle state of a POS order.
type OrderStatus string

const (
	OrderPaid     OrderStatus = "paid"
	OrderDone     OrderStatus = "done"
	OrderInvoiced OrderStatus = "invoiced"
	OrderDraft    OrderStatus = "draft"
	OrderCancel   OrderStatus = "cancel"
)

// finalizedOrderStatuses are the POS order states whose lines count as sales.
var finalizedOrderStatuses = map[OrderStatus]struct{}{
	OrderPaid:     {},
	OrderDone:     {},
	OrderInvoiced: {},
}

// IsFinalizedOrder reports whether lines of an order in this state count.
func IsFinalizedOrder(s OrderStatus) bool {
	_, ok := finalizedOrderStatuses[s]
	return ok
}

// MovementRecord is one completed (or pending) stock transfer line from the
// movement ledger. Quantity is always non-negative; direction is carried by
// which side of the transfer falls inside the location set under analysis.
type MovementRecord struct {
	ProductID        id.ID          `db:"product_id" json:"productId"`
	SourceLocationID id.ID          `db:"source_location_id" json:"sourceLocationId"`
	DestLocationID   id.ID          `db:"dest_location_id" json:"destLocationId"`
	Quantity         types.Quantity `db:"quantity" json:"quantity"`
	EffectiveDate    time.Time      `db:"effective_date" json:"effectiveDate"`
	Status           MovementStatus `db:"status" json:"status"`
}

// SalesLine is one POS order line. Quantity is signed: refunds carry
// negative quantity and net out against sales via plain summation.
type SalesLine struct {
	ProductID    id.ID          `db:"product_id" json:"productId"`
	Quantity     types.Quantity `db:"quantity" json:"quantity"`
	OrderDate    time.Time      `db:"order_date" json:"orderDate"`
	SalesPointID id.ID          `db:"sales_point_id" json:"salesPointId"`
	OrderStatus  OrderStatus    `db:"order_status" json:"orderStatus"`
}

// LocationSet is the resolved set of locations under a warehouse root.
type LocationSet map[id.ID]struct{}

// NewLocationSet builds a set from ids.
func NewLocationSet(ids ...id.ID) LocationSet {
	s := make(LocationSet, len(ids))
	for _, v := range ids {
		s[v] = struct{}{}
	}
	return s
}

// Contains reports set membership.
func (s LocationSet) Contains(locID id.ID) bool {
	_, ok := s[locID]
	return ok
}

// Add inserts a location id.
func (s LocationSet) Add(locID id.ID) {
	s[locID] = struct{}{}
}

// IDs returns the member ids in unspecified order.
func (s LocationSet) IDs() []id.ID {
	out := make([]id.ID, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	return out
}

// AnalysisRequest is an analyst's reconciliation request. It is consumed
// once per run; re-submitting the same request id replaces the stored rows.
type AnalysisRequest struct {
	// ID identifies the run. Zero means "new run" and an id is assigned.
	ID id.ID `json:"id"`

	WarehouseID id.ID `json:"warehouseId"`

	// DateFrom/DateTo bound the window, inclusive on both ends for sales
	// and receipts. Date-only semantics: times are normalized to UTC
	// midnight before the pipeline runs.
	DateFrom time.Time `json:"dateFrom"`
	DateTo   time.Time `json:"dateTo"`
}

// Analysis is the stored header of a completed run.
type Analysis struct {
	ID          id.ID     `db:"id" json:"id"`
	WarehouseID id.ID     `db:"warehouse_id" json:"warehouseId"`
	DateFrom    time.Time `db:"date_from" json:"dateFrom"`
	DateTo      time.Time `db:"date_to" json:"dateTo"`
	RowCount    int       `db:"row_count" json:"rowCount"`
	ComputedAt  time.Time `db:"computed_at" json:"computedAt"`
	ComputedBy  string    `db:"computed_by" json:"computedBy,omitempty"`
}

// GapRow is one product's reconciliation result.
//
// Invariants: QtyTheoretical = QtyStart - QtySold + QtyReceived and
// QtyGap = QtyTheoretical - QtyActual. Positive gap means missing
// inventory (shrinkage), negative means surplus.
type GapRow struct {
	ProductID      id.ID          `db:"product_id" json:"productId"`
	ProductSKU     string         `db:"product_sku" json:"productSku"`
	ProductName    string         `db:"product_name" json:"productName"`
	CategoryID     id.ID          `db:"category_id" json:"categoryId"`
	QtyStart       types.Quantity `db:"qty_start" json:"qtyStart"`
	QtySold        types.Quantity `db:"qty_sold" json:"qtySold"`
	QtyReceived    types.Quantity `db:"qty_received" json:"qtyReceived"`
	QtyTheoretical types.Quantity `db:"qty_theoretical" json:"qtyTheoretical"`
	QtyActual      types.Quantity `db:"qty_actual" json:"qtyActual"`
	QtyGap         types.Quantity `db:"qty_gap" json:"qtyGap"`
}

// HasActivity reports whether any source aggregate touched the product.
// All-zero rows are noise and are excluded from results.
func (r *GapRow) HasActivity() bool {
	return !r.QtyStart.IsZero() || !r.QtySold.IsZero() ||
		!r.QtyReceived.IsZero() || !r.QtyActual.IsZero()
}

// DateOnly normalizes a timestamp to its UTC calendar date.
// The ledger stores full timestamps but the analysis compares by date,
// matching how cutoffs are defined (before the day / through the day).
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
