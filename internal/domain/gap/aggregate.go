package gap

import (
	"stockgap/internal/core/id"
	"stockgap/internal/core/types"
)

// SalesPointRestriction turns a warehouse's sales-point set into the
// restriction passed to the sales ledger scan.
//
// An empty member list in a SQL IN clause would match nothing in some
// builders and everything in naive string-built queries; either way an
// empty restriction must mean "no sales points, hence no sales", never
// "all sales points". The nil UUID can never identify a real sales point,
// so it serves as an impossible-id sentinel.
func SalesPointRestriction(ids []id.ID) []id.ID {
	if len(ids) == 0 {
		return []id.ID{id.Nil()}
	}
	return ids
}

// SumSales nets signed POS line quantities per product. Only lines of
// finalized orders count; refund lines carry negative quantity and reduce
// the sum on their own.
func SumSales(lines []SalesLine) map[id.ID]types.Quantity {
	result := make(map[id.ID]types.Quantity)
	for _, l := range lines {
		if !IsFinalizedOrder(l.OrderStatus) {
			continue
		}
		result[l.ProductID] += l.Quantity
	}
	return result
}

// SumReceipts totals finalized incoming-transfer quantities per product.
// Receipts are never negative in this model; quantities are always added.
func SumReceipts(movements []MovementRecord) map[id.ID]types.Quantity {
	result := make(map[id.ID]types.Quantity)
	for _, m := range movements {
		if m.Status != MovementDone {
			continue
		}
		result[m.ProductID] += m.Quantity
	}
	return result
}
