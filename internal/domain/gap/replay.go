package gap

import (
	"time"

	"stockgap/internal/core/id"
	"stockgap/internal/core/types"
)

// Snapshot replays finalized movements against a location set and returns
// net on-hand quantity per product as of the cutoff date.
//
// A movement whose destination is inside the set adds its quantity, one
// whose source is inside subtracts it. Internal transfers (both sides in
// the set) therefore net to zero with no special casing. Products with no
// matching movements are simply absent; callers read missing entries as
// zero.
//
// The cutoff compares calendar dates. inclusive=false gives the
// strictly-before semantics used for the opening snapshot (stock as it
// stood the instant before the period began); inclusive=true gives the
// through-end-of-day semantics used for the closing snapshot. The asymmetry
// is deliberate: same-day activity on the first day belongs to the window's
// sales/receipts aggregates, not to the opening stock.
func Snapshot(movements []MovementRecord, locations LocationSet, cutoff time.Time, inclusive bool) map[id.ID]types.Quantity {
	cutoff = DateOnly(cutoff)
	result := make(map[id.ID]types.Quantity)

	for _, m := range movements {
		if m.Status != MovementDone {
			continue
		}
		if !beforeCutoff(DateOnly(m.EffectiveDate), cutoff, inclusive) {
			continue
		}

		in := locations.Contains(m.DestLocationID)
		out := locations.Contains(m.SourceLocationID)
		if in == out {
			// Fully external or fully internal: no net effect.
			continue
		}
		if in {
			result[m.ProductID] += m.Quantity
		} else {
			result[m.ProductID] -= m.Quantity
		}
	}

	return result
}

func beforeCutoff(d, cutoff time.Time, inclusive bool) bool {
	if inclusive {
		return !d.After(cutoff)
	}
	return d.Before(cutoff)
}
