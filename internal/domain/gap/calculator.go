package gap

import (
	"sort"

	"stockgap/internal/core/id"
	"stockgap/internal/core/types"
	"stockgap/internal/domain/catalogs/product"
)

// BuildRows combines the four per-product aggregates into the final ranked
// result set.
//
// A row is emitted for every eligible product with at least one non-zero
// aggregate. Rows are ranked by descending absolute gap - the analyst-facing
// ordering, largest unexplained discrepancy first - with product id
// ascending as a deterministic tie-break.
func BuildRows(eligible []product.Product, start, sold, received, actual map[id.ID]types.Quantity) []GapRow {
	rows := make([]GapRow, 0, len(eligible))

	for _, p := range eligible {
		row := GapRow{
			ProductID:   p.ID,
			ProductSKU:  p.SKU,
			ProductName: p.Name,
			CategoryID:  p.CategoryID,
			QtyStart:    start[p.ID],
			QtySold:     sold[p.ID],
			QtyReceived: received[p.ID],
			QtyActual:   actual[p.ID],
		}
		if !row.HasActivity() {
			continue
		}
		row.QtyTheoretical = row.QtyStart - row.QtySold + row.QtyReceived
		row.QtyGap = row.QtyTheoretical - row.QtyActual
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		gi, gj := rows[i].QtyGap.Abs(), rows[j].QtyGap.Abs()
		if gi != gj {
			return gi > gj
		}
		return id.Less(rows[i].ProductID, rows[j].ProductID)
	})

	return rows
}
