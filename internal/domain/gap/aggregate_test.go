package gap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockgap/internal/core/id"
)

func TestSalesPointRestriction(t *testing.T) {
	sp1 := id.New()
	sp2 := id.New()

	assert.Equal(t, []id.ID{sp1, sp2}, SalesPointRestriction([]id.ID{sp1, sp2}))

	// A warehouse without sales points must match no sales at all: the
	// restriction becomes a single impossible id, never an empty list.
	sentinel := SalesPointRestriction(nil)
	require.Len(t, sentinel, 1)
	assert.True(t, id.IsNil(sentinel[0]))
}

func TestSumSales(t *testing.T) {
	productA := id.New()
	productB := id.New()
	sp := id.New()

	lines := []SalesLine{
		{ProductID: productA, Quantity: qty("32"), SalesPointID: sp, OrderStatus: OrderPaid},
		{ProductID: productA, Quantity: qty("-2"), SalesPointID: sp, OrderStatus: OrderDone}, // refund
		{ProductID: productA, Quantity: qty("99"), SalesPointID: sp, OrderStatus: OrderCancel},
		{ProductID: productA, Quantity: qty("7"), SalesPointID: sp, OrderStatus: OrderDraft},
		{ProductID: productB, Quantity: qty("20"), SalesPointID: sp, OrderStatus: OrderInvoiced},
	}

	got := SumSales(lines)
	assert.Equal(t, qty("30"), got[productA])
	assert.Equal(t, qty("20"), got[productB])
}

func TestSumSales_RefundOnly(t *testing.T) {
	productA := id.New()

	got := SumSales([]SalesLine{
		{ProductID: productA, Quantity: qty("-5"), OrderStatus: OrderPaid},
	})

	// Net negative sales increase theoretical stock downstream.
	assert.Equal(t, qty("-5"), got[productA])
}

func TestSumReceipts(t *testing.T) {
	productA := id.New()

	movements := []MovementRecord{
		{ProductID: productA, Quantity: qty("10"), Status: MovementDone},
		{ProductID: productA, Quantity: qty("4"), Status: MovementDone},
		{ProductID: productA, Quantity: qty("500"), Status: MovementDraft},
	}

	got := SumReceipts(movements)
	assert.Equal(t, qty("14"), got[productA])
}
