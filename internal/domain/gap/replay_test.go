package gap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stockgap/internal/core/id"
	"stockgap/internal/core/types"
)

func day(offset int) time.Time {
	return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func qty(s string) types.Quantity { return types.MustQuantity(s) }

func TestSnapshot_Direction(t *testing.T) {
	inside := id.New()
	outside := id.New()
	productA := id.New()
	set := NewLocationSet(inside)

	movements := []MovementRecord{
		{ProductID: productA, SourceLocationID: outside, DestLocationID: inside, Quantity: qty("10"), EffectiveDate: day(0), Status: MovementDone},
		{ProductID: productA, SourceLocationID: inside, DestLocationID: outside, Quantity: qty("3"), EffectiveDate: day(1), Status: MovementDone},
	}

	got := Snapshot(movements, set, day(5), true)
	assert.Equal(t, qty("7"), got[productA])
}

func TestSnapshot_InternalAndExternalIgnored(t *testing.T) {
	locA := id.New()
	locB := id.New()
	outside1 := id.New()
	outside2 := id.New()
	productA := id.New()
	set := NewLocationSet(locA, locB)

	movements := []MovementRecord{
		// Internal transfer nets to zero.
		{ProductID: productA, SourceLocationID: locA, DestLocationID: locB, Quantity: qty("50"), EffectiveDate: day(0), Status: MovementDone},
		// Fully external movement never touches the set.
		{ProductID: productA, SourceLocationID: outside1, DestLocationID: outside2, Quantity: qty("99"), EffectiveDate: day(0), Status: MovementDone},
	}

	got := Snapshot(movements, set, day(5), true)
	assert.Empty(t, got)
}

func TestSnapshot_SkipsNonFinalized(t *testing.T) {
	inside := id.New()
	outside := id.New()
	productA := id.New()
	set := NewLocationSet(inside)

	movements := []MovementRecord{
		{ProductID: productA, SourceLocationID: outside, DestLocationID: inside, Quantity: qty("10"), EffectiveDate: day(0), Status: MovementDraft},
		{ProductID: productA, SourceLocationID: outside, DestLocationID: inside, Quantity: qty("20"), EffectiveDate: day(0), Status: MovementCancelled},
		{ProductID: productA, SourceLocationID: outside, DestLocationID: inside, Quantity: qty("5"), EffectiveDate: day(0), Status: MovementDone},
	}

	got := Snapshot(movements, set, day(5), true)
	assert.Equal(t, qty("5"), got[productA])
}

func TestSnapshot_CutoffSemantics(t *testing.T) {
	inside := id.New()
	outside := id.New()
	productA := id.New()
	set := NewLocationSet(inside)

	movements := []MovementRecord{
		{ProductID: productA, SourceLocationID: outside, DestLocationID: inside, Quantity: qty("100"), EffectiveDate: day(-1), Status: MovementDone},
		// Same-day as the cutoff: excluded from the opening snapshot,
		// included in the closing one.
		{ProductID: productA, SourceLocationID: outside, DestLocationID: inside, Quantity: qty("10"), EffectiveDate: day(0), Status: MovementDone},
	}

	opening := Snapshot(movements, set, day(0), false)
	assert.Equal(t, qty("100"), opening[productA])

	closing := Snapshot(movements, set, day(0), true)
	assert.Equal(t, qty("110"), closing[productA])
}

func TestSnapshot_ComparesByCalendarDate(t *testing.T) {
	inside := id.New()
	outside := id.New()
	productA := id.New()
	set := NewLocationSet(inside)

	lateEvening := time.Date(2026, 3, 10, 23, 45, 0, 0, time.UTC)
	movements := []MovementRecord{
		{ProductID: productA, SourceLocationID: outside, DestLocationID: inside, Quantity: qty("4"), EffectiveDate: lateEvening, Status: MovementDone},
	}

	// Cutoff at midnight of the same day still includes the evening move.
	got := Snapshot(movements, set, day(9), true)
	assert.Equal(t, qty("4"), got[productA])
}
