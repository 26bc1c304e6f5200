package gap

import (
	"context"
	"time"

	"stockgap/internal/core/id"
)

// Repository defines the ledger scans the pipeline consumes and the
// persistence of analysis results.
type Repository interface {
	// --- Ledger reads ---

	// FinalizedMovementsThrough returns finalized movements touching the
	// location set (source or destination inside it) with effective date
	// on or before `through`. One scan feeds both the opening and closing
	// replay.
	FinalizedMovementsThrough(ctx context.Context, locations LocationSet, through time.Time) ([]MovementRecord, error)

	// SalesLines returns POS lines of finalized orders for the given
	// sales points with order date in [from, to]. The restriction set is
	// never empty: callers pass SalesPointRestriction's output.
	SalesLines(ctx context.Context, salesPointIDs []id.ID, from, to time.Time) ([]SalesLine, error)

	// IncomingReceipts returns finalized movements of transfers typed as
	// incoming for the warehouse with effective date in [from, to].
	IncomingReceipts(ctx context.Context, warehouseID id.ID, from, to time.Time) ([]MovementRecord, error)

	// --- Results ---

	// SaveAnalysis upserts the run header.
	SaveAnalysis(ctx context.Context, a *Analysis) error

	// ReplaceResultRows atomically swaps the stored rows for a run:
	// prior rows are deleted and the new set inserted. Must be called
	// inside a transaction so concurrent readers never observe a
	// half-written set.
	ReplaceResultRows(ctx context.Context, analysisID id.ID, rows []GapRow) error

	// GetAnalysis retrieves a run header, or a NOT_FOUND error.
	GetAnalysis(ctx context.Context, analysisID id.ID) (*Analysis, error)

	// ListAnalyses returns run headers, newest first.
	ListAnalyses(ctx context.Context, limit, offset int) ([]Analysis, error)

	// GetResultRows returns the stored rows of a run in ranked order.
	GetResultRows(ctx context.Context, analysisID id.ID) ([]GapRow, error)
}
