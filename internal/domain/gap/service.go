package gap

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"stockgap/internal/core/apperror"
	appctx "stockgap/internal/core/context"
	"stockgap/internal/core/id"
	"stockgap/internal/core/tx"
	"stockgap/internal/domain/catalogs/product"
	"stockgap/internal/domain/catalogs/salespoint"
	"stockgap/internal/domain/catalogs/warehouse"
	"stockgap/pkg/logger"
)

var tracer = otel.Tracer("stockgap/gap")

// RunRecorder receives an audit record of every completed analysis run.
// Implementations must tolerate failure; recording is best-effort.
type RunRecorder interface {
	RecordRun(ctx context.Context, a *Analysis, duration time.Duration) error
}

// Service orchestrates the reconciliation pipeline.
//
// The pipeline is synchronous and read-mostly: it issues read-only scans
// against the ledgers and catalogs and writes only the request-scoped
// result set. Concurrent analysts are independent; re-running a request id
// replaces its stored rows, last write wins.
type Service struct {
	warehouses  warehouse.Repository
	resolver    *Resolver
	products    product.Repository
	salesPoints salespoint.Repository
	repo        Repository
	recorder    RunRecorder // optional
}

// NewService creates the gap analysis service.
func NewService(
	warehouses warehouse.Repository,
	locations ChildLister,
	products product.Repository,
	salesPoints salespoint.Repository,
	repo Repository,
) *Service {
	return &Service{
		warehouses:  warehouses,
		resolver:    NewResolver(locations),
		products:    products,
		salesPoints: salesPoints,
		repo:        repo,
	}
}

// WithRecorder attaches an audit recorder for completed runs.
func (s *Service) WithRecorder(r RunRecorder) *Service {
	s.recorder = r
	return s
}

// Compute runs the full pipeline for a request and persists the result set,
// replacing any prior rows stored under the same request id.
func (s *Service) Compute(ctx context.Context, req AnalysisRequest) (*Analysis, []GapRow, error) {
	ctx, span := tracer.Start(ctx, "gap.compute",
		trace.WithAttributes(attribute.String("warehouse_id", req.WarehouseID.String())))
	defer span.End()

	started := time.Now()

	req, err := s.validate(req)
	if err != nil {
		return nil, nil, err
	}

	// 1. Resolve the warehouse's location set.
	wh, err := s.warehouses.GetByID(ctx, req.WarehouseID)
	if err != nil {
		return nil, nil, fmt.Errorf("get warehouse: %w", err)
	}
	if !wh.HasRootLocation() {
		return nil, nil, apperror.NewInvalidWarehouse(req.WarehouseID.String())
	}

	locations, err := s.resolver.Resolve(ctx, *wh.RootLocationID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil, apperror.NewInvalidWarehouse(req.WarehouseID.String()).WithCause(err)
		}
		return nil, nil, fmt.Errorf("resolve locations: %w", err)
	}

	// 2. One ledger scan through the window end feeds both replays.
	movements, err := s.repo.FinalizedMovementsThrough(ctx, locations, req.DateTo)
	if err != nil {
		return nil, nil, fmt.Errorf("scan movement ledger: %w", err)
	}
	start := Snapshot(movements, locations, req.DateFrom, false)
	actual := Snapshot(movements, locations, req.DateTo, true)

	// 3. POS sales within the window, restricted to the warehouse's
	// sales points (sentinel when it has none).
	spIDs, err := s.salesPoints.ListIDsByWarehouse(ctx, req.WarehouseID)
	if err != nil {
		return nil, nil, fmt.Errorf("list sales points: %w", err)
	}
	lines, err := s.repo.SalesLines(ctx, SalesPointRestriction(spIDs), req.DateFrom, req.DateTo)
	if err != nil {
		return nil, nil, fmt.Errorf("scan sales ledger: %w", err)
	}
	sold := SumSales(lines)

	// 4. External receipts within the window.
	receipts, err := s.repo.IncomingReceipts(ctx, req.WarehouseID, req.DateFrom, req.DateTo)
	if err != nil {
		return nil, nil, fmt.Errorf("scan receipts: %w", err)
	}
	received := SumReceipts(receipts)

	// 5. Combine, filter, rank.
	eligible, err := s.products.ListEligible(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list eligible products: %w", err)
	}
	rows := BuildRows(eligible, start, sold, received, actual)

	analysis := &Analysis{
		ID:          req.ID,
		WarehouseID: req.WarehouseID,
		DateFrom:    req.DateFrom,
		DateTo:      req.DateTo,
		RowCount:    len(rows),
		ComputedAt:  time.Now().UTC(),
		ComputedBy:  appctx.GetUserID(ctx),
	}

	// Delete-then-insert inside one transaction: a concurrent reader of
	// the same request sees either the old set or the new one, never a
	// transiently empty result.
	txm := tx.MustGetManager(ctx)
	err = txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.SaveAnalysis(ctx, analysis); err != nil {
			return fmt.Errorf("save analysis: %w", err)
		}
		if err := s.repo.ReplaceResultRows(ctx, analysis.ID, rows); err != nil {
			return fmt.Errorf("replace result rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	duration := time.Since(started)
	if s.recorder != nil {
		if recErr := s.recorder.RecordRun(ctx, analysis, duration); recErr != nil {
			logger.Warn(ctx, "failed to record analysis run", "error", recErr)
		}
	}

	logger.Info(ctx, "gap analysis computed",
		"analysis_id", analysis.ID,
		"warehouse_id", req.WarehouseID,
		"locations", len(locations),
		"rows", len(rows),
		"duration_ms", duration.Milliseconds(),
	)

	return analysis, rows, nil
}

// validate normalizes and checks a request before any aggregation runs.
func (s *Service) validate(req AnalysisRequest) (AnalysisRequest, error) {
	if id.IsNil(req.WarehouseID) {
		return req, apperror.NewValidation("warehouseId is required").
			WithDetail("field", "warehouseId")
	}
	if req.DateFrom.IsZero() || req.DateTo.IsZero() {
		return req, apperror.NewValidation("dateFrom and dateTo are required")
	}

	req.DateFrom = DateOnly(req.DateFrom)
	req.DateTo = DateOnly(req.DateTo)
	if req.DateFrom.After(req.DateTo) {
		return req, apperror.NewValidation("dateFrom must not be after dateTo").
			WithDetail("date_from", req.DateFrom.Format(time.DateOnly)).
			WithDetail("date_to", req.DateTo.Format(time.DateOnly))
	}

	if id.IsNil(req.ID) {
		req.ID = id.New()
	}
	return req, nil
}

// Get retrieves a stored run header.
func (s *Service) Get(ctx context.Context, analysisID id.ID) (*Analysis, error) {
	return s.repo.GetAnalysis(ctx, analysisID)
}

// List returns stored run headers, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	return s.repo.ListAnalyses(ctx, limit, offset)
}

// Rows returns the stored ranked rows of a run. The existence check and
// the row read run in one read-only snapshot so a concurrent re-run cannot
// slip between them.
func (s *Service) Rows(ctx context.Context, analysisID id.ID) ([]GapRow, error) {
	var rows []GapRow
	err := runReadOnly(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetAnalysis(ctx, analysisID); err != nil {
			return err
		}
		var err error
		rows, err = s.repo.GetResultRows(ctx, analysisID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// runReadOnly executes fn in a read-only transaction when the manager
// supports it, and directly otherwise.
func runReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	if ro, ok := tx.MustGetManager(ctx).(tx.ReadOnlyManager); ok {
		return ro.ReadOnly(ctx, fn)
	}
	return fn(ctx)
}
