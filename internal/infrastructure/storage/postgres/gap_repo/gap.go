// Package gap_repo provides the PostgreSQL implementation of the gap
// analysis repository: ledger scans feeding the pipeline and storage of
// computed results. TxManager is obtained from context per-request.
package gap_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockgap/internal/core/apperror"
	"stockgap/internal/core/id"
	"stockgap/internal/domain/gap"
	"stockgap/internal/infrastructure/storage/postgres"
)

const (
	movementsTable    = "doc_stock_movements"
	posLinesTable     = "doc_pos_lines"
	analysesTable     = "gap_analyses"
	analysisRowsTable = "gap_analysis_rows"
)

// TransferType classifies a movement relative to the warehouse.
type TransferType string

const (
	TransferIncoming TransferType = "incoming"
	TransferOutgoing TransferType = "outgoing"
	TransferInternal TransferType = "internal"
)

// GapRepo implements gap.Repository.
type GapRepo struct {
	builder squirrel.StatementBuilderType
}

// NewGapRepo creates a new gap analysis repository.
func NewGapRepo() *GapRepo {
	return &GapRepo{
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// getTxManager retrieves TxManager from context.
func (r *GapRepo) getTxManager(ctx context.Context) *postgres.TxManager {
	return postgres.MustGetTxManager(ctx)
}

var movementCols = []string{
	"product_id", "source_location_id", "dest_location_id",
	"quantity", "effective_date", "status",
}

// FinalizedMovementsThrough returns done movements touching the location set
// with effective date on or before `through`. Comparison is by calendar
// date; the ledger stores full timestamps.
func (r *GapRepo) FinalizedMovementsThrough(ctx context.Context, locations gap.LocationSet, through time.Time) ([]gap.MovementRecord, error) {
	if len(locations) == 0 {
		return nil, nil
	}

	sql, args, err := r.movementsThroughQuery(locations.IDs(), through).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []gap.MovementRecord
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}

	return movements, nil
}

func (r *GapRepo) movementsThroughQuery(locIDs []id.ID, through time.Time) squirrel.SelectBuilder {
	return r.builder.Select(movementCols...).
		From(movementsTable).
		Where(squirrel.Eq{"status": gap.MovementDone}).
		Where(squirrel.Expr("effective_date::date <= ?::date", through)).
		Where(squirrel.Or{
			squirrel.Eq{"source_location_id": locIDs},
			squirrel.Eq{"dest_location_id": locIDs},
		}).
		OrderBy("effective_date ASC")
}

// SalesLines returns POS lines of finalized orders for the given sales
// points with order date in [from, to]. The restriction set is never empty.
func (r *GapRepo) SalesLines(ctx context.Context, salesPointIDs []id.ID, from, to time.Time) ([]gap.SalesLine, error) {
	sql, args, err := r.salesLinesQuery(salesPointIDs, from, to).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []gap.SalesLine
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("select sales lines: %w", err)
	}

	return lines, nil
}

func (r *GapRepo) salesLinesQuery(salesPointIDs []id.ID, from, to time.Time) squirrel.SelectBuilder {
	finalized := []gap.OrderStatus{gap.OrderPaid, gap.OrderDone, gap.OrderInvoiced}

	return r.builder.Select(
		"product_id", "quantity", "order_date", "sales_point_id", "order_status",
	).
		From(posLinesTable).
		Where(squirrel.Eq{"sales_point_id": salesPointIDs}).
		Where(squirrel.Eq{"order_status": finalized}).
		Where(squirrel.Expr("order_date::date >= ?::date", from)).
		Where(squirrel.Expr("order_date::date <= ?::date", to))
}

// IncomingReceipts returns done incoming movements for the warehouse with
// effective date in [from, to].
func (r *GapRepo) IncomingReceipts(ctx context.Context, warehouseID id.ID, from, to time.Time) ([]gap.MovementRecord, error) {
	sql, args, err := r.receiptsQuery(warehouseID, from, to).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []gap.MovementRecord
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select receipts: %w", err)
	}

	return movements, nil
}

func (r *GapRepo) receiptsQuery(warehouseID id.ID, from, to time.Time) squirrel.SelectBuilder {
	return r.builder.Select(movementCols...).
		From(movementsTable).
		Where(squirrel.Eq{"status": gap.MovementDone}).
		Where(squirrel.Eq{"transfer_type": TransferIncoming}).
		Where(squirrel.Eq{"warehouse_id": warehouseID}).
		Where(squirrel.Expr("effective_date::date >= ?::date", from)).
		Where(squirrel.Expr("effective_date::date <= ?::date", to))
}

// SaveAnalysis upserts the run header.
func (r *GapRepo) SaveAnalysis(ctx context.Context, a *gap.Analysis) error {
	q := r.builder.Insert(analysesTable).
		Columns("id", "warehouse_id", "date_from", "date_to", "row_count", "computed_at", "computed_by").
		Values(a.ID, a.WarehouseID, a.DateFrom, a.DateTo, a.RowCount, a.ComputedAt, a.ComputedBy).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			warehouse_id = EXCLUDED.warehouse_id,
			date_from    = EXCLUDED.date_from,
			date_to      = EXCLUDED.date_to,
			row_count    = EXCLUDED.row_count,
			computed_at  = EXCLUDED.computed_at,
			computed_by  = EXCLUDED.computed_by`)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert analysis: %w", err)
	}

	return nil
}

// ReplaceResultRows swaps the stored rows for a run: prior rows are deleted
// and the new set inserted via COPY. Requires an active transaction so
// concurrent readers never observe a half-written set.
func (r *GapRepo) ReplaceResultRows(ctx context.Context, analysisID id.ID, rows []gap.GapRow) error {
	txm := r.getTxManager(ctx)
	if txm.GetTx(ctx) == nil {
		return apperror.NewInternal(fmt.Errorf("replace result rows called outside transaction"))
	}

	delQ := r.builder.Delete(analysisRowsTable).
		Where(squirrel.Eq{"analysis_id": analysisID})

	sql, args, err := delQ.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete result rows: %w", err)
	}

	if len(rows) == 0 {
		return nil
	}

	inserter := postgres.NewBatchInserter(txm)
	columns := []string{
		"analysis_id", "rank", "product_id", "product_sku", "product_name", "category_id",
		"qty_start", "qty_sold", "qty_received", "qty_theoretical", "qty_actual", "qty_gap",
	}
	values := make([][]any, 0, len(rows))
	for i, row := range rows {
		values = append(values, []any{
			analysisID, i + 1, row.ProductID, row.ProductSKU, row.ProductName, row.CategoryID,
			row.QtyStart, row.QtySold, row.QtyReceived, row.QtyTheoretical, row.QtyActual, row.QtyGap,
		})
	}

	if _, err := inserter.CopyFromSlice(ctx, analysisRowsTable, columns, values); err != nil {
		return fmt.Errorf("copy result rows: %w", err)
	}

	return nil
}

// GetAnalysis retrieves a run header.
func (r *GapRepo) GetAnalysis(ctx context.Context, analysisID id.ID) (*gap.Analysis, error) {
	q := r.builder.Select(
		"id", "warehouse_id", "date_from", "date_to", "row_count", "computed_at", "computed_by",
	).
		From(analysesTable).
		Where(squirrel.Eq{"id": analysisID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var a gap.Analysis
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &a, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("analysis", analysisID.String())
		}
		return nil, fmt.Errorf("get analysis: %w", err)
	}

	return &a, nil
}

// ListAnalyses returns run headers, newest first.
func (r *GapRepo) ListAnalyses(ctx context.Context, limit, offset int) ([]gap.Analysis, error) {
	q := r.builder.Select(
		"id", "warehouse_id", "date_from", "date_to", "row_count", "computed_at", "computed_by",
	).
		From(analysesTable).
		OrderBy("computed_at DESC", "id DESC")

	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []gap.Analysis
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}

	return items, nil
}

// GetResultRows returns the stored rows of a run in ranked order.
func (r *GapRepo) GetResultRows(ctx context.Context, analysisID id.ID) ([]gap.GapRow, error) {
	q := r.builder.Select(
		"product_id", "product_sku", "product_name", "category_id",
		"qty_start", "qty_sold", "qty_received", "qty_theoretical", "qty_actual", "qty_gap",
	).
		From(analysisRowsTable).
		Where(squirrel.Eq{"analysis_id": analysisID}).
		OrderBy("rank ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []gap.GapRow
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select result rows: %w", err)
	}

	return rows, nil
}

// Ensure interface compliance.
var _ gap.Repository = (*GapRepo)(nil)
