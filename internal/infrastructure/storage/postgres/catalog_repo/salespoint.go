package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockgap/internal/core/id"
	"stockgap/internal/domain/catalogs/salespoint"
	"stockgap/internal/infrastructure/storage/postgres"
)

const salesPointTable = "cat_sales_points"

// SalesPointRepo implements salespoint.Repository.
type SalesPointRepo struct {
	*BaseCatalogRepo[*salespoint.SalesPoint]
}

// NewSalesPointRepo creates a new sales point repository.
func NewSalesPointRepo() *SalesPointRepo {
	return &SalesPointRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*salespoint.SalesPoint](
			salesPointTable,
			postgres.ExtractDBColumns[salespoint.SalesPoint](),
			func() *salespoint.SalesPoint { return &salespoint.SalesPoint{} },
		),
	}
}

// ListByWarehouse returns sales points bound to a warehouse.
func (r *SalesPointRepo) ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]salespoint.SalesPoint, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"warehouse_id": warehouseID}).
		OrderBy("name ASC")

	var items []salespoint.SalesPoint
	if err := r.selectMany(ctx, q, &items); err != nil {
		return nil, err
	}

	return items, nil
}

// ListIDsByWarehouse returns just the ids of a warehouse's sales points.
func (r *SalesPointRepo) ListIDsByWarehouse(ctx context.Context, warehouseID id.ID) ([]id.ID, error) {
	q := r.Builder().
		Select("id").
		From(salesPointTable).
		Where(squirrel.Eq{"warehouse_id": warehouseID}).
		OrderBy("id ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	var ids []id.ID
	if err := pgxscan.Select(ctx, querier, &ids, sql, args...); err != nil {
		return nil, fmt.Errorf("list sales point ids: %w", err)
	}

	return ids, nil
}

var _ salespoint.Repository = (*SalesPointRepo)(nil)
