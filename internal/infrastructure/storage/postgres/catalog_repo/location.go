package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockgap/internal/core/id"
	"stockgap/internal/domain/catalogs/location"
	"stockgap/internal/infrastructure/storage/postgres"
)

const locationTable = "cat_locations"

// LocationRepo implements location.Repository.
type LocationRepo struct {
	*BaseCatalogRepo[*location.Location]
}

// NewLocationRepo creates a new location repository.
func NewLocationRepo() *LocationRepo {
	return &LocationRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*location.Location](
			locationTable,
			postgres.ExtractDBColumns[location.Location](),
			func() *location.Location { return &location.Location{} },
		),
	}
}

// ListActiveChildIDs returns ids of the active direct children of a parent.
// Inactive children are omitted here; the traversal never descends past them.
func (r *LocationRepo) ListActiveChildIDs(ctx context.Context, parentID id.ID) ([]id.ID, error) {
	q := r.Builder().
		Select("id").
		From(locationTable).
		Where(squirrel.Eq{"parent_id": parentID}).
		Where(squirrel.Eq{"active": true}).
		OrderBy("id ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	var ids []id.ID
	if err := pgxscan.Select(ctx, querier, &ids, sql, args...); err != nil {
		return nil, fmt.Errorf("list child ids: %w", err)
	}

	return ids, nil
}

var _ location.Repository = (*LocationRepo)(nil)
