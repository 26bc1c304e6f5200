package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"stockgap/internal/domain/catalogs/warehouse"
	"stockgap/internal/infrastructure/storage/postgres"
)

const warehouseTable = "cat_warehouses"

// WarehouseRepo implements warehouse.Repository.
type WarehouseRepo struct {
	*BaseCatalogRepo[*warehouse.Warehouse]
}

// NewWarehouseRepo creates a new warehouse repository.
func NewWarehouseRepo() *WarehouseRepo {
	return &WarehouseRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*warehouse.Warehouse](
			warehouseTable,
			postgres.ExtractDBColumns[warehouse.Warehouse](),
			func() *warehouse.Warehouse { return &warehouse.Warehouse{} },
		),
	}
}

// ListActive returns active warehouses ordered by name.
func (r *WarehouseRepo) ListActive(ctx context.Context) ([]warehouse.Warehouse, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("name ASC")

	var items []warehouse.Warehouse
	if err := r.selectMany(ctx, q, &items); err != nil {
		return nil, err
	}

	return items, nil
}

var _ warehouse.Repository = (*WarehouseRepo)(nil)
