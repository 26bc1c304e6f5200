package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockgap/internal/domain/catalogs/product"
	"stockgap/internal/infrastructure/storage/postgres"
)

const (
	productTable  = "cat_products"
	categoryTable = "cat_categories"
)

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

// NewProductRepo creates a new product repository.
func NewProductRepo() *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*product.Product](
			productTable,
			postgres.ExtractDBColumns[product.Product](),
			func() *product.Product { return &product.Product{} },
		),
	}
}

// ListEligible returns products that may appear in gap reports: tracked,
// active, and belonging to an active category. The category join applies
// the second active flag at query time.
func (r *ProductRepo) ListEligible(ctx context.Context) ([]product.Product, error) {
	cols := make([]string, 0, 8)
	for _, c := range postgres.ExtractDBColumns[product.Product]() {
		cols = append(cols, "p."+c)
	}

	q := r.Builder().
		Select(cols...).
		From(productTable + " p").
		Join(categoryTable + " c ON c.id = p.category_id").
		Where(squirrel.Eq{"p.tracked": true}).
		Where(squirrel.Eq{"p.active": true}).
		Where(squirrel.Eq{"c.active": true}).
		OrderBy("p.sku ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	var items []product.Product
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list eligible products: %w", err)
	}

	return items, nil
}

// CreateCategory inserts a product category. Used by provisioning.
func (r *ProductRepo) CreateCategory(ctx context.Context, c *product.Category) error {
	q := r.Builder().
		Insert(categoryTable).
		SetMap(postgres.StructToMap(c))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", categoryTable, err)
	}

	return nil
}

var _ product.Repository = (*ProductRepo)(nil)
