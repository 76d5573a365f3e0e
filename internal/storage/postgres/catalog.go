package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/naingnainghtun662/apolo/internal/domain/catalog"
)

const (
	getMenuItemSQL = `SELECT id, branch_id, category_id, COALESCE(external_id, ''), name, price, out_of_stock
		FROM menu_items WHERE id = $1`

	listMenuItemsSQL = `SELECT id, branch_id, category_id, COALESCE(external_id, ''), name, price, out_of_stock
		FROM menu_items WHERE branch_id = $1 ORDER BY id`

	listVariantsSQL = `SELECT id, menu_item_id, name, price
		FROM menu_item_variants WHERE menu_item_id = ANY($1) ORDER BY id`
)

var _ catalog.Repository = (*CatalogRepository)(nil)

// CatalogRepository implements catalog.Repository backed by PostgreSQL.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository returns a CatalogRepository that uses the given pool.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// GetItem returns a menu item with its variants.
func (r *CatalogRepository) GetItem(ctx context.Context, id int64) (*catalog.MenuItem, error) {
	rows, err := r.pool.Query(ctx, getMenuItemSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "getting menu item %d", id)
	}

	item, err := pgx.CollectExactlyOneRow(rows, scanMenuItem)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, errors.Wrapf(err, "getting menu item %d", id)
	}

	variants, err := r.variantsFor(ctx, []int64{item.ID})
	if err != nil {
		return nil, err
	}
	item.Variants = variants[item.ID]
	return &item, nil
}

// ListByBranch returns all menu items of a branch with their variants.
func (r *CatalogRepository) ListByBranch(ctx context.Context, branchID int64) ([]catalog.MenuItem, error) {
	rows, err := r.pool.Query(ctx, listMenuItemsSQL, branchID)
	if err != nil {
		return nil, errors.Wrapf(err, "listing menu items for branch %d", branchID)
	}

	items, err := pgx.CollectRows(rows, scanMenuItem)
	if err != nil {
		return nil, errors.Wrapf(err, "listing menu items for branch %d", branchID)
	}
	if len(items) == 0 {
		return items, nil
	}

	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	variants, err := r.variantsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Variants = variants[items[i].ID]
	}
	return items, nil
}

func (r *CatalogRepository) variantsFor(ctx context.Context, itemIDs []int64) (map[int64][]catalog.Variant, error) {
	rows, err := r.pool.Query(ctx, listVariantsSQL, itemIDs)
	if err != nil {
		return nil, errors.Wrap(err, "listing variants")
	}
	defer rows.Close()

	variants := make(map[int64][]catalog.Variant)
	for rows.Next() {
		var (
			v      catalog.Variant
			itemID int64
		)
		if err := rows.Scan(&v.ID, &itemID, &v.Name, &v.Price); err != nil {
			return nil, errors.Wrap(err, "scanning variant")
		}
		variants[itemID] = append(variants[itemID], v)
	}
	return variants, rows.Err()
}

func scanMenuItem(row pgx.CollectableRow) (catalog.MenuItem, error) {
	var m catalog.MenuItem
	err := row.Scan(
		&m.ID, &m.BranchID, &m.CategoryID, &m.ExternalID,
		&m.Name, &m.Price, &m.OutOfStock,
	)
	return m, err
}
