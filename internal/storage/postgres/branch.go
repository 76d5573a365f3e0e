package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/naingnainghtun662/apolo/internal/domain/branch"
)

const getBranchSQL = `SELECT id, tenant_id, COALESCE(name, ''), COALESCE(currency, ''), tax, lat, long, radius
	FROM branches WHERE id = $1`

var _ branch.Repository = (*BranchRepository)(nil)

// BranchRepository implements branch.Repository backed by PostgreSQL.
type BranchRepository struct {
	pool *pgxpool.Pool
}

// NewBranchRepository returns a BranchRepository that uses the given pool.
func NewBranchRepository(pool *pgxpool.Pool) *BranchRepository {
	return &BranchRepository{pool: pool}
}

// GetByID returns a single branch by its identifier.
func (r *BranchRepository) GetByID(ctx context.Context, id int64) (*branch.Branch, error) {
	rows, err := r.pool.Query(ctx, getBranchSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "getting branch %d", id)
	}

	b, err := pgx.CollectExactlyOneRow(rows, scanBranch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, branch.ErrNotFound
		}
		return nil, errors.Wrapf(err, "getting branch %d", id)
	}
	return &b, nil
}

func scanBranch(row pgx.CollectableRow) (branch.Branch, error) {
	var b branch.Branch
	err := row.Scan(
		&b.ID, &b.TenantID, &b.Name, &b.Currency, &b.TaxRate,
		&b.Lat, &b.Long, &b.Radius,
	)
	return b, err
}
