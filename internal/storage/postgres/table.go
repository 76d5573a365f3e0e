package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/naingnainghtun662/apolo/internal/domain/table"
)

const (
	getTableByTokenSQL = `SELECT id, branch_id, name, public_token
		FROM tables WHERE public_token = $1`

	getTableByIDSQL = `SELECT id, branch_id, name, public_token
		FROM tables WHERE id = $1`
)

var _ table.Repository = (*TableRepository)(nil)

// TableRepository implements table.Repository backed by PostgreSQL.
type TableRepository struct {
	pool *pgxpool.Pool
}

// NewTableRepository returns a TableRepository that uses the given pool.
func NewTableRepository(pool *pgxpool.Pool) *TableRepository {
	return &TableRepository{pool: pool}
}

// GetByPublicToken resolves a table from the token embedded in its QR code.
func (r *TableRepository) GetByPublicToken(ctx context.Context, token string) (*table.Table, error) {
	return r.getOne(ctx, getTableByTokenSQL, token)
}

// GetByID returns a single table by its identifier.
func (r *TableRepository) GetByID(ctx context.Context, id int64) (*table.Table, error) {
	return r.getOne(ctx, getTableByIDSQL, id)
}

func (r *TableRepository) getOne(ctx context.Context, sql string, arg any) (*table.Table, error) {
	rows, err := r.pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, errors.Wrap(err, "querying table")
	}

	t, err := pgx.CollectExactlyOneRow(rows, func(row pgx.CollectableRow) (table.Table, error) {
		var t table.Table
		err := row.Scan(&t.ID, &t.BranchID, &t.Name, &t.PublicToken)
		return t, err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, table.ErrNotFound
		}
		return nil, errors.Wrap(err, "querying table")
	}
	return &t, nil
}
