// Package table models QR-coded dining tables, the entry point for customer
// self-service orders.
package table

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a table cannot be resolved by ID or token.
var ErrNotFound = errors.New("table not found")

// Table is a dining table within a branch. PublicToken is the opaque
// identifier embedded in the table's QR code.
type Table struct {
	ID          int64
	BranchID    int64
	Name        string
	PublicToken string
}

// Repository defines read operations for tables.
type Repository interface {
	GetByPublicToken(ctx context.Context, token string) (*Table, error)
	GetByID(ctx context.Context, id int64) (*Table, error)
}
