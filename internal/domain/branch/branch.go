// Package branch holds the branch reference data the ordering core reads.
// Branch CRUD itself lives outside this module.
package branch

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/naingnainghtun662/apolo/internal/domain/geo"
)

// ErrNotFound is returned when a referenced branch does not exist.
var ErrNotFound = errors.New("branch not found")

// Branch is a single restaurant location belonging to a tenant.
type Branch struct {
	ID       int64
	TenantID int64
	Name     string
	Currency string

	// TaxRate is the branch's current VAT percentage. Orders snapshot it at
	// creation time; it is never read back for existing orders.
	TaxRate decimal.Decimal

	// Geofence parameters. Lat/Long may be unset; Radius <= 0 disables the
	// admission check.
	Lat    *float64
	Long   *float64
	Radius *float64
}

// Fence returns the branch's admission boundary for geofence evaluation.
func (b *Branch) Fence() geo.Fence {
	f := geo.Fence{}
	if b.Lat != nil && b.Long != nil {
		f.Center = &geo.Point{Lat: *b.Lat, Long: *b.Long}
	}
	if b.Radius != nil {
		f.RadiusMeters = *b.Radius
	}
	return f
}

// Repository defines read operations for branches.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Branch, error)
}
