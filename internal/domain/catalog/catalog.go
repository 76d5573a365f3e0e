// Package catalog exposes the menu catalog as the ordering core sees it:
// read-only items with optional priced variants and a stock flag.
package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested menu item does not exist.
var ErrNotFound = errors.New("menu item not found")

// MenuItem is a catalog entry available for ordering.
type MenuItem struct {
	ID         int64
	BranchID   int64
	CategoryID *int64
	ExternalID string
	Name       string

	// Price is the base price. Nil models legacy rows with no price metadata;
	// see UnitPrice for the fallback chain.
	Price *decimal.Decimal

	OutOfStock bool
	Variants   []Variant
}

// Variant is a priced sub-option of a menu item (e.g. size).
type Variant struct {
	ID    int64
	Name  string
	Price decimal.Decimal
}

// UnitPrice resolves the effective unit price for an optional variant
// selection: the variant's price when variantID matches one of the item's
// variants, else the base price, else zero. The zero fallback mirrors the
// legacy data this catalog was migrated from and is deliberately not an
// error.
func (m *MenuItem) UnitPrice(variantID *int64) decimal.Decimal {
	if variantID != nil {
		for _, v := range m.Variants {
			if v.ID == *variantID {
				return v.Price
			}
		}
	}
	if m.Price != nil {
		return *m.Price
	}
	return decimal.Zero
}

// Repository defines read operations for the menu catalog.
type Repository interface {
	GetItem(ctx context.Context, id int64) (*MenuItem, error)
	ListByBranch(ctx context.Context, branchID int64) ([]MenuItem, error)
}
