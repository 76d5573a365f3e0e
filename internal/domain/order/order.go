// Package order implements the ordering core: admission, pricing snapshots,
// and aggregate status derivation.
package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Source identifies who placed an order.
type Source string

const (
	SourceCustomer Source = "customer"
	SourceCashier  Source = "cashier"
)

// Type identifies how an order is served.
type Type string

const (
	TypeDineIn   Type = "dine_in"
	TypeTakeOut  Type = "take_out"
	TypeDelivery Type = "delivery"
)

// Order is a placed order together with its pricing snapshot. Monetary fields
// and VatRate are frozen at creation time and never recomputed from live
// branch state.
type Order struct {
	ID          string
	OrderNumber string
	BranchID    int64
	TableID     *int64
	UserID      *int64
	Source      Source
	Type        Type
	Status      Status

	CustomerIP        string
	CustomerUserAgent string
	Lat               *float64
	Long              *float64
	Notes             string

	Quantity int
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	VatRate  decimal.Decimal
	Total    decimal.Decimal

	Items     []Item
	CreatedAt time.Time
}

// Item is a single line of an order. Content is immutable after creation;
// only Status mutates.
type Item struct {
	ID         int64
	MenuItemID int64
	VariantID  *int64
	Name       string
	Quantity   int
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
	Notes      string
	Status     Status
}

// ItemStatusUpdate sets the status of one existing order item.
type ItemStatusUpdate struct {
	ItemID int64
	Status Status
}

// Repository defines persistence operations for orders. Create writes the
// order and all its items as one atomic unit. UpdateStatuses applies item
// status writes and the aggregate recomputation within a single transaction;
// when override is empty the stored order status is derived with ReduceStatus
// and left untouched if no reduction rule fires.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByNumber(ctx context.Context, orderNumber string) (*Order, error)
	UpdateStatuses(ctx context.Context, orderID string, updates []ItemStatusUpdate, override Status) error
	SetStatus(ctx context.Context, orderID string, status Status) error
	ListActiveByBranch(ctx context.Context, branchID int64, day time.Time) ([]Order, error)
	ListActiveByTable(ctx context.Context, tableID int64) ([]Order, error)
}

// Notifier emits order-created signals for kitchen and cashier displays.
// Dispatch is fire-and-forget; failures must never affect admission.
type Notifier interface {
	OrderCreated(ctx context.Context, o *Order) error
}
