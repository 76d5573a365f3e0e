package order

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/naingnainghtun662/apolo/internal/domain/branch"
	"github.com/naingnainghtun662/apolo/internal/domain/catalog"
	"github.com/naingnainghtun662/apolo/internal/domain/geo"
	"github.com/naingnainghtun662/apolo/internal/domain/table"
)

// Sentinel errors for admission validation.
var (
	ErrEmptyItems    = errors.New("items required")
	ErrInvalidStatus = errors.New("unknown status")
)

// OutOfStockError indicates a requested menu item is flagged out of stock.
type OutOfStockError struct {
	ItemName string
}

func (e *OutOfStockError) Error() string {
	return e.ItemName + " is out of stock"
}

// InvalidQuantityError indicates a line item has a non-positive quantity.
type InvalidQuantityError struct {
	ItemName string
}

func (e *InvalidQuantityError) Error() string {
	return "quantity for " + e.ItemName + " must be at least 1"
}

// LineRequest is one requested order line as received from the request layer.
type LineRequest struct {
	MenuItemID int64
	VariantID  *int64
	Quantity   int
	Notes      string
}

// PlaceOrderRequest holds the input for order admission. Customer orders carry
// a TableToken which resolves both table and branch; cashier orders name the
// branch explicitly and may attach a table.
type PlaceOrderRequest struct {
	Source Source
	Type   Type

	TableToken string
	BranchID   int64
	TableID    *int64
	UserID     *int64

	Items    []LineRequest
	Discount decimal.Decimal
	Notes    string

	CustomerLocation  *geo.Point
	CustomerIP        string
	CustomerUserAgent string
}

// TableTotals aggregates the monetary fields of a table's active orders.
type TableTotals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Service is the order admission and status pipeline.
type Service struct {
	branches branch.Repository
	tables   table.Repository
	catalog  catalog.Repository
	orders   Repository
	notifier Notifier
	lg       *zap.Logger
	now      func() time.Time
}

// NewService creates a Service with the required collaborators.
func NewService(
	branches branch.Repository,
	tables table.Repository,
	cat catalog.Repository,
	orders Repository,
	notifier Notifier,
	lg *zap.Logger,
) *Service {
	return &Service{
		branches: branches,
		tables:   tables,
		catalog:  cat,
		orders:   orders,
		notifier: notifier,
		lg:       lg,
		now:      time.Now,
	}
}

// PlaceOrder admits an order: stock and quantity gates, geofence for
// customer-sourced orders, price and tax snapshot, atomic persist, and a
// best-effort created notification. Validation failures leave no writes
// behind.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}

	// Resolve every menu item up front; stock and quantity are hard gates.
	items := make([]*catalog.MenuItem, len(req.Items))
	for i, line := range req.Items {
		item, err := s.catalog.GetItem(ctx, line.MenuItemID)
		if err != nil {
			return nil, errors.Wrapf(err, "resolve menu item %d", line.MenuItemID)
		}
		if item.OutOfStock {
			return nil, &OutOfStockError{ItemName: item.Name}
		}
		if line.Quantity <= 0 {
			return nil, &InvalidQuantityError{ItemName: item.Name}
		}
		items[i] = item
	}

	br, tableID, err := s.resolveBranch(ctx, req)
	if err != nil {
		return nil, err
	}

	// Geofencing applies to customer self-service only; cashiers stand at the
	// counter.
	if req.Source == SourceCustomer {
		if err := geo.Evaluate(br.Fence(), req.CustomerLocation); err != nil {
			return nil, err
		}
	}

	// Snapshot unit prices and the branch's tax rate as of right now.
	lines := make([]Line, len(req.Items))
	quantity := 0
	for i, line := range req.Items {
		lines[i] = Line{
			UnitPrice: items[i].UnitPrice(line.VariantID),
			Quantity:  line.Quantity,
		}
		quantity += line.Quantity
	}
	totals := ComputeTotals(lines, req.Discount, br.TaxRate)

	now := s.now()
	o := &Order{
		ID:                uuid.New().String(),
		OrderNumber:       newOrderNumber(now),
		BranchID:          br.ID,
		TableID:           tableID,
		UserID:            req.UserID,
		Source:            req.Source,
		Type:              req.Type,
		Status:            StatusPending,
		CustomerIP:        req.CustomerIP,
		CustomerUserAgent: req.CustomerUserAgent,
		Notes:             req.Notes,
		Quantity:          quantity,
		Subtotal:          totals.Subtotal,
		Discount:          totals.Discount,
		Tax:               totals.Tax,
		VatRate:           totals.VatRate,
		Total:             totals.Total,
		CreatedAt:         now,
	}
	if req.CustomerLocation != nil {
		o.Lat = &req.CustomerLocation.Lat
		o.Long = &req.CustomerLocation.Long
	}

	o.Items = make([]Item, len(req.Items))
	for i, line := range req.Items {
		o.Items[i] = Item{
			MenuItemID: line.MenuItemID,
			VariantID:  line.VariantID,
			Name:       items[i].Name,
			Quantity:   line.Quantity,
			UnitPrice:  lines[i].UnitPrice,
			TotalPrice: lines[i].UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
			Notes:      line.Notes,
			Status:     StatusPending,
		}
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	// Fire-and-forget: a missed kitchen signal must not undo a committed
	// order.
	if err := s.notifier.OrderCreated(ctx, o); err != nil {
		s.lg.Warn("order created notification failed",
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
	}

	return o, nil
}

func (s *Service) resolveBranch(ctx context.Context, req PlaceOrderRequest) (*branch.Branch, *int64, error) {
	if req.Source == SourceCustomer {
		tbl, err := s.tables.GetByPublicToken(ctx, req.TableToken)
		if err != nil {
			return nil, nil, errors.Wrap(err, "resolve table")
		}
		br, err := s.branches.GetByID(ctx, tbl.BranchID)
		if err != nil {
			return nil, nil, errors.Wrap(err, "resolve branch")
		}
		return br, &tbl.ID, nil
	}

	br, err := s.branches.GetByID(ctx, req.BranchID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "resolve branch")
	}
	if req.TableID != nil {
		tbl, err := s.tables.GetByID(ctx, *req.TableID)
		if err != nil {
			return nil, nil, errors.Wrap(err, "resolve table")
		}
		if tbl.BranchID != req.BranchID {
			return nil, nil, errors.Wrapf(table.ErrNotFound, "table %d not in branch %d", *req.TableID, req.BranchID)
		}
	}
	return br, req.TableID, nil
}

// UpdateStatus applies per-item status writes and recomputes the aggregate
// order status in one transaction. A non-empty override is stored verbatim
// instead of the derived value.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, updates []ItemStatusUpdate, override Status) error {
	for _, u := range updates {
		if !u.Status.Valid() {
			return errors.Wrapf(ErrInvalidStatus, "item %d status %q", u.ItemID, u.Status)
		}
	}
	if override != "" && !override.Valid() {
		return errors.Wrapf(ErrInvalidStatus, "order status %q", override)
	}
	return s.orders.UpdateStatuses(ctx, orderID, updates, override)
}

// Cancel sets an order's aggregate status to cancelled directly.
func (s *Service) Cancel(ctx context.Context, orderID string) error {
	return s.orders.SetStatus(ctx, orderID, StatusCancelled)
}

// GetByNumber returns an active order by its human-readable number.
func (s *Service) GetByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	return s.orders.GetByNumber(ctx, orderNumber)
}

// KitchenOrders returns today's pending and in-progress orders for a branch,
// oldest first.
func (s *Service) KitchenOrders(ctx context.Context, branchID int64) ([]Order, error) {
	return s.orders.ListActiveByBranch(ctx, branchID, s.now())
}

// TableOrders resolves a table by its public token and returns its
// non-completed orders together with aggregated totals.
func (s *Service) TableOrders(ctx context.Context, token string) ([]Order, TableTotals, error) {
	tbl, err := s.tables.GetByPublicToken(ctx, token)
	if err != nil {
		return nil, TableTotals{}, errors.Wrap(err, "resolve table")
	}

	orders, err := s.orders.ListActiveByTable(ctx, tbl.ID)
	if err != nil {
		return nil, TableTotals{}, errors.Wrap(err, "list table orders")
	}

	totals := TableTotals{
		Subtotal: decimal.Zero,
		Discount: decimal.Zero,
		Tax:      decimal.Zero,
		Total:    decimal.Zero,
	}
	for _, o := range orders {
		totals.Subtotal = totals.Subtotal.Add(o.Subtotal)
		totals.Discount = totals.Discount.Add(o.Discount)
		totals.Tax = totals.Tax.Add(o.Tax)
		totals.Total = totals.Total.Add(o.Total)
	}
	return orders, totals, nil
}

// newOrderNumber builds a human-readable order number like
// ORD-20260829-1A2B3C. Uniqueness is enforced by the storage layer.
func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.New().String()[:6])
	return "ORD-" + now.UTC().Format("20060102") + "-" + suffix
}
