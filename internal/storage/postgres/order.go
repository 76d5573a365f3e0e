package postgres

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/naingnainghtun662/apolo/internal/domain/order"
)

const (
	insertOrderSQL = `INSERT INTO orders (
		id, order_number, branch_id, table_id, user_id, order_source, order_type,
		status, customer_ip, customer_user_agent, lat, long, notes, quantity,
		subtotal, discount, tax, vat_rate, total, created_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		$11, $12, $13, $14, $15, $16, $17, $18, $19, $20
	)`

	insertOrderItemSQL = `INSERT INTO order_items (
		order_id, menu_item_id, variant_id, quantity, unit_price, total_price, notes, status
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id`

	selectOrderCols = `o.id, o.order_number, o.branch_id, o.table_id, o.user_id,
		o.order_source, o.order_type, o.status, COALESCE(o.customer_ip, ''),
		COALESCE(o.customer_user_agent, ''), o.lat, o.long, COALESCE(o.notes, ''),
		o.quantity, o.subtotal, o.discount, o.tax, o.vat_rate, o.total, o.created_at`

	getOrderByNumberSQL = `SELECT ` + selectOrderCols + `
		FROM orders o
		WHERE o.order_number = $1 AND o.status IN ('pending', 'in_progress')
		ORDER BY o.created_at DESC
		LIMIT 1`

	listActiveByBranchSQL = `SELECT ` + selectOrderCols + `
		FROM orders o
		WHERE o.branch_id = $1
		  AND o.created_at >= $2 AND o.created_at < $3
		  AND o.status IN ('pending', 'in_progress')
		ORDER BY o.created_at ASC`

	listActiveByTableSQL = `SELECT ` + selectOrderCols + `
		FROM orders o
		WHERE o.table_id = $1 AND o.status <> 'completed'
		ORDER BY o.created_at ASC`

	listItemsSQL = `SELECT i.id, i.order_id, i.menu_item_id, i.variant_id, m.name,
		i.quantity, i.unit_price, i.total_price, COALESCE(i.notes, ''), i.status
		FROM order_items i
		JOIN menu_items m ON m.id = i.menu_item_id
		WHERE i.order_id = ANY($1)
		ORDER BY i.id`

	updateItemStatusSQL = `UPDATE order_items
		SET status = $1, updated_at = now()
		WHERE id = $2 AND order_id = $3`

	selectItemStatusesSQL = `SELECT status FROM order_items WHERE order_id = $1`

	orderExistsSQL = `SELECT 1 FROM orders WHERE id = $1`

	updateOrderStatusSQL = `UPDATE orders
		SET status = $1, updated_at = now()
		WHERE id = $2`
)

// ErrOrderNotFound is returned when an order or one of its items cannot be
// found for a status write.
var ErrOrderNotFound = errors.New("order not found")

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists an order and all its items in a single transaction. On any
// failure the transaction rolls back and no rows remain.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, insertOrderSQL,
		o.ID, o.OrderNumber, o.BranchID, o.TableID, o.UserID,
		string(o.Source), string(o.Type), string(o.Status),
		o.CustomerIP, o.CustomerUserAgent, o.Lat, o.Long, o.Notes, o.Quantity,
		o.Subtotal, o.Discount, o.Tax, o.VatRate, o.Total, o.CreatedAt,
	)
	if err != nil {
		return errors.Wrapf(err, "inserting order %q", o.ID)
	}

	for i := range o.Items {
		item := &o.Items[i]
		err := tx.QueryRow(ctx, insertOrderItemSQL,
			o.ID, item.MenuItemID, item.VariantID, item.Quantity,
			item.UnitPrice, item.TotalPrice, item.Notes, string(item.Status),
		).Scan(&item.ID)
		if err != nil {
			return errors.Wrapf(err, "inserting item %d of order %q", i, o.ID)
		}
	}

	return errors.Wrap(tx.Commit(ctx), "commit")
}

// UpdateStatuses writes item statuses and recomputes the aggregate order
// status inside one transaction. When override is empty the aggregate is
// derived with order.ReduceStatus and left untouched if no rule fires.
func (r *OrderRepository) UpdateStatuses(ctx context.Context, orderID string, updates []order.ItemStatusUpdate, override order.Status) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback(ctx)

	// The update loop and the derive path both tolerate zero rows, so the
	// order itself must be checked explicitly.
	var one int
	if err := tx.QueryRow(ctx, orderExistsSQL, orderID).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errors.Wrapf(ErrOrderNotFound, "order %q", orderID)
		}
		return errors.Wrapf(err, "checking order %q", orderID)
	}

	for _, u := range updates {
		tag, err := tx.Exec(ctx, updateItemStatusSQL, string(u.Status), u.ItemID, orderID)
		if err != nil {
			return errors.Wrapf(err, "updating item %d", u.ItemID)
		}
		if tag.RowsAffected() == 0 {
			return errors.Wrapf(ErrOrderNotFound, "item %d of order %q", u.ItemID, orderID)
		}
	}

	status := override
	if status == "" {
		rows, err := tx.Query(ctx, selectItemStatusesSQL, orderID)
		if err != nil {
			return errors.Wrap(err, "reading item statuses")
		}
		statuses, err := pgx.CollectRows(rows, pgx.RowTo[order.Status])
		if err != nil {
			return errors.Wrap(err, "reading item statuses")
		}

		derived, ok := order.ReduceStatus(statuses)
		if !ok {
			// No reduction rule fires; keep the stored aggregate as is.
			return errors.Wrap(tx.Commit(ctx), "commit")
		}
		status = derived
	}

	tag, err := tx.Exec(ctx, updateOrderStatusSQL, string(status), orderID)
	if err != nil {
		return errors.Wrapf(err, "updating order %q status", orderID)
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(ErrOrderNotFound, "order %q", orderID)
	}

	return errors.Wrap(tx.Commit(ctx), "commit")
}

// SetStatus stores the given aggregate status directly.
func (r *OrderRepository) SetStatus(ctx context.Context, orderID string, status order.Status) error {
	tag, err := r.pool.Exec(ctx, updateOrderStatusSQL, string(status), orderID)
	if err != nil {
		return errors.Wrapf(err, "updating order %q status", orderID)
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(ErrOrderNotFound, "order %q", orderID)
	}
	return nil
}

// GetByNumber returns the most recent active order with the given number.
func (r *OrderRepository) GetByNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByNumberSQL, orderNumber)
	if err != nil {
		return nil, errors.Wrapf(err, "getting order %q", orderNumber)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, errors.Wrapf(err, "getting order %q", orderNumber)
	}

	if err := r.loadItems(ctx, []*order.Order{&o}); err != nil {
		return nil, err
	}
	return &o, nil
}

// ListActiveByBranch returns a branch's pending and in-progress orders created
// on the given day, oldest first.
func (r *OrderRepository) ListActiveByBranch(ctx context.Context, branchID int64, day time.Time) ([]order.Order, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	rows, err := r.pool.Query(ctx, listActiveByBranchSQL, branchID, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return nil, errors.Wrapf(err, "listing active orders for branch %d", branchID)
	}
	return r.collectWithItems(ctx, rows)
}

// ListActiveByTable returns a table's non-completed orders, oldest first.
func (r *OrderRepository) ListActiveByTable(ctx context.Context, tableID int64) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listActiveByTableSQL, tableID)
	if err != nil {
		return nil, errors.Wrapf(err, "listing active orders for table %d", tableID)
	}
	return r.collectWithItems(ctx, rows)
}

func (r *OrderRepository) collectWithItems(ctx context.Context, rows pgx.Rows) ([]order.Order, error) {
	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, errors.Wrap(err, "scanning orders")
	}
	if len(orders) == 0 {
		return orders, nil
	}

	refs := make([]*order.Order, len(orders))
	for i := range orders {
		refs[i] = &orders[i]
	}
	if err := r.loadItems(ctx, refs); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, orders []*order.Order) error {
	ids := make([]string, len(orders))
	byID := make(map[string]*order.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
	}

	rows, err := r.pool.Query(ctx, listItemsSQL, ids)
	if err != nil {
		return errors.Wrap(err, "listing order items")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item    order.Item
			orderID string
			status  string
		)
		err := rows.Scan(
			&item.ID, &orderID, &item.MenuItemID, &item.VariantID, &item.Name,
			&item.Quantity, &item.UnitPrice, &item.TotalPrice, &item.Notes, &status,
		)
		if err != nil {
			return errors.Wrap(err, "scanning order item")
		}
		item.Status = order.Status(status)
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o             order.Order
		source, otype string
		status        string
	)
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.BranchID, &o.TableID, &o.UserID,
		&source, &otype, &status, &o.CustomerIP, &o.CustomerUserAgent,
		&o.Lat, &o.Long, &o.Notes, &o.Quantity,
		&o.Subtotal, &o.Discount, &o.Tax, &o.VatRate, &o.Total, &o.CreatedAt,
	)
	o.Source = order.Source(source)
	o.Type = order.Type(otype)
	o.Status = order.Status(status)
	return o, err
}
