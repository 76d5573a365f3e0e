// Package notify dispatches order-created signals to kitchen and cashier
// displays over RabbitMQ. Dispatch is best-effort; the ordering core never
// depends on its outcome.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/naingnainghtun662/apolo/internal/domain/order"
)

const (
	exchange       = "orders_topic"
	publishTimeout = 5 * time.Second
)

var _ order.Notifier = (*AMQPNotifier)(nil)

// AMQPNotifier publishes order-created events on a topic exchange. Routing
// keys are kitchen.order.created.<branch_id> so displays can bind per branch.
type AMQPNotifier struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewAMQPNotifier connects to the broker and declares the durable topic
// exchange.
func NewAMQPNotifier(url string) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "dial amqp")
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "open channel")
	}

	err = ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, errors.Wrap(err, "declare exchange")
	}

	return &AMQPNotifier{conn: conn, channel: ch}, nil
}

// OrderCreated publishes one persistent event carrying the full order payload.
func (n *AMQPNotifier) OrderCreated(ctx context.Context, o *order.Order) error {
	body := encodeOrder(o)

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	routingKey := fmt.Sprintf("kitchen.order.created.%d", o.BranchID)
	err := n.channel.PublishWithContext(ctx,
		exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return errors.Wrap(err, "publish order created")
	}
	return nil
}

// Close releases the channel and connection.
func (n *AMQPNotifier) Close() error {
	if err := n.channel.Close(); err != nil {
		n.conn.Close()
		return err
	}
	return n.conn.Close()
}

func encodeOrder(o *order.Order) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(o.ID) })
		e.Field("orderNumber", func(e *jx.Encoder) { e.Str(o.OrderNumber) })
		e.Field("branchId", func(e *jx.Encoder) { e.Int64(o.BranchID) })
		if o.TableID != nil {
			e.Field("tableId", func(e *jx.Encoder) { e.Int64(*o.TableID) })
		}
		e.Field("source", func(e *jx.Encoder) { e.Str(string(o.Source)) })
		e.Field("type", func(e *jx.Encoder) { e.Str(string(o.Type)) })
		e.Field("status", func(e *jx.Encoder) { e.Str(string(o.Status)) })
		e.Field("quantity", func(e *jx.Encoder) { e.Int(o.Quantity) })
		e.Field("subtotal", func(e *jx.Encoder) { e.Raw([]byte(o.Subtotal.String())) })
		e.Field("discount", func(e *jx.Encoder) { e.Raw([]byte(o.Discount.String())) })
		e.Field("tax", func(e *jx.Encoder) { e.Raw([]byte(o.Tax.String())) })
		e.Field("vatRate", func(e *jx.Encoder) { e.Raw([]byte(o.VatRate.String())) })
		e.Field("total", func(e *jx.Encoder) { e.Raw([]byte(o.Total.String())) })
		e.Field("createdAt", func(e *jx.Encoder) { e.Str(o.CreatedAt.UTC().Format(time.RFC3339)) })
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, item := range o.Items {
					e.Obj(func(e *jx.Encoder) {
						e.Field("id", func(e *jx.Encoder) { e.Int64(item.ID) })
						e.Field("menuItemId", func(e *jx.Encoder) { e.Int64(item.MenuItemID) })
						if item.VariantID != nil {
							e.Field("variantId", func(e *jx.Encoder) { e.Int64(*item.VariantID) })
						}
						e.Field("name", func(e *jx.Encoder) { e.Str(item.Name) })
						e.Field("quantity", func(e *jx.Encoder) { e.Int(item.Quantity) })
						e.Field("unitPrice", func(e *jx.Encoder) { e.Raw([]byte(item.UnitPrice.String())) })
						e.Field("totalPrice", func(e *jx.Encoder) { e.Raw([]byte(item.TotalPrice.String())) })
						e.Field("status", func(e *jx.Encoder) { e.Str(string(item.Status)) })
					})
				}
			})
		})
	})
	return e.Bytes()
}
