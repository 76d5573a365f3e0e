package notify

import (
	"context"

	"github.com/naingnainghtun662/apolo/internal/domain/order"
)

var _ order.Notifier = Noop{}

// Noop is the notifier used when no broker is configured.
type Noop struct{}

// OrderCreated does nothing.
func (Noop) OrderCreated(context.Context, *order.Order) error { return nil }
