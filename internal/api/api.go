// Package api exposes the ordering core over HTTP.
package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/naingnainghtun662/apolo/internal/domain/catalog"
	"github.com/naingnainghtun662/apolo/internal/domain/order"
)

// Handler serves the ordering API, delegating business logic to the order
// service and the menu catalog.
type Handler struct {
	orders  *order.Service
	catalog catalog.Repository
	lg      *zap.Logger
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(orders *order.Service, cat catalog.Repository, lg *zap.Logger) *Handler {
	return &Handler{orders: orders, catalog: cat, lg: lg}
}

// Register attaches all API routes to the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/orders", h.placeCustomerOrder)
	mux.HandleFunc("POST /api/cashier/orders", h.placeCashierOrder)
	mux.HandleFunc("PATCH /api/orders/{id}/status", h.updateOrderStatus)
	mux.HandleFunc("POST /api/orders/{id}/cancel", h.cancelOrder)
	mux.HandleFunc("GET /api/orders/{number}", h.getOrder)
	mux.HandleFunc("GET /api/branches/{id}/orders/active", h.kitchenOrders)
	mux.HandleFunc("GET /api/tables/{token}/orders", h.tableOrders)
	mux.HandleFunc("GET /api/branches/{id}/menu", h.branchMenu)
}
