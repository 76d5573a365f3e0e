package api

import (
	"net"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.uber.org/zap"

	"github.com/naingnainghtun662/apolo/internal/domain/branch"
	"github.com/naingnainghtun662/apolo/internal/domain/catalog"
	"github.com/naingnainghtun662/apolo/internal/domain/geo"
	"github.com/naingnainghtun662/apolo/internal/domain/order"
	"github.com/naingnainghtun662/apolo/internal/domain/table"
	"github.com/naingnainghtun662/apolo/internal/storage/postgres"
)

func (h *Handler) writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	var e jx.Encoder
	encode(&e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(e.Bytes()); err != nil {
		h.lg.Debug("write response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("code", func(e *jx.Encoder) { e.Int(status) })
			e.Field("message", func(e *jx.Encoder) { e.Str(msg) })
		})
	})
}

// writeDomainError maps core errors to HTTP statuses: validation failures are
// 400/422, missing resources 404, everything else a logged 500.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var (
		oos *order.OutOfStockError
		iq  *order.InvalidQuantityError
	)
	switch {
	case errors.Is(err, order.ErrEmptyItems),
		errors.Is(err, order.ErrInvalidStatus):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &oos):
		h.writeError(w, http.StatusUnprocessableEntity, oos.Error())
	case errors.As(err, &iq):
		h.writeError(w, http.StatusUnprocessableEntity, iq.Error())
	case errors.Is(err, geo.ErrLocationRequired):
		h.writeError(w, http.StatusUnprocessableEntity,
			"we could not detect your location, enable location access to order")
	case errors.Is(err, geo.ErrTooFar):
		h.writeError(w, http.StatusUnprocessableEntity,
			"you are too far from the restaurant to place an order")
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, table.ErrNotFound),
		errors.Is(err, branch.ErrNotFound),
		errors.Is(err, postgres.ErrOrderNotFound):
		h.writeError(w, http.StatusNotFound, "not found")
	default:
		h.lg.Error("request failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// clientIP strips the port from the request's remote address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func encodeOrder(e *jx.Encoder, o *order.Order) {
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
		if o.Notes != "" {
			e.Field("notes", func(e *jx.Encoder) { e.Str(o.Notes) })
		}
		e.Field("quantity", func(e *jx.Encoder) { e.Int(o.Quantity) })
		e.Field("subtotal", func(e *jx.Encoder) { e.Raw([]byte(o.Subtotal.String())) })
		e.Field("discount", func(e *jx.Encoder) { e.Raw([]byte(o.Discount.String())) })
		e.Field("tax", func(e *jx.Encoder) { e.Raw([]byte(o.Tax.String())) })
		e.Field("vatRate", func(e *jx.Encoder) { e.Raw([]byte(o.VatRate.String())) })
		e.Field("total", func(e *jx.Encoder) { e.Raw([]byte(o.Total.String())) })
		e.Field("createdAt", func(e *jx.Encoder) { e.Str(o.CreatedAt.UTC().Format(time.RFC3339)) })
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for i := range o.Items {
					encodeOrderItem(e, &o.Items[i])
				}
			})
		})
	})
}

func encodeOrderItem(e *jx.Encoder, item *order.Item) {
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
		if item.Notes != "" {
			e.Field("notes", func(e *jx.Encoder) { e.Str(item.Notes) })
		}
		e.Field("status", func(e *jx.Encoder) { e.Str(string(item.Status)) })
	})
}

func encodeMenuItem(e *jx.Encoder, m *catalog.MenuItem) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int64(m.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(m.Name) })
		if m.CategoryID != nil {
			e.Field("categoryId", func(e *jx.Encoder) { e.Int64(*m.CategoryID) })
		}
		if m.Price != nil {
			e.Field("price", func(e *jx.Encoder) { e.Raw([]byte(m.Price.String())) })
		}
		e.Field("outOfStock", func(e *jx.Encoder) { e.Bool(m.OutOfStock) })
		e.Field("variants", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, v := range m.Variants {
					e.Obj(func(e *jx.Encoder) {
						e.Field("id", func(e *jx.Encoder) { e.Int64(v.ID) })
						e.Field("name", func(e *jx.Encoder) { e.Str(v.Name) })
						e.Field("price", func(e *jx.Encoder) { e.Raw([]byte(v.Price.String())) })
					})
				}
			})
		})
	})
}
