package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/naingnainghtun662/apolo/internal/domain/geo"
	"github.com/naingnainghtun662/apolo/internal/domain/order"
)

// placeCustomerOrder admits a self-service order placed from a QR-coded table.
func (h *Handler) placeCustomerOrder(w http.ResponseWriter, r *http.Request) {
	req := order.PlaceOrderRequest{
		Source:            order.SourceCustomer,
		Type:              order.TypeDineIn,
		Discount:          decimal.Zero,
		CustomerIP:        clientIP(r),
		CustomerUserAgent: r.UserAgent(),
	}

	var lat, long *float64
	err := decodeBody(r, func(d *jx.Decoder, key string) error {
		switch key {
		case "tablePublicToken":
			v, err := d.Str()
			req.TableToken = v
			return err
		case "items":
			items, err := decodeLines(d)
			req.Items = items
			return err
		case "discount":
			v, err := decodeDecimal(d)
			req.Discount = v
			return err
		case "notes":
			v, err := d.Str()
			req.Notes = v
			return err
		case "lat":
			v, err := decodeOptFloat(d)
			lat = v
			return err
		case "long":
			v, err := decodeOptFloat(d)
			long = v
			return err
		default:
			return d.Skip()
		}
	})
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if lat != nil && long != nil {
		req.CustomerLocation = &geo.Point{Lat: *lat, Long: *long}
	}

	h.placeOrder(w, r, req)
}

// placeCashierOrder admits a staff-entered order. The branch is explicit on
// the request; no geofencing applies.
func (h *Handler) placeCashierOrder(w http.ResponseWriter, r *http.Request) {
	req := order.PlaceOrderRequest{
		Source:            order.SourceCashier,
		Type:              order.TypeDineIn,
		Discount:          decimal.Zero,
		CustomerIP:        clientIP(r),
		CustomerUserAgent: r.UserAgent(),
	}

	err := decodeBody(r, func(d *jx.Decoder, key string) error {
		switch key {
		case "branchId":
			v, err := d.Int64()
			req.BranchID = v
			return err
		case "tableId":
			v, err := decodeOptInt64(d)
			req.TableID = v
			return err
		case "orderType":
			v, err := d.Str()
			req.Type = order.Type(v)
			return err
		case "items":
			items, err := decodeLines(d)
			req.Items = items
			return err
		case "discount":
			v, err := decodeDecimal(d)
			req.Discount = v
			return err
		case "notes":
			v, err := d.Str()
			req.Notes = v
			return err
		default:
			return d.Skip()
		}
	})
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch req.Type {
	case order.TypeDineIn, order.TypeTakeOut, order.TypeDelivery:
	default:
		h.writeError(w, http.StatusBadRequest, "unknown order type")
		return
	}

	h.placeOrder(w, r, req)
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request, req order.PlaceOrderRequest) {
	o, err := h.orders.PlaceOrder(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		encodeOrder(e, o)
	})
}

// updateOrderStatus applies per-item status writes, with an optional explicit
// order-level override.
func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("id")

	var (
		updates  []order.ItemStatusUpdate
		override order.Status
	)
	err := decodeBody(r, func(d *jx.Decoder, key string) error {
		switch key {
		case "items":
			return d.Arr(func(d *jx.Decoder) error {
				var u order.ItemStatusUpdate
				if err := d.Obj(func(d *jx.Decoder, key string) error {
					switch key {
					case "id":
						v, err := d.Int64()
						u.ItemID = v
						return err
					case "status":
						v, err := d.Str()
						u.Status = order.Status(v)
						return err
					default:
						return d.Skip()
					}
				}); err != nil {
					return err
				}
				updates = append(updates, u)
				return nil
			})
		case "status":
			v, err := d.Str()
			override = order.Status(v)
			return err
		default:
			return d.Skip()
		}
	})
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), orderID, updates, override); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.Cancel(r.Context(), r.PathValue("id")); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetByNumber(r.Context(), r.PathValue("number"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeOrder(e, o)
	})
}

// kitchenOrders returns today's active orders for a branch, oldest first.
func (h *Handler) kitchenOrders(w http.ResponseWriter, r *http.Request) {
	branchID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid branch id")
		return
	}

	orders, err := h.orders.KitchenOrders(r.Context(), branchID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("orders", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for i := range orders {
						encodeOrder(e, &orders[i])
					}
				})
			})
		})
	})
}

// tableOrders returns a table's non-completed orders with aggregated totals.
func (h *Handler) tableOrders(w http.ResponseWriter, r *http.Request) {
	orders, totals, err := h.orders.TableOrders(r.Context(), r.PathValue("token"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("orders", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for i := range orders {
						encodeOrder(e, &orders[i])
					}
				})
			})
			e.Field("totals", func(e *jx.Encoder) {
				e.Obj(func(e *jx.Encoder) {
					e.Field("subtotal", func(e *jx.Encoder) { e.Raw([]byte(totals.Subtotal.String())) })
					e.Field("discount", func(e *jx.Encoder) { e.Raw([]byte(totals.Discount.String())) })
					e.Field("tax", func(e *jx.Encoder) { e.Raw([]byte(totals.Tax.String())) })
					e.Field("total", func(e *jx.Encoder) { e.Raw([]byte(totals.Total.String())) })
				})
			})
		})
	})
}

// --- decode helpers ---

func decodeBody(r *http.Request, f func(d *jx.Decoder, key string) error) error {
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err != nil {
		return errors.Wrap(err, "read body")
	}
	d := jx.DecodeBytes(body)
	return d.Obj(f)
}

func decodeLines(d *jx.Decoder) ([]order.LineRequest, error) {
	var lines []order.LineRequest
	err := d.Arr(func(d *jx.Decoder) error {
		var line order.LineRequest
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			switch key {
			case "menuItemId":
				v, err := d.Int64()
				line.MenuItemID = v
				return err
			case "variantId":
				v, err := decodeOptInt64(d)
				line.VariantID = v
				return err
			case "quantity":
				v, err := d.Int()
				line.Quantity = v
				return err
			case "notes":
				v, err := d.Str()
				line.Notes = v
				return err
			default:
				return d.Skip()
			}
		}); err != nil {
			return err
		}
		lines = append(lines, line)
		return nil
	})
	return lines, err
}

func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	n, err := d.Num()
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(n.String())
}

func decodeOptInt64(d *jx.Decoder) (*int64, error) {
	if d.Next() == jx.Null {
		return nil, d.Null()
	}
	v, err := d.Int64()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func decodeOptFloat(d *jx.Decoder) (*float64, error) {
	if d.Next() == jx.Null {
		return nil, d.Null()
	}
	v, err := d.Float64()
	if err != nil {
		return nil, err
	}
	return &v, nil
}
