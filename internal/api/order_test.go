package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/naingnainghtun662/apolo/internal/domain/branch"
	"github.com/naingnainghtun662/apolo/internal/domain/catalog"
	"github.com/naingnainghtun662/apolo/internal/domain/order"
	"github.com/naingnainghtun662/apolo/internal/domain/table"
	"github.com/naingnainghtun662/apolo/internal/storage/postgres"
)

// --- Mock repositories ---

type stubBranches struct{ b *branch.Branch }

func (s *stubBranches) GetByID(_ context.Context, id int64) (*branch.Branch, error) {
	if s.b == nil || s.b.ID != id {
		return nil, branch.ErrNotFound
	}
	return s.b, nil
}

type stubTables struct{ t *table.Table }

func (s *stubTables) GetByPublicToken(_ context.Context, token string) (*table.Table, error) {
	if s.t == nil || s.t.PublicToken != token {
		return nil, table.ErrNotFound
	}
	return s.t, nil
}

func (s *stubTables) GetByID(_ context.Context, id int64) (*table.Table, error) {
	if s.t == nil || s.t.ID != id {
		return nil, table.ErrNotFound
	}
	return s.t, nil
}

type stubCatalog struct{ items map[int64]*catalog.MenuItem }

func (s *stubCatalog) GetItem(_ context.Context, id int64) (*catalog.MenuItem, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return item, nil
}

func (s *stubCatalog) ListByBranch(_ context.Context, _ int64) ([]catalog.MenuItem, error) {
	var items []catalog.MenuItem
	for _, item := range s.items {
		items = append(items, *item)
	}
	return items, nil
}

type stubOrders struct {
	created      *order.Order
	lastOverride order.Status
	lastUpdates  []order.ItemStatusUpdate
}

func (s *stubOrders) Create(_ context.Context, o *order.Order) error {
	s.created = o
	return nil
}

func (s *stubOrders) GetByNumber(_ context.Context, _ string) (*order.Order, error) {
	if s.created == nil {
		return nil, postgres.ErrOrderNotFound
	}
	return s.created, nil
}

func (s *stubOrders) UpdateStatuses(_ context.Context, _ string, updates []order.ItemStatusUpdate, override order.Status) error {
	s.lastUpdates = updates
	s.lastOverride = override
	return nil
}

func (s *stubOrders) SetStatus(_ context.Context, _ string, _ order.Status) error { return nil }

func (s *stubOrders) ListActiveByBranch(_ context.Context, _ int64, _ time.Time) ([]order.Order, error) {
	return nil, nil
}

func (s *stubOrders) ListActiveByTable(_ context.Context, _ int64) ([]order.Order, error) {
	return nil, nil
}

type stubNotifier struct{ count int }

func (s *stubNotifier) OrderCreated(_ context.Context, _ *order.Order) error {
	s.count++
	return nil
}

// --- Fixture ---

func newTestServer(t *testing.T) (*httptest.Server, *stubOrders) {
	t.Helper()

	price1 := decimal.RequireFromString("1000")
	price2 := decimal.RequireFromString("500")
	lat, long, radius := 16.8409, 96.1735, 500.0

	cat := &stubCatalog{items: map[int64]*catalog.MenuItem{
		10: {ID: 10, BranchID: 1, Name: "Mohinga", Price: &price1},
		11: {ID: 11, BranchID: 1, Name: "Tea", Price: &price2},
		12: {ID: 12, BranchID: 1, Name: "Shan Noodles", Price: &price2, OutOfStock: true},
	}}
	orders := &stubOrders{}
	svc := order.NewService(
		&stubBranches{b: &branch.Branch{
			ID: 1, TaxRate: decimal.RequireFromString("10"),
			Lat: &lat, Long: &long, Radius: &radius,
		}},
		&stubTables{t: &table.Table{ID: 7, BranchID: 1, Name: "T1", PublicToken: "tok-1"}},
		cat,
		orders,
		&stubNotifier{},
		zap.NewNop(),
	)

	mux := http.NewServeMux()
	NewHandler(svc, cat, zap.NewNop()).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, orders
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// --- Tests ---

func TestPlaceCustomerOrder_Success(t *testing.T) {
	srv, orders := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/orders", `{
		"tablePublicToken": "tok-1",
		"lat": 16.8410, "long": 96.1736,
		"items": [
			{"menuItemId": 10, "quantity": 2},
			{"menuItemId": 11, "quantity": 1, "notes": "no sugar"}
		]
	}`)

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var got struct {
		OrderNumber string  `json:"orderNumber"`
		Status      string  `json:"status"`
		Subtotal    float64 `json:"subtotal"`
		Tax         float64 `json:"tax"`
		Total       float64 `json:"total"`
		VatRate     float64 `json:"vatRate"`
		Items       []struct {
			Name       string  `json:"name"`
			TotalPrice float64 `json:"totalPrice"`
			Notes      string  `json:"notes"`
		} `json:"items"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))

	assert.Equal(t, "pending", got.Status)
	assert.InDelta(t, 2500, got.Subtotal, 1e-9)
	assert.InDelta(t, 250, got.Tax, 1e-9)
	assert.InDelta(t, 2750, got.Total, 1e-9)
	assert.InDelta(t, 10, got.VatRate, 1e-9)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "no sugar", got.Items[1].Notes)

	require.NotNil(t, orders.created)
	assert.True(t, strings.HasPrefix(got.OrderNumber, "ORD-"))
}

func TestPlaceCustomerOrder_MissingLocation(t *testing.T) {
	srv, orders := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/orders", `{
		"tablePublicToken": "tok-1",
		"items": [{"menuItemId": 10, "quantity": 1}]
	}`)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Nil(t, orders.created)
}

func TestPlaceCustomerOrder_OutOfStock(t *testing.T) {
	srv, orders := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/orders", `{
		"tablePublicToken": "tok-1",
		"lat": 16.8410, "long": 96.1736,
		"items": [{"menuItemId": 12, "quantity": 1}]
	}`)

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var got struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Contains(t, got.Message, "out of stock")
	assert.Nil(t, orders.created)
}

func TestPlaceCustomerOrder_UnknownTable(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/orders", `{
		"tablePublicToken": "nope",
		"lat": 16.8410, "long": 96.1736,
		"items": [{"menuItemId": 10, "quantity": 1}]
	}`)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPlaceCustomerOrder_MalformedBody(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/orders", `{"items": `)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPlaceCashierOrder_SkipsGeofence(t *testing.T) {
	srv, orders := newTestServer(t)

	// No location at all; cashier orders must not be geofenced.
	resp := postJSON(t, srv.URL+"/api/cashier/orders", `{
		"branchId": 1,
		"tableId": 7,
		"orderType": "take_out",
		"discount": 100,
		"items": [{"menuItemId": 10, "quantity": 1}]
	}`)

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotNil(t, orders.created)
	assert.Equal(t, order.SourceCashier, orders.created.Source)
	assert.Equal(t, order.TypeTakeOut, orders.created.Type)
	// tax = (1000 - 100) * 10% = 90, total = 990
	assert.True(t, decimal.RequireFromString("90.00").Equal(orders.created.Tax))
	assert.True(t, decimal.RequireFromString("990.00").Equal(orders.created.Total))
}

func TestPlaceCashierOrder_UnknownOrderType(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/cashier/orders", `{
		"branchId": 1,
		"orderType": "drive_through",
		"items": [{"menuItemId": 10, "quantity": 1}]
	}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateOrderStatus_Override(t *testing.T) {
	srv, orders := newTestServer(t)

	req, err := http.NewRequest(http.MethodPatch, srv.URL+"/api/orders/o1/status",
		strings.NewReader(`{"items": [{"id": 1, "status": "completed"}], "status": "served"}`))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, order.StatusServed, orders.lastOverride)
	require.Len(t, orders.lastUpdates, 1)
	assert.Equal(t, order.StatusCompleted, orders.lastUpdates[0].Status)
}

func TestUpdateOrderStatus_UnknownStatus(t *testing.T) {
	srv, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodPatch, srv.URL+"/api/orders/o1/status",
		strings.NewReader(`{"items": [{"id": 1, "status": "paid"}]}`))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBranchMenu(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/branches/1/menu")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var items []struct {
		Name       string `json:"name"`
		OutOfStock bool   `json:"outOfStock"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	assert.Len(t, items, 3)
}
