package inventory_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"NexStock/internal/inventory"
	"NexStock/pkg/kit"
)

func newAPI(t *testing.T, deps inventory.HTTPDeps, products ...inventory.Product) *httptest.Server {
	t.Helper()

	store := inventory.NewMemStore(inventory.Dataset{Products: products})
	reg := prometheus.NewRegistry()
	ld := inventory.LedgerDeps{
		Log:     zap.NewNop(),
		Metrics: inventory.NewLedgerMetrics(reg, "nexstock"),
		Now:     func() time.Time { return fixedNow },
	}
	s := &inventory.Server{
		Products: inventory.NewProducts(store, ld),
		Rentals:  inventory.NewRentals(store, ld),
		Store:    store,
		Log:      zap.NewNop(),
	}

	deps.Log = zap.NewNop()
	deps.Namespace = "nexstock"
	deps.Registry = reg
	deps.MetricsEnabled = true

	ts := httptest.NewServer(inventory.NewHandler(s, deps))
	t.Cleanup(ts.Close)
	return ts
}

func call(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), "body=%s", string(raw))
	return v
}

func TestAPI_ProductLifecycle(t *testing.T) {
	ts := newAPI(t, inventory.HTTPDeps{})
	base := ts.URL + "/api/c"

	resp, raw := call(t, http.MethodPost, base+"/product/add", map[string]any{"id": 1, "name": " Drill ", "price": 49.99, "quantity": 3})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	assert.Equal(t, "Drill", decode[map[string]any](t, raw)["product"].(map[string]any)["name"])

	resp, raw = call(t, http.MethodPost, base+"/product/add", map[string]any{"id": 1, "name": "Dup", "price": 1, "quantity": 1})
	require.Equal(t, http.StatusConflict, resp.StatusCode, string(raw))
	e := decode[kit.ErrorResponse](t, raw)
	assert.False(t, e.Success)
	assert.Equal(t, "Product ID already exists", e.Error)
	assert.NotEmpty(t, e.RequestID)

	resp, raw = call(t, http.MethodPut, base+"/product/update", map[string]any{"id": 1, "price": 39.5})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	resp, raw = call(t, http.MethodGet, base+"/product/search/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, inventory.Product{ID: 1, Name: "Drill", Price: 39.5, Quantity: 3}, decode[inventory.Product](t, raw))

	resp, raw = call(t, http.MethodPost, base+"/product/sell", map[string]any{"productId": 1, "quantitySold": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.JSONEq(t, `{"success":true,"quantity_remaining":1}`, string(raw))

	resp, raw = call(t, http.MethodPost, base+"/product/sell", map[string]any{"productId": 1, "quantitySold": 5})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.EqualValues(t, 1, decode[map[string]any](t, raw)["available"])

	resp, _ = call(t, http.MethodDelete, base+"/product/delete", map[string]any{"id": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = call(t, http.MethodGet, base+"/product/search/1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, raw = call(t, http.MethodGet, base+"/products", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestAPI_Validation(t *testing.T) {
	ts := newAPI(t, inventory.HTTPDeps{}, drill())
	base := ts.URL + "/api/c"

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		field  string
	}{
		{"missing price", http.MethodPost, "/product/add", map[string]any{"id": 2, "name": "Saw", "quantity": 1}, "price"},
		{"blank name", http.MethodPost, "/product/add", map[string]any{"id": 2, "name": "   ", "price": 1, "quantity": 1}, "name"},
		{"negative quantity", http.MethodPost, "/product/add", map[string]any{"id": 2, "name": "Saw", "price": 1, "quantity": -1}, "quantity"},
		{"zero id", http.MethodDelete, "/product/delete", map[string]any{"id": 0}, "id"},
		{"zero sale", http.MethodPost, "/product/sell", map[string]any{"productId": 1, "quantitySold": 0}, "quantitySold"},
		{"update negative price", http.MethodPut, "/product/update", map[string]any{"id": 1, "price": -5}, "price"},
		{"rental missing renter", http.MethodPost, "/rental/record", map[string]any{"productId": 1, "returnDate": "2024-01-10", "phoneNumber": "555", "address": "X", "amountPaid": 1}, "renterName"},
		{"return missing id", http.MethodPut, "/rental/return", map[string]any{}, "rentalId"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, raw := call(t, tc.method, base+tc.path, tc.body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode, string(raw))

			e := decode[kit.ErrorResponse](t, raw)
			details, ok := e.Details.(map[string]any)
			require.True(t, ok, "body=%s", string(raw))
			assert.Contains(t, details, tc.field)
		})
	}

	resp, raw := call(t, http.MethodPost, base+"/product/add", `{"id": 2,`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "bad json", decode[kit.ErrorResponse](t, raw).Error)

	resp, _ = call(t, http.MethodPost, base+"/product/sell", `{"productId": "1", "quantitySold": 1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "numbers are not coerced from strings")

	resp, _ = call(t, http.MethodGet, base+"/product/search/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_Sort(t *testing.T) {
	ts := newAPI(t, inventory.HTTPDeps{},
		inventory.Product{ID: 2, Name: "saw", Price: 5},
		inventory.Product{ID: 1, Name: "Drill", Price: 50},
		inventory.Product{ID: 3, Name: "ladder", Price: 20},
	)
	base := ts.URL + "/api/c"

	type sorted struct {
		Success  bool                `json:"success"`
		Message  string              `json:"message"`
		Products []inventory.Product `json:"products"`
	}

	for key, want := range map[string][]int{"id": {1, 2, 3}, "name": {1, 3, 2}, "price": {2, 3, 1}} {
		resp, raw := call(t, http.MethodGet, base+"/product/sort/"+key, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		got := decode[sorted](t, raw)
		assert.True(t, got.Success)
		assert.Equal(t, want, ids(got.Products), key)
	}

	resp, _ := call(t, http.MethodGet, base+"/product/sort/quantity", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_RentalFlow(t *testing.T) {
	empty := inventory.Product{ID: 2, Name: "Saw", Price: 10, Quantity: 0}
	ts := newAPI(t, inventory.HTTPDeps{}, drill(), empty)
	base := ts.URL + "/api/c"

	body := map[string]any{
		"productId": 1, "renterName": "Alice", "returnDate": "2024-01-10",
		"phoneNumber": "555", "address": "X", "amountPaid": 10.0,
	}
	resp, raw := call(t, http.MethodPost, base+"/rental/record", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	type recorded struct {
		Success bool             `json:"success"`
		Rental  inventory.Rental `json:"rental"`
	}
	created := decode[recorded](t, raw)
	assert.True(t, created.Success)
	assert.Equal(t, inventory.RentalActive, created.Rental.Status)
	assert.Equal(t, "2024-01-03", created.Rental.RentDate)

	body["productId"] = 2
	resp, _ = call(t, http.MethodPost, base+"/rental/record", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	body["productId"] = 99
	resp, _ = call(t, http.MethodPost, base+"/rental/record", body)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, raw = call(t, http.MethodPut, base+"/rental/return", map[string]any{"rentalId": created.Rental.RentalID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Rental marked as returned", decode[kit.MessageResponse](t, raw).Message)

	resp, raw = call(t, http.MethodPut, base+"/rental/return", map[string]any{"rentalId": created.Rental.RentalID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Rental already returned", decode[kit.MessageResponse](t, raw).Message)

	resp, _ = call(t, http.MethodPut, base+"/rental/return", map[string]any{"rentalId": 1})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, raw = call(t, http.MethodGet, base+"/rentals", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rentals := decode[[]inventory.Rental](t, raw)
	require.Len(t, rentals, 1)
	assert.Equal(t, inventory.RentalReturned, rentals[0].Status)

	resp, raw = call(t, http.MethodGet, base+"/product/search/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, decode[inventory.Product](t, raw).Quantity)
}

func TestAPI_GuardWrapsWriteRoutesOnly(t *testing.T) {
	deny := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
	}
	ts := newAPI(t, inventory.HTTPDeps{Guard: deny}, drill())
	base := ts.URL + "/api/c"

	for _, c := range []struct{ method, path string }{
		{http.MethodPost, "/product/add"},
		{http.MethodPut, "/product/update"},
		{http.MethodDelete, "/product/delete"},
		{http.MethodPost, "/product/sell"},
		{http.MethodGet, "/product/sort/id"},
		{http.MethodPost, "/rental/record"},
		{http.MethodPut, "/rental/return"},
	} {
		resp, _ := call(t, c.method, base+c.path, map[string]any{})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, c.path)
	}

	for _, path := range []string{"/products", "/product/search/1", "/rentals"} {
		resp, _ := call(t, http.MethodGet, base+path, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestAPI_ProbesAndMetrics(t *testing.T) {
	ts := newAPI(t, inventory.HTTPDeps{}, drill())

	resp, _ := call(t, http.MethodGet, ts.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = call(t, http.MethodGet, ts.URL+"/readyz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	call(t, http.MethodPost, ts.URL+"/api/c/product/sell", map[string]any{"productId": 1, "quantitySold": 1})

	resp, raw := call(t, http.MethodGet, ts.URL+"/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := string(raw)
	assert.Contains(t, body, `nexstock_ledger_operations_total{operation="product_sell",outcome="ok"} 1`)
	assert.Contains(t, body, `nexstock_stock_units 2`)
	assert.Contains(t, body, `nexstock_http_requests_total`)
}
