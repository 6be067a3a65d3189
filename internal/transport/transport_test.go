package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lwg-storefront/internal/middleware"
	"lwg-storefront/internal/repository"
	"lwg-storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	testJWTSecret = "test-secret"
	testAdminUser = "admin"
	testAdminPass = "admin123"
)

type testServer struct {
	router *chi.Mux
	store  *repository.Store
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := repository.NewMemoryStore("LWG")
	logger := zap.NewNop()

	auth := service.NewAuthService(store.Users, testJWTSecret)
	if err := auth.EnsureUser(context.Background(), testAdminUser, testAdminPass); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	catalog := service.NewCatalogService(store.Products)
	orders := service.NewOrderService(store.Orders, store.Products)

	authMw := middleware.AuthMiddleware(auth, logger)

	router := chi.NewRouter()
	NewAuthHandler(auth, logger).RegisterRoutes(router, nil)
	NewProductHandler(catalog, logger).RegisterRoutes(router, authMw)
	NewOrderHandler(orders, logger).RegisterRoutes(router, authMw)

	token, _, err := auth.Login(context.Background(), testAdminUser, testAdminPass)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	return &testServer{router: router, store: store, token: token}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func (ts *testServer) createProduct(t *testing.T, title string, price string, category string) string {
	t.Helper()

	w := ts.do(t, "POST", "/api/products", map[string]any{
		"title":    title,
		"price":    price,
		"stock":    10,
		"category": category,
	}, ts.token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create product status = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Product struct {
			ID string `json:"id"`
		} `json:"product"`
	}
	decodeBody(t, w, &resp)
	return resp.Product.ID
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, "POST", "/api/admin/login", map[string]string{
		"username": testAdminUser,
		"password": testAdminPass,
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp LoginResponse
	decodeBody(t, w, &resp)
	if !resp.OK || resp.Token == "" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.User.Username != testAdminUser {
		t.Errorf("username = %q", resp.User.Username)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, "POST", "/api/admin/login", map[string]string{
		"username": testAdminUser,
		"password": "wrong",
	}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	var resp middleware.ErrorResponse
	decodeBody(t, w, &resp)
	if resp.OK {
		t.Error("error envelope has ok=true")
	}
}

func TestLoginValidation(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, "POST", "/api/admin/login", map[string]string{"username": testAdminUser}, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok":false`) {
		t.Errorf("missing error envelope: %s", w.Body.String())
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t)

	cases := []struct {
		method string
		path   string
	}{
		{"POST", "/api/products"},
		{"GET", "/api/admin/products"},
		{"GET", "/api/admin/orders"},
	}
	for _, tc := range cases {
		w := ts.do(t, tc.method, tc.path, nil, "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token: status = %d, want 401", tc.method, tc.path, w.Code)
		}

		w = ts.do(t, tc.method, tc.path, nil, "not-a-token")
		if w.Code != http.StatusForbidden {
			t.Errorf("%s %s with garbage token: status = %d, want 403", tc.method, tc.path, w.Code)
		}
	}
}

func TestProductCRUD(t *testing.T) {
	ts := newTestServer(t)

	id := ts.createProduct(t, "Test Widget", "49.99", "technology")

	// Public read by slug.
	w := ts.do(t, "GET", "/api/products/test-widget", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get by slug status = %d", w.Code)
	}
	var getResp struct {
		OK      bool `json:"ok"`
		Product struct {
			ID    string `json:"id"`
			Slug  string `json:"slug"`
			Price string `json:"price"`
		} `json:"product"`
	}
	decodeBody(t, w, &getResp)
	if getResp.Product.ID != id {
		t.Errorf("slug lookup returned product %q, want %q", getResp.Product.ID, id)
	}

	// Partial update.
	w = ts.do(t, "PUT", "/api/products/"+id, map[string]any{"stock": 3}, ts.token)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", w.Code, w.Body.String())
	}
	var updResp struct {
		Product struct {
			Stock int    `json:"stock"`
			Title string `json:"title"`
		} `json:"product"`
	}
	decodeBody(t, w, &updResp)
	if updResp.Product.Stock != 3 || updResp.Product.Title != "Test Widget" {
		t.Errorf("patch result: %+v", updResp.Product)
	}

	// Delete, then reads 404.
	w = ts.do(t, "DELETE", "/api/products/"+id, nil, ts.token)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = ts.do(t, "GET", "/api/products/"+id, nil, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("deleted product status = %d, want 404", w.Code)
	}
}

func TestProductCreateRejectsDuplicateSlug(t *testing.T) {
	ts := newTestServer(t)
	ts.createProduct(t, "Same Title", "10", "services")

	w := ts.do(t, "POST", "/api/products", map[string]any{
		"title":    "Same Title",
		"price":    "20",
		"category": "services",
	}, ts.token)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate slug status = %d, want 409: %s", w.Code, w.Body.String())
	}
}

func TestProductCreateRejectsBadCategory(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, "POST", "/api/products", map[string]any{
		"title":    "Odd One",
		"price":    "10",
		"category": "groceries",
	}, ts.token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestProductListFilters(t *testing.T) {
	ts := newTestServer(t)
	ts.createProduct(t, "Cheap Cable", "5", "technology")
	ts.createProduct(t, "Laptop Stand", "45", "office")
	ts.createProduct(t, "Consulting Hour", "150", "consulting")

	var resp ProductListResponse

	w := ts.do(t, "GET", "/api/products?category=office", nil, "")
	decodeBody(t, w, &resp)
	if resp.Total != 1 {
		t.Errorf("category filter total = %d, want 1", resp.Total)
	}

	w = ts.do(t, "GET", "/api/products?min=10&max=100", nil, "")
	decodeBody(t, w, &resp)
	if resp.Total != 1 || resp.Products[0].Title != "Laptop Stand" {
		t.Errorf("price filter: total = %d products = %+v", resp.Total, resp.Products)
	}

	w = ts.do(t, "GET", "/api/products?q=cable", nil, "")
	decodeBody(t, w, &resp)
	if resp.Total != 1 || resp.Products[0].Title != "Cheap Cable" {
		t.Errorf("search filter total = %d", resp.Total)
	}

	w = ts.do(t, "GET", "/api/products?min=abc", nil, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad min price status = %d, want 400", w.Code)
	}
}

func TestProductListPagination(t *testing.T) {
	ts := newTestServer(t)
	for i := 1; i <= 5; i++ {
		ts.createProduct(t, fmt.Sprintf("Item %d", i), "10", "office")
	}

	w := ts.do(t, "GET", "/api/products?page=2&pageSize=2", nil, "")
	var resp ProductListResponse
	decodeBody(t, w, &resp)
	if resp.Total != 5 {
		t.Errorf("total = %d, want 5", resp.Total)
	}
	if len(resp.Products) != 2 {
		t.Fatalf("page size = %d, want 2", len(resp.Products))
	}
}

func checkoutPayload(productID string, qty int, subtotal, fee, total string) map[string]any {
	return map[string]any{
		"items":            []map[string]any{{"product_id": productID, "qty": qty}},
		"subtotal":         subtotal,
		"delivery_fee":     fee,
		"grand_total":      total,
		"customer_name":    "Ama Kamara",
		"customer_email":   "ama@example.com",
		"customer_phone":   "+23276000000",
		"customer_address": "12 Siaka Stevens St",
		"delivery_zone":    "freetown",
		"payment_method":   "cash",
	}
}

func TestOrderCheckout(t *testing.T) {
	ts := newTestServer(t)
	productID := ts.createProduct(t, "Router", "100", "technology")

	w := ts.do(t, "POST", "/api/orders", checkoutPayload(productID, 1, "100", "25", "125"), "")
	if w.Code != http.StatusCreated {
		t.Fatalf("checkout status = %d: %s", w.Code, w.Body.String())
	}

	var resp OrderCreatedResponse
	decodeBody(t, w, &resp)
	if !resp.OK || resp.Order.ID == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !strings.HasPrefix(resp.Order.Ref, "LWG-") {
		t.Errorf("ref = %q, want LWG- prefix", resp.Order.Ref)
	}
	if !strings.HasSuffix(resp.Order.Ref, "-0001") {
		t.Errorf("first ref of the day = %q, want -0001 suffix", resp.Order.Ref)
	}

	// Public tracking by ref.
	w = ts.do(t, "GET", "/api/orders/"+resp.Order.Ref, nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("track status = %d", w.Code)
	}
	var track OrderResponse
	decodeBody(t, w, &track)
	if track.Order.Status != "Processing" {
		t.Errorf("new order status = %q, want Processing", track.Order.Status)
	}
	if !track.Order.GrandTotal.Equal(track.Order.Subtotal.Add(track.Order.DeliveryFee)) {
		t.Error("stored totals are inconsistent")
	}
}

func TestOrderCheckoutRejectsTamperedTotals(t *testing.T) {
	ts := newTestServer(t)
	productID := ts.createProduct(t, "Router", "100", "technology")

	w := ts.do(t, "POST", "/api/orders", checkoutPayload(productID, 1, "100", "25", "999"), "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("tampered total status = %d, want 400: %s", w.Code, w.Body.String())
	}
}

func TestOrderCheckoutRejectsUnknownProduct(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, "POST", "/api/orders", checkoutPayload("0e6f3cbd-6b5a-4d0a-9a50-0a5a3d1f9d5e", 1, "100", "25", "125"), "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown product status = %d, want 400", w.Code)
	}
}

func TestOrderCheckoutValidation(t *testing.T) {
	ts := newTestServer(t)
	productID := ts.createProduct(t, "Router", "100", "technology")

	payload := checkoutPayload(productID, 1, "100", "25", "125")
	delete(payload, "customer_name")

	w := ts.do(t, "POST", "/api/orders", payload, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing name status = %d, want 400", w.Code)
	}

	payload = checkoutPayload(productID, 1, "100", "50", "150")
	payload["delivery_zone"] = "mars"
	w = ts.do(t, "POST", "/api/orders", payload, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad zone status = %d, want 400", w.Code)
	}
}

func TestOrderLookup(t *testing.T) {
	ts := newTestServer(t)
	productID := ts.createProduct(t, "Router", "100", "technology")

	w := ts.do(t, "POST", "/api/orders", checkoutPayload(productID, 1, "100", "25", "125"), "")
	if w.Code != http.StatusCreated {
		t.Fatalf("checkout status = %d", w.Code)
	}
	var created OrderCreatedResponse
	decodeBody(t, w, &created)

	w = ts.do(t, "GET", "/api/orders/lookup?email=ama@example.com", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("lookup status = %d: %s", w.Code, w.Body.String())
	}
	var resp OrderResponse
	decodeBody(t, w, &resp)
	if resp.Order.Ref != created.Order.Ref {
		t.Errorf("lookup ref = %q, want %q", resp.Order.Ref, created.Order.Ref)
	}

	w = ts.do(t, "GET", "/api/orders/lookup?phone=%2B23276000000", nil, "")
	if w.Code != http.StatusOK {
		t.Errorf("phone lookup status = %d", w.Code)
	}

	w = ts.do(t, "GET", "/api/orders/lookup", nil, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("blank lookup status = %d, want 400", w.Code)
	}

	w = ts.do(t, "GET", "/api/orders/lookup?email=nobody@example.com", nil, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown customer status = %d, want 404", w.Code)
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	ts := newTestServer(t)
	productID := ts.createProduct(t, "Router", "100", "technology")

	w := ts.do(t, "POST", "/api/orders", checkoutPayload(productID, 1, "100", "25", "125"), "")
	var created OrderCreatedResponse
	decodeBody(t, w, &created)

	statusURL := "/api/admin/orders/" + created.Order.ID + "/status"

	// Processing -> Completed is not a legal step.
	w = ts.do(t, "PUT", statusURL, map[string]string{"status": "Completed"}, ts.token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("illegal transition status = %d, want 400: %s", w.Code, w.Body.String())
	}

	w = ts.do(t, "PUT", statusURL, map[string]string{"status": "Shipped"}, ts.token)
	if w.Code != http.StatusOK {
		t.Fatalf("ship status = %d: %s", w.Code, w.Body.String())
	}
	var resp OrderResponse
	decodeBody(t, w, &resp)
	if resp.Order.Status != "Shipped" {
		t.Errorf("status = %q, want Shipped", resp.Order.Status)
	}

	w = ts.do(t, "PUT", statusURL, map[string]string{"status": "Completed"}, ts.token)
	if w.Code != http.StatusOK {
		t.Fatalf("complete status = %d", w.Code)
	}

	// Completed is terminal.
	w = ts.do(t, "PUT", statusURL, map[string]string{"status": "Cancelled"}, ts.token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("transition out of Completed status = %d, want 400", w.Code)
	}

	w = ts.do(t, "PUT", statusURL, map[string]string{"status": "Unknown"}, ts.token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown status status = %d, want 400", w.Code)
	}
}

func TestAdminOrderList(t *testing.T) {
	ts := newTestServer(t)
	productID := ts.createProduct(t, "Router", "100", "technology")

	for i := 0; i < 3; i++ {
		w := ts.do(t, "POST", "/api/orders", checkoutPayload(productID, 1, "100", "25", "125"), "")
		if w.Code != http.StatusCreated {
			t.Fatalf("checkout %d status = %d", i, w.Code)
		}
	}

	w := ts.do(t, "GET", "/api/admin/orders?page=1&pageSize=2", nil, ts.token)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var resp OrderListResponse
	decodeBody(t, w, &resp)
	if resp.Total != 3 || len(resp.Orders) != 2 {
		t.Errorf("total = %d len = %d, want 3/2", resp.Total, len(resp.Orders))
	}
}

func TestReceipt(t *testing.T) {
	ts := newTestServer(t)
	productID := ts.createProduct(t, "Router", "100", "technology")

	w := ts.do(t, "POST", "/api/orders", checkoutPayload(productID, 2, "200", "25", "225"), "")
	if w.Code != http.StatusCreated {
		t.Fatalf("checkout status = %d: %s", w.Code, w.Body.String())
	}
	var created OrderCreatedResponse
	decodeBody(t, w, &created)

	w = ts.do(t, "GET", "/api/receipt/"+created.Order.Ref, nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("receipt status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, created.Order.Ref) {
		t.Errorf("content disposition = %q", cd)
	}
	body := w.Body.String()
	if !strings.Contains(body, "2x Router") || !strings.Contains(body, "Total: 225.00") {
		t.Errorf("receipt body:\n%s", body)
	}

	w = ts.do(t, "GET", "/api/receipt/LWG-20990101-0001", nil, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("missing receipt status = %d, want 404", w.Code)
	}
}
