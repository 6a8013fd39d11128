package shopify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(server.URL, "shpat_test123")
	client.interval = 0
	return client
}

func apiPath(endpoint string) string {
	return "/admin/api/" + defaultAPIVersion + endpoint
}

func TestNewClientFromEnv(t *testing.T) {
	t.Run("reads credentials from environment", func(t *testing.T) {
		t.Setenv("SHOPIFY_STORE_URL", "https://my-store.myshopify.com/")
		t.Setenv("SHOPIFY_ACCESS_TOKEN", "shpat_from_env")
		t.Setenv("SHOPIFY_API_VERSION", "")

		client, err := NewClientFromEnv()
		if err != nil {
			t.Fatalf("NewClientFromEnv failed: %v", err)
		}
		if client.baseURL != "https://my-store.myshopify.com/admin/api/2024-10" {
			t.Errorf("unexpected base URL '%s'", client.baseURL)
		}
		if client.accessToken != "shpat_from_env" {
			t.Errorf("unexpected access token '%s'", client.accessToken)
		}
	})

	t.Run("honors an API version override", func(t *testing.T) {
		t.Setenv("SHOPIFY_STORE_URL", "https://my-store.myshopify.com")
		t.Setenv("SHOPIFY_ACCESS_TOKEN", "shpat_from_env")
		t.Setenv("SHOPIFY_API_VERSION", "2025-01")

		client, err := NewClientFromEnv()
		if err != nil {
			t.Fatalf("NewClientFromEnv failed: %v", err)
		}
		if client.baseURL != "https://my-store.myshopify.com/admin/api/2025-01" {
			t.Errorf("unexpected base URL '%s'", client.baseURL)
		}
	})

	t.Run("fails without a store URL", func(t *testing.T) {
		t.Setenv("SHOPIFY_STORE_URL", "")
		t.Setenv("SHOPIFY_ACCESS_TOKEN", "shpat_from_env")

		_, err := NewClientFromEnv()
		if err == nil || !strings.Contains(err.Error(), "SHOPIFY_STORE_URL") {
			t.Fatalf("expected a SHOPIFY_STORE_URL error, got: %v", err)
		}
	})

	t.Run("fails without an access token", func(t *testing.T) {
		t.Setenv("SHOPIFY_STORE_URL", "https://my-store.myshopify.com")
		t.Setenv("SHOPIFY_ACCESS_TOKEN", "")

		_, err := NewClientFromEnv()
		if err == nil || !strings.Contains(err.Error(), "SHOPIFY_ACCESS_TOKEN") {
			t.Fatalf("expected a SHOPIFY_ACCESS_TOKEN error, got: %v", err)
		}
	})
}

func TestGetShop(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != apiPath("/shop.json") {
			t.Errorf("unexpected path '%s'", r.URL.Path)
		}
		if got := r.Header.Get("X-Shopify-Access-Token"); got != "shpat_test123" {
			t.Errorf("unexpected access token header '%s'", got)
		}
		w.Write([]byte(`{"shop": {"name": "Acme Outfitters", "domain": "acme.myshopify.com", "plan_name": "basic", "currency": "USD", "country_name": "United States"}}`))
	}))

	shop, err := client.GetShop(context.Background())
	if err != nil {
		t.Fatalf("GetShop failed: %v", err)
	}
	if shop.Name != "Acme Outfitters" {
		t.Errorf("expected shop name Acme Outfitters, got '%s'", shop.Name)
	}
	if shop.PlanName != "basic" {
		t.Errorf("expected plan basic, got '%s'", shop.PlanName)
	}
}

func TestGetOrdersFollowsLinkHeader(t *testing.T) {
	var requests atomic.Int32
	var server *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc(apiPath("/orders.json"), func(w http.ResponseWriter, r *http.Request) {
		switch requests.Add(1) {
		case 1:
			if got := r.URL.Query().Get("status"); got != "any" {
				t.Errorf("expected status any on the first request, got '%s'", got)
			}
			if got := r.URL.Query().Get("financial_status"); got != "paid" {
				t.Errorf("expected financial_status paid, got '%s'", got)
			}
			w.Header().Set("Link", fmt.Sprintf(`<%s%s?limit=250&page_info=abc123>; rel="next"`, server.URL, apiPath("/orders.json")))
			w.Write([]byte(`{"orders": [{"id": 1, "total_price": "10.00"}, {"id": 2, "total_price": "20.00"}]}`))
		case 2:
			if got := r.URL.Query().Get("page_info"); got != "abc123" {
				t.Errorf("expected the next-page cursor, got '%s'", got)
			}
			if r.URL.Query().Has("status") {
				t.Error("expected the original query to be dropped on follow-up pages")
			}
			w.Write([]byte(`{"orders": [{"id": 3, "total_price": "30.00"}]}`))
		default:
			t.Error("unexpected extra request")
			w.Write([]byte(`{"orders": []}`))
		}
	})
	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	client := NewClient(server.URL, "shpat_test123")
	client.interval = 0

	orders, err := client.GetOrders(context.Background(), OrderParams{FinancialStatus: "paid", Limit: 250})
	if err != nil {
		t.Fatalf("GetOrders failed: %v", err)
	}
	if len(orders) != 3 {
		t.Fatalf("expected 3 orders across pages, got %d", len(orders))
	}
	if orders[2].ID != 3 || orders[2].TotalPrice != "30.00" {
		t.Errorf("unexpected last order: %+v", orders[2])
	}
	if got := requests.Load(); got != 2 {
		t.Errorf("expected 2 requests, got %d", got)
	}
}

func TestGetOrdersStopsAtLimit(t *testing.T) {
	var requests atomic.Int32
	var server *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc(apiPath("/orders.json"), func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if got := r.URL.Query().Get("limit"); got != "2" {
			t.Errorf("expected page size 2, got '%s'", got)
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s%s?page_info=next>; rel="next"`, server.URL, apiPath("/orders.json")))
		w.Write([]byte(`{"orders": [{"id": 1}, {"id": 2}, {"id": 3}]}`))
	})
	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	client := NewClient(server.URL, "shpat_test123")
	client.interval = 0

	orders, err := client.GetOrders(context.Background(), OrderParams{Limit: 2})
	if err != nil {
		t.Fatalf("GetOrders failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected the result to be capped at 2 orders, got %d", len(orders))
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("expected the next page to be skipped once the limit was hit, got %d requests", got)
	}
}

func TestGetProductsFiltersStatus(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != apiPath("/products.json") {
			t.Errorf("unexpected path '%s'", r.URL.Path)
		}
		if got := r.URL.Query().Get("status"); got != "active" {
			t.Errorf("expected status active, got '%s'", got)
		}
		w.Write([]byte(`{"products": [{"id": 42, "title": "Widget", "variants": [{"id": 1, "title": "Default Title", "sku": "W-1", "inventory_quantity": 12}]}]}`))
	}))

	products, err := client.GetProducts(context.Background(), "active", 0)
	if err != nil {
		t.Fatalf("GetProducts failed: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
	if products[0].Variants[0].InventoryQuantity != 12 {
		t.Errorf("expected inventory quantity 12, got %d", products[0].Variants[0].InventoryQuantity)
	}
}

func TestGetOrderCount(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != apiPath("/orders/count.json") {
			t.Errorf("unexpected path '%s'", r.URL.Path)
		}
		if got := r.URL.Query().Get("status"); got != "open" {
			t.Errorf("expected status open, got '%s'", got)
		}
		w.Write([]byte(`{"count": 17}`))
	}))

	count, err := client.GetOrderCount(context.Background(), "open")
	if err != nil {
		t.Fatalf("GetOrderCount failed: %v", err)
	}
	if count != 17 {
		t.Errorf("expected count 17, got %d", count)
	}
}

func TestGetInventoryLevels(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("location_ids"); got != "8675309" {
			t.Errorf("expected location_ids 8675309, got '%s'", got)
		}
		w.Write([]byte(`{"inventory_levels": [{"inventory_item_id": 1, "location_id": 8675309, "available": 25}]}`))
	}))

	levels, err := client.GetInventoryLevels(context.Background(), "8675309", 0)
	if err != nil {
		t.Fatalf("GetInventoryLevels failed: %v", err)
	}
	if len(levels) != 1 || levels[0].Available != 25 {
		t.Errorf("unexpected inventory levels: %+v", levels)
	}
}

func TestRetriesRateLimitedRequests(t *testing.T) {
	var attempts atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"count": 7}`))
	}))

	count, err := client.GetOrderCount(context.Background(), "any")
	if err != nil {
		t.Fatalf("GetOrderCount failed: %v", err)
	}
	if count != 7 {
		t.Errorf("expected count 7, got %d", count)
	}
	if got := attempts.Load(); got != 2 {
		t.Errorf("expected 2 attempts, got %d", got)
	}
}

func TestGivesUpAfterThreeAttempts(t *testing.T) {
	var attempts atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := client.GetOrderCount(context.Background(), "any")
	if err == nil {
		t.Fatal("expected an error after exhausting retries")
	}
	if !strings.Contains(err.Error(), "after 3 attempts") {
		t.Errorf("expected the error to mention the attempt count, got: %v", err)
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	var attempts atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errors": "Not Found"}`))
	}))

	_, err := client.GetShop(context.Background())
	if err == nil {
		t.Fatal("expected an error for a 404 response")
	}
	if !strings.Contains(err.Error(), "404") || !strings.Contains(err.Error(), "Not Found") {
		t.Errorf("expected the status and body in the error, got: %v", err)
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("expected a single attempt, got %d", got)
	}
}

func TestThrottleSpacesRequests(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"count": 1}`))
	}))
	client.interval = 50 * time.Millisecond

	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := client.GetCustomerCount(context.Background()); err != nil {
			t.Fatalf("GetCustomerCount failed: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("expected three requests to span at least two rate limit intervals, took %v", elapsed)
	}
}

func TestNextPageURL(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
	}{
		{
			name:   "next among multiple links",
			header: `<https://x.myshopify.com/admin/api/2024-10/orders.json?page_info=prev>; rel="previous", <https://x.myshopify.com/admin/api/2024-10/orders.json?page_info=next>; rel="next"`,
			want:   "https://x.myshopify.com/admin/api/2024-10/orders.json?page_info=next",
		},
		{
			name:   "no next link",
			header: `<https://x.myshopify.com/admin/api/2024-10/orders.json?page_info=prev>; rel="previous"`,
			want:   "",
		},
		{name: "empty header", header: "", want: ""},
		{name: "malformed entry", header: `rel="next"`, want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := nextPageURL(tc.header); got != tc.want {
				t.Errorf("expected '%s', got '%s'", tc.want, got)
			}
		})
	}
}

func TestPriceValue(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"19.99", 19.99},
		{"0.00", 0},
		{"", 0},
		{"free", 0},
		{"-5.00", -5},
	}
	for _, tc := range cases {
		if got := priceValue(tc.in); got != tc.want {
			t.Errorf("priceValue(%q): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}
