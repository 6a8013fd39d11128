// Package shopify is a read-only client for the Shopify Admin REST API,
// plus the store performance analyses built on top of it.
package shopify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/kurtosis-tech/stacktrace"
)

const (
	defaultAPIVersion = "2024-10"

	storeURLEnvVar    = "SHOPIFY_STORE_URL"
	accessTokenEnvVar = "SHOPIFY_ACCESS_TOKEN"
	apiVersionEnvVar  = "SHOPIFY_API_VERSION"

	maxAttempts   = 3
	maxRetryDelay = 60 * time.Second

	// Shopify's REST API allows 2 requests per second on standard plans.
	requestInterval = 500 * time.Millisecond

	maxPageSize = 250
)

// Client talks to the Shopify Admin REST API with an Admin API access token.
// Requests are throttled to Shopify's REST rate limit.
type Client struct {
	accessToken string
	baseURL     string
	httpClient  *http.Client

	interval time.Duration
	mu       sync.Mutex
	nextSlot time.Time
}

// NewClient builds a client for the given store URL (the myshopify.com URL)
// and Admin API access token, pinned to the default API version.
func NewClient(storeURL, accessToken string) *Client {
	return &Client{
		accessToken: accessToken,
		baseURL:     strings.TrimRight(storeURL, "/") + "/admin/api/" + defaultAPIVersion,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		interval: requestInterval,
	}
}

// NewClientFromEnv builds a client from the SHOPIFY_STORE_URL and
// SHOPIFY_ACCESS_TOKEN environment variables. SHOPIFY_API_VERSION overrides
// the default API version.
func NewClientFromEnv() (*Client, error) {
	storeURL := strings.TrimRight(os.Getenv(storeURLEnvVar), "/")
	if storeURL == "" {
		return nil, stacktrace.NewError("%s environment variable not set; set it to your myshopify.com URL (e.g. https://my-store.myshopify.com)", storeURLEnvVar)
	}
	accessToken := os.Getenv(accessTokenEnvVar)
	if accessToken == "" {
		return nil, stacktrace.NewError("%s environment variable not set; create an Admin API access token in Shopify under Settings > Apps > Develop apps", accessTokenEnvVar)
	}

	client := NewClient(storeURL, accessToken)
	if version := os.Getenv(apiVersionEnvVar); version != "" {
		client.baseURL = storeURL + "/admin/api/" + version
	}
	return client, nil
}

// Shop is the store metadata returned by /shop.json.
type Shop struct {
	Name        string `json:"name"`
	Domain      string `json:"domain"`
	PlanName    string `json:"plan_name"`
	Currency    string `json:"currency"`
	CountryName string `json:"country_name"`
}

// Order is an order with the financial fields the analyses read. Shopify
// returns money amounts as decimal strings.
type Order struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	CreatedAt         string     `json:"created_at"`
	CancelledAt       string     `json:"cancelled_at"`
	FinancialStatus   string     `json:"financial_status"`
	FulfillmentStatus string     `json:"fulfillment_status"`
	TotalPrice        string     `json:"total_price"`
	SubtotalPrice     string     `json:"subtotal_price"`
	TotalDiscounts    string     `json:"total_discounts"`
	SourceName        string     `json:"source_name"`
	LineItems         []LineItem `json:"line_items"`
}

// LineItem is a single product line on an order.
type LineItem struct {
	ProductID int64  `json:"product_id"`
	Title     string `json:"title"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
}

// Product is a catalog product with its variants.
type Product struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	CreatedAt string    `json:"created_at"`
	Variants  []Variant `json:"variants"`
}

// Variant is a purchasable variation of a product.
type Variant struct {
	ID                int64  `json:"id"`
	Title             string `json:"title"`
	SKU               string `json:"sku"`
	InventoryQuantity int    `json:"inventory_quantity"`
}

// Customer is a store customer with order history summary fields.
type Customer struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	CreatedAt   string `json:"created_at"`
	OrdersCount int    `json:"orders_count"`
	TotalSpent  string `json:"total_spent"`
}

// InventoryLevel is the stock of one inventory item at one location.
type InventoryLevel struct {
	InventoryItemID int64  `json:"inventory_item_id"`
	LocationID      int64  `json:"location_id"`
	Available       int    `json:"available"`
	UpdatedAt       string `json:"updated_at"`
}

// OrderParams filters GetOrders. Zero values are omitted from the query;
// Status defaults to "any" and Limit to one full page.
type OrderParams struct {
	Status          string
	CreatedAtMin    string
	CreatedAtMax    string
	FinancialStatus string
	Limit           int
}

// GetShop fetches the store metadata, plan, and currency info.
func (c *Client) GetShop(ctx context.Context) (*Shop, error) {
	body, _, err := c.get(ctx, c.baseURL+"/shop.json", nil)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Shop Shop `json:"shop"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, stacktrace.Propagate(err, "failed to decode shop response")
	}
	return &payload.Shop, nil
}

// GetOrders fetches orders matching the given filters, following pagination
// up to the limit.
func (c *Client) GetOrders(ctx context.Context, params OrderParams) ([]Order, error) {
	limit := normalizeLimit(params.Limit)
	query := url.Values{}
	status := params.Status
	if status == "" {
		status = "any"
	}
	query.Set("status", status)
	query.Set("limit", strconv.Itoa(pageSize(limit)))
	if params.CreatedAtMin != "" {
		query.Set("created_at_min", params.CreatedAtMin)
	}
	if params.CreatedAtMax != "" {
		query.Set("created_at_max", params.CreatedAtMax)
	}
	if params.FinancialStatus != "" {
		query.Set("financial_status", params.FinancialStatus)
	}
	return paginate[Order](ctx, c, "/orders.json", "orders", query, limit)
}

// GetProducts fetches products with their variants. An optional status
// filters to active, draft, or archived products.
func (c *Client) GetProducts(ctx context.Context, status string, limit int) ([]Product, error) {
	limit = normalizeLimit(limit)
	query := url.Values{}
	query.Set("limit", strconv.Itoa(pageSize(limit)))
	if status != "" {
		query.Set("status", status)
	}
	return paginate[Product](ctx, c, "/products.json", "products", query, limit)
}

// GetCustomers fetches customers, optionally only those created after
// createdAtMin (an ISO 8601 timestamp).
func (c *Client) GetCustomers(ctx context.Context, createdAtMin string, limit int) ([]Customer, error) {
	limit = normalizeLimit(limit)
	query := url.Values{}
	query.Set("limit", strconv.Itoa(pageSize(limit)))
	if createdAtMin != "" {
		query.Set("created_at_min", createdAtMin)
	}
	return paginate[Customer](ctx, c, "/customers.json", "customers", query, limit)
}

// GetInventoryLevels fetches inventory levels at one location.
func (c *Client) GetInventoryLevels(ctx context.Context, locationID string, limit int) ([]InventoryLevel, error) {
	limit = normalizeLimit(limit)
	query := url.Values{}
	query.Set("location_ids", locationID)
	query.Set("limit", strconv.Itoa(pageSize(limit)))
	return paginate[InventoryLevel](ctx, c, "/inventory_levels.json", "inventory_levels", query, limit)
}

// GetOrderCount returns the total number of orders with the given status
// ("any" when empty).
func (c *Client) GetOrderCount(ctx context.Context, status string) (int, error) {
	if status == "" {
		status = "any"
	}
	query := url.Values{}
	query.Set("status", status)
	return c.getCount(ctx, "/orders/count.json", query)
}

// GetCustomerCount returns the total number of customers.
func (c *Client) GetCustomerCount(ctx context.Context) (int, error) {
	return c.getCount(ctx, "/customers/count.json", nil)
}

func (c *Client) getCount(ctx context.Context, endpoint string, query url.Values) (int, error) {
	body, _, err := c.get(ctx, c.baseURL+endpoint, query)
	if err != nil {
		return 0, err
	}
	var payload struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, stacktrace.Propagate(err, "failed to decode count response from %s", endpoint)
	}
	return payload.Count, nil
}

// paginate walks Shopify's Link-header cursor pagination, decoding the named
// collection from each page until maxItems are collected or no rel="next"
// link remains. Next-page URLs already carry the cursor parameters, so the
// query is only sent on the first request.
func paginate[T any](ctx context.Context, c *Client, endpoint, key string, query url.Values, maxItems int) ([]T, error) {
	var items []T
	pageURL := c.baseURL + endpoint
	for pageURL != "" && len(items) < maxItems {
		body, header, err := c.get(ctx, pageURL, query)
		if err != nil {
			return nil, err
		}

		var page map[string]json.RawMessage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, stacktrace.Propagate(err, "failed to decode %s response", key)
		}
		if raw, ok := page[key]; ok {
			var chunk []T
			if err := json.Unmarshal(raw, &chunk); err != nil {
				return nil, stacktrace.Propagate(err, "failed to decode %s response", key)
			}
			items = append(items, chunk...)
		}

		query = nil
		pageURL = nextPageURL(header.Get("Link"))
	}
	if len(items) > maxItems {
		items = items[:maxItems]
	}
	return items, nil
}

// nextPageURL extracts the rel="next" URL from a Link header, which holds
// comma-separated `<url>; rel="..."` entries.
func nextPageURL(linkHeader string) string {
	for _, part := range strings.Split(linkHeader, ",") {
		if !strings.Contains(part, `rel="next"`) {
			continue
		}
		start := strings.Index(part, "<")
		end := strings.Index(part, ">")
		if start == -1 || end <= start {
			return ""
		}
		return part[start+1 : end]
	}
	return ""
}

// get issues one GET request, retrying 429s and transient server errors with
// exponential backoff. A Retry-After header takes precedence over the
// computed delay. Returns the body and the response headers (pagination
// reads the Link header).
func (c *Client) get(ctx context.Context, rawURL string, query url.Values) ([]byte, http.Header, error) {
	endpoint := rawURL
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.throttle(ctx); err != nil {
			return nil, nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, nil, stacktrace.Propagate(err, "failed to create request for '%s'", endpoint)
		}
		req.Header.Set("X-Shopify-Access-Token", c.accessToken)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = stacktrace.Propagate(err, "request to '%s' failed", endpoint)
			if attempt == maxAttempts {
				break
			}
			if waitErr := waitBeforeRetry(ctx, attempt, ""); waitErr != nil {
				return nil, nil, waitErr
			}
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, nil, stacktrace.Propagate(err, "failed to read response from '%s'", endpoint)
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = stacktrace.NewError("Shopify API returned %d for GET %s", resp.StatusCode, endpoint)
			if attempt == maxAttempts {
				break
			}
			if waitErr := waitBeforeRetry(ctx, attempt, resp.Header.Get("Retry-After")); waitErr != nil {
				return nil, nil, waitErr
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, nil, stacktrace.NewError("Shopify API returned %d for GET %s: %s", resp.StatusCode, endpoint, truncate(string(body), 300))
		}

		return body, resp.Header, nil
	}

	return nil, nil, stacktrace.Propagate(lastErr, "Shopify API request failed after %d attempts; check the store URL and access token", maxAttempts)
}

// throttle reserves the next request slot and sleeps until it arrives,
// keeping concurrent callers within the rate limit.
func (c *Client) throttle(ctx context.Context) error {
	if c.interval <= 0 {
		return nil
	}

	c.mu.Lock()
	now := time.Now()
	slot := c.nextSlot
	if slot.Before(now) {
		slot = now
	}
	c.nextSlot = slot.Add(c.interval)
	c.mu.Unlock()

	if wait := time.Until(slot); wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return stacktrace.Propagate(ctx.Err(), "cancelled while waiting for a rate limit slot")
		}
	}
	return nil
}

// waitBeforeRetry sleeps for the Retry-After duration when given, else an
// exponential backoff (1s, 2s, ...) capped at maxRetryDelay. Returns early
// if the context is cancelled.
func waitBeforeRetry(ctx context.Context, attempt int, retryAfter string) error {
	delay := time.Duration(1<<(attempt-1)) * time.Second
	if retryAfter != "" {
		if secs, err := strconv.Atoi(retryAfter); err == nil && secs >= 0 {
			delay = time.Duration(secs) * time.Second
		}
	}
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}

	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return stacktrace.Propagate(ctx.Err(), "cancelled while waiting to retry")
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return maxPageSize
	}
	return limit
}

func pageSize(limit int) int {
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}

// priceValue parses Shopify's decimal money strings. Missing or malformed
// values read as zero.
func priceValue(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
