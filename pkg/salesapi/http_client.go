package salesapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	console "github.com/velocitysales/admin-console/components/console"
)

// APIError reports a non-2xx response from the backend. Status carries the
// HTTP code so callers can distinguish a missing record from a server fault.
type APIError struct {
	Status     int
	StatusText string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("salesapi: api error %d: %s", e.Status, e.StatusText)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Config configures the HTTP client.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// HTTPClient talks to the sales platform's admin endpoints. Every call is a
// single GET; there is no retry logic, callers surface failures inline.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient builds a client for the admin API.
func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("salesapi: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

var _ Client = (*HTTPClient)(nil)

// Conversations implements ConversationClient.
func (c *HTTPClient) Conversations(ctx context.Context, tenant string) ([]console.ConversationListItem, error) {
	var items []console.ConversationListItem
	if err := c.get(ctx, tenant, "/conversations", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Conversation implements ConversationClient.
func (c *HTTPClient) Conversation(ctx context.Context, tenant string, id int64) (console.ConversationDetail, error) {
	var detail console.ConversationDetail
	if err := c.get(ctx, tenant, "/conversations/"+strconv.FormatInt(id, 10), nil, &detail); err != nil {
		return console.ConversationDetail{}, err
	}
	return detail, nil
}

// Orders implements OrderClient. Query parameters are only sent when set.
func (c *HTTPClient) Orders(ctx context.Context, tenant string, query console.OrderQuery) ([]console.OrderListItem, error) {
	params := url.Values{}
	if query.Status != "" {
		params.Set("status", query.Status)
	}
	if query.CustomerID > 0 {
		params.Set("customer_id", strconv.FormatInt(query.CustomerID, 10))
	}
	var orders []console.OrderListItem
	if err := c.get(ctx, tenant, "/orders", params, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Order implements OrderClient.
func (c *HTTPClient) Order(ctx context.Context, tenant string, id string) (console.OrderDetail, error) {
	var detail console.OrderDetail
	if err := c.get(ctx, tenant, "/orders/"+url.PathEscape(id), nil, &detail); err != nil {
		return console.OrderDetail{}, err
	}
	return detail, nil
}

// Customer implements CustomerClient.
func (c *HTTPClient) Customer(ctx context.Context, tenant string, id int64) (console.CustomerDetail, error) {
	var detail console.CustomerDetail
	if err := c.get(ctx, tenant, "/customers/"+strconv.FormatInt(id, 10), nil, &detail); err != nil {
		return console.CustomerDetail{}, err
	}
	return detail, nil
}

// Analytics implements AnalyticsClient.
func (c *HTTPClient) Analytics(ctx context.Context, tenant string) (console.AnalyticsData, error) {
	var data console.AnalyticsData
	if err := c.get(ctx, tenant, "/analytics", nil, &data); err != nil {
		return console.AnalyticsData{}, err
	}
	return data, nil
}

func (c *HTTPClient) get(ctx context.Context, tenant, path string, params url.Values, target any) error {
	endpoint := c.baseURL + "/admin/" + url.PathEscape(tenant) + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("salesapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("salesapi: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &APIError{Status: resp.StatusCode, StatusText: resp.Status}
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("salesapi: decode response: %w", err)
	}
	return nil
}
