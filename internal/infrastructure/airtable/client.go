package airtable

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/switchtoindia/backend/internal/domain"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// Client fetches the product table through the catalog proxy, which
// answers a GET with {"records": [...]}.
type Client struct {
	httpClient  *http.Client
	token       string
	baseURL     string
	table       string
	pageSize    int
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new catalog provider client.
func NewClient(token, baseURL, table string) *Client {
	// Airtable allows 5 requests per second per base; stay under it
	// with a small burst for startup.
	limiter := rate.NewLimiter(rate.Limit(4), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		token:       token,
		baseURL:     baseURL,
		table:       table,
		pageSize:    100,
		rateLimiter: limiter,
	}
}

// SetDebug enables verbose request logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "SwitchToIndia/1.0")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	return resp, nil
}

// exponentialBackoff returns the wait before the next retry attempt.
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(250<<(attempt-1)) * time.Millisecond
}

// ListProducts fetches the full product table and normalizes each record.
// Records that lack both a name and an id are dropped.
func (c *Client) ListProducts(ctx context.Context) ([]domain.ProductRecord, error) {
	endpoint := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(c.table))
	params := url.Values{}
	params.Add("pageSize", fmt.Sprintf("%d", c.pageSize))

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	// Retry up to 3 times for transient failures
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			log.Printf("[AIRTABLE] Request error (attempt %d): %v", attempt, err)
			lastErr = err
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			log.Printf("[AIRTABLE] API error (attempt %d) - Status: %d, Body: %s", attempt, resp.StatusCode, string(body))
			lastErr = fmt.Errorf("%w: status %d", domain.ErrCatalogUnavailable, resp.StatusCode)
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		if !gjson.ValidBytes(body) {
			return nil, fmt.Errorf("%w: malformed response body", domain.ErrCatalogUnavailable)
		}

		records := gjson.GetBytes(body, "records").Array()
		products := make([]domain.ProductRecord, 0, len(records))
		for _, rec := range records {
			product := MapRecord(rec)
			if !product.Displayable() {
				continue
			}
			products = append(products, product)
		}

		if c.debug {
			log.Printf("[AIRTABLE] Fetched %d records (%d displayable)", len(records), len(products))
		}
		return products, nil
	}

	log.Printf("[AIRTABLE] All retries failed for table %q", c.table)
	return nil, lastErr
}
