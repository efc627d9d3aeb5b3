package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://activity.ncku.edu.tw/index.php"
	UserAgent      = "activity-scan/1.0 (github.com/pfrederiksen/activity-scan)"
	DefaultTimeout = 10 * time.Second

	// maxPageSize caps how much of a response body is read
	maxPageSize = 4 << 20
)

// Client fetches activity detail pages from the portal
type Client struct {
	client  *http.Client
	baseURL string
}

// New creates a new Client for baseURL. A non-positive timeout uses DefaultTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
	}
}

// ActivityURL returns the detail-page URL for an activity ID
func (c *Client) ActivityURL(id int) string {
	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%sc=apply&m=ajax_query&act_id=%d", c.baseURL, sep, id)
}

// Fetch performs a single GET for the activity and returns the raw body.
// The http.Client is shared; each call holds no lock while the request is in flight.
func (c *Client) Fetch(ctx context.Context, id int) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ActivityURL(id), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	return body, nil
}
