package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
)

// Trigger starts a scraping job on the remote service
type Trigger interface {
	StartScrape(ctx context.Context) (*StartResponse, error)
}

// Client is an HTTP client for the scrape-start endpoint
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a trigger client posting to baseURL+path.
// A zero timeout keeps the transport default.
func NewClient(baseURL, path string, timeout time.Duration) *Client {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return &Client{
		endpoint: baseURL + path,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Endpoint returns the absolute URL the client posts to
func (c *Client) Endpoint() string {
	return c.endpoint
}

// StartScrape issues a single POST with no body and returns the server's status message
func (c *Client) StartScrape(ctx context.Context) (*StartResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, newTimeoutError(err)
		}
		return nil, newNetworkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newNetworkError(pkgerrors.Wrap(err, "failed to read response"))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newStatusError(resp.StatusCode, string(body))
	}

	var result StartResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, newInvalidResponseError(
			fmt.Sprintf("Invalid response from %s", c.endpoint), err)
	}

	return &result, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
