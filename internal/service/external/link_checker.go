package external

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPLinkChecker implements services.LinkChecker with a plain GET.
type HTTPLinkChecker struct {
	httpClient *http.Client
}

// NewHTTPLinkChecker creates a link checker with the given request timeout.
func NewHTTPLinkChecker(timeout time.Duration) *HTTPLinkChecker {
	return &HTTPLinkChecker{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Check requests url and returns the status code it answers with.
// Redirects are followed.
func (c *HTTPLinkChecker) Check(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	return resp.StatusCode, nil
}
