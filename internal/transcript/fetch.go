package transcript

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxPageBytes = 16 << 20

// Fetcher downloads pages for extraction.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher returns a Fetcher with the given timeout. A zero timeout means 30s.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: "coursesum/1.0",
	}
}

// Fetch returns the body of url. Non-200 responses are errors.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status code %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return body, nil
}
