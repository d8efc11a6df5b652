package webcrawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultTimeout applies when a request carries none.
	DefaultTimeout = 30 * time.Second
	// MaxBodySize caps fetched pages at 10MB.
	MaxBodySize = 10 * 1024 * 1024

	defaultUserAgent = "loom-webcrawler/1.0"
)

// HTTPBackend fetches pages with a plain HTTP GET. It does not render
// JavaScript, so WaitSelector is ignored. Partial URLs are normalized by
// prepending "https://".
type HTTPBackend struct {
	client *http.Client
}

// NewHTTPBackend creates a backend on the given client, or a default client
// when nil.
func NewHTTPBackend(client *http.Client) *HTTPBackend {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPBackend{client: client}
}

// Fetch retrieves the page at req.URL.
func (b *HTTPBackend) Fetch(ctx context.Context, req Request) (Result, error) {
	target := strings.TrimSpace(req.URL)
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = "https://" + target
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", defaultUserAgent)

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return Result{}, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, &statusError{StatusCode: resp.StatusCode}
	}

	final := target
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL.String()
	}
	return Result{URL: final, HTML: string(body), StatusCode: resp.StatusCode}, nil
}

// statusError carries a non-200 status out of the backend so the node can
// wrap it with node identity.
type statusError struct {
	StatusCode int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

var _ Backend = (*HTTPBackend)(nil)
