package apicall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// MaxBodySize caps response bodies at 10MB.
const MaxBodySize = 10 * 1024 * 1024

// Request is the narrow contract handed to the HTTP collaborator.
type Request struct {
	Method      string
	URL         string
	Headers     map[string]string
	QueryParams map[string]string
	Body        interface{}
	Timeout     time.Duration
}

// Doer performs an HTTP request description and returns the decoded JSON
// body, or the raw body text when the response is not JSON. The engine treats
// its internals as an external collaborator.
type Doer interface {
	Do(ctx context.Context, req Request) (interface{}, error)
}

// HTTPDoer is the default Doer on net/http.
type HTTPDoer struct {
	client *http.Client
}

// NewHTTPDoer creates a Doer backed by the given client, or a default client
// when nil.
func NewHTTPDoer(client *http.Client) *HTTPDoer {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPDoer{client: client}
}

// Do sends the request and decodes the response. Non-2xx statuses are
// returned as errors carrying the status code.
func (d *HTTPDoer) Do(ctx context.Context, req Request) (interface{}, error) {
	target, err := buildURL(req.URL, req.QueryParams)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", req.URL, err)
	}

	var body io.Reader
	if req.Body != nil {
		switch value := req.Body.(type) {
		case string:
			body = strings.NewReader(value)
		case []byte:
			body = bytes.NewReader(value)
		default:
			encoded, err := json.Marshal(value)
			if err != nil {
				return nil, fmt.Errorf("encode request body: %w", err)
			}
			body = bytes.NewReader(encoded)
		}
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if body != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &statusError{StatusCode: resp.StatusCode}
	}

	var decoded interface{}
	if json.Unmarshal(payload, &decoded) == nil {
		return decoded, nil
	}
	return string(payload), nil
}

func buildURL(raw string, query map[string]string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if len(query) > 0 {
		q := parsed.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		parsed.RawQuery = q.Encode()
	}
	return parsed.String(), nil
}

// statusError carries a non-2xx status out of the Doer so the node can wrap
// it with node identity.
type statusError struct {
	StatusCode int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

var _ Doer = (*HTTPDoer)(nil)
