// Package webcrawler implements the page-fetching node. The crawling backend
// (typically a rendering browser service) is an external collaborator behind
// the Backend contract; a plain net/http backend is provided as the default.
package webcrawler

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/wovenflow/loom/pkg/engine"
)

// Kind is the registry type tag.
const Kind = "webCrawler"

// Request describes one crawl.
type Request struct {
	URL string
	// WaitSelector is the CSS selector a rendering backend waits for before
	// capturing the page. Plain HTTP backends ignore it.
	WaitSelector string
	Timeout      time.Duration
}

// Result is the captured page.
type Result struct {
	URL        string
	HTML       string
	StatusCode int
}

// Backend fetches a page and returns its HTML or a structured error.
type Backend interface {
	Fetch(ctx context.Context, req Request) (Result, error)
}

// Config holds the crawl parameters. A URL must come from configuration or,
// failing that, from the input.
type Config struct {
	URL            string `json:"url"`
	WaitSelector   string `json:"waitSelector"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

func parseConfig(nodeID string, raw map[string]interface{}) (Config, error) {
	var cfg Config
	if err := engine.DecodeConfig(raw, &cfg); err != nil {
		return cfg, &ConfigError{NodeID: nodeID, Field: "config", Message: err.Error()}
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 30
	}
	return cfg, nil
}

// Node fetches one page per arrival.
type Node struct {
	id      string
	backend Backend
}

// New creates a crawler node bound to a node id. A nil backend falls back to
// the plain HTTP backend.
func New(id string, backend Backend) *Node {
	if backend == nil {
		backend = NewHTTPBackend(nil)
	}
	return &Node{id: id, backend: backend}
}

func (n *Node) ID() string   { return n.id }
func (n *Node) Kind() string { return Kind }

// Execute resolves the target URL from configuration or input, delegates to
// the backend and returns {url, html, statusCode}.
func (n *Node) Execute(ctx context.Context, run *engine.Run, input interface{}) (interface{}, error) {
	cfg, err := parseConfig(n.id, run.Config(n.id))
	if err != nil {
		return nil, err
	}

	target := cfg.URL
	if target == "" {
		target = urlFromInput(input)
	}
	if strings.TrimSpace(target) == "" {
		return nil, &ConfigError{NodeID: n.id, Field: "url", Message: "url is required"}
	}

	result, err := n.backend.Fetch(ctx, Request{
		URL:          target,
		WaitSelector: cfg.WaitSelector,
		Timeout:      time.Duration(cfg.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		var status *statusError
		if errors.As(err, &status) {
			return nil, &CrawlError{NodeID: n.id, URL: target, StatusCode: status.StatusCode}
		}
		return nil, &CrawlError{NodeID: n.id, URL: target, Err: err}
	}

	return map[string]interface{}{
		"url":        result.URL,
		"html":       result.HTML,
		"statusCode": result.StatusCode,
	}, nil
}

// urlFromInput accepts a bare string or a map with a "url" key.
func urlFromInput(input interface{}) string {
	switch value := input.(type) {
	case string:
		return value
	case map[string]interface{}:
		if u, ok := value["url"].(string); ok {
			return u
		}
	}
	return ""
}

var _ engine.Node = (*Node)(nil)
