// Package apicall implements the HTTP request node. The request description
// comes from configuration; a missing URL is fatal to the node. The actual
// transport is behind the Doer contract.
package apicall

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/wovenflow/loom/pkg/engine"
)

// Kind is the registry type tag.
const Kind = "apiCall"

// Node performs one HTTP request per arrival.
type Node struct {
	id     string
	client Doer
}

// New creates an API node bound to a node id. A nil client falls back to the
// default net/http Doer.
func New(id string, client Doer) *Node {
	if client == nil {
		client = NewHTTPDoer(nil)
	}
	return &Node{id: id, client: client}
}

func (n *Node) ID() string   { return n.id }
func (n *Node) Kind() string { return Kind }

// Execute derives the effective request from configuration and input, sends
// it through the collaborator and returns the decoded response unchanged.
// When no body is configured, a non-GET request uses the input as its body.
func (n *Node) Execute(ctx context.Context, run *engine.Run, input interface{}) (interface{}, error) {
	cfg, err := parseConfig(n.id, run.Config(n.id))
	if err != nil {
		return nil, err
	}

	body := cfg.Body
	if body == nil && cfg.Method != http.MethodGet && input != nil {
		body = input
	}

	result, err := n.client.Do(ctx, Request{
		Method:      cfg.Method,
		URL:         cfg.URL,
		Headers:     cfg.Headers,
		QueryParams: cfg.QueryParams,
		Body:        body,
		Timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		var status *statusError
		if errors.As(err, &status) {
			return nil, &RequestError{NodeID: n.id, URL: cfg.URL, StatusCode: status.StatusCode}
		}
		return nil, &RequestError{NodeID: n.id, URL: cfg.URL, Err: err}
	}
	return result, nil
}

var _ engine.Node = (*Node)(nil)
