// Package merger implements the multi-source accumulation node. One
// persistent list lives for the lifetime of the node instance; every arrival
// appends to it and re-emits the current cumulative result.
package merger

import (
	"context"
	"fmt"
	"sync"

	"github.com/wovenflow/loom/pkg/engine"
)

// Kind is the registry type tag.
const Kind = "merger"

// Merge strategies.
const (
	StrategyArray  = "array"
	StrategyObject = "object"
)

// Config controls how accumulated items are emitted.
type Config struct {
	// Strategy is "array" (default) or "object".
	Strategy string `json:"strategy"`
	// Keys are the candidate key fields for the object strategy, tried in
	// order. An item's own "id" field is the fallback, then a positional key.
	Keys []string `json:"keys"`
}

func parseConfig(raw map[string]interface{}) (Config, error) {
	var cfg Config
	if err := engine.DecodeConfig(raw, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyArray
	}
	return cfg, nil
}

// Node accumulates values across upstream arrivals.
type Node struct {
	id string

	mu    sync.Mutex
	items []interface{}
}

// New creates a merger node bound to a node id.
func New(id string) *Node {
	return &Node{id: id}
}

func (n *Node) ID() string   { return n.id }
func (n *Node) Kind() string { return Kind }

// Execute appends the received value (or its elements when it is an array)
// to the persistent list and returns the current full accumulation. Every
// upstream branch that reaches this node triggers its own emission, each time
// with a strictly longer result; repeat calls are deliberately NOT
// idempotent. Downstream nodes therefore execute once per upstream arrival.
func (n *Node) Execute(ctx context.Context, run *engine.Run, input interface{}) (interface{}, error) {
	cfg, err := parseConfig(run.Config(n.id))
	if err != nil {
		return nil, fmt.Errorf("node %s: invalid merger config: %w", n.id, err)
	}

	n.mu.Lock()
	switch value := input.(type) {
	case nil:
	case []interface{}:
		n.items = append(n.items, value...)
	default:
		n.items = append(n.items, value)
	}
	snapshot := make([]interface{}, len(n.items))
	copy(snapshot, n.items)
	n.mu.Unlock()

	if cfg.Strategy == StrategyObject {
		return keyedObject(snapshot, cfg.Keys), nil
	}
	return snapshot, nil
}

// keyedObject builds a map keyed by the first configured key field present on
// each item, falling back to the item's own "id" field, then to a positional
// key. Later items with the same key overwrite earlier ones.
func keyedObject(items []interface{}, keys []string) map[string]interface{} {
	merged := make(map[string]interface{}, len(items))
	for i, item := range items {
		merged[itemKey(item, keys, i)] = item
	}
	return merged
}

func itemKey(item interface{}, keys []string, position int) string {
	if m, ok := item.(map[string]interface{}); ok {
		for _, key := range keys {
			if v, ok := m[key]; ok && v != nil {
				return fmt.Sprintf("%v", v)
			}
		}
		if v, ok := m["id"]; ok && v != nil {
			return fmt.Sprintf("%v", v)
		}
	}
	return fmt.Sprintf("item-%d", position)
}

var _ engine.Node = (*Node)(nil)
