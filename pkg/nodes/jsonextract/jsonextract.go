// Package jsonextract implements the JSON-path extraction node: a gjson dot
// path applied to the input, with a configurable default value on miss.
package jsonextract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/wovenflow/loom/pkg/engine"
)

// Kind is the registry type tag.
const Kind = "jsonExtractor"

// Config holds the extraction path and the value emitted when the path does
// not resolve. Path is required.
type Config struct {
	Path    string      `json:"path"`
	Default interface{} `json:"default"`
}

// ConfigError reports a missing required field; fatal to the node.
type ConfigError struct {
	NodeID  string
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("node %s: config error [%s]: %s", e.NodeID, e.Field, e.Message)
}

func parseConfig(nodeID string, raw map[string]interface{}) (Config, error) {
	var cfg Config
	if err := engine.DecodeConfig(raw, &cfg); err != nil {
		return cfg, &ConfigError{NodeID: nodeID, Field: "config", Message: err.Error()}
	}
	if strings.TrimSpace(cfg.Path) == "" {
		return cfg, &ConfigError{NodeID: nodeID, Field: "path", Message: "path is required"}
	}
	return cfg, nil
}

// Node extracts one value per arrival.
type Node struct {
	id string
}

// New creates an extractor node bound to a node id.
func New(id string) *Node {
	return &Node{id: id}
}

func (n *Node) ID() string   { return n.id }
func (n *Node) Kind() string { return Kind }

// Execute applies the configured dot path to the input. A miss emits the
// configured default; without a default the branch ends (nil result).
func (n *Node) Execute(ctx context.Context, run *engine.Run, input interface{}) (interface{}, error) {
	cfg, err := parseConfig(n.id, run.Config(n.id))
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("node %s: input is not JSON-encodable: %w", n.id, err)
	}

	result := gjson.GetBytes(data, cfg.Path)
	if !result.Exists() {
		run.Context().Logf("node %s: path %q not found, using default", n.id, cfg.Path)
		return cfg.Default, nil
	}
	return result.Value(), nil
}

var _ engine.Node = (*Node)(nil)
