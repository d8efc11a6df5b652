// Package output implements the display node: it renders the input for
// human consumption and passes the original value through unchanged so the
// branch can keep flowing.
package output

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wovenflow/loom/pkg/engine"
)

// Kind is the registry type tag.
const Kind = "output"

// Display formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config controls the rendered form.
type Config struct {
	Label  string `json:"label"`
	Format string `json:"format"`
}

func parseConfig(raw map[string]interface{}) (Config, error) {
	var cfg Config
	if err := engine.DecodeConfig(raw, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Format == "" {
		cfg.Format = FormatText
	}
	return cfg, nil
}

// Node renders arrivals into the run log.
type Node struct {
	id string
}

// New creates an output node bound to a node id.
func New(id string) *Node {
	return &Node{id: id}
}

func (n *Node) ID() string   { return n.id }
func (n *Node) Kind() string { return Kind }

// Execute logs the rendered input and returns the input unchanged.
func (n *Node) Execute(ctx context.Context, run *engine.Run, input interface{}) (interface{}, error) {
	cfg, err := parseConfig(run.Config(n.id))
	if err != nil {
		return nil, fmt.Errorf("node %s: invalid output config: %w", n.id, err)
	}

	label := cfg.Label
	if label == "" {
		label = n.id
	}
	run.Context().Logf("output %s: %s", label, render(cfg.Format, input))
	return input, nil
}

func render(format string, input interface{}) string {
	if format == FormatJSON {
		if encoded, err := json.MarshalIndent(input, "", "  "); err == nil {
			return string(encoded)
		}
	}
	switch value := input.(type) {
	case nil:
		return "<nil>"
	case string:
		return value
	default:
		if encoded, err := json.Marshal(value); err == nil {
			return string(encoded)
		}
		return fmt.Sprintf("%v", value)
	}
}

var _ engine.Node = (*Node)(nil)
