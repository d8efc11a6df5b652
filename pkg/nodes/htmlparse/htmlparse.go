// Package htmlparse implements the DOM extraction node: an HTML string plus
// CSS selectors and extraction rules produce a map of extracted text,
// attribute, html or markdown values.
package htmlparse

import (
	"context"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"

	"github.com/wovenflow/loom/pkg/engine"
)

// Kind is the registry type tag.
const Kind = "htmlParser"

// Extraction modes.
const (
	ExtractText     = "text"
	ExtractAttr     = "attr"
	ExtractHTML     = "html"
	ExtractMarkdown = "markdown"
)

// Rule extracts one named value. Extract defaults to "text"; "attr" requires
// Attribute. All=true collects every match instead of the first.
type Rule struct {
	Name      string `json:"name"`
	Selector  string `json:"selector"`
	Extract   string `json:"extract"`
	Attribute string `json:"attribute"`
	All       bool   `json:"all"`
}

// Config holds the extraction rules; at least one is required.
type Config struct {
	Rules []Rule `json:"rules"`
}

func parseConfig(nodeID string, raw map[string]interface{}) (Config, error) {
	var cfg Config
	if err := engine.DecodeConfig(raw, &cfg); err != nil {
		return cfg, &ConfigError{NodeID: nodeID, Field: "config", Message: err.Error()}
	}
	if len(cfg.Rules) == 0 {
		return cfg, &ConfigError{NodeID: nodeID, Field: "rules", Message: "at least one extraction rule is required"}
	}
	for i := range cfg.Rules {
		rule := &cfg.Rules[i]
		if strings.TrimSpace(rule.Selector) == "" {
			return cfg, &ConfigError{NodeID: nodeID, Field: "rules", Message: fmt.Sprintf("rule %d: selector is required", i)}
		}
		if rule.Name == "" {
			rule.Name = rule.Selector
		}
		if rule.Extract == "" {
			rule.Extract = ExtractText
		}
		if rule.Extract == ExtractAttr && rule.Attribute == "" {
			return cfg, &ConfigError{NodeID: nodeID, Field: "rules", Message: fmt.Sprintf("rule %d: attr extraction requires an attribute name", i)}
		}
	}
	return cfg, nil
}

// Node extracts values from HTML input.
type Node struct {
	id string
}

// New creates an HTML parser node bound to a node id.
func New(id string) *Node {
	return &Node{id: id}
}

func (n *Node) ID() string   { return n.id }
func (n *Node) Kind() string { return Kind }

// Execute parses the input HTML (a bare string, or a map with an "html" key
// such as the crawler node's output) and applies every rule, returning a map
// of rule name to extracted value. Rules that match nothing yield nil.
func (n *Node) Execute(ctx context.Context, run *engine.Run, input interface{}) (interface{}, error) {
	source := htmlFromInput(input)
	if source == "" {
		return nil, &ParseError{NodeID: n.id, Message: "input carries no HTML"}
	}

	cfg, err := parseConfig(n.id, run.Config(n.id))
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(strings.NewReader(source))
	if err != nil {
		return nil, &ParseError{NodeID: n.id, Message: "invalid HTML", Err: err}
	}

	extracted := make(map[string]interface{}, len(cfg.Rules))
	for _, rule := range cfg.Rules {
		value, err := applyRule(doc, rule)
		if err != nil {
			return nil, &ParseError{NodeID: n.id, Message: fmt.Sprintf("rule %q failed", rule.Name), Err: err}
		}
		extracted[rule.Name] = value
	}
	return extracted, nil
}

func applyRule(doc *html.Node, rule Rule) (interface{}, error) {
	matches := selectAll(doc, parseSelector(rule.Selector))
	if len(matches) == 0 {
		return nil, nil
	}
	if !rule.All {
		matches = matches[:1]
	}

	values := make([]interface{}, 0, len(matches))
	for _, match := range matches {
		value, err := extractValue(match, rule)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	if rule.All {
		return values, nil
	}
	return values[0], nil
}

func extractValue(n *html.Node, rule Rule) (interface{}, error) {
	switch rule.Extract {
	case ExtractText:
		return textContent(n), nil
	case ExtractAttr:
		return attr(n, rule.Attribute), nil
	case ExtractHTML:
		return renderNode(n)
	case ExtractMarkdown:
		rendered, err := renderNode(n)
		if err != nil {
			return nil, err
		}
		return htmltomarkdown.ConvertString(rendered)
	default:
		return nil, fmt.Errorf("unsupported extraction mode %q", rule.Extract)
	}
}

func renderNode(n *html.Node) (string, error) {
	var buf strings.Builder
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// htmlFromInput accepts a bare HTML string or a map with an "html" key.
func htmlFromInput(input interface{}) string {
	switch value := input.(type) {
	case string:
		return value
	case map[string]interface{}:
		if h, ok := value["html"].(string); ok {
			return h
		}
	}
	return ""
}

var _ engine.Node = (*Node)(nil)
