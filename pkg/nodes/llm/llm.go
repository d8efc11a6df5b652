// Package llm implements the language-model node. The provider client is an
// external collaborator behind the Client contract; the node assembles the
// prompt, validates configuration and optionally repairs a JSON response.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/wovenflow/loom/pkg/engine"
)

// Kind is the registry type tag.
const Kind = "llm"

// Request is the narrow contract handed to the provider client.
type Request struct {
	Provider    string
	Model       string
	Prompt      string
	Temperature float64
	// Images are optional attachments (URLs or base64 payloads).
	Images []string
}

// Client completes a prompt against a language-model provider.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// inputPlaceholder in the configured prompt is replaced by the string form of
// the node's input.
const inputPlaceholder = "{{input}}"

// Node completes prompts through the configured provider.
type Node struct {
	id     string
	client Client
}

// New creates an LLM node bound to a node id.
func New(id string, client Client) *Node {
	return &Node{id: id, client: client}
}

func (n *Node) ID() string   { return n.id }
func (n *Node) Kind() string { return Kind }

// Execute assembles the prompt and delegates to the provider client. With
// responseFormat "json" the response text is repaired and decoded before it
// is returned.
func (n *Node) Execute(ctx context.Context, run *engine.Run, input interface{}) (interface{}, error) {
	cfg, err := parseConfig(n.id, run.Config(n.id))
	if err != nil {
		return nil, err
	}
	if n.client == nil {
		return nil, &ConfigError{NodeID: n.id, Field: "client", Message: "no provider client configured"}
	}

	prompt := assemblePrompt(cfg.Prompt, input)
	if strings.TrimSpace(prompt) == "" {
		return nil, &ConfigError{NodeID: n.id, Field: "prompt", Message: "prompt is empty and no input was received"}
	}

	text, err := n.client.Complete(ctx, Request{
		Provider:    cfg.Provider,
		Model:       cfg.Model,
		Prompt:      prompt,
		Temperature: cfg.Temperature,
		Images:      cfg.Images,
	})
	if err != nil {
		return nil, &CompletionError{NodeID: n.id, Provider: cfg.Provider, Model: cfg.Model, Err: err}
	}

	if cfg.ResponseFormat == ResponseFormatJSON {
		return decodeJSONResponse(n.id, text)
	}
	return text, nil
}

// assemblePrompt substitutes the input into the configured prompt, or uses
// the input itself when no prompt is configured.
func assemblePrompt(prompt string, input interface{}) string {
	rendered := stringifyInput(input)
	if prompt == "" {
		return rendered
	}
	if strings.Contains(prompt, inputPlaceholder) {
		return strings.ReplaceAll(prompt, inputPlaceholder, rendered)
	}
	return prompt
}

func stringifyInput(input interface{}) string {
	switch value := input.(type) {
	case nil:
		return ""
	case string:
		return value
	default:
		if encoded, err := json.Marshal(value); err == nil {
			return string(encoded)
		}
		return fmt.Sprintf("%v", value)
	}
}

// decodeJSONResponse repairs common provider artifacts (markdown fences,
// single quotes, trailing commas) and decodes the result.
func decodeJSONResponse(nodeID, text string) (interface{}, error) {
	repaired, err := jsonrepair.JSONRepair(text)
	if err != nil {
		return nil, &CompletionError{NodeID: nodeID, Err: fmt.Errorf("repair JSON response: %w", err)}
	}
	var decoded interface{}
	if err := json.Unmarshal([]byte(repaired), &decoded); err != nil {
		return nil, &CompletionError{NodeID: nodeID, Err: fmt.Errorf("decode JSON response: %w", err)}
	}
	return decoded, nil
}

var _ engine.Node = (*Node)(nil)
