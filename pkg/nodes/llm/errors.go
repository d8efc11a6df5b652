package llm

import "fmt"

// ConfigError reports missing required configuration; fatal to the node.
type ConfigError struct {
	NodeID  string
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("node %s: config error [%s]: %s", e.NodeID, e.Field, e.Message)
}

// CompletionError reports a failed provider call or an undecodable response.
type CompletionError struct {
	NodeID   string
	Provider string
	Model    string
	Err      error
}

func (e *CompletionError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("node %s: completion via %s/%s failed: %v", e.NodeID, e.Provider, e.Model, e.Err)
	}
	return fmt.Sprintf("node %s: completion failed: %v", e.NodeID, e.Err)
}

func (e *CompletionError) Unwrap() error { return e.Err }
