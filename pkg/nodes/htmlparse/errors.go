package htmlparse

import "fmt"

// ConfigError reports missing or malformed extraction rules; fatal to the
// node.
type ConfigError struct {
	NodeID  string
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("node %s: config error [%s]: %s", e.NodeID, e.Field, e.Message)
}

// ParseError reports unusable input or a failed extraction.
type ParseError struct {
	NodeID  string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("node %s: %s: %v", e.NodeID, e.Message, e.Err)
	}
	return fmt.Sprintf("node %s: %s", e.NodeID, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }
