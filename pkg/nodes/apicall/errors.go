package apicall

import "fmt"

// ConfigError reports a missing or invalid required configuration field. It
// is fatal to the node; the branch halts without retry.
type ConfigError struct {
	NodeID  string
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("node %s: config error [%s]: %s", e.NodeID, e.Field, e.Message)
}

// RequestError reports a failed outbound request: transport failure or a
// non-2xx response.
type RequestError struct {
	NodeID     string
	URL        string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("node %s: request to %s returned status %d", e.NodeID, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("node %s: request to %s failed: %v", e.NodeID, e.URL, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }
