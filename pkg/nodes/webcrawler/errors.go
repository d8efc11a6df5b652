package webcrawler

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

// CrawlError reports a failed fetch.
type CrawlError struct {
	NodeID     string
	URL        string
	StatusCode int
	Err        error
}

func (e *CrawlError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("node %s: crawl of %s returned status %d", e.NodeID, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("node %s: crawl of %s failed: %v", e.NodeID, e.URL, e.Err)
}

func (e *CrawlError) Unwrap() error { return e.Err }
