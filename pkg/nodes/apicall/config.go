package apicall

import (
	"net/http"
	"strings"

	"github.com/wovenflow/loom/pkg/engine"
)

// Config describes the outbound request. URL is required; everything else
// has defaults.
type Config struct {
	URL            string            `json:"url"`
	Method         string            `json:"method"`
	Headers        map[string]string `json:"headers"`
	QueryParams    map[string]string `json:"queryParams"`
	Body           interface{}       `json:"body"`
	TimeoutSeconds int               `json:"timeoutSeconds"`
}

func parseConfig(nodeID string, raw map[string]interface{}) (Config, error) {
	var cfg Config
	if err := engine.DecodeConfig(raw, &cfg); err != nil {
		return cfg, &ConfigError{NodeID: nodeID, Field: "config", Message: err.Error()}
	}
	if strings.TrimSpace(cfg.URL) == "" {
		return cfg, &ConfigError{NodeID: nodeID, Field: "url", Message: "url is required"}
	}
	if cfg.Method == "" {
		cfg.Method = http.MethodGet
	} else {
		cfg.Method = strings.ToUpper(cfg.Method)
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 30
	}
	return cfg, nil
}
