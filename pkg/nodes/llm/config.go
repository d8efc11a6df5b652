package llm

import (
	"strings"

	"github.com/wovenflow/loom/pkg/engine"
)

// Response formats.
const (
	ResponseFormatText = "text"
	ResponseFormatJSON = "json"
)

// Config describes one completion. Provider and model are required.
type Config struct {
	Provider       string   `json:"provider"`
	Model          string   `json:"model"`
	Prompt         string   `json:"prompt"`
	Temperature    float64  `json:"temperature"`
	Images         []string `json:"images"`
	ResponseFormat string   `json:"responseFormat"`
}

func parseConfig(nodeID string, raw map[string]interface{}) (Config, error) {
	var cfg Config
	if err := engine.DecodeConfig(raw, &cfg); err != nil {
		return cfg, &ConfigError{NodeID: nodeID, Field: "config", Message: err.Error()}
	}
	if strings.TrimSpace(cfg.Provider) == "" {
		return cfg, &ConfigError{NodeID: nodeID, Field: "provider", Message: "provider is required"}
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return cfg, &ConfigError{NodeID: nodeID, Field: "model", Message: "model is required"}
	}
	if cfg.ResponseFormat == "" {
		cfg.ResponseFormat = ResponseFormatText
	}
	return cfg, nil
}
