package input

import "github.com/wovenflow/loom/pkg/engine"

// Emission modes.
const (
	ModeBatch   = "batch"
	ModeForeach = "foreach"
)

// Chaining update modes: where a newly received value lands.
const (
	UpdateCommon         = "common"
	UpdateReplaceCommon  = "replaceCommon"
	UpdateElement        = "element"
	UpdateReplaceElement = "replaceElement"
	UpdateNone           = "none"
)

// Accumulation modes: whether repeated arrivals update the collections every
// time, only once per execution context, or never.
const (
	AccumulateAlways         = "always"
	AccumulateOncePerContext = "oncePerContext"
	AccumulateNone           = "none"
)

// Config controls how the input node records arrivals and emits items.
type Config struct {
	Mode           string `json:"mode"`
	ChainingUpdate string `json:"chainingUpdate"`
	Accumulation   string `json:"accumulation"`
}

func parseConfig(raw map[string]interface{}) (Config, error) {
	var cfg Config
	if err := engine.DecodeConfig(raw, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeBatch
	}
	if cfg.ChainingUpdate == "" {
		cfg.ChainingUpdate = UpdateCommon
	}
	if cfg.Accumulation == "" {
		cfg.Accumulation = AccumulateAlways
	}
	return cfg, nil
}
