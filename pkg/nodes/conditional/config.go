package conditional

// Canonical condition types. Unknown strings fall back to ConditionEqualTo.
const (
	ConditionNumberGreaterThan = "numberGreaterThan"
	ConditionNumberLessThan    = "numberLessThan"
	ConditionEqualTo           = "equalTo"
	ConditionContainsSubstring = "containsSubstring"
	ConditionJSONPathTruthy    = "jsonPathExistsTruthy"

	// legacyContains is the pre-rename alias of ConditionContainsSubstring.
	legacyContains = "contains"
)

// Config is the canonical condition configuration.
type Config struct {
	ConditionType string      `json:"conditionType"`
	Value         interface{} `json:"value"`
}

// normalizeConfig folds the legacy and alternate configuration shapes into
// the canonical {conditionType, value} pair. With nothing configured the
// condition defaults to an "equals true" check.
func normalizeConfig(raw map[string]interface{}) Config {
	cfg := Config{ConditionType: ConditionEqualTo, Value: true}
	if raw == nil {
		return cfg
	}

	for _, key := range []string{"conditionType", "type", "condition"} {
		if v, ok := raw[key].(string); ok && v != "" {
			cfg.ConditionType = v
			break
		}
	}
	for _, key := range []string{"value", "comparisonValue", "targetValue"} {
		if v, ok := raw[key]; ok {
			cfg.Value = v
			break
		}
	}

	switch cfg.ConditionType {
	case legacyContains:
		cfg.ConditionType = ConditionContainsSubstring
	case ConditionNumberGreaterThan, ConditionNumberLessThan,
		ConditionEqualTo, ConditionContainsSubstring, ConditionJSONPathTruthy:
	default:
		cfg.ConditionType = ConditionEqualTo
	}
	return cfg
}
