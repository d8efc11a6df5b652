package conditional

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// evaluate runs the configured predicate against the input. Numeric
// predicates fail closed: a non-finite operand yields false, not an error.
// An error return is an evaluation failure; callers swallow it as false.
func evaluate(cfg Config, input interface{}) (bool, error) {
	switch cfg.ConditionType {
	case ConditionNumberGreaterThan:
		a, aOK := toFinite(input)
		b, bOK := toFinite(cfg.Value)
		return aOK && bOK && a > b, nil
	case ConditionNumberLessThan:
		a, aOK := toFinite(input)
		b, bOK := toFinite(cfg.Value)
		return aOK && bOK && a < b, nil
	case ConditionEqualTo:
		return equalTo(input, cfg.Value), nil
	case ConditionContainsSubstring:
		return strings.Contains(stringify(input), stringify(cfg.Value)), nil
	case ConditionJSONPathTruthy:
		return jsonPathTruthy(input, stringify(cfg.Value))
	default:
		return equalTo(input, cfg.Value), nil
	}
}

// toFinite coerces a value to a finite float64. Booleans are not numbers
// here; strings go through strconv.
func toFinite(v interface{}) (float64, bool) {
	var f float64
	switch value := v.(type) {
	case float64:
		f = value
	case float32:
		f = float64(value)
	case int:
		f = float64(value)
	case int32:
		f = float64(value)
	case int64:
		f = float64(value)
	case json.Number:
		parsed, err := value.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// equalTo compares primitives through their string forms and structured
// values (maps, slices) through deep equality.
func equalTo(a, b interface{}) bool {
	if isStructured(a) || isStructured(b) {
		return reflect.DeepEqual(a, b)
	}
	return stringify(a) == stringify(b)
}

func isStructured(v interface{}) bool {
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		return true
	}
	return false
}

func stringify(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", value)
	}
}

// jsonPathTruthy traverses the input by dot path and truthy-tests the final
// value. Any missing intermediate or non-object value yields false.
func jsonPathTruthy(input interface{}, path string) (bool, error) {
	if path == "" {
		return truthy(input), nil
	}
	data, err := json.Marshal(input)
	if err != nil {
		return false, fmt.Errorf("marshal input for path %q: %w", path, err)
	}
	result := gjson.GetBytes(data, path)
	if !result.Exists() {
		return false, nil
	}
	return truthy(result.Value()), nil
}

// truthy mirrors loose truthiness: nil, false, 0, "" are false; everything
// else, including empty arrays and objects, is true.
func truthy(v interface{}) bool {
	switch value := v.(type) {
	case nil:
		return false
	case bool:
		return value
	case float64:
		return value != 0
	case string:
		return value != ""
	default:
		return true
	}
}
