package conditional

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wovenflow/loom/pkg/engine"
	"github.com/wovenflow/loom/pkg/graph"
)

func TestNormalizeConfig(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]interface{}
		want Config
	}{
		{
			name: "empty defaults to equals true",
			raw:  nil,
			want: Config{ConditionType: ConditionEqualTo, Value: true},
		},
		{
			name: "canonical shape",
			raw:  map[string]interface{}{"conditionType": "numberGreaterThan", "value": float64(5)},
			want: Config{ConditionType: ConditionNumberGreaterThan, Value: float64(5)},
		},
		{
			name: "legacy type key",
			raw:  map[string]interface{}{"type": "numberLessThan", "comparisonValue": float64(10)},
			want: Config{ConditionType: ConditionNumberLessThan, Value: float64(10)},
		},
		{
			name: "legacy condition key and targetValue",
			raw:  map[string]interface{}{"condition": "contains", "targetValue": "needle"},
			want: Config{ConditionType: ConditionContainsSubstring, Value: "needle"},
		},
		{
			name: "unknown type falls back to equalTo",
			raw:  map[string]interface{}{"conditionType": "whatever", "value": "x"},
			want: Config{ConditionType: ConditionEqualTo, Value: "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeConfig(tt.raw))
		})
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		input interface{}
		want  bool
	}{
		{"greater than true", Config{ConditionType: ConditionNumberGreaterThan, Value: float64(3)}, float64(5), true},
		{"greater than false", Config{ConditionType: ConditionNumberGreaterThan, Value: float64(5)}, float64(3), false},
		{"greater than numeric string input", Config{ConditionType: ConditionNumberGreaterThan, Value: "3"}, "5", true},
		{"non-numeric input fails closed", Config{ConditionType: ConditionNumberGreaterThan, Value: float64(3)}, "abc", false},
		{"non-numeric target fails closed", Config{ConditionType: ConditionNumberLessThan, Value: "abc"}, float64(1), false},
		{"less than true", Config{ConditionType: ConditionNumberLessThan, Value: float64(10)}, float64(2), true},
		{"equal strings", Config{ConditionType: ConditionEqualTo, Value: "ok"}, "ok", true},
		{"equal number vs string form", Config{ConditionType: ConditionEqualTo, Value: "5"}, float64(5), true},
		{"equal maps deep", Config{ConditionType: ConditionEqualTo, Value: map[string]interface{}{"a": float64(1)}}, map[string]interface{}{"a": float64(1)}, true},
		{"unequal maps", Config{ConditionType: ConditionEqualTo, Value: map[string]interface{}{"a": float64(1)}}, map[string]interface{}{"a": float64(2)}, false},
		{"contains true", Config{ConditionType: ConditionContainsSubstring, Value: "ell"}, "hello", true},
		{"contains false", Config{ConditionType: ConditionContainsSubstring, Value: "xyz"}, "hello", false},
		{"json path truthy", Config{ConditionType: ConditionJSONPathTruthy, Value: "user.active"}, map[string]interface{}{"user": map[string]interface{}{"active": true}}, true},
		{"json path falsy zero", Config{ConditionType: ConditionJSONPathTruthy, Value: "count"}, map[string]interface{}{"count": float64(0)}, false},
		{"json path missing", Config{ConditionType: ConditionJSONPathTruthy, Value: "user.missing"}, map[string]interface{}{"user": map[string]interface{}{}}, false},
		{"json path empty string falsy", Config{ConditionType: ConditionJSONPathTruthy, Value: "name"}, map[string]interface{}{"name": ""}, false},
		{"json path empty object truthy", Config{ConditionType: ConditionJSONPathTruthy, Value: "obj"}, map[string]interface{}{"obj": map[string]interface{}{}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evaluate(tt.cfg, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func newRun(t *testing.T, g *graph.Graph) *engine.Run {
	t.Helper()
	return engine.New(engine.NewFactory()).NewRun(g)
}

func TestExecuteResultShape(t *testing.T) {
	g := graph.New([]graph.NodeDescriptor{
		{ID: "cond", Kind: Kind, Config: map[string]interface{}{
			"conditionType": "numberGreaterThan",
			"value":         float64(3),
		}},
	}, nil)

	n := New("cond")
	result, err := n.Execute(context.Background(), newRun(t, g), float64(5))
	require.NoError(t, err)

	payload, ok := result.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(5), payload["input"])
	assert.Equal(t, "true", payload["path"])
	assert.Equal(t, true, payload["conditionResult"])
}

func TestExecuteFalsePathOnBadOperand(t *testing.T) {
	g := graph.New([]graph.NodeDescriptor{
		{ID: "cond", Kind: Kind, Config: map[string]interface{}{
			"conditionType": "numberGreaterThan",
			"value":         float64(3),
		}},
	}, nil)

	n := New("cond")
	result, err := n.Execute(context.Background(), newRun(t, g), "abc")
	require.NoError(t, err)

	payload := result.(map[string]interface{})
	assert.Equal(t, "false", payload["path"])
	assert.Equal(t, false, payload["conditionResult"])
}

func TestSelectChildrenFollowsHandle(t *testing.T) {
	g := graph.New(
		[]graph.NodeDescriptor{
			{ID: "cond", Kind: Kind},
			{ID: "yes", Kind: "output"},
			{ID: "no", Kind: "output"},
		},
		[]graph.Edge{
			{Source: "cond", Target: "yes", SourceHandle: TrueHandle},
			{Source: "cond", Target: "no", SourceHandle: FalseHandle},
		},
	)

	n := New("cond")

	children := n.SelectChildren(g, map[string]interface{}{"path": "true"})
	require.Len(t, children, 1)
	assert.Equal(t, "yes", children[0].ID)

	children = n.SelectChildren(g, map[string]interface{}{"path": "false"})
	require.Len(t, children, 1)
	assert.Equal(t, "no", children[0].ID)

	// Malformed results route through the false handle.
	children = n.SelectChildren(g, "garbage")
	require.Len(t, children, 1)
	assert.Equal(t, "no", children[0].ID)
}
