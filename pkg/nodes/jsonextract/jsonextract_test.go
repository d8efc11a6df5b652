package jsonextract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wovenflow/loom/pkg/engine"
	"github.com/wovenflow/loom/pkg/graph"
)

func newRun(t *testing.T, cfg map[string]interface{}) *engine.Run {
	t.Helper()
	g := graph.New([]graph.NodeDescriptor{{ID: "ex", Kind: Kind, Config: cfg}}, nil)
	return engine.New(engine.NewFactory()).NewRun(g)
}

func TestExtractNestedValue(t *testing.T) {
	run := newRun(t, map[string]interface{}{"path": "user.address.city"})

	input := map[string]interface{}{
		"user": map[string]interface{}{
			"address": map[string]interface{}{"city": "Lisbon"},
		},
	}

	result, err := New("ex").Execute(context.Background(), run, input)
	require.NoError(t, err)
	assert.Equal(t, "Lisbon", result)
}

func TestExtractArrayIndex(t *testing.T) {
	run := newRun(t, map[string]interface{}{"path": "items.1.name"})

	input := map[string]interface{}{
		"items": []interface{}{
			map[string]interface{}{"name": "first"},
			map[string]interface{}{"name": "second"},
		},
	}

	result, err := New("ex").Execute(context.Background(), run, input)
	require.NoError(t, err)
	assert.Equal(t, "second", result)
}

func TestMissingPathEmitsDefault(t *testing.T) {
	run := newRun(t, map[string]interface{}{
		"path":    "missing.field",
		"default": "fallback",
	})

	result, err := New("ex").Execute(context.Background(), run, map[string]interface{}{"other": 1})
	require.NoError(t, err)
	assert.Equal(t, "fallback", result)
}

func TestMissingPathWithoutDefaultEndsBranch(t *testing.T) {
	run := newRun(t, map[string]interface{}{"path": "missing.field"})

	result, err := New("ex").Execute(context.Background(), run, map[string]interface{}{"other": 1})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestNullValueIsDistinctFromMiss(t *testing.T) {
	run := newRun(t, map[string]interface{}{
		"path":    "field",
		"default": "fallback",
	})

	// The path resolves to an explicit null, which is not a miss.
	result, err := New("ex").Execute(context.Background(), run, map[string]interface{}{"field": nil})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestPathRequired(t *testing.T) {
	run := newRun(t, map[string]interface{}{"default": "x"})

	_, err := New("ex").Execute(context.Background(), run, nil)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "path", cfgErr.Field)
}

func TestExtractFromStringInput(t *testing.T) {
	run := newRun(t, map[string]interface{}{"path": "@this"})

	result, err := New("ex").Execute(context.Background(), run, "bare")
	require.NoError(t, err)
	assert.Equal(t, "bare", result)
}
