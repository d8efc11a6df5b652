package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wovenflow/loom/pkg/engine"
	"github.com/wovenflow/loom/pkg/graph"
)

type fakeClient struct {
	lastReq  Request
	response string
	err      error
}

func (c *fakeClient) Complete(_ context.Context, req Request) (string, error) {
	c.lastReq = req
	return c.response, c.err
}

func newRun(t *testing.T, cfg map[string]interface{}) *engine.Run {
	t.Helper()
	g := graph.New([]graph.NodeDescriptor{{ID: "llm", Kind: Kind, Config: cfg}}, nil)
	return engine.New(engine.NewFactory()).NewRun(g)
}

func TestAssemblePrompt(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		input  interface{}
		want   string
	}{
		{"placeholder substitution", "Summarize: {{input}}", "some text", "Summarize: some text"},
		{"no placeholder keeps prompt", "Fixed prompt", "ignored", "Fixed prompt"},
		{"empty prompt uses input", "", "raw input", "raw input"},
		{"structured input rendered as JSON", "Data: {{input}}", map[string]interface{}{"k": "v"}, `Data: {"k":"v"}`},
		{"nil input renders empty", "Ask {{input}} now", nil, "Ask  now"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, assemblePrompt(tt.prompt, tt.input))
		})
	}
}

func TestParseConfigValidation(t *testing.T) {
	_, err := parseConfig("llm", map[string]interface{}{"model": "m"})
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "provider", cfgErr.Field)

	_, err = parseConfig("llm", map[string]interface{}{"provider": "p"})
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "model", cfgErr.Field)

	cfg, err := parseConfig("llm", map[string]interface{}{"provider": "p", "model": "m"})
	require.NoError(t, err)
	assert.Equal(t, ResponseFormatText, cfg.ResponseFormat)
}

func TestExecutePassesRequestThrough(t *testing.T) {
	client := &fakeClient{response: "the answer"}
	run := newRun(t, map[string]interface{}{
		"provider":    "openai",
		"model":       "gpt-4o",
		"prompt":      "Answer: {{input}}",
		"temperature": 0.2,
		"images":      []interface{}{"https://example.com/a.png"},
	})

	result, err := New("llm", client).Execute(context.Background(), run, "a question")
	require.NoError(t, err)

	assert.Equal(t, "the answer", result)
	assert.Equal(t, "openai", client.lastReq.Provider)
	assert.Equal(t, "gpt-4o", client.lastReq.Model)
	assert.Equal(t, "Answer: a question", client.lastReq.Prompt)
	assert.Equal(t, 0.2, client.lastReq.Temperature)
	assert.Equal(t, []string{"https://example.com/a.png"}, client.lastReq.Images)
}

func TestExecuteJSONFormatRepairsResponse(t *testing.T) {
	// Fenced, single-quoted, trailing-comma output typical of providers.
	client := &fakeClient{response: "```json\n{'name': 'x', 'tags': ['a', 'b'],}\n```"}
	run := newRun(t, map[string]interface{}{
		"provider":       "openai",
		"model":          "gpt-4o",
		"prompt":         "p",
		"responseFormat": "json",
	})

	result, err := New("llm", client).Execute(context.Background(), run, nil)
	require.NoError(t, err)

	payload, ok := result.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "x", payload["name"])
	assert.Equal(t, []interface{}{"a", "b"}, payload["tags"])
}

func TestExecuteNilClientFails(t *testing.T) {
	run := newRun(t, map[string]interface{}{"provider": "p", "model": "m", "prompt": "p"})

	_, err := New("llm", nil).Execute(context.Background(), run, nil)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "client", cfgErr.Field)
}

func TestExecuteEmptyPromptFails(t *testing.T) {
	run := newRun(t, map[string]interface{}{"provider": "p", "model": "m"})

	_, err := New("llm", &fakeClient{}).Execute(context.Background(), run, nil)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "prompt", cfgErr.Field)
}

func TestExecuteWrapsProviderErrors(t *testing.T) {
	cause := errors.New("rate limited")
	client := &fakeClient{err: cause}
	run := newRun(t, map[string]interface{}{"provider": "p", "model": "m", "prompt": "p"})

	_, err := New("llm", client).Execute(context.Background(), run, nil)
	var compErr *CompletionError
	require.ErrorAs(t, err, &compErr)
	assert.Equal(t, "p", compErr.Provider)
	assert.ErrorIs(t, err, cause)
}
