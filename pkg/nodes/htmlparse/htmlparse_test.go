package htmlparse

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/wovenflow/loom/pkg/engine"
	"github.com/wovenflow/loom/pkg/graph"
)

const samplePage = `
<html>
  <head><title>Sample</title></head>
  <body>
    <div class="card" id="main">
      <h1 class="title">First Card</h1>
      <a href="/first">read more</a>
    </div>
    <div class="card">
      <h1 class="title">Second Card</h1>
      <a href="/second">details</a>
    </div>
    <p class="intro">Welcome to the <strong>sample</strong> page.</p>
  </body>
</html>`

func newRun(t *testing.T, cfg map[string]interface{}) *engine.Run {
	t.Helper()
	g := graph.New([]graph.NodeDescriptor{{ID: "parse", Kind: Kind, Config: cfg}}, nil)
	return engine.New(engine.NewFactory()).NewRun(g)
}

func rulesConfig(rules ...map[string]interface{}) map[string]interface{} {
	list := make([]interface{}, len(rules))
	for i, r := range rules {
		list[i] = r
	}
	return map[string]interface{}{"rules": list}
}

func TestExtractFirstText(t *testing.T) {
	run := newRun(t, rulesConfig(map[string]interface{}{
		"name":     "title",
		"selector": "h1.title",
	}))

	result, err := New("parse").Execute(context.Background(), run, samplePage)
	require.NoError(t, err)

	extracted := result.(map[string]interface{})
	assert.Equal(t, "First Card", extracted["title"])
}

func TestExtractAllMatches(t *testing.T) {
	run := newRun(t, rulesConfig(map[string]interface{}{
		"name":     "titles",
		"selector": ".card h1",
		"all":      true,
	}))

	result, err := New("parse").Execute(context.Background(), run, samplePage)
	require.NoError(t, err)

	extracted := result.(map[string]interface{})
	assert.Equal(t, []interface{}{"First Card", "Second Card"}, extracted["titles"])
}

func TestExtractAttribute(t *testing.T) {
	run := newRun(t, rulesConfig(map[string]interface{}{
		"name":      "links",
		"selector":  "a",
		"extract":   "attr",
		"attribute": "href",
		"all":       true,
	}))

	result, err := New("parse").Execute(context.Background(), run, samplePage)
	require.NoError(t, err)

	extracted := result.(map[string]interface{})
	assert.Equal(t, []interface{}{"/first", "/second"}, extracted["links"])
}

func TestExtractByID(t *testing.T) {
	run := newRun(t, rulesConfig(map[string]interface{}{
		"name":     "main",
		"selector": "#main h1",
	}))

	result, err := New("parse").Execute(context.Background(), run, samplePage)
	require.NoError(t, err)
	assert.Equal(t, "First Card", result.(map[string]interface{})["main"])
}

func TestExtractHTMLAndMarkdown(t *testing.T) {
	run := newRun(t, rulesConfig(
		map[string]interface{}{"name": "raw", "selector": "p.intro", "extract": "html"},
		map[string]interface{}{"name": "md", "selector": "p.intro", "extract": "markdown"},
	))

	result, err := New("parse").Execute(context.Background(), run, samplePage)
	require.NoError(t, err)

	extracted := result.(map[string]interface{})
	assert.Contains(t, extracted["raw"].(string), "<strong>sample</strong>")
	assert.Contains(t, extracted["md"].(string), "**sample**")
}

func TestNoMatchYieldsNil(t *testing.T) {
	run := newRun(t, rulesConfig(map[string]interface{}{
		"name":     "nothing",
		"selector": ".does-not-exist",
	}))

	result, err := New("parse").Execute(context.Background(), run, samplePage)
	require.NoError(t, err)

	extracted := result.(map[string]interface{})
	require.Contains(t, extracted, "nothing")
	assert.Nil(t, extracted["nothing"])
}

func TestAcceptsCrawlerOutputMap(t *testing.T) {
	run := newRun(t, rulesConfig(map[string]interface{}{
		"name":     "title",
		"selector": "h1",
	}))

	input := map[string]interface{}{"url": "https://example.com", "html": samplePage}
	result, err := New("parse").Execute(context.Background(), run, input)
	require.NoError(t, err)
	assert.Equal(t, "First Card", result.(map[string]interface{})["title"])
}

func TestEmptyInputFails(t *testing.T) {
	run := newRun(t, rulesConfig(map[string]interface{}{"name": "x", "selector": "h1"}))

	_, err := New("parse").Execute(context.Background(), run, nil)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestConfigValidation(t *testing.T) {
	_, err := parseConfig("parse", map[string]interface{}{})
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)

	_, err = parseConfig("parse", rulesConfig(map[string]interface{}{"name": "x"}))
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Message, "selector")

	_, err = parseConfig("parse", rulesConfig(map[string]interface{}{
		"name": "x", "selector": "a", "extract": "attr",
	}))
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Message, "attribute")

	cfg, err := parseConfig("parse", rulesConfig(map[string]interface{}{"selector": "h1"}))
	require.NoError(t, err)
	assert.Equal(t, "h1", cfg.Rules[0].Name)
	assert.Equal(t, ExtractText, cfg.Rules[0].Extract)
}

func TestParseSelector(t *testing.T) {
	steps := parseSelector("div.card#main a.link")
	require.Len(t, steps, 2)

	assert.Equal(t, "div", steps[0].tag)
	assert.Equal(t, "main", steps[0].id)
	assert.Equal(t, []string{"card"}, steps[0].classes)

	assert.Equal(t, "a", steps[1].tag)
	assert.Equal(t, []string{"link"}, steps[1].classes)
}

func TestSelectAllDocumentOrder(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(samplePage))
	require.NoError(t, err)

	matches := selectAll(doc, parseSelector("h1"))
	require.Len(t, matches, 2)
	assert.Equal(t, "First Card", textContent(matches[0]))
	assert.Equal(t, "Second Card", textContent(matches[1]))
}

func TestTextContentTrimsAndConcatenates(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(samplePage))
	require.NoError(t, err)

	matches := selectAll(doc, parseSelector("p.intro"))
	require.Len(t, matches, 1)
	assert.Equal(t, "Welcome to the sample page.", textContent(matches[0]))
}
