// Package all registers every built-in node kind on an engine factory.
package all

import (
	"github.com/wovenflow/loom/pkg/engine"
	"github.com/wovenflow/loom/pkg/graph"
	"github.com/wovenflow/loom/pkg/nodes/apicall"
	"github.com/wovenflow/loom/pkg/nodes/conditional"
	"github.com/wovenflow/loom/pkg/nodes/group"
	"github.com/wovenflow/loom/pkg/nodes/htmlparse"
	"github.com/wovenflow/loom/pkg/nodes/input"
	"github.com/wovenflow/loom/pkg/nodes/jsonextract"
	"github.com/wovenflow/loom/pkg/nodes/llm"
	"github.com/wovenflow/loom/pkg/nodes/merger"
	"github.com/wovenflow/loom/pkg/nodes/output"
	"github.com/wovenflow/loom/pkg/nodes/webcrawler"
)

// Collaborators are the external services the leaf nodes delegate to. Nil
// fields fall back to the package defaults (plain net/http for HTTP and
// crawling); an LLM node without a client fails its branch with a config
// error when reached.
type Collaborators struct {
	HTTP    apicall.Doer
	LLM     llm.Client
	Crawler webcrawler.Backend
}

// Register wires every built-in node kind into the factory.
func Register(f *engine.Factory, collab Collaborators) {
	f.Register(input.Kind, func(desc graph.NodeDescriptor, deps engine.Deps) (engine.Node, error) {
		return input.New(desc.ID), nil
	})
	f.Register(output.Kind, func(desc graph.NodeDescriptor, deps engine.Deps) (engine.Node, error) {
		return output.New(desc.ID), nil
	})
	f.Register(conditional.Kind, func(desc graph.NodeDescriptor, deps engine.Deps) (engine.Node, error) {
		return conditional.New(desc.ID), nil
	})
	f.Register(group.Kind, func(desc graph.NodeDescriptor, deps engine.Deps) (engine.Node, error) {
		return group.New(desc.ID), nil
	})
	f.Register(merger.Kind, func(desc graph.NodeDescriptor, deps engine.Deps) (engine.Node, error) {
		return merger.New(desc.ID), nil
	})
	f.Register(jsonextract.Kind, func(desc graph.NodeDescriptor, deps engine.Deps) (engine.Node, error) {
		return jsonextract.New(desc.ID), nil
	})
	f.Register(apicall.Kind, func(desc graph.NodeDescriptor, deps engine.Deps) (engine.Node, error) {
		return apicall.New(desc.ID, collab.HTTP), nil
	})
	f.Register(llm.Kind, func(desc graph.NodeDescriptor, deps engine.Deps) (engine.Node, error) {
		return llm.New(desc.ID, collab.LLM), nil
	})
	f.Register(webcrawler.Kind, func(desc graph.NodeDescriptor, deps engine.Deps) (engine.Node, error) {
		return webcrawler.New(desc.ID, collab.Crawler), nil
	})
	f.Register(htmlparse.Kind, func(desc graph.NodeDescriptor, deps engine.Deps) (engine.Node, error) {
		return htmlparse.New(desc.ID), nil
	})
}
