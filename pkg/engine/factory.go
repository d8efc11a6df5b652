package engine

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/wovenflow/loom/pkg/config"
	"github.com/wovenflow/loom/pkg/graph"
)

// Deps are the collaborators handed to node constructors.
type Deps struct {
	// Logger is the engine's structured logger.
	Logger *zap.Logger
	// Config is the configuration lookup collaborator. May be nil; nodes then
	// only see their descriptor config.
	Config config.Store
}

// Constructor builds a node instance bound to a descriptor.
type Constructor func(desc graph.NodeDescriptor, deps Deps) (Node, error)

// Factory maps type tags to constructors. Unknown tags fall back to a
// passthrough node that warns and forwards its input unchanged, so a run
// never halts solely because of an unrecognized node type.
type Factory struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
}

// NewFactory creates an empty factory.
func NewFactory() *Factory {
	return &Factory{constructors: make(map[string]Constructor)}
}

// Register registers a constructor for a type tag, replacing any previous
// registration.
func (f *Factory) Register(kind string, ctor Constructor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.constructors[kind] = ctor
}

// HasConstructor reports whether a constructor is registered for the tag.
func (f *Factory) HasConstructor(kind string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.constructors[kind]
	return ok
}

// Kinds returns all registered type tags.
func (f *Factory) Kinds() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	kinds := make([]string, 0, len(f.constructors))
	for k := range f.constructors {
		kinds = append(kinds, k)
	}
	return kinds
}

// Create instantiates a node for the descriptor. An unregistered type tag
// yields a passthrough node rather than an error.
func (f *Factory) Create(desc graph.NodeDescriptor, deps Deps) (Node, error) {
	f.mu.RLock()
	ctor, ok := f.constructors[desc.Kind]
	f.mu.RUnlock()

	if !ok {
		if deps.Logger != nil {
			deps.Logger.Warn("unknown node type, using passthrough",
				zap.String("nodeId", desc.ID),
				zap.String("type", desc.Kind))
		}
		return newPassthrough(desc), nil
	}

	node, err := ctor(desc, deps)
	if err != nil {
		return nil, fmt.Errorf("create node %s (%s): %w", desc.ID, desc.Kind, err)
	}
	return node, nil
}
