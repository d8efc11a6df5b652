package engine

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/wovenflow/loom/pkg/config"
	"github.com/wovenflow/loom/pkg/execution"
	"github.com/wovenflow/loom/pkg/graph"
)

// Engine executes workflow graphs. It owns the node factory, the per-node
// instance cache and the observability plumbing. One engine can execute many
// runs, sequentially or concurrently; each run gets its own ExecutionContext.
//
// Node instances are cached per node id so instance-lifetime state (a
// merger's accumulator, an input node's item collections) survives repeated
// arrivals and foreach iterations. Configuration is still fetched fresh from
// the config store on every execution. Changing a node's type tag between
// runs recreates the instance.
type Engine struct {
	factory *Factory
	deps    Deps
	logger  *zap.Logger
	tracer  trace.Tracer
	metrics *Metrics

	mu        sync.Mutex
	instances map[string]Node
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger for the engine and its runs.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithConfigStore sets the configuration lookup collaborator.
func WithConfigStore(store config.Store) Option {
	return func(e *Engine) { e.deps.Config = store }
}

// WithMetrics enables prometheus metrics on the engine.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// New creates an engine around a node factory.
func New(factory *Factory, opts ...Option) *Engine {
	e := &Engine{
		factory:   factory,
		logger:    zap.NewNop(),
		tracer:    otel.Tracer("loom/engine"),
		instances: make(map[string]Node),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.deps.Logger = e.logger
	return e
}

// NewRun builds a run over the graph without executing anything. Execute uses
// it internally; it is also the entry point for custom drivers and tests that
// invoke single nodes.
func (e *Engine) NewRun(g *graph.Graph) *Run {
	return &Run{
		engine: e,
		graph:  g,
		full:   g,
		ec:     execution.NewContext("", e.logger),
	}
}

// Execute runs the graph from the trigger node, or from all roots when
// triggerNodeID is empty. Root branches run concurrently; Execute returns
// once every branch has finished. Node-level failures never surface here:
// they are recorded on the returned ExecutionContext, which exposes per-node
// {status, result, error} for read-back. The only error conditions are an
// unknown trigger id and a nil graph.
func (e *Engine) Execute(ctx context.Context, g *graph.Graph, triggerNodeID string) (*execution.Context, error) {
	if g == nil {
		return nil, fmt.Errorf("graph is nil")
	}

	var roots []graph.NodeDescriptor
	if triggerNodeID != "" {
		desc, ok := g.Node(triggerNodeID)
		if !ok {
			return nil, fmt.Errorf("trigger node %q not found", triggerNodeID)
		}
		roots = []graph.NodeDescriptor{desc}
	} else {
		roots = g.Roots()
	}

	ec := execution.NewContext(triggerNodeID, e.logger)
	run := &Run{engine: e, graph: g, full: g, ec: ec}

	ctx, span := e.tracer.Start(ctx, "engine.Execute",
		trace.WithAttributes(
			attribute.String("run.id", ec.RunID()),
			attribute.String("run.trigger", triggerNodeID),
			attribute.Int("run.roots", len(roots)),
		))
	defer span.End()

	e.metrics.recordRun()
	e.logger.Info("run started",
		zap.String("runId", ec.RunID()),
		zap.String("trigger", triggerNodeID),
		zap.Int("roots", len(roots)))

	var wg sync.WaitGroup
	for _, root := range roots {
		wg.Add(1)
		go func(desc graph.NodeDescriptor) {
			defer wg.Done()
			run.Process(ctx, desc, nil)
		}(root)
	}
	wg.Wait()

	e.logger.Info("run finished", zap.String("runId", ec.RunID()))
	return ec, nil
}

// instance returns the cached node for the descriptor, creating it on first
// use or when the descriptor's type tag changed.
func (e *Engine) instance(desc graph.NodeDescriptor) (Node, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if node, ok := e.instances[desc.ID]; ok && node.Kind() == desc.Kind {
		return node, nil
	}
	node, err := e.factory.Create(desc, e.deps)
	if err != nil {
		return nil, err
	}
	e.instances[desc.ID] = node
	return node, nil
}
