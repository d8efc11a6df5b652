package engine

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/wovenflow/loom/pkg/execution"
	"github.com/wovenflow/loom/pkg/graph"
)

// Run binds one ExecutionContext to a graph scope. Group nodes derive scoped
// runs restricted to their subgraph; input nodes derive iteration runs with a
// fresh per-iteration context.
type Run struct {
	engine *Engine
	// graph is the resolution scope: the full graph, or a group's partition.
	graph *graph.Graph
	// full is always the whole graph; group partitioning starts from it so
	// nested groups can find their own members.
	full *graph.Graph
	ec   *execution.Context
	// dedup makes Process consult the context's executed set before entering
	// a node. Group traversals enable it to survive diamond shapes.
	dedup bool
}

// Context returns the execution context of this run.
func (r *Run) Context() *execution.Context { return r.ec }

// Graph returns the resolution scope of this run.
func (r *Run) Graph() *graph.Graph { return r.graph }

// FullGraph returns the whole graph regardless of scope.
func (r *Run) FullGraph() *graph.Graph { return r.full }

// Logger returns the engine logger.
func (r *Run) Logger() *zap.Logger { return r.engine.logger }

// Config returns the node's current configuration: the config store entry
// when one exists, otherwise the descriptor's inline config. It is consulted
// on every execution, never cached at construction, so edits between runs
// take effect immediately.
func (r *Run) Config(nodeID string) map[string]interface{} {
	if r.engine.deps.Config != nil {
		if cfg, ok := r.engine.deps.Config.Get(nodeID); ok {
			return cfg
		}
	}
	if desc, ok := r.full.Node(nodeID); ok {
		return desc.Config
	}
	return nil
}

// Iteration derives a run for one foreach iteration: same engine and scope,
// fresh context carrying the iteration metadata.
func (r *Run) Iteration(index, total int, item interface{}) *Run {
	return &Run{
		engine: r.engine,
		graph:  r.graph,
		full:   r.full,
		ec:     r.ec.IterationContext(index, total, item),
	}
}

// Scoped derives a run restricted to a subgraph, sharing this run's context.
// Traversal dedup is enabled so a node reachable over two internal paths
// executes once.
func (r *Run) Scoped(sub *graph.Graph) *Run {
	return &Run{
		engine: r.engine,
		graph:  sub,
		full:   r.full,
		ec:     r.ec,
		dedup:  true,
	}
}

// Process drives one node through the base lifecycle: mark running, execute,
// store the output, resolve children against the current scope and invoke
// them concurrently with the output, returning once all of them returned.
//
// A nil result ends the branch without touching children. An execution error
// marks this node failed and ends the branch; it never propagates outward, so
// sibling branches are unaffected. Absence of children is not an error.
func (r *Run) Process(ctx context.Context, desc graph.NodeDescriptor, input interface{}) {
	if r.ec == nil {
		r.engine.logger.Error("process called without execution context",
			zap.String("nodeId", desc.ID))
		return
	}

	if r.dedup && !r.ec.TryMarkNodeExecuted(desc.ID) {
		return
	}

	node, err := r.engine.instance(desc)
	if err != nil {
		r.ec.MarkError(desc.ID, err.Error())
		r.engine.logger.Error("node creation failed",
			zap.String("nodeId", desc.ID),
			zap.String("type", desc.Kind),
			zap.Error(err))
		return
	}

	ctx, span := r.engine.tracer.Start(ctx, "node.process",
		trace.WithAttributes(
			attribute.String("node.id", desc.ID),
			attribute.String("node.type", desc.Kind),
		))
	defer span.End()

	r.ec.MarkRunning(desc.ID)
	r.engine.metrics.recordStart(desc.Kind)
	start := time.Now()

	result, err := node.Execute(ctx, r, input)
	r.engine.metrics.recordDuration(desc.Kind, time.Since(start))

	if err != nil {
		r.ec.MarkError(desc.ID, err.Error())
		r.engine.metrics.recordFailure(desc.Kind)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.engine.logger.Warn("node failed",
			zap.String("runId", r.ec.RunID()),
			zap.String("nodeId", desc.ID),
			zap.String("type", desc.Kind),
			zap.Error(err))
		return
	}

	span.SetStatus(codes.Ok, "")

	if result == nil {
		// Stop sentinel: the branch ends here by the node's choice.
		r.ec.MarkSuccess(desc.ID, nil)
		return
	}

	var propagated interface{}
	if coll, ok := result.(Collection); ok {
		items := []interface{}(coll)
		for _, item := range items {
			r.ec.StoreOutput(desc.ID, item)
		}
		r.ec.MarkSuccess(desc.ID, items)
		propagated = items
	} else {
		r.ec.StoreOutput(desc.ID, result)
		propagated = result
	}

	children := r.children(node, result)
	if len(children) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, child := range children {
		wg.Add(1)
		go func(childDesc graph.NodeDescriptor) {
			defer wg.Done()
			r.Process(ctx, childDesc, propagated)
		}(child)
	}
	wg.Wait()
}

func (r *Run) children(node Node, result interface{}) []graph.NodeDescriptor {
	if selector, ok := node.(ChildSelector); ok {
		return selector.SelectChildren(r.graph, result)
	}
	return r.graph.Children(node.ID())
}
