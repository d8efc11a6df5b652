// Package execution holds the run-scoped shared state of one triggered
// workflow run: per-node status, accumulated outputs, logs, iteration
// metadata and the traversal dedup set.
//
// Branches of a run execute on separate goroutines, so every mutation goes
// through the context mutex. No method blocks or retries; these are
// synchronous bookkeeping calls made from within node execution.
package execution

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Iteration carries the metadata of one foreach iteration when the context
// represents a single iteration of an item collection.
type Iteration struct {
	Index int         `json:"index"`
	Total int         `json:"total"`
	Item  interface{} `json:"item"`
}

// LogEntry is one human-readable log line recorded during the run.
type LogEntry struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

// Context is the run-scoped mutable state shared by all nodes in one run.
// One instance exists per triggered run, plus one per foreach iteration.
// It is created at trigger time and discarded after the run completes.
type Context struct {
	runID         string
	triggerNodeID string
	iteration     *Iteration
	logger        *zap.Logger

	mu       sync.Mutex
	outputs  map[string][]interface{}
	states   map[string]*NodeState
	logs     []LogEntry
	executed map[string]struct{}
}

// NewContext creates a fresh context for a triggered run. A nil logger is
// replaced with a no-op logger.
func NewContext(triggerNodeID string, logger *zap.Logger) *Context {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Context{
		runID:         uuid.NewString(),
		triggerNodeID: triggerNodeID,
		logger:        logger,
		outputs:       make(map[string][]interface{}),
		states:        make(map[string]*NodeState),
		executed:      make(map[string]struct{}),
	}
}

// RunID returns the unique id of this run. Iteration contexts share the run
// id of the context they were derived from.
func (c *Context) RunID() string { return c.runID }

// TriggerNodeID returns the node id the run was triggered from, or the empty
// string when the run started from all roots.
func (c *Context) TriggerNodeID() string { return c.triggerNodeID }

// Iteration returns the iteration metadata, or nil when this context does not
// represent a foreach iteration.
func (c *Context) Iteration() *Iteration { return c.iteration }

// Logger returns the structured logger bound to this run.
func (c *Context) Logger() *zap.Logger { return c.logger }

// IterationContext derives a fresh context for one foreach iteration. The run
// id, trigger node id and logger are shared; statuses, outputs, logs and the
// dedup set start empty so each iteration is isolated.
func (c *Context) IterationContext(index, total int, item interface{}) *Context {
	return &Context{
		runID:         c.runID,
		triggerNodeID: c.triggerNodeID,
		iteration:     &Iteration{Index: index, Total: total, Item: item},
		logger:        c.logger,
		outputs:       make(map[string][]interface{}),
		states:        make(map[string]*NodeState),
		executed:      make(map[string]struct{}),
	}
}

func (c *Context) state(id string) *NodeState {
	st, ok := c.states[id]
	if !ok {
		st = &NodeState{Status: StatusIdle}
		c.states[id] = st
	}
	return st
}

// MarkRunning transitions the node to the running state.
func (c *Context) MarkRunning(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.state(id)
	st.Status = StatusRunning
	st.Error = ""
}

// MarkSuccess transitions the node to the success state with the given
// display result.
func (c *Context) MarkSuccess(id string, result interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.state(id)
	st.Status = StatusSuccess
	st.Result = result
	st.Error = ""
}

// MarkError transitions the node to the error state with the failure message.
func (c *Context) MarkError(id, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.state(id)
	st.Status = StatusError
	st.Error = message
}

// MarkSkipped transitions the node to the skipped state.
func (c *Context) MarkSkipped(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state(id).Status = StatusSkipped
}

// StoreOutput appends a value to the node's output list and marks the node
// successful with that value. A node may emit more than once across a run;
// the list is append-only.
func (c *Context) StoreOutput(id string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outputs[id] = append(c.outputs[id], value)
	st := c.state(id)
	st.Status = StatusSuccess
	st.Result = value
	st.Error = ""
}

// Output returns a copy of the accumulated output list for the node. The list
// is empty, never nil, when the node has not emitted.
func (c *Context) Output(id string) []interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]interface{}, len(c.outputs[id]))
	copy(out, c.outputs[id])
	return out
}

// State returns a snapshot of the node's state. Unknown nodes report idle.
func (c *Context) State(id string) NodeState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st, ok := c.states[id]; ok {
		return *st
	}
	return NodeState{Status: StatusIdle}
}

// States returns a snapshot of every node state recorded so far.
func (c *Context) States() map[string]NodeState {
	c.mu.Lock()
	defer c.mu.Unlock()
	states := make(map[string]NodeState, len(c.states))
	for id, st := range c.states {
		states[id] = *st
	}
	return states
}

// MarkNodeExecuted records the node id in the traversal dedup set.
func (c *Context) MarkNodeExecuted(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.executed[id] = struct{}{}
}

// HasExecutedNode reports whether the node id is in the traversal dedup set.
func (c *Context) HasExecutedNode(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.executed[id]
	return ok
}

// TryMarkNodeExecuted records the node id in the traversal dedup set and
// reports whether this call was the one that added it. Check and mark happen
// under one lock acquisition, so concurrent branches converging on the same
// node get exactly one true.
func (c *Context) TryMarkNodeExecuted(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.executed[id]; ok {
		return false
	}
	c.executed[id] = struct{}{}
	return true
}

// Log records a run log entry and mirrors it to the structured logger.
func (c *Context) Log(message string) {
	c.mu.Lock()
	c.logs = append(c.logs, LogEntry{Time: time.Now(), Message: message})
	c.mu.Unlock()
	c.logger.Debug(message, zap.String("runId", c.runID))
}

// Logf records a formatted run log entry.
func (c *Context) Logf(format string, args ...interface{}) {
	c.Log(fmt.Sprintf(format, args...))
}

// Logs returns a copy of the recorded log entries.
func (c *Context) Logs() []LogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	logs := make([]LogEntry, len(c.logs))
	copy(logs, c.logs)
	return logs
}
