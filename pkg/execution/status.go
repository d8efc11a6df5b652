package execution

// Status is the lifecycle state of a node within one run.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusSkipped Status = "skipped"
)

// NodeState is the per-node status snapshot exposed for read-back by
// observers (a UI, the CLI). The engine itself only reads it back for
// conditional/group bookkeeping.
type NodeState struct {
	Status Status      `json:"status"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}
