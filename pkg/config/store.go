// Package config provides the configuration lookup collaborator. Nodes fetch
// their current configuration at the start of every execution, keyed by node
// id, so edits made between runs take effect without re-instantiating the
// graph.
package config

import "sync"

// Store is the read contract of the external configuration store. The engine
// consults it on every node execution; when it has no entry for a node the
// descriptor's inline config is used instead.
type Store interface {
	Get(nodeID string) (map[string]interface{}, bool)
}

// MemoryStore is an in-memory Store implementation, safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]map[string]interface{}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]map[string]interface{})}
}

// Get returns the configuration for a node id.
func (s *MemoryStore) Get(nodeID string) (map[string]interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.entries[nodeID]
	return cfg, ok
}

// Set stores the configuration for a node id, replacing any previous value.
func (s *MemoryStore) Set(nodeID string, cfg map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[nodeID] = cfg
}

// Delete removes the configuration for a node id.
func (s *MemoryStore) Delete(nodeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, nodeID)
}

var _ Store = (*MemoryStore)(nil)
