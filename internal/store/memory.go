package store

import (
	"sync"
	"time"

	"nickandperla.net/impel/internal/ast"
)

// Memory is an in-memory store for testing.
type Memory struct {
	mu       sync.RWMutex
	programs map[string]string
	history  map[string][]VersionEntry
	metadata map[string]string
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{
		programs: make(map[string]string),
		history:  make(map[string][]VersionEntry),
		metadata: make(map[string]string),
	}
}

// Get retrieves a program by name.
func (m *Memory) Get(name string) (ast.Node, error) {
	m.mu.RLock()
	source, ok := m.programs[name]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return ast.Unmarshal([]byte(source))
}

// Put stores a program by name. Identical payloads are deduplicated.
func (m *Memory) Put(name string, program ast.Node) error {
	data, err := ast.Marshal(program)
	if err != nil {
		return err
	}
	source := string(data)

	m.mu.Lock()
	defer m.mu.Unlock()
	if current, ok := m.programs[name]; ok && current == source {
		return nil
	}
	m.programs[name] = source
	m.history[name] = append(m.history[name], VersionEntry{
		Version: len(m.history[name]) + 1,
		Source:  source,
		Ts:      time.Now().UTC().Format(time.RFC3339),
	})
	return nil
}

// Delete removes a program and its history by name.
func (m *Memory) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.programs, name)
	delete(m.history, name)
	return nil
}

// Close is a no-op for memory store.
func (m *Memory) Close() error {
	return nil
}

// GetHistory returns revisions newest-first; limit 0 means all.
func (m *Memory) GetHistory(name string, limit int) ([]VersionEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := m.history[name]
	if entries == nil {
		return nil, nil
	}
	out := make([]VersionEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		out = append(out, entries[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// GetMetadata retrieves a metadata value by key.
func (m *Memory) GetMetadata(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.metadata[key], nil
}

// SetMetadata stores a metadata value by key.
func (m *Memory) SetMetadata(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metadata[key] = value
	return nil
}
