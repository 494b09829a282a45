// Package store persists named impel programs as serialized syntax trees.
package store

import "nickandperla.net/impel/internal/ast"

// Store is the interface for program persistence.
type Store interface {
	// Get retrieves a program by name. Returns nil if not found.
	Get(name string) (ast.Node, error)
	// Put stores a program by name, overwriting if it exists. Writing a
	// payload identical to the current one is a no-op.
	Put(name string, program ast.Node) error
	// Delete removes a program and its history by name.
	Delete(name string) error
	// Close releases resources.
	Close() error
}

// VersionEntry is a single revision of a persisted program.
type VersionEntry struct {
	Version int
	Source  string // serialized tree as stored
	Ts      string
}

// HistoryStore extends Store with revision history queries.
type HistoryStore interface {
	Store
	// GetHistory returns revisions newest-first; limit 0 means all.
	GetHistory(name string, limit int) ([]VersionEntry, error)
}

// MetadataStore extends Store with metadata operations.
type MetadataStore interface {
	Store
	GetMetadata(key string) (string, error)
	SetMetadata(key, value string) error
}
