package backend

import (
	"context"

	"bookyear/internal/records"
)

// CleanupFunc releases resources held by an opened store.
type CleanupFunc func() error

// Result contains the opened record store and an optional cleanup function
type Result struct {
	Store   records.Store
	Cleanup CleanupFunc
}

// Close runs the cleanup function if there is one.
func (r *Result) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory opens record stores based on configuration
type Factory interface {
	Open(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for store creation
type Config struct {
	Type Type

	// Memory specific; empty means the embedded sample year
	DataFile string

	// SQLite specific
	SQLiteDBPath string
}

// Type names a record store implementation
type Type string

const (
	MemoryBackend Type = "memory"
	SQLiteBackend Type = "sqlite"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is known
func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}
