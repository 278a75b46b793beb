// Package backend selects and constructs the transaction store.
package backend

import (
	"context"

	"budget/internal/ledger"
)

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// BackendResult is a constructed store plus its cleanup hook.
type BackendResult struct {
	Store   ledger.Store
	Cleanup CleanupFunc
}

// Close runs Cleanup when set.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation.
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Memory specific
	DataDirectory string
}

// BackendType names a store implementation.
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

// Shared reports whether separate processes opening the same configuration
// see the same transactions. The memory store lives inside one process.
func (bt BackendType) Shared() bool {
	return bt == SQLiteBackend
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
