package store

import (
	"context"
	"fmt"
)

// Backend selects a KV implementation
type Backend string

// Supported backends
const (
	BackendMemory   Backend = "memory"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// Open returns the KV for backend. dsn is the SQLite path or the Postgres URL
// and is ignored for memory.
func Open(ctx context.Context, backend Backend, dsn string) (KV, error) {
	switch backend {
	case BackendMemory, "":
		return NewMemory(), nil
	case BackendSQLite:
		return OpenSQLite(dsn)
	case BackendPostgres:
		return ConnectPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
