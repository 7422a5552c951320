// Package sqlite provides the public API for the SQLite geometry
// database backend, keeping implementation details internal.
package sqlite

import (
	"github.com/fusion-tools/facet/internal/sqlite"
	"github.com/fusion-tools/facet/pkg/types"
)

// NewBackend creates a new SQLite backend instance. The backend is not
// attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend()
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".facet-db",
//	})
//	defer backend.Detach()
func NewBackend() types.Store {
	return sqlite.NewBackend()
}
