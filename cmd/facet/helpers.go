// Shared helpers for facet subcommands.
package main

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/fusion-tools/facet/internal/sqlite"
	"github.com/fusion-tools/facet/pkg/types"
)

// errCheckFailed marks a verification command that found defects. The
// report has already been printed when this is returned.
var errCheckFailed = errors.New("check failed")

// storeConfig builds the backend configuration from the resolved data dir.
func storeConfig() (types.Config, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return types.Config{}, err
	}
	return types.Config{
		Backend:     types.BackendSQLite,
		DataDir:     dataDir,
		FacetingTol: configFacetingTol,
	}, nil
}

// openStore attaches to an existing geometry database for reading.
// The caller must Detach.
func openStore() (*sqlite.Backend, error) {
	cfg, err := storeConfig()
	if err != nil {
		return nil, err
	}
	backend := sqlite.NewBackend()
	if err := backend.AttachExisting(cfg); err != nil {
		return nil, err
	}
	return backend, nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// boolMark renders a boolean as a fixed-width yes/no column.
func boolMark(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
