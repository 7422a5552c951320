// Package main provides the facet CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fusion-tools/facet/internal/mesh"
	"github.com/fusion-tools/facet/pkg/types"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// dataErrors are failures caused by the input geometry or by the caller,
// as opposed to system failures.
var dataErrors = []error{
	errCheckFailed,
	mesh.ErrFormat,
	mesh.ErrUnsupported,
	types.ErrNonManifold,
	types.ErrNonOrientable,
	types.ErrNotWatertight,
	types.ErrInconsistentSense,
	types.ErrSurfaceOverused,
	types.ErrDegenerateVolume,
	types.ErrMaterialCount,
	types.ErrMaterialEmpty,
	types.ErrEmptyStore,
}

func exitCode(err error) int {
	for _, target := range dataErrors {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	return exitSysError
}
