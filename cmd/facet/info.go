package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show geometry database contents",
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := openStore()
		if err != nil {
			return err
		}
		defer backend.Detach()

		summary, err := backend.Summary()
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(summary)
		}
		fmt.Printf("Volumes:         %d\n", summary.Volumes)
		fmt.Printf("Surfaces:        %d (%d shared)\n", summary.Surfaces, summary.SharedSurfaces)
		fmt.Printf("Triangles:       %d\n", summary.Triangles)
		fmt.Printf("Vertices:        %d\n", summary.Vertices)
		fmt.Printf("Faceting tol:    %g\n", summary.FacetingTol)
		return nil
	},
}
