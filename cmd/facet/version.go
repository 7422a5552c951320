package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fusion-tools/facet/pkg/facet"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the facet version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("facet v%s\n", facet.Version)
	},
}
