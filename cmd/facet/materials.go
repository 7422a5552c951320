package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var materialsCmd = &cobra.Command{
	Use:   "materials",
	Short: "List material groups and their member volumes",
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := openStore()
		if err != nil {
			return err
		}
		defer backend.Detach()

		groups, err := backend.ListMaterials()
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(groups)
		}
		if len(groups) == 0 {
			fmt.Println("No material groups")
			return nil
		}
		fmt.Printf("%-24s %s\n", "GROUP", "VOLUMES")
		for _, g := range groups {
			fmt.Printf("%-24s %d\n", g.Name, len(g.VolumeIDs))
		}
		return nil
	},
}
