package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fusion-tools/facet/internal/topology"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify a composed geometry database",
}

var checkWatertightCmd = &cobra.Command{
	Use:   "watertight",
	Short: "Verify that every volume shell is closed",
	RunE:  runCheckWatertight,
}

var checkOverlapsCmd = &cobra.Command{
	Use:   "overlaps",
	Short: "Detect interpenetrating volume pairs",
	RunE:  runCheckOverlaps,
}

func init() {
	checkCmd.AddCommand(checkWatertightCmd)
	checkCmd.AddCommand(checkOverlapsCmd)
}

func runCheckWatertight(cmd *cobra.Command, args []string) error {
	backend, err := openStore()
	if err != nil {
		return err
	}
	defer backend.Detach()

	m, err := backend.LoadModel()
	if err != nil {
		return err
	}
	reports, err := topology.CheckWatertight(m)
	if err != nil {
		return err
	}

	if flagJSON {
		if err := printJSON(reports); err != nil {
			return err
		}
	} else {
		printReports(reports)
	}

	leaking := 0
	for _, r := range reports {
		if !r.Watertight {
			leaking++
		}
	}
	if leaking > 0 {
		return fmt.Errorf("%d of %d volumes leak: %w", leaking, len(reports), errCheckFailed)
	}
	return nil
}

func runCheckOverlaps(cmd *cobra.Command, args []string) error {
	backend, err := openStore()
	if err != nil {
		return err
	}
	defer backend.Detach()

	m, err := backend.LoadModel()
	if err != nil {
		return err
	}
	overlaps, err := topology.DetectOverlaps(m)
	if err != nil {
		return err
	}

	if flagJSON {
		if err := printJSON(overlaps); err != nil {
			return err
		}
	} else if len(overlaps) == 0 {
		fmt.Printf("No overlaps among %d volumes\n", len(m.Volumes))
	} else {
		fmt.Printf("%-8s %-8s %s\n", "VOLUME", "VOLUME", "SAMPLES INSIDE")
		for _, o := range overlaps {
			fmt.Printf("%-8d %-8d %d\n", o.GlobalA, o.GlobalB, o.Samples)
		}
	}

	if len(overlaps) > 0 {
		return fmt.Errorf("%d overlapping volume pairs: %w", len(overlaps), errCheckFailed)
	}
	return nil
}

// printReports renders per-volume closure reports as a text table.
func printReports(reports []topology.Report) {
	if len(reports) == 0 {
		return
	}
	fmt.Printf("%-8s %-16s %-6s %-10s %-12s %s\n",
		"VOLUME", "MATERIAL", "TIGHT", "UNMATCHED", "MISORIENTED", "SIGNED VOLUME")
	for _, r := range reports {
		fmt.Printf("%-8d %-16s %-6s %-10d %-12d %g\n",
			r.GlobalID, r.Material, boolMark(r.Watertight), r.Unmatched, r.Misoriented, r.Volume)
	}
}
