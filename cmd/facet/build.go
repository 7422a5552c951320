package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/fusion-tools/facet/internal/compose"
	"github.com/fusion-tools/facet/internal/sqlite"
)

var (
	flagBuildInput     string
	flagBuildMaterials string
	flagBuildTol       float64
	flagBuildWorkers   int
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compose a sense-tagged geometry database from a surface mesh",
	Long: `Build reads a Gmsh .msh surface mesh, repairs facet windings, assigns
forward/reverse volume senses to every surface, verifies that each volume
shell is watertight, and writes the result to the geometry database.

Materials are read from a YAML manifest listing one material per volume,
in ascending volume tag order.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&flagBuildInput, "input", "i", "", "surface mesh file (.msh)")
	buildCmd.Flags().StringVarP(&flagBuildMaterials, "materials", "m", "", "material manifest (.yaml)")
	buildCmd.Flags().Float64Var(&flagBuildTol, "faceting-tol", 0, "faceting tolerance metadata (default: config faceting_tol)")
	buildCmd.Flags().IntVar(&flagBuildWorkers, "workers", 0, "surface orientation parallelism (default: NumCPU)")
	buildCmd.MarkFlagRequired("input")
	buildCmd.MarkFlagRequired("materials")
}

func runBuild(cmd *cobra.Command, args []string) error {
	materials, err := compose.ReadManifest(flagBuildMaterials)
	if err != nil {
		return fmt.Errorf("reading materials manifest: %w", err)
	}

	tol := flagBuildTol
	if tol == 0 {
		tol = configFacetingTol
	}

	result, err := compose.Compose(cmd.Context(), compose.Options{
		MeshPath:    flagBuildInput,
		Materials:   materials,
		FacetingTol: tol,
		Workers:     flagBuildWorkers,
		Logger:      logger,
		Progress:    stageProgress(),
	})
	if err != nil {
		// Show which volumes leak before failing.
		if result != nil {
			printReports(result.Reports)
		}
		return err
	}

	cfg, err := storeConfig()
	if err != nil {
		return err
	}
	backend := sqlite.NewBackend()
	if err := backend.Attach(cfg); err != nil {
		return err
	}
	defer backend.Detach()

	if err := backend.SaveModel(result.Model); err != nil {
		return fmt.Errorf("saving model: %w", err)
	}

	m := result.Model
	if flagJSON {
		return printJSON(map[string]any{
			"volumes":   len(m.Volumes),
			"surfaces":  len(m.Surfaces),
			"triangles": m.TriangleCount(),
			"flipped":   result.Flipped,
			"database":  filepath.Join(cfg.DataDir, sqlite.DatabaseFileName),
		})
	}
	fmt.Printf("Composed %d volumes, %d surfaces, %d triangles",
		len(m.Volumes), len(m.Surfaces), m.TriangleCount())
	if result.Flipped > 0 {
		fmt.Printf(" (%d windings repaired)", result.Flipped)
	}
	fmt.Println()
	fmt.Printf("Database: %s\n", filepath.Join(cfg.DataDir, sqlite.DatabaseFileName))
	return nil
}

// stageProgress returns a compose progress callback backed by a terminal
// progress bar, one bar per pipeline stage. Suppressed in JSON mode so
// stdout stays parseable.
func stageProgress() func(stage string, done, total int) {
	if flagJSON {
		return nil
	}
	var bar *progressbar.ProgressBar
	current := ""
	return func(stage string, done, total int) {
		if stage != current {
			current = stage
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription(stage),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionClearOnFinish(),
				progressbar.OptionShowCount(),
			)
		}
		bar.Set(done)
	}
}
