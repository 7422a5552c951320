package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fusion-tools/facet/internal/mesh"
	"github.com/fusion-tools/facet/internal/topology"
	"github.com/fusion-tools/facet/pkg/types"
)

var (
	flagExportOutput  string
	flagExportSurface int
	flagExportVolume  int
	flagExportBinary  bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored geometry to STL",
	Long: `Export writes stored facets as STL. By default the whole model is
exported; --surface restricts the export to one surface as stored, and
--volume exports one volume's closed shell with all normals pointing
outward.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOutput, "output", "o", "", "output file (.stl)")
	exportCmd.Flags().IntVar(&flagExportSurface, "surface", 0, "export a single surface by global ID")
	exportCmd.Flags().IntVar(&flagExportVolume, "volume", 0, "export a single volume shell by global ID")
	exportCmd.Flags().BoolVar(&flagExportBinary, "binary", false, "write binary STL instead of ASCII")
	exportCmd.MarkFlagRequired("output")
	exportCmd.MarkFlagsMutuallyExclusive("surface", "volume")
}

func runExport(cmd *cobra.Command, args []string) error {
	backend, err := openStore()
	if err != nil {
		return err
	}
	defer backend.Detach()

	m, err := backend.LoadModel()
	if err != nil {
		return err
	}

	name := "model"
	var tris []types.Triangle
	switch {
	case flagExportSurface != 0:
		s, err := m.SurfaceByGlobalID(flagExportSurface)
		if err != nil {
			return fmt.Errorf("surface %d: %w", flagExportSurface, err)
		}
		name = fmt.Sprintf("surface_%d", s.GlobalID)
		tris = s.Triangles
	case flagExportVolume != 0:
		vol := findVolume(m, flagExportVolume)
		if vol == nil {
			return fmt.Errorf("volume %d: %w", flagExportVolume, types.ErrUnknownVolume)
		}
		shell, err := topology.VolumeShell(m, vol)
		if err != nil {
			return err
		}
		name = fmt.Sprintf("volume_%d", vol.GlobalID)
		tris = shell
	default:
		for _, s := range m.Surfaces {
			tris = append(tris, s.Triangles...)
		}
	}

	f, err := os.Create(flagExportOutput)
	if err != nil {
		return err
	}
	defer f.Close()

	if flagExportBinary {
		err = mesh.WriteBinarySTL(f, m.Vertices, tris)
	} else {
		err = mesh.WriteSTL(f, name, m.Vertices, tris)
	}
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Wrote %d facets to %s\n", len(tris), flagExportOutput)
	return nil
}

// findVolume looks a volume up by its mesh entity tag.
func findVolume(m *types.Model, globalID int) *types.Volume {
	for _, v := range m.Volumes {
		if v.GlobalID == globalID {
			return v
		}
	}
	return nil
}
