package topology

import (
	"fmt"

	"github.com/fusion-tools/facet/pkg/types"
)

// Report describes the closure of one volume shell.
type Report struct {
	VolumeID    string  `json:"volume_id"`
	GlobalID    int     `json:"volume"`
	Material    string  `json:"material,omitempty"`
	Watertight  bool    `json:"watertight"`
	Unmatched   int     `json:"unmatched_edges"`   // edges not used exactly twice
	Misoriented int     `json:"misoriented_edges"` // edges used twice in the same direction
	Volume      float64 `json:"signed_volume"`
}

// CheckShell examines a triangle soup for closure: every undirected edge
// must be used exactly twice, once in each direction. Returns the number
// of unmatched (dangling or over-shared) edges and the number of edges
// traversed twice in the same direction.
func CheckShell(tris []types.Triangle) (unmatched, misoriented int) {
	for _, u := range buildEdgeTable(tris) {
		switch {
		case u.count != 2:
			unmatched++
		case u.balance != 0:
			misoriented++
		}
	}
	return unmatched, misoriented
}

// VolumeShell collects the oriented boundary of a volume: forward-sense
// surfaces contribute their triangles as stored, reverse-sense surfaces
// with flipped winding, so every normal points out of the volume.
func VolumeShell(m *types.Model, v *types.Volume) ([]types.Triangle, error) {
	var shell []types.Triangle
	for _, sid := range v.SurfaceIDs {
		s, err := m.SurfaceByGlobalID(sid)
		if err != nil {
			return nil, fmt.Errorf("volume %d references surface %d: %w", v.GlobalID, sid, err)
		}
		switch v.VolumeID {
		case s.ForwardVolume:
			shell = append(shell, s.Triangles...)
		case s.ReverseVolume:
			for _, t := range s.Triangles {
				shell = append(shell, t.Flipped())
			}
		default:
			return nil, fmt.Errorf("surface %d carries no sense for volume %d: %w",
				sid, v.GlobalID, types.ErrInconsistentSense)
		}
	}
	return shell, nil
}

// CheckWatertight produces a closure report for every volume in the model.
// The model itself is not modified.
func CheckWatertight(m *types.Model) ([]Report, error) {
	reports := make([]Report, 0, len(m.Volumes))
	for _, v := range m.Volumes {
		shell, err := VolumeShell(m, v)
		if err != nil {
			return nil, err
		}
		unmatched, misoriented := CheckShell(shell)
		reports = append(reports, Report{
			VolumeID:    v.VolumeID,
			GlobalID:    v.GlobalID,
			Material:    v.Material,
			Watertight:  unmatched == 0 && misoriented == 0,
			Unmatched:   unmatched,
			Misoriented: misoriented,
			Volume:      SignedVolume(m.Vertices, shell),
		})
	}
	return reports, nil
}
