package topology

import (
	"github.com/ungerik/go3d/float64/vec3"

	"github.com/fusion-tools/facet/pkg/types"
)

// Overlap reports a detected interpenetration of two volumes.
type Overlap struct {
	VolumeA string `json:"volume_a"`
	VolumeB string `json:"volume_b"`
	GlobalA int    `json:"a"`
	GlobalB int    `json:"b"`
	Samples int    `json:"samples"` // sample points of one shell found inside the other
}

// nudgeFrac scales the inward offset applied to sample points so that
// volumes which merely share a boundary are not reported as overlapping.
const nudgeFrac = 1e-9

// DetectOverlaps tests every volume pair for interpenetration. Candidate
// pairs are pre-filtered by bounding box; surviving pairs are probed by
// taking each triangle centroid of one shell, nudging it inward along the
// negated face normal, and testing containment in the other shell by ray
// parity. Shared boundaries produce no overlap.
func DetectOverlaps(m *types.Model) ([]Overlap, error) {
	type probe struct {
		vol    *types.Volume
		shell  []types.Triangle
		bbox   BBox
		points []vec3.T
	}

	probes := make([]probe, 0, len(m.Volumes))
	for _, v := range m.Volumes {
		shell, err := VolumeShell(m, v)
		if err != nil {
			return nil, err
		}
		bbox := MeshBBox(m.Vertices, shell)
		nudge := nudgeFrac * bbox.Diagonal()
		points := make([]vec3.T, 0, len(shell))
		for _, t := range shell {
			p0, p1, p2 := m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
			c := TriangleCentroid(p0, p1, p2)
			n := TriangleNormal(p0, p1, p2)
			if l := n.Length(); l > 0 {
				n.Scale(nudge / l)
				c = vec3.Sub(&c, &n)
			}
			points = append(points, c)
		}
		probes = append(probes, probe{vol: v, shell: shell, bbox: bbox, points: points})
	}

	var overlaps []Overlap
	for i := 0; i < len(probes); i++ {
		for j := i + 1; j < len(probes); j++ {
			a, b := probes[i], probes[j]
			if !a.bbox.Intersects(b.bbox) {
				continue
			}
			hits := 0
			for _, p := range a.points {
				if ContainsPoint(m.Vertices, b.shell, p) {
					hits++
				}
			}
			for _, p := range b.points {
				if ContainsPoint(m.Vertices, a.shell, p) {
					hits++
				}
			}
			if hits > 0 {
				overlaps = append(overlaps, Overlap{
					VolumeA: a.vol.VolumeID,
					VolumeB: b.vol.VolumeID,
					GlobalA: a.vol.GlobalID,
					GlobalB: b.vol.GlobalID,
					Samples: hits,
				})
			}
		}
	}
	return overlaps, nil
}
