package types

import (
	"errors"
	"sort"

	"github.com/ungerik/go3d/float64/vec3"
)

// Geometry validation errors. These are returned (wrapped with context)
// when a mesh cannot be turned into a valid tagged geometry.
var (
	ErrNonManifold       = errors.New("non-manifold edge")
	ErrNonOrientable     = errors.New("surface is not orientable")
	ErrNotWatertight     = errors.New("volume is not watertight")
	ErrInconsistentSense = errors.New("inconsistent surface orientation")
	ErrSurfaceOverused   = errors.New("surface bounds more than two volumes")
	ErrDegenerateVolume  = errors.New("volume has no interior")
	ErrUnknownSurface    = errors.New("unknown surface")
	ErrUnknownVolume     = errors.New("unknown volume")
)

// Triangle references three model vertices by index. The winding is
// counter-clockwise when viewed from outside the forward volume, so the
// face normal points out of it.
type Triangle [3]int

// Flipped returns the triangle with reversed winding.
func (t Triangle) Flipped() Triangle {
	return Triangle{t[0], t[2], t[1]}
}

// Model is a complete faceted boundary-representation geometry: a shared
// vertex pool, oriented triangulated surfaces, and volumes referencing the
// surfaces that bound them.
type Model struct {
	Vertices    []vec3.T
	Surfaces    []*Surface
	Volumes     []*Volume
	FacetingTol float64
}

// SurfaceByGlobalID returns the surface with the given global ID.
// Returns ErrUnknownSurface if absent.
func (m *Model) SurfaceByGlobalID(id int) (*Surface, error) {
	for _, s := range m.Surfaces {
		if s.GlobalID == id {
			return s, nil
		}
	}
	return nil, ErrUnknownSurface
}

// VolumeByID returns the volume with the given entity ID.
// Returns ErrUnknownVolume if absent.
func (m *Model) VolumeByID(id string) (*Volume, error) {
	for _, v := range m.Volumes {
		if v.VolumeID == id {
			return v, nil
		}
	}
	return nil, ErrUnknownVolume
}

// TriangleCount returns the total number of triangles across all surfaces.
func (m *Model) TriangleCount() int {
	n := 0
	for _, s := range m.Surfaces {
		n += len(s.Triangles)
	}
	return n
}

// SenseTable flattens the per-surface sense records into the global
// surface -> {volume, sense} table, ordered by surface global ID with
// forward entries before reverse entries.
func (m *Model) SenseTable() []SenseEntry {
	var table []SenseEntry
	for _, s := range m.Surfaces {
		if s.ForwardVolume != "" {
			table = append(table, SenseEntry{
				SurfaceGlobalID: s.GlobalID,
				VolumeID:        s.ForwardVolume,
				Sense:           SenseForward,
			})
		}
		if s.ReverseVolume != "" {
			table = append(table, SenseEntry{
				SurfaceGlobalID: s.GlobalID,
				VolumeID:        s.ReverseVolume,
				Sense:           SenseReverse,
			})
		}
	}
	sort.SliceStable(table, func(i, j int) bool {
		return table[i].SurfaceGlobalID < table[j].SurfaceGlobalID
	})
	return table
}
