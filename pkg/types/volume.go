package types

import "time"

// Volume is a closed region of space bounded by surfaces.
type Volume struct {
	VolumeID   string // UUID v7, generated on persistence.
	GlobalID   int    // Mesh entity tag, unique within the model.
	Material   string // Material name; tagged as "mat:<name>" in groups.
	SurfaceIDs []int  // Global IDs of bounding surfaces.
	CreatedAt  time.Time
}

// BoundedBy reports whether the surface with the given global ID bounds
// this volume.
func (v *Volume) BoundedBy(surfaceGlobalID int) bool {
	for _, id := range v.SurfaceIDs {
		if id == surfaceGlobalID {
			return true
		}
	}
	return false
}
