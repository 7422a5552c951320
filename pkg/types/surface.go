package types

import "time"

// Surface is a triangulated CAD face. It bounds at most two volumes: the
// forward volume its normals point out of, and optionally a reverse volume
// on the other side. A surface with no reverse volume borders void.
type Surface struct {
	SurfaceID     string     // UUID v7, generated on persistence.
	GlobalID      int        // Mesh entity tag, unique within the model.
	ForwardVolume string     // Volume ID with forward sense (required).
	ReverseVolume string     // Volume ID with reverse sense, or empty.
	Triangles     []Triangle // Oriented facets, indices into Model.Vertices.
	CreatedAt     time.Time
}

// SenseData returns the {forward, reverse} volume pair in tag order, the
// form the sense table stores per surface.
func (s *Surface) SenseData() [2]string {
	return [2]string{s.ForwardVolume, s.ReverseVolume}
}

// Shared reports whether the surface separates two volumes rather than
// bordering void.
func (s *Surface) Shared() bool {
	return s.ReverseVolume != ""
}

// Flip reverses the winding of every triangle on the surface.
func (s *Surface) Flip() {
	for i, t := range s.Triangles {
		s.Triangles[i] = t.Flipped()
	}
}
