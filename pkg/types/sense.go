package types

// Sense records which side of a surface a volume lies on. The forward
// volume sits behind the triangle normals; the reverse volume in front of
// them. Transport codes use the pair to resolve which region a particle
// is in when it crosses the surface.
type Sense int

const (
	SenseForward Sense = 1
	SenseReverse Sense = -1
)

// String returns "forward" or "reverse".
func (s Sense) String() string {
	switch s {
	case SenseForward:
		return "forward"
	case SenseReverse:
		return "reverse"
	default:
		return "unknown"
	}
}

// SenseEntry is one row of the flat global sense table.
type SenseEntry struct {
	SurfaceGlobalID int    `json:"surface"`
	VolumeID        string `json:"volume"`
	Sense           Sense  `json:"sense"`
}
