package topology

import (
	"math"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/fusion-tools/facet/pkg/types"
)

// BBox is an axis-aligned bounding box.
type BBox struct {
	Min, Max vec3.T
}

// NewBBox returns an empty (inverted) bounding box.
func NewBBox() BBox {
	inf := math.Inf(1)
	return BBox{
		Min: vec3.T{inf, inf, inf},
		Max: vec3.T{-inf, -inf, -inf},
	}
}

// Extend grows the box to contain p.
func (b *BBox) Extend(p vec3.T) {
	for i := 0; i < 3; i++ {
		b.Min[i] = math.Min(b.Min[i], p[i])
		b.Max[i] = math.Max(b.Max[i], p[i])
	}
}

// Intersects reports whether the boxes share any point.
func (b BBox) Intersects(o BBox) bool {
	for i := 0; i < 3; i++ {
		if b.Max[i] < o.Min[i] || o.Max[i] < b.Min[i] {
			return false
		}
	}
	return true
}

// Diagonal returns the length of the box diagonal.
func (b BBox) Diagonal() float64 {
	d := vec3.Sub(&b.Max, &b.Min)
	return d.Length()
}

// MeshBBox returns the bounding box of the vertices referenced by tris.
func MeshBBox(verts []vec3.T, tris []types.Triangle) BBox {
	b := NewBBox()
	for _, t := range tris {
		for _, vi := range t {
			b.Extend(verts[vi])
		}
	}
	return b
}

// TriangleNormal returns the unnormalized face normal (p1-p0) x (p2-p0).
// Its length is twice the triangle area.
func TriangleNormal(p0, p1, p2 vec3.T) vec3.T {
	e1 := vec3.Sub(&p1, &p0)
	e2 := vec3.Sub(&p2, &p0)
	return vec3.Cross(&e1, &e2)
}

// TriangleCentroid returns the centroid of the triangle.
func TriangleCentroid(p0, p1, p2 vec3.T) vec3.T {
	return vec3.T{
		(p0[0] + p1[0] + p2[0]) / 3,
		(p0[1] + p1[1] + p2[1]) / 3,
		(p0[2] + p1[2] + p2[2]) / 3,
	}
}

// SurfaceArea sums the areas of the given triangles.
func SurfaceArea(verts []vec3.T, tris []types.Triangle) float64 {
	area := 0.0
	for _, t := range tris {
		n := TriangleNormal(verts[t[0]], verts[t[1]], verts[t[2]])
		area += n.Length() / 2
	}
	return area
}

// SignedVolume computes the volume enclosed by an oriented shell via the
// divergence theorem. Positive when the windings point outward; the
// magnitude is meaningless unless the shell is closed.
func SignedVolume(verts []vec3.T, tris []types.Triangle) float64 {
	vol := 0.0
	for _, t := range tris {
		p0, p1, p2 := verts[t[0]], verts[t[1]], verts[t[2]]
		c := vec3.Cross(&p1, &p2)
		vol += vec3.Dot(&p0, &c)
	}
	return vol / 6
}

// rayEps rejects intersections at the ray origin so a point sitting on a
// triangle does not count its own facet.
const rayEps = 1e-12

// rayIntersectsTriangle is the Moeller-Trumbore intersection test for a
// ray against one triangle, counting only hits strictly in front of the
// origin.
func rayIntersectsTriangle(orig, dir, p0, p1, p2 vec3.T) bool {
	e1 := vec3.Sub(&p1, &p0)
	e2 := vec3.Sub(&p2, &p0)
	h := vec3.Cross(&dir, &e2)
	a := vec3.Dot(&e1, &h)
	if a > -rayEps && a < rayEps {
		return false
	}
	f := 1 / a
	s := vec3.Sub(&orig, &p0)
	u := f * vec3.Dot(&s, &h)
	if u < 0 || u > 1 {
		return false
	}
	q := vec3.Cross(&s, &e1)
	v := f * vec3.Dot(&dir, &q)
	if v < 0 || u+v > 1 {
		return false
	}
	return f*vec3.Dot(&e2, &q) > rayEps
}

// containsDir is a fixed skew direction for parity tests, chosen to avoid
// grazing the axis-aligned edges common in CAD tessellations.
var containsDir = vec3.T{0.2873478855663454, 0.5642103583786791, 0.7740157268247104}

// ContainsPoint reports whether p lies inside the shell by counting ray
// crossings: an odd number of intersections means inside.
func ContainsPoint(verts []vec3.T, tris []types.Triangle, p vec3.T) bool {
	crossings := 0
	for _, t := range tris {
		if rayIntersectsTriangle(p, containsDir, verts[t[0]], verts[t[1]], verts[t[2]]) {
			crossings++
		}
	}
	return crossings%2 == 1
}
