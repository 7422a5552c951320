package topology

import (
	"github.com/ungerik/go3d/float64/vec3"

	"github.com/fusion-tools/facet/pkg/types"
)

// cubeVerts returns the eight corners of an axis-aligned cube with the
// given minimum corner and edge length, in the order the cube triangle
// tables expect.
func cubeVerts(min vec3.T, size float64) []vec3.T {
	x, y, z := min[0], min[1], min[2]
	s := size
	return []vec3.T{
		{x, y, z}, {x + s, y, z}, {x + s, y + s, z}, {x, y + s, z},
		{x, y, z + s}, {x + s, y, z + s}, {x + s, y + s, z + s}, {x, y + s, z + s},
	}
}

// cubeTris returns the twelve outward-wound cube triangles with vertex
// indices offset by base.
func cubeTris(base int) []types.Triangle {
	tris := []types.Triangle{
		{0, 2, 1}, {0, 3, 2}, // bottom, normal -z
		{4, 5, 6}, {4, 6, 7}, // top, normal +z
		{0, 1, 5}, {0, 5, 4}, // front, normal -y
		{2, 3, 7}, {2, 7, 6}, // back, normal +y
		{0, 4, 7}, {0, 7, 3}, // left, normal -x
		{1, 2, 6}, {1, 6, 5}, // right, normal +x
	}
	for i := range tris {
		for j := range tris[i] {
			tris[i][j] += base
		}
	}
	return tris
}

// tetVerts is the unit right tetrahedron at the origin.
func tetVerts() []vec3.T {
	return []vec3.T{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// tetTris returns the four outward-wound faces of the unit tetrahedron.
func tetTris() []types.Triangle {
	return []types.Triangle{{0, 2, 1}, {0, 3, 2}, {0, 1, 3}, {1, 2, 3}}
}

// singleVolumeModel wraps one closed shell as a model with one surface
// and one volume, forward sense only.
func singleVolumeModel(verts []vec3.T, tris []types.Triangle) *types.Model {
	return &types.Model{
		Vertices: verts,
		Surfaces: []*types.Surface{
			{SurfaceID: "s-1", GlobalID: 1, ForwardVolume: "vol-1", Triangles: tris},
		},
		Volumes: []*types.Volume{
			{VolumeID: "vol-1", GlobalID: 1, Material: "steel", SurfaceIDs: []int{1}},
		},
	}
}

// twoCubeModel builds a model with two cubes, each its own surface and
// volume. The second cube's minimum corner is offset from the first.
func twoCubeModel(offset vec3.T) *types.Model {
	verts := cubeVerts(vec3.T{0, 0, 0}, 1)
	verts = append(verts, cubeVerts(offset, 1)...)
	return &types.Model{
		Vertices: verts,
		Surfaces: []*types.Surface{
			{SurfaceID: "s-1", GlobalID: 1, ForwardVolume: "vol-1", Triangles: cubeTris(0)},
			{SurfaceID: "s-2", GlobalID: 2, ForwardVolume: "vol-2", Triangles: cubeTris(8)},
		},
		Volumes: []*types.Volume{
			{VolumeID: "vol-1", GlobalID: 1, Material: "steel", SurfaceIDs: []int{1}},
			{VolumeID: "vol-2", GlobalID: 2, Material: "water", SurfaceIDs: []int{2}},
		},
	}
}
