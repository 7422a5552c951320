// Package topology validates and repairs the connectivity of triangulated
// boundary meshes: manifoldness, consistent winding, shell closure, and
// volume overlap detection.
package topology
