package mesh

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/fusion-tools/facet/pkg/types"
)

// WriteSTL writes an ASCII STL solid. Facet normals are recomputed from
// the winding so they agree with the stored orientation.
func WriteSTL(w io.Writer, name string, verts []vec3.T, tris []types.Triangle) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "solid %s\n", name); err != nil {
		return err
	}
	for _, t := range tris {
		n := facetNormal(verts, t)
		if _, err := fmt.Fprintf(bw, "  facet normal %e %e %e\n    outer loop\n", n[0], n[1], n[2]); err != nil {
			return err
		}
		for _, vi := range t {
			p := verts[vi]
			if _, err := fmt.Fprintf(bw, "      vertex %e %e %e\n", p[0], p[1], p[2]); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprint(bw, "    endloop\n  endfacet\n"); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(bw, "endsolid %s\n", name); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteBinarySTL writes the 80-byte-header little-endian binary STL form.
func WriteBinarySTL(w io.Writer, verts []vec3.T, tris []types.Triangle) error {
	bw := bufio.NewWriter(w)
	var header [80]byte
	copy(header[:], "facet binary stl")
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(tris))); err != nil {
		return err
	}
	for _, t := range tris {
		n := facetNormal(verts, t)
		rec := make([]float32, 0, 12)
		rec = append(rec, float32(n[0]), float32(n[1]), float32(n[2]))
		for _, vi := range t {
			p := verts[vi]
			rec = append(rec, float32(p[0]), float32(p[1]), float32(p[2]))
		}
		if err := binary.Write(bw, binary.LittleEndian, rec); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, uint16(0)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// facetNormal returns the unit normal of a triangle, or the zero vector
// for a degenerate facet.
func facetNormal(verts []vec3.T, t types.Triangle) vec3.T {
	p0, p1, p2 := verts[t[0]], verts[t[1]], verts[t[2]]
	e1 := vec3.Sub(&p1, &p0)
	e2 := vec3.Sub(&p2, &p0)
	n := vec3.Cross(&e1, &e2)
	l := n.Length()
	if l == 0 || math.IsNaN(l) {
		return vec3.T{}
	}
	n.Scale(1 / l)
	return n
}
