package topology

import (
	"fmt"

	"github.com/fusion-tools/facet/pkg/types"
)

// edgeKey identifies an undirected edge by its sorted vertex indices.
type edgeKey struct {
	lo, hi int
}

func keyFor(a, b int) edgeKey {
	if a < b {
		return edgeKey{a, b}
	}
	return edgeKey{b, a}
}

// edgeUse accumulates the directed uses of one undirected edge.
type edgeUse struct {
	count   int   // total number of incident triangle edges
	balance int   // +1 per lo->hi traversal, -1 per hi->lo
	tris    []int // incident triangle indices
}

// triEdges returns the three directed edges of a triangle in winding order.
func triEdges(t types.Triangle) [3][2]int {
	return [3][2]int{{t[0], t[1]}, {t[1], t[2]}, {t[2], t[0]}}
}

// edgeDir returns +1 if the triangle traverses the edge lo->hi, -1 if it
// traverses hi->lo, and 0 if the triangle does not use the edge.
func edgeDir(t types.Triangle, k edgeKey) int {
	for _, e := range triEdges(t) {
		if e[0] == k.lo && e[1] == k.hi {
			return 1
		}
		if e[0] == k.hi && e[1] == k.lo {
			return -1
		}
	}
	return 0
}

// buildEdgeTable indexes every triangle edge of a patch by undirected edge.
func buildEdgeTable(tris []types.Triangle) map[edgeKey]*edgeUse {
	table := make(map[edgeKey]*edgeUse, len(tris)*3/2)
	for i, t := range tris {
		for _, e := range triEdges(t) {
			k := keyFor(e[0], e[1])
			u := table[k]
			if u == nil {
				u = &edgeUse{}
				table[k] = u
			}
			u.count++
			if e[0] == k.lo {
				u.balance++
			} else {
				u.balance--
			}
			u.tris = append(u.tris, i)
		}
	}
	return table
}

// CheckManifold rejects patches with degenerate triangles or with an
// undirected edge shared by more than two triangles.
func CheckManifold(tris []types.Triangle) error {
	for i, t := range tris {
		if t[0] == t[1] || t[1] == t[2] || t[2] == t[0] {
			return fmt.Errorf("triangle %d is degenerate: %w", i, types.ErrNonManifold)
		}
	}
	for k, u := range buildEdgeTable(tris) {
		if u.count > 2 {
			return fmt.Errorf("edge (%d,%d) used by %d triangles: %w", k.lo, k.hi, u.count, types.ErrNonManifold)
		}
	}
	return nil
}
