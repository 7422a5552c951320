package topology

import (
	"fmt"

	"github.com/fusion-tools/facet/pkg/types"
)

// Orient makes the winding of a surface patch consistent: every interior
// edge must be traversed in opposite directions by its two incident
// triangles. Triangles are flipped in place as a breadth-first traversal
// reaches them from the seed of each connected component.
//
// Returns the number of triangles flipped. Returns ErrNonOrientable
// (wrapped) when a traversal cycle forces a triangle to take both
// windings, as on a Moebius-like patch. The patch must be manifold;
// CheckManifold is run first and its error returned unchanged.
func Orient(tris []types.Triangle) (int, error) {
	if err := CheckManifold(tris); err != nil {
		return 0, err
	}
	table := buildEdgeTable(tris)

	visited := make([]bool, len(tris))
	flipped := 0
	var queue []int

	for seed := range tris {
		if visited[seed] {
			continue
		}
		visited[seed] = true
		queue = append(queue[:0], seed)

		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]

			for _, e := range triEdges(tris[cur]) {
				k := keyFor(e[0], e[1])
				for _, other := range table[k].tris {
					if other == cur {
						continue
					}
					// Consistent winding traverses a shared edge in
					// opposite directions.
					same := edgeDir(tris[cur], k) == edgeDir(tris[other], k)
					if !visited[other] {
						if same {
							tris[other] = tris[other].Flipped()
							flipped++
						}
						visited[other] = true
						queue = append(queue, other)
					} else if same {
						return flipped, fmt.Errorf(
							"triangles %d and %d traverse edge (%d,%d) in the same direction: %w",
							cur, other, k.lo, k.hi, types.ErrNonOrientable)
					}
				}
			}
		}
	}
	return flipped, nil
}
