package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ungerik/go3d/float64/vec3"

	"github.com/fusion-tools/facet/pkg/types"
)

func TestOrientAlreadyConsistent(t *testing.T) {
	tris := cubeTris(0)
	flipped, err := Orient(tris)
	require.NoError(t, err)
	assert.Zero(t, flipped)
	assert.Equal(t, cubeTris(0), tris, "consistent patch left untouched")
}

func TestOrientRepairsWindings(t *testing.T) {
	// Flip three triangles away from the seed; Orient must restore a
	// consistent outward shell.
	tris := cubeTris(0)
	for _, i := range []int{3, 7, 11} {
		tris[i] = tris[i].Flipped()
	}

	flipped, err := Orient(tris)
	require.NoError(t, err)
	assert.Equal(t, 3, flipped)

	unmatched, misoriented := CheckShell(tris)
	assert.Zero(t, unmatched)
	assert.Zero(t, misoriented)
	assert.InDelta(t, 1.0, SignedVolume(cubeVerts(vec3.T{}, 1), tris), 1e-12)
}

func TestOrientFullyInverted(t *testing.T) {
	// An inside-out shell is internally consistent; Orient keeps it and
	// flips nothing. Outwardness is fixed later from the signed volume.
	tris := cubeTris(0)
	for i := range tris {
		tris[i] = tris[i].Flipped()
	}
	flipped, err := Orient(tris)
	require.NoError(t, err)
	assert.Zero(t, flipped)
	assert.InDelta(t, -1.0, SignedVolume(cubeVerts(vec3.T{}, 1), tris), 1e-12)
}

func TestOrientNonOrientable(t *testing.T) {
	// The five-triangle Moebius band: manifold but not orientable.
	tris := []types.Triangle{
		{0, 1, 2}, {1, 2, 3}, {2, 3, 4}, {3, 4, 0}, {4, 0, 1},
	}
	_, err := Orient(tris)
	require.ErrorIs(t, err, types.ErrNonOrientable)
}

func TestOrientRejectsNonManifold(t *testing.T) {
	tris := []types.Triangle{{0, 1, 2}, {0, 1, 3}, {0, 1, 4}}
	_, err := Orient(tris)
	require.ErrorIs(t, err, types.ErrNonManifold)
}

func TestOrientDisconnectedComponents(t *testing.T) {
	// Two separate cubes in one patch, the second one inverted. Each
	// component is made self-consistent independently.
	tris := append(cubeTris(0), cubeTris(8)...)
	for i := 12; i < 24; i++ {
		tris[i] = tris[i].Flipped()
	}
	flipped, err := Orient(tris)
	require.NoError(t, err)
	assert.Zero(t, flipped, "each component already consistent on its own")
}
