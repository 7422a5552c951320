package compose

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fusion-tools/facet/internal/sqlite"
	"github.com/fusion-tools/facet/internal/topology"
	"github.com/fusion-tools/facet/pkg/types"
)

// tetMesh is one tetrahedron: four single-triangle surfaces wound
// outward, one volume bounded by all four.
const tetMesh = `$MeshFormat
4.1 0 8
$EndMeshFormat
$Entities
0 0 4 1
1 0 0 0 1 1 1 0 0
2 0 0 0 1 1 1 0 0
3 0 0 0 1 1 1 0 0
4 0 0 0 1 1 1 0 0
1 0 0 0 1 1 1 0 4 1 2 3 4
$EndEntities
$Nodes
1 4 1 4
2 1 0 4
1
2
3
4
0 0 0
1 0 0
0 1 0
0 0 1
$EndNodes
$Elements
4 4 1 4
2 1 2 1
1 1 3 2
2 2 2 1
2 1 4 3
2 3 2 1
3 1 2 4
2 4 2 1
4 2 3 4
$EndElements
`

// twoTetMesh is two tetrahedra sharing surface 4.
const twoTetMesh = `$MeshFormat
4.1 0 8
$EndMeshFormat
$Entities
0 0 7 2
1 0 0 0 1 1 1 0 0
2 0 0 0 1 1 1 0 0
3 0 0 0 1 1 1 0 0
4 0 0 0 1 1 1 0 0
5 0 0 0 1 1 1 0 0
6 0 0 0 1 1 1 0 0
7 0 0 0 1 1 1 0 0
1 0 0 0 1 1 1 0 4 1 2 3 4
2 0 0 0 1 1 1 0 4 -4 5 6 7
$EndEntities
$Nodes
1 5 1 5
2 1 0 5
1
2
3
4
5
0 0 0
1 0 0
0 1 0
0 0 1
1 1 1
$EndNodes
$Elements
7 7 1 7
2 1 2 1
1 1 3 2
2 2 2 1
2 1 4 3
2 3 2 1
3 1 2 4
2 4 2 1
4 2 3 4
2 5 2 1
5 2 3 5
2 6 2 1
6 2 5 4
2 7 2 1
7 3 4 5
$EndElements
`

// openMesh drops the bottom face of the tetrahedron, leaving a shell
// with three unmatched edges.
const openMesh = `$MeshFormat
4.1 0 8
$EndMeshFormat
$Entities
0 0 3 1
1 0 0 0 1 1 1 0 0
2 0 0 0 1 1 1 0 0
3 0 0 0 1 1 1 0 0
1 0 0 0 1 1 1 0 3 1 2 3
$EndEntities
$Nodes
1 4 1 4
2 1 0 4
1
2
3
4
0 0 0
1 0 0
0 1 0
0 0 1
$EndNodes
$Elements
3 3 1 3
2 1 2 1
1 1 4 3
2 2 2 1
2 1 2 4
2 3 2 1
3 2 3 4
$EndElements
`

// straySurfaceMesh is the tetrahedron plus a fifth surface entity that
// no volume references.
const straySurfaceMesh = `$MeshFormat
4.1 0 8
$EndMeshFormat
$Entities
0 0 5 1
1 0 0 0 1 1 1 0 0
2 0 0 0 1 1 1 0 0
3 0 0 0 1 1 1 0 0
4 0 0 0 1 1 1 0 0
5 0 0 0 1 1 1 0 0
1 0 0 0 1 1 1 0 4 1 2 3 4
$EndEntities
$Nodes
1 4 1 4
2 1 0 4
1
2
3
4
0 0 0
1 0 0
0 1 0
0 0 1
$EndNodes
$Elements
5 5 1 5
2 1 2 1
1 1 3 2
2 2 2 1
2 1 4 3
2 3 2 1
3 1 2 4
2 4 2 1
4 2 3 4
2 5 2 1
5 1 2 3
$EndElements
`

// invertedTetMesh is the tetrahedron with every face wound inward.
const invertedTetMesh = `$MeshFormat
4.1 0 8
$EndMeshFormat
$Entities
0 0 4 1
1 0 0 0 1 1 1 0 0
2 0 0 0 1 1 1 0 0
3 0 0 0 1 1 1 0 0
4 0 0 0 1 1 1 0 0
1 0 0 0 1 1 1 0 4 1 2 3 4
$EndEntities
$Nodes
1 4 1 4
2 1 0 4
1
2
3
4
0 0 0
1 0 0
0 1 0
0 0 1
$EndNodes
$Elements
4 4 1 4
2 1 2 1
1 1 2 3
2 2 2 1
2 1 3 4
2 3 2 1
3 1 4 2
2 4 2 1
4 2 4 3
$EndElements
`

// writeTemp puts content into a file under t.TempDir and returns its path.
func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestComposeSingleTet(t *testing.T) {
	result, err := Compose(context.Background(), Options{
		MeshPath:  writeTemp(t, "tet.msh", tetMesh),
		Materials: []string{"steel"},
	})
	require.NoError(t, err)

	m := result.Model
	require.Len(t, m.Volumes, 1)
	require.Len(t, m.Surfaces, 4)
	assert.Equal(t, "steel", m.Volumes[0].Material)
	assert.Equal(t, types.DefaultFacetingTol, m.FacetingTol)
	assert.Equal(t, []int{1, 2, 3, 4}, m.Volumes[0].SurfaceIDs)
	assert.Zero(t, result.Flipped)

	for _, s := range m.Surfaces {
		assert.Equal(t, m.Volumes[0].VolumeID, s.ForwardVolume)
		assert.False(t, s.Shared())
	}

	require.Len(t, result.Reports, 1)
	assert.True(t, result.Reports[0].Watertight)
	assert.InDelta(t, 1.0/6.0, result.Reports[0].Volume, 1e-12)
}

func TestComposeSharedSurface(t *testing.T) {
	result, err := Compose(context.Background(), Options{
		MeshPath:    writeTemp(t, "twotet.msh", twoTetMesh),
		Materials:   []string{"steel", "water"},
		FacetingTol: 1e-4,
	})
	require.NoError(t, err)

	m := result.Model
	require.Len(t, m.Volumes, 2)
	require.Len(t, m.Surfaces, 7)
	assert.Equal(t, 1e-4, m.FacetingTol)

	shared, err := m.SurfaceByGlobalID(4)
	require.NoError(t, err)
	assert.True(t, shared.Shared())
	assert.Equal(t, m.Volumes[0].VolumeID, shared.ForwardVolume, "first adjacency in tag order")
	assert.Equal(t, m.Volumes[1].VolumeID, shared.ReverseVolume, "second adjacency in tag order")

	assert.Len(t, m.SenseTable(), 8)

	require.Len(t, result.Reports, 2)
	assert.InDelta(t, 1.0/6.0, result.Reports[0].Volume, 1e-12)
	assert.InDelta(t, 1.0/3.0, result.Reports[1].Volume, 1e-12)

	overlaps, err := topology.DetectOverlaps(m)
	require.NoError(t, err)
	assert.Empty(t, overlaps, "conformal neighbors do not overlap")
}

func TestComposeDropsUnreferencedSurfaces(t *testing.T) {
	// A surface entity outside every volume adjacency is dropped: left
	// in, it would carry no forward sense and the model could never be
	// persisted.
	result, err := Compose(context.Background(), Options{
		MeshPath:  writeTemp(t, "stray.msh", straySurfaceMesh),
		Materials: []string{"steel"},
	})
	require.NoError(t, err)

	m := result.Model
	require.Len(t, m.Surfaces, 4)
	_, err = m.SurfaceByGlobalID(5)
	require.ErrorIs(t, err, types.ErrUnknownSurface)
	for _, s := range m.Surfaces {
		assert.NotEmpty(t, s.ForwardVolume)
	}

	store := sqlite.NewBackend()
	require.NoError(t, store.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}))
	defer store.Detach()
	require.NoError(t, store.SaveModel(m))
}

func TestComposeInwardShell(t *testing.T) {
	// All faces wound inward: the composer flips the whole shell so the
	// enclosed volume comes out positive.
	result, err := Compose(context.Background(), Options{
		MeshPath:  writeTemp(t, "inv.msh", invertedTetMesh),
		Materials: []string{"steel"},
	})
	require.NoError(t, err)

	require.Len(t, result.Reports, 1)
	assert.True(t, result.Reports[0].Watertight)
	assert.InDelta(t, 1.0/6.0, result.Reports[0].Volume, 1e-12)
}

func TestComposeLeakyShell(t *testing.T) {
	result, err := Compose(context.Background(), Options{
		MeshPath:  writeTemp(t, "open.msh", openMesh),
		Materials: []string{"steel"},
	})
	require.ErrorIs(t, err, types.ErrNotWatertight)

	// The reports survive the failure so callers can show the leaks.
	require.NotNil(t, result)
	require.Len(t, result.Reports, 1)
	assert.False(t, result.Reports[0].Watertight)
	assert.Equal(t, 3, result.Reports[0].Unmatched)
}

func TestComposeMaterialCountMismatch(t *testing.T) {
	_, err := Compose(context.Background(), Options{
		MeshPath:  writeTemp(t, "twotet.msh", twoTetMesh),
		Materials: []string{"steel"},
	})
	require.ErrorIs(t, err, types.ErrMaterialCount)
}

func TestComposeSurfaceOverused(t *testing.T) {
	// A third volume claiming surface 4 exceeds the two-sided limit.
	overused := strings.Replace(twoTetMesh, "0 0 7 2", "0 0 7 3", 1)
	overused = strings.Replace(overused,
		"2 0 0 0 1 1 1 0 4 -4 5 6 7\n",
		"2 0 0 0 1 1 1 0 4 -4 5 6 7\n3 0 0 0 1 1 1 0 1 4\n", 1)

	_, err := Compose(context.Background(), Options{
		MeshPath:  writeTemp(t, "overused.msh", overused),
		Materials: []string{"steel", "water", "air"},
	})
	require.ErrorIs(t, err, types.ErrSurfaceOverused)
}

func TestComposeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Compose(ctx, Options{
		MeshPath:  writeTemp(t, "tet.msh", tetMesh),
		Materials: []string{"steel"},
	})
	require.ErrorIs(t, err, context.Canceled)
}
