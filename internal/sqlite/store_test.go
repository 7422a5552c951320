package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fusion-tools/facet/pkg/types"
)

func TestSaveLoadRoundtrip(t *testing.T) {
	backend := setupBackend(t)
	saved := testModel()
	require.NoError(t, backend.SaveModel(saved))

	loaded, err := backend.LoadModel()
	require.NoError(t, err)

	assert.Equal(t, saved.FacetingTol, loaded.FacetingTol)
	assert.Equal(t, saved.Vertices, loaded.Vertices)

	require.Len(t, loaded.Volumes, 2)
	require.Len(t, loaded.Surfaces, 3)

	volA, err := loaded.VolumeByID("vol-a")
	require.NoError(t, err)
	assert.Equal(t, "steel", volA.Material)
	assert.Equal(t, []int{1, 2}, volA.SurfaceIDs, "adjacency rebuilt from sense columns")

	volB, err := loaded.VolumeByID("vol-b")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, volB.SurfaceIDs)

	shared, err := loaded.SurfaceByGlobalID(2)
	require.NoError(t, err)
	assert.Equal(t, "vol-a", shared.ForwardVolume)
	assert.Equal(t, "vol-b", shared.ReverseVolume)
	assert.Equal(t, []types.Triangle{{0, 1, 3}}, shared.Triangles)

	solo, err := loaded.SurfaceByGlobalID(1)
	require.NoError(t, err)
	assert.False(t, solo.Shared())
	assert.Equal(t, []types.Triangle{{0, 2, 1}, {0, 3, 2}}, solo.Triangles)
}

func TestSaveModelGeneratesSurfaceIDs(t *testing.T) {
	backend := setupBackend(t)
	m := testModel()
	require.NoError(t, backend.SaveModel(m))

	for _, s := range m.Surfaces {
		assert.NotEmpty(t, s.SurfaceID, "surface %d", s.GlobalID)
	}
	for _, v := range m.Volumes {
		assert.False(t, v.CreatedAt.IsZero())
	}
}

func TestSaveModelReplaces(t *testing.T) {
	backend := setupBackend(t)
	require.NoError(t, backend.SaveModel(testModel()))

	smaller := testModel()
	smaller.Volumes = smaller.Volumes[:1]
	smaller.Surfaces = smaller.Surfaces[:1]
	smaller.FacetingTol = 5e-4
	require.NoError(t, backend.SaveModel(smaller))

	loaded, err := backend.LoadModel()
	require.NoError(t, err)
	assert.Len(t, loaded.Volumes, 1)
	assert.Len(t, loaded.Surfaces, 1)
	assert.Equal(t, 5e-4, loaded.FacetingTol)
}

func TestSaveModelValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m *types.Model)
		wantErr error
	}{
		{
			name:    "empty material",
			mutate:  func(m *types.Model) { m.Volumes[0].Material = "" },
			wantErr: types.ErrMaterialEmpty,
		},
		{
			name:    "surface without forward volume",
			mutate:  func(m *types.Model) { m.Surfaces[0].ForwardVolume = "" },
			wantErr: types.ErrInconsistentSense,
		},
		{
			name:    "dangling forward reference",
			mutate:  func(m *types.Model) { m.Surfaces[0].ForwardVolume = "vol-missing" },
			wantErr: types.ErrUnknownVolume,
		},
		{
			name:    "dangling reverse reference",
			mutate:  func(m *types.Model) { m.Surfaces[1].ReverseVolume = "vol-missing" },
			wantErr: types.ErrUnknownVolume,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := setupBackend(t)
			m := testModel()
			tt.mutate(m)
			require.ErrorIs(t, backend.SaveModel(m), tt.wantErr)
		})
	}
}

func TestListMaterials(t *testing.T) {
	backend := setupBackend(t)
	m := testModel()
	m.Volumes[1].Material = "steel" // both volumes share one material
	m.Volumes = append(m.Volumes, &types.Volume{
		VolumeID: "vol-c", GlobalID: 3, Material: "air",
	})
	require.NoError(t, backend.SaveModel(m))

	groups, err := backend.ListMaterials()
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, "mat:air", groups[0].Name)
	assert.Equal(t, []string{"vol-c"}, groups[0].VolumeIDs)

	assert.Equal(t, "mat:steel", groups[1].Name)
	assert.Equal(t, []string{"vol-a", "vol-b"}, groups[1].VolumeIDs, "members in global ID order")
}

func TestSummary(t *testing.T) {
	backend := setupBackend(t)
	require.NoError(t, backend.SaveModel(testModel()))

	s, err := backend.Summary()
	require.NoError(t, err)
	assert.Equal(t, types.Summary{
		Volumes:        2,
		Surfaces:       3,
		SharedSurfaces: 1,
		Triangles:      4,
		Vertices:       4,
		FacetingTol:    1e-3,
	}, s)
}
