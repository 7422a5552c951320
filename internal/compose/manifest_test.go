package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadManifest(t *testing.T) {
	path := writeTemp(t, "materials.yaml", "materials:\n  - plasma\n  - firstwall\n  - blanket\n")
	materials, err := ReadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"plasma", "firstwall", "blanket"}, materials)
}

func TestReadManifestEmpty(t *testing.T) {
	path := writeTemp(t, "materials.yaml", "materials: []\n")
	_, err := ReadManifest(path)
	require.Error(t, err)
}

func TestReadManifestMalformed(t *testing.T) {
	path := writeTemp(t, "materials.yaml", "materials: {not a list\n")
	_, err := ReadManifest(path)
	require.Error(t, err)
}

func TestReadManifestMissingFile(t *testing.T) {
	_, err := ReadManifest("no-such-manifest.yaml")
	require.Error(t, err)
}
