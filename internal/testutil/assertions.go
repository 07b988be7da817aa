package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertTripleExported checks that out holds key.obj, key.mtl and key.jpg
// with the model's content, and that the material references key.jpg
// instead of model.jpg.
func AssertTripleExported(t *testing.T, out string, key string, m Model) {
	t.Helper()

	obj, err := os.ReadFile(filepath.Join(out, key+".obj"))
	require.NoError(t, err, "geometry for %s was not exported", key)
	require.Equal(t, m.Geometry, string(obj))

	jpg, err := os.ReadFile(filepath.Join(out, key+".jpg"))
	require.NoError(t, err, "texture for %s was not exported", key)
	require.Equal(t, m.Texture, string(jpg))

	mtl, err := os.ReadFile(filepath.Join(out, key+".mtl"))
	require.NoError(t, err, "material for %s was not exported", key)
	require.NotContains(t, string(mtl), "model.jpg")
	require.Contains(t, string(mtl), key+".jpg")
}

// DirNames lists the entry names in dir, sorted.
func DirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}
