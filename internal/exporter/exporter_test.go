package exporter

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/holdimport/internal/config"
	"github.com/specialistvlad/holdimport/internal/testutil"
	"github.com/stretchr/testify/require"
)

func defaultLayout() config.Layout {
	return config.Default().Layout
}

func TestExport(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	input := t.TempDir()
	out := t.TempDir()
	m := testutil.NewModel("jug")
	src := testutil.WriteModel(t, input, m)
	key := m.Key()
	gen := &testutil.FakeGenerator{WritePreview: true}

	// --- Act ---
	res, err := New(defaultLayout(), out, gen).Export(testutil.Context(t), key, src)

	// --- Assert ---
	require.NoError(t, err)
	testutil.AssertTripleExported(t, out, key, m)
	require.Equal(t, 2, res.Replacements)
	require.Equal(t, filepath.Join(out, key+".obj"), res.Geometry)
	require.Equal(t, filepath.Join(out, key+".mtl"), res.Material)
	require.Equal(t, filepath.Join(out, key+".jpg"), res.Texture)

	calls := gen.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, filepath.Join(out, key+".obj"), calls[0].Geometry)
	require.Equal(t, filepath.Join(out, key), calls[0].Stem)
	require.True(t, calls[0].GeometryExisted, "generator must see the copied geometry")

	want := []string{key + ".jpg", key + ".mtl", key + ".obj", key + ".png"}
	if diff := cmp.Diff(want, testutil.DirNames(t, out)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestExport_MissingTextureKeepsEarlierFiles(t *testing.T) {
	t.Parallel()

	input := t.TempDir()
	out := t.TempDir()
	m := testutil.NewModel("crimp")
	src := testutil.WriteModel(t, input, m)
	require.NoError(t, os.Remove(filepath.Join(src, "model.jpg")))

	_, err := New(defaultLayout(), out, &testutil.FakeGenerator{}).Export(testutil.Context(t), m.Key(), src)

	require.ErrorIs(t, err, os.ErrNotExist)
	require.Equal(t, []string{m.Key() + ".mtl", m.Key() + ".obj"}, testutil.DirNames(t, out))
}

func TestExport_GeneratorFailureStopsBeforeMaterial(t *testing.T) {
	t.Parallel()

	input := t.TempDir()
	out := t.TempDir()
	m := testutil.NewModel("sloper")
	src := testutil.WriteModel(t, input, m)
	boom := errors.New("boom")
	gen := &testutil.FakeGenerator{FailFor: map[string]bool{m.Key(): true}, Err: boom}

	_, err := New(defaultLayout(), out, gen).Export(testutil.Context(t), m.Key(), src)

	require.ErrorIs(t, err, boom)
	require.Equal(t, []string{m.Key() + ".obj"}, testutil.DirNames(t, out))
}

func TestPatchTextureReference(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
		want  string
		wantN int
	}{
		{
			name:  "every occurrence is replaced",
			input: "map_Kd model.jpg\nmap_Bump model.jpg\n",
			want:  "map_Kd abc123def456.jpg\nmap_Bump abc123def456.jpg\n",
			wantN: 2,
		},
		{
			name:  "no reference leaves content unchanged",
			input: "newmtl plain\nKd 1 1 1\n",
			want:  "newmtl plain\nKd 1 1 1\n",
			wantN: 0,
		},
		{
			name:  "literal match inside longer paths",
			input: "map_Kd textures/model.jpg\n",
			want:  "map_Kd textures/abc123def456.jpg\n",
			wantN: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "abc123def456.mtl")
			require.NoError(t, os.WriteFile(path, []byte(tc.input), 0o644))

			n, err := PatchTextureReference(path, "model.jpg", "abc123def456.jpg")

			require.NoError(t, err)
			require.Equal(t, tc.wantN, n)
			got, err := os.ReadFile(path)
			require.NoError(t, err)
			require.Equal(t, tc.want, string(got))
		})
	}
}
