package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		input     string
		expectErr bool
		wantKeys  []string
	}{
		{
			name: "Keys in document order",
			input: `
f00dfeedbeef:
  name: crimp
abc123def456:
  name: jug
0123456789ab: ~
`,
			wantKeys: []string{"f00dfeedbeef", "abc123def456", "0123456789ab"},
		},
		{
			name:     "Numeric-looking keys keep their text",
			input:    "123456789012: 1\n1e3456789012: 2\n",
			wantKeys: []string{"123456789012", "1e3456789012"},
		},
		{
			name:     "Quoted keys",
			input:    `"abc123def456": {volume: 1.5}`,
			wantKeys: []string{"abc123def456"},
		},
		{name: "Empty document", input: "", wantKeys: []string{}},
		{name: "Null document", input: "~\n", wantKeys: []string{}},
		{name: "Sequence root is rejected", input: "- a\n- b\n", expectErr: true},
		{name: "Scalar root is rejected", input: "hello\n", expectErr: true},
		{name: "Malformed YAML", input: "a: [1, 2\n", expectErr: true},
		{name: "Duplicate keys", input: "a: 1\na: 2\n", expectErr: true},
		{name: "Non-scalar key", input: "? [a, b]\n: 1\n", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			m, err := Parse([]byte(tc.input))

			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tc.wantKeys, m.Keys()); diff != "" {
				t.Errorf("keys mismatch (-want +got):\n%s", diff)
			}
			require.Equal(t, len(tc.wantKeys), m.Len())
		})
	}
}

func TestManifest_Decode(t *testing.T) {
	t.Parallel()

	m, err := Parse([]byte("abc123def456:\n  name: jug\n  volume: 2.5\n"))
	require.NoError(t, err)
	require.True(t, m.Has("abc123def456"))
	require.False(t, m.Has("000000000000"))

	var value struct {
		Name   string  `yaml:"name"`
		Volume float64 `yaml:"volume"`
	}
	require.NoError(t, m.Decode("abc123def456", &value))
	require.Equal(t, "jug", value.Name)
	require.Equal(t, 2.5, value.Volume)

	require.Error(t, m.Decode("000000000000", &value))
}

func TestLoadAndCopyRaw(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := filepath.Join(t.TempDir(), "holds.yaml")
	raw := "# generated\nabc123def456:   {name: jug}   \n"
	require.NoError(t, os.WriteFile(src, []byte(raw), 0o644))
	dstDir := t.TempDir()

	// --- Act ---
	m, err := Load(src)
	require.NoError(t, err)
	dst, err := CopyRaw(src, dstDir)

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, src, m.Path)
	require.Equal(t, filepath.Join(dstDir, "holds.yaml"), dst)
	copied, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, raw, string(copied), "manifest copy must be byte-identical")
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "holds.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "holds.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("- not a mapping\n"), 0o644))
	_, err = Load(bad)
	require.ErrorIs(t, err, ErrNotMapping)
}

func TestValidKey(t *testing.T) {
	t.Parallel()

	require.True(t, ValidKey("abc123def456"))
	require.False(t, ValidKey("ABC123DEF456"))
	require.False(t, ValidKey("abc123def45"))
	require.False(t, ValidKey("abc123def4567"))
	require.False(t, ValidKey("abc123def45g"))
}
