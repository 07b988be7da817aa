package hasher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestHashBytes_KnownDigest(t *testing.T) {
	t.Parallel()

	// sha256("") = e3b0c44298fc1c149afbf4c8996fb924...
	require.Equal(t, "e3b0c44298fc", HashBytes(nil))
	// sha256("abc") = ba7816bf8f01cfea414140de5dae2223...
	require.Equal(t, "ba7816bf8f01", HashBytes([]byte("abc")))
}

func TestHashFile(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		a, b    []byte
		sameSum bool
	}{
		{name: "identical content", a: []byte("v 0 0 0\n"), b: []byte("v 0 0 0\n"), sameSum: true},
		{name: "different content", a: []byte("v 0 0 0\n"), b: []byte("v 0 0 1\n"), sameSum: false},
		{name: "CRLF hashes like LF", a: []byte("v 0 0 0\n"), b: []byte("v 0 0 0\r\n"), sameSum: true},
		{name: "lone CR hashes like LF", a: []byte("v 0 0 0\nv 1 1 1\n"), b: []byte("v 0 0 0\rv 1 1 1\r"), sameSum: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			pathA := writeFile(t, "a.obj", tc.a)
			pathB := writeFile(t, "b.obj", tc.b)

			// --- Act ---
			sumA, errA := HashFile(pathA)
			sumB, errB := HashFile(pathB)

			// --- Assert ---
			require.NoError(t, errA)
			require.NoError(t, errB)
			require.Len(t, sumA, Length)
			require.Equal(t, tc.sameSum, sumA == sumB)
			require.Equal(t, HashBytes(tc.a), sumA)
		})
	}
}

func TestHashFile_CRLFKnownDigest(t *testing.T) {
	t.Parallel()

	// sha256("v 1 2 3\nv 4 5 6\n") = 4926d741e51d48e9...
	path := writeFile(t, "model.obj", []byte("v 1 2 3\r\nv 4 5 6\r\n"))

	sum, err := HashFile(path)

	require.NoError(t, err)
	require.Equal(t, "4926d741e51d", sum)
}

func TestNormalizeNewlines(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name, in, want string
	}{
		{name: "unix", in: "a\nb\n", want: "a\nb\n"},
		{name: "windows", in: "a\r\nb\r\n", want: "a\nb\n"},
		{name: "classic mac", in: "a\rb\r", want: "a\nb\n"},
		{name: "mixed", in: "a\r\r\nb", want: "a\n\nb"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, string(NormalizeNewlines([]byte(tc.in))))
		})
	}
}

func TestHashFile_Deterministic(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "model.obj", []byte("# hold\nv 1 2 3\n"))

	first, err := HashFile(path)
	require.NoError(t, err)
	second, err := HashFile(path)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Regexp(t, `^[0-9a-f]{12}$`, first)
}

func TestHashFile_Errors(t *testing.T) {
	t.Parallel()

	_, err := HashFile(filepath.Join(t.TempDir(), "missing.obj"))
	require.ErrorIs(t, err, os.ErrNotExist)

	binary := writeFile(t, "model.obj", []byte{0xff, 0xfe, 0x00})
	_, err = HashFile(binary)
	require.ErrorIs(t, err, ErrNotText)
}
