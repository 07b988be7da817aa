// Package testutil holds fixtures shared by the importer's tests: model
// trees on disk, a recording preview generator and a thread-safe log buffer.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/specialistvlad/holdimport/internal/ctxlog"
	"github.com/specialistvlad/holdimport/internal/hasher"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// DumpLogs prints the buffer when HOLDIMPORT_TEST_LOGS=true.
func DumpLogs(t *testing.T, buf *SafeBuffer) {
	t.Helper()
	t.Cleanup(func() {
		if os.Getenv("HOLDIMPORT_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), buf.String())
		}
	})
}

// Context returns a background context carrying a debug-level logger that
// writes to a buffer dumped by DumpLogs.
func Context(t *testing.T) context.Context {
	t.Helper()
	buf := &SafeBuffer{}
	DumpLogs(t, buf)
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger)
}

// Model is one source asset folder.
type Model struct {
	Folder   string
	Geometry string // model.obj content
	Material string // model.mtl content; defaults to a map_Kd model.jpg material
	Texture  string // model.jpg content
}

// DefaultMaterial is an MTL body referencing model.jpg twice.
const DefaultMaterial = "newmtl hold\nKd 1.0 1.0 1.0\nmap_Kd model.jpg\nmap_Ka model.jpg\n"

// Key returns the content hash of the model's geometry.
func (m Model) Key() string {
	return hasher.HashBytes(hasher.NormalizeNewlines([]byte(m.Geometry)))
}

// NewModel returns a model whose geometry is unique to name.
func NewModel(name string) Model {
	return Model{
		Folder:   name,
		Geometry: fmt.Sprintf("# %s\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n", name),
		Texture:  "JPEG-" + name,
	}
}

// WriteModel writes m under root and returns its folder path.
func WriteModel(t *testing.T, root string, m Model) string {
	t.Helper()
	dir := filepath.Join(root, m.Folder)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	material := m.Material
	if material == "" {
		material = DefaultMaterial
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.obj"), []byte(m.Geometry), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.mtl"), []byte(material), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.jpg"), []byte(m.Texture), 0o644))
	return dir
}

// ManifestFor renders a holds.yaml body listing keys in order.
func ManifestFor(keys ...string) string {
	var sb strings.Builder
	for i, k := range keys {
		fmt.Fprintf(&sb, "%q:\n  name: hold-%d\n", k, i)
	}
	return sb.String()
}

// NewInputTree creates an input folder with the given models and a
// holds.yaml listing keys. It returns the folder path.
func NewInputTree(t *testing.T, keys []string, models ...Model) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "models")
	require.NoError(t, os.MkdirAll(root, 0o755))
	for _, m := range models {
		WriteModel(t, root, m)
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "holds.yaml"), []byte(ManifestFor(keys...)), 0o644))
	return root
}

// GeneratorCall is one recorded preview invocation.
type GeneratorCall struct {
	Geometry string
	Stem     string
	// GeometryExisted reports whether the geometry copy was on disk when
	// the generator ran.
	GeometryExisted bool
}

// FakeGenerator records invocations and optionally writes a preview file
// at stem + ".png".
type FakeGenerator struct {
	mu           sync.Mutex
	calls        []GeneratorCall
	WritePreview bool
	// FailFor makes Generate return Err for the listed keys.
	FailFor map[string]bool
	Err     error
}

// Generate implements preview.Generator.
func (g *FakeGenerator) Generate(ctx context.Context, geometryPath, stem string) error {
	_, statErr := os.Stat(geometryPath)

	g.mu.Lock()
	g.calls = append(g.calls, GeneratorCall{Geometry: geometryPath, Stem: stem, GeometryExisted: statErr == nil})
	g.mu.Unlock()

	if g.FailFor[filepath.Base(stem)] {
		return g.Err
	}
	if g.WritePreview {
		return os.WriteFile(stem+".png", []byte("PNG"), 0o644)
	}
	return nil
}

// Calls returns a copy of the recorded invocations.
func (g *FakeGenerator) Calls() []GeneratorCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]GeneratorCall, len(g.calls))
	copy(out, g.calls)
	return out
}
