// Package manifest loads the holds manifest, the YAML mapping whose
// top-level keys are the content hashes an import run must resolve.
//
// Values under each key belong to the modeling pipeline and are kept as
// opaque YAML nodes. Keys are read from the node tree rather than a decoded
// Go map so that document order is preserved and hashes that happen to look
// like numbers (e.g. "123456789012" or "1e3456789abc") keep their text form.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specialistvlad/holdimport/internal/fsutil"
	"github.com/specialistvlad/holdimport/internal/hasher"
	"gopkg.in/yaml.v3"
)

// ErrNotMapping is returned when the document root is not a YAML mapping.
var ErrNotMapping = errors.New("manifest root must be a mapping")

// Entry is one top-level manifest item.
type Entry struct {
	Key   string
	Value *yaml.Node
}

// Manifest is the parsed holds manifest.
type Manifest struct {
	Path    string
	entries []Entry
	index   map[string]int
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest '%s': %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest '%s': %w", path, err)
	}
	m.Path = path
	return m, nil
}

// Parse decodes manifest content. An empty document yields a manifest with
// no keys.
func Parse(data []byte) (*Manifest, error) {
	m := &Manifest{index: make(map[string]int)}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return m, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null" {
		return m, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w (line %d)", ErrNotMapping, root.Line)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := root.Content[i], root.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: manifest keys must be scalars", keyNode.Line)
		}
		if _, dup := m.index[keyNode.Value]; dup {
			return nil, fmt.Errorf("line %d: duplicate manifest key %q", keyNode.Line, keyNode.Value)
		}
		m.index[keyNode.Value] = len(m.entries)
		m.entries = append(m.entries, Entry{Key: keyNode.Value, Value: valueNode})
	}
	return m, nil
}

// Keys returns the top-level keys in document order.
func (m *Manifest) Keys() []string {
	keys := make([]string, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns the top-level items in document order.
func (m *Manifest) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Len returns the number of top-level keys.
func (m *Manifest) Len() int {
	return len(m.entries)
}

// Has reports whether key is a top-level manifest key.
func (m *Manifest) Has(key string) bool {
	_, ok := m.index[key]
	return ok
}

// Decode decodes the value stored under key into out.
func (m *Manifest) Decode(key string, out any) error {
	i, ok := m.index[key]
	if !ok {
		return fmt.Errorf("manifest has no key %q", key)
	}
	return m.entries[i].Value.Decode(out)
}

// CopyRaw copies the manifest file byte-for-byte into dstDir under its own
// base name and returns the destination path.
func CopyRaw(src, dstDir string) (string, error) {
	dst := filepath.Join(dstDir, filepath.Base(src))
	if err := fsutil.CopyFile(src, dst); err != nil {
		return "", fmt.Errorf("failed to copy manifest: %w", err)
	}
	return dst, nil
}

// ValidKey reports whether key has the shape of a content hash: Length
// lowercase hex characters.
func ValidKey(key string) bool {
	if len(key) != hasher.Length {
		return false
	}
	for _, c := range key {
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f') {
			return false
		}
	}
	return true
}
