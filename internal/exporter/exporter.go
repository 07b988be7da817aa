// Package exporter copies one hold's geometry, material and texture into the
// flat output folder under hash-based names and patches the material's
// texture reference.
package exporter

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specialistvlad/holdimport/internal/config"
	"github.com/specialistvlad/holdimport/internal/ctxlog"
	"github.com/specialistvlad/holdimport/internal/fsutil"
	"github.com/specialistvlad/holdimport/internal/preview"
)

// Result lists the files written for one hold.
type Result struct {
	Key      string
	Source   string
	Geometry string
	Material string
	Texture  string
	// Replacements counts texture references rewritten in the material.
	Replacements int
}

// Exporter writes asset triples into OutDir.
type Exporter struct {
	layout    config.Layout
	outDir    string
	generator preview.Generator
}

// New creates an Exporter.
func New(layout config.Layout, outDir string, generator preview.Generator) *Exporter {
	return &Exporter{layout: layout, outDir: outDir, generator: generator}
}

// Stem returns the output path for key without extension.
func (e *Exporter) Stem(key string) string {
	return filepath.Join(e.outDir, key)
}

// Export copies the triple from sourceDir. The geometry is copied first so
// the generator can read the copy; the material is patched right after its
// copy; the texture comes last. Files written before a failure are left in
// place.
func (e *Exporter) Export(ctx context.Context, key, sourceDir string) (*Result, error) {
	logger := ctxlog.FromContext(ctx).With("key", key)
	stem := e.Stem(key)
	res := &Result{Key: key, Source: sourceDir}

	geometry, err := e.copyAsset(sourceDir, e.layout.Geometry, stem)
	if err != nil {
		return res, err
	}
	res.Geometry = geometry
	logger.Debug("Geometry exported.", "path", geometry)

	if err := e.generator.Generate(ctx, geometry, stem); err != nil {
		return res, fmt.Errorf("preview for %s: %w", key, err)
	}

	material, err := e.copyAsset(sourceDir, e.layout.Material, stem)
	if err != nil {
		return res, err
	}
	res.Material = material

	textureName := key + filepath.Ext(e.layout.Texture)
	n, err := PatchTextureReference(material, e.layout.Texture, textureName)
	if err != nil {
		return res, err
	}
	res.Replacements = n
	if n == 0 {
		logger.Warn("Material does not reference the texture.", "material", material, "texture", e.layout.Texture)
	}
	logger.Debug("Material exported and patched.", "path", material, "replacements", n)

	texture, err := e.copyAsset(sourceDir, e.layout.Texture, stem)
	if err != nil {
		return res, err
	}
	res.Texture = texture
	logger.Debug("Texture exported.", "path", texture)

	return res, nil
}

// copyAsset copies sourceDir/name to stem + ext(name).
func (e *Exporter) copyAsset(sourceDir, name, stem string) (string, error) {
	dst := stem + filepath.Ext(name)
	if err := fsutil.CopyFile(filepath.Join(sourceDir, name), dst); err != nil {
		return "", err
	}
	return dst, nil
}

// PatchTextureReference replaces every literal occurrence of oldName in the
// file at path with newName and rewrites the file. It returns the number of
// replacements made.
func PatchTextureReference(path, oldName, newName string) (int, error) {
	if oldName == "" {
		return 0, fmt.Errorf("texture name must not be empty")
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat material '%s': %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read material '%s': %w", path, err)
	}

	n := bytes.Count(data, []byte(oldName))
	patched := bytes.ReplaceAll(data, []byte(oldName), []byte(newName))
	if err := os.WriteFile(path, patched, info.Mode().Perm()); err != nil {
		return 0, fmt.Errorf("failed to write material '%s': %w", path, err)
	}
	return n, nil
}
