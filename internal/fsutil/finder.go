// Package fsutil provides file system utility functions.
package fsutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Exists reports whether anything (file, directory, symlink) lives at path.
// Errors other than "not exist" are returned so callers never mistake an
// unreadable path for a free one.
func Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// IsRegularFile reports whether path exists and is a regular file.
func IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// FindDirsContaining returns the immediate child directories of rootPath
// that contain a regular file named marker. Order follows os.ReadDir, which
// sorts entries by name.
func FindDirsContaining(rootPath string, marker string) ([]string, error) {
	if marker == "" {
		panic("marker must not be empty")
	}

	entries, err := os.ReadDir(rootPath)
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, entry := range entries {
		dir := filepath.Join(rootPath, entry.Name())
		if !isDir(entry, dir) {
			continue
		}
		if IsRegularFile(filepath.Join(dir, marker)) {
			dirs = append(dirs, dir)
		}
	}
	return dirs, nil
}

// isDir follows symlinks so linked model folders are scanned too.
func isDir(entry fs.DirEntry, path string) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// CopyFile copies src to dst byte-for-byte, truncating dst if it exists.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file '%s': %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create destination file '%s': %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy '%s' to '%s': %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close destination file '%s': %w", dst, err)
	}
	return nil
}
