// Package resolver maps manifest keys to source model folders by hashing each
// folder's geometry file.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/specialistvlad/holdimport/internal/ctxlog"
	"github.com/specialistvlad/holdimport/internal/fsutil"
	"github.com/specialistvlad/holdimport/internal/hasher"
)

// ErrHashNotFound is returned by Resolution.Err when no folder matched.
var ErrHashNotFound = errors.New("no source folder matches hash")

// Resolution is the outcome of resolving one key. Dir is only meaningful
// when Found is true.
type Resolution struct {
	Key   string
	Found bool
	Dir   string
}

// Err returns nil for a found key and a wrapped ErrHashNotFound otherwise.
func (r Resolution) Err() error {
	if r.Found {
		return nil
	}
	return fmt.Errorf("%w %q", ErrHashNotFound, r.Key)
}

// Resolver scans the immediate children of an input root. Folder hashes are
// memoised for the Resolver's lifetime, which is a single run.
type Resolver struct {
	root     string
	geometry string
	hashes   map[string]string
}

// New creates a Resolver over root, identifying folders by the file named
// geometry inside them.
func New(root, geometry string) *Resolver {
	return &Resolver{
		root:     root,
		geometry: geometry,
		hashes:   make(map[string]string),
	}
}

// Resolve returns the first folder, in directory order, whose geometry hash
// equals key. A key with no match is not an error; inspect Resolution.Found.
func (r *Resolver) Resolve(ctx context.Context, key string) (Resolution, error) {
	logger := ctxlog.FromContext(ctx)

	dirs, err := fsutil.FindDirsContaining(r.root, r.geometry)
	if err != nil {
		return Resolution{Key: key}, fmt.Errorf("failed to scan input folder '%s': %w", r.root, err)
	}

	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return Resolution{Key: key}, err
		}
		sum, err := r.hashOf(dir)
		if err != nil {
			return Resolution{Key: key}, err
		}
		if sum == key {
			logger.Debug("Resolved source folder.", "key", key, "dir", dir)
			return Resolution{Key: key, Found: true, Dir: dir}, nil
		}
	}

	logger.Debug("No source folder matched.", "key", key, "scanned", len(dirs))
	return Resolution{Key: key}, nil
}

// Orphans returns the folders whose geometry hash is not among keys, in
// directory order.
func (r *Resolver) Orphans(ctx context.Context, keys []string) ([]string, error) {
	want := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		want[k] = struct{}{}
	}

	dirs, err := fsutil.FindDirsContaining(r.root, r.geometry)
	if err != nil {
		return nil, fmt.Errorf("failed to scan input folder '%s': %w", r.root, err)
	}

	var orphans []string
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sum, err := r.hashOf(dir)
		if err != nil {
			return nil, err
		}
		if _, ok := want[sum]; !ok {
			orphans = append(orphans, dir)
		}
	}
	return orphans, nil
}

func (r *Resolver) hashOf(dir string) (string, error) {
	if sum, ok := r.hashes[dir]; ok {
		return sum, nil
	}
	sum, err := hasher.HashFile(filepath.Join(dir, r.geometry))
	if err != nil {
		return "", err
	}
	r.hashes[dir] = sum
	return sum, nil
}
