package app

import (
	"context"
	"path/filepath"

	"github.com/specialistvlad/holdimport/internal/ctxlog"
	"github.com/specialistvlad/holdimport/internal/exporter"
)

// KeyFailure records a hold that was matched but could not be exported.
type KeyFailure struct {
	Key string
	Err error
}

// Report summarises one run.
type Report struct {
	Manifest  string // path of the manifest copy in the output folder
	Keys      int
	Imported  []*exporter.Result
	Failed    []KeyFailure
	Unmatched []string // manifest keys with no source folder
	Orphans   []string // source folders whose hash is not in the manifest
}

// OK reports whether every manifest key was imported.
func (r *Report) OK() bool {
	return len(r.Failed) == 0 && len(r.Unmatched) == 0
}

// ImportedKeys returns the keys that were exported, in run order.
func (r *Report) ImportedKeys() []string {
	keys := make([]string, len(r.Imported))
	for i, res := range r.Imported {
		keys[i] = res.Key
	}
	return keys
}

func (r *Report) log(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)

	for _, key := range r.Unmatched {
		logger.Warn("Manifest key was not found in the input folder.", "key", key)
	}
	for _, f := range r.Failed {
		logger.Error("Hold failed to import.", "key", f.Key, "error", f.Err)
	}
	for _, dir := range r.Orphans {
		logger.Warn("Model folder is not listed in the manifest.", "folder", filepath.Base(dir))
	}

	logger.Info("Import summary.",
		"keys", r.Keys,
		"imported", len(r.Imported),
		"failed", len(r.Failed),
		"unmatched", len(r.Unmatched),
		"orphans", len(r.Orphans),
	)
}
