package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specialistvlad/holdimport/internal/ctxlog"
	"github.com/specialistvlad/holdimport/internal/exporter"
	"github.com/specialistvlad/holdimport/internal/fsutil"
	"github.com/specialistvlad/holdimport/internal/manifest"
	"github.com/specialistvlad/holdimport/internal/notify"
	"github.com/specialistvlad/holdimport/internal/resolver"
)

var (
	// ErrOutputExists aborts a run before any work when the output path is taken.
	ErrOutputExists = errors.New("destination folder exists, not copying")
	// ErrImportIncomplete is returned when at least one manifest key was not imported.
	ErrImportIncomplete = errors.New("import incomplete")
)

// Run executes one import. The returned Report is nil only when the run
// aborted before reading the manifest.
func (a *App) Run(ctx context.Context) (*Report, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	logger := a.logger
	logger.Debug("App.Run method started.")

	out := a.config.OutputPath
	exists, err := fsutil.Exists(out)
	if err != nil {
		return nil, fmt.Errorf("failed to check output folder: %w", err)
	}
	if exists {
		logger.Warn("Destination folder exists, not copying.", "output", out)
		return nil, ErrOutputExists
	}

	manifestPath := filepath.Join(a.config.InputPath, a.settings.Layout.Manifest)
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("Manifest loaded.", "path", manifestPath, "keys", m.Len())

	if err := createOutputDir(out); err != nil {
		return nil, err
	}
	copied, err := manifest.CopyRaw(manifestPath, out)
	if err != nil {
		return nil, err
	}

	publisher := a.openPublisher(ctx)
	defer publisher.Close()

	report := &Report{Manifest: copied, Keys: m.Len()}
	res := resolver.New(a.config.InputPath, a.settings.Layout.Geometry)
	exp := exporter.New(a.settings.Layout, out, a.generator)

	logger.Info("🚀 Starting import...", "input", a.config.InputPath, "output", out, "keys", m.Len())

	for _, key := range m.Keys() {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		err := a.importKey(ctx, key, res, exp, report, publisher)
		if err == nil {
			continue
		}
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		publisher.Publish(ctx, notify.EventHoldFailed, map[string]any{"key": key, "error": err.Error()})
		if !a.settings.KeepGoing {
			report.log(ctx)
			return report, err
		}
		logger.Error("Hold failed, continuing.", "key", key, "error", err)
	}

	orphans, err := res.Orphans(ctx, m.Keys())
	if err != nil {
		logger.Warn("Could not check for unlisted model folders.", "error", err)
	}
	report.Orphans = orphans

	report.log(ctx)
	publisher.Publish(ctx, notify.EventImportFinished, map[string]any{
		"imported":  report.ImportedKeys(),
		"failed":    len(report.Failed),
		"unmatched": report.Unmatched,
	})

	if !report.OK() {
		return report, fmt.Errorf("%w: %d of %d holds not imported",
			ErrImportIncomplete, len(report.Failed)+len(report.Unmatched), report.Keys)
	}
	logger.Info("🏁 Import finished.", "imported", len(report.Imported))
	return report, nil
}

// importKey runs RESOLVE then EXPORT for one key and records the outcome.
func (a *App) importKey(ctx context.Context, key string, res *resolver.Resolver, exp *exporter.Exporter, report *Report, publisher notify.Publisher) error {
	ctx = ctxlog.With(ctx, "key", key)
	logger := ctxlog.FromContext(ctx)

	if !manifest.ValidKey(key) {
		logger.Warn("Manifest key does not look like a content hash.")
	}

	resolution, err := res.Resolve(ctx, key)
	if err != nil {
		report.Failed = append(report.Failed, KeyFailure{Key: key, Err: err})
		return err
	}
	if !resolution.Found {
		report.Unmatched = append(report.Unmatched, key)
		return resolution.Err()
	}

	result, err := exp.Export(ctx, key, resolution.Dir)
	if err != nil {
		report.Failed = append(report.Failed, KeyFailure{Key: key, Err: err})
		return err
	}

	report.Imported = append(report.Imported, result)
	logger.Info("Hold imported.", "source", filepath.Base(resolution.Dir))
	publisher.Publish(ctx, notify.EventHoldImported, map[string]any{
		"key":    key,
		"source": filepath.Base(resolution.Dir),
	})
	return nil
}

// createOutputDir creates the output folder and its parents. The final
// element is created with Mkdir so a folder that appeared since the
// existence check is still refused.
func createOutputDir(out string) error {
	if parent := filepath.Dir(out); parent != "" {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return fmt.Errorf("failed to create output parent folder: %w", err)
		}
	}
	if err := os.Mkdir(out, 0o755); err != nil {
		if errors.Is(err, os.ErrExist) {
			return ErrOutputExists
		}
		return fmt.Errorf("failed to create output folder: %w", err)
	}
	return nil
}

func (a *App) openPublisher(ctx context.Context) notify.Publisher {
	if a.publisher != nil {
		return a.publisher
	}
	if a.settings.Notify == nil {
		return notify.Nop{}
	}
	pub, err := notify.Dial(ctx, a.settings.Notify, notify.DialOptions{})
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Progress publisher unavailable, continuing without it.", "error", err)
		return notify.Nop{}
	}
	return pub
}
