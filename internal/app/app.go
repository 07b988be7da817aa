package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/specialistvlad/holdimport/internal/config"
	"github.com/specialistvlad/holdimport/internal/ctxlog"
	"github.com/specialistvlad/holdimport/internal/fsutil"
	"github.com/specialistvlad/holdimport/internal/notify"
	"github.com/specialistvlad/holdimport/internal/preview"
)

// App encapsulates the importer's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	settings  *config.Settings
	generator preview.Generator
	publisher notify.Publisher
}

// Option customises an App, mostly for tests.
type Option func(*App)

// WithGenerator replaces the preview generator built from settings.
func WithGenerator(g preview.Generator) Option {
	return func(a *App) { a.generator = g }
}

// WithPublisher replaces the progress publisher built from settings.
func WithPublisher(p notify.Publisher) Option {
	return func(a *App) { a.publisher = p }
}

// NewApp is the constructor for the importer. Settings come from
// appConfig.ConfigPath, else from an importer.hcl inside the input folder,
// else from config.Default(); CLI values then override them. A settings
// file that fails to load is a fatal startup error and panics.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, opts ...Option) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	settings, err := loadSettings(ctx, appConfig, loader)
	if err != nil {
		panic(fmt.Errorf("failed to load settings: %w", err))
	}

	if appConfig.KeepGoing {
		settings.KeepGoing = true
	}
	if appConfig.NotifyURL != "" {
		if settings.Notify == nil {
			settings.Notify = &config.Notify{
				Namespace: config.DefaultNotifyNamespace,
				Timeout:   config.DefaultNotifyTimeout,
			}
		}
		settings.Notify.URL = appConfig.NotifyURL
	}

	a := &App{
		outW:     outW,
		logger:   logger,
		config:   appConfig,
		settings: settings,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.generator == nil {
		a.generator = newGenerator(ctx, appConfig, settings)
	}

	logger.Debug("App initialised.",
		"input", appConfig.InputPath,
		"output", appConfig.OutputPath,
		"keep_going", settings.KeepGoing,
		"no_preview", appConfig.NoPreview,
	)
	return a
}

// Settings returns the effective settings. This is primarily for testing.
func (a *App) Settings() *config.Settings {
	return a.settings
}

func loadSettings(ctx context.Context, appConfig *Config, loader config.Loader) (*config.Settings, error) {
	logger := ctxlog.FromContext(ctx)

	path := appConfig.ConfigPath
	if path == "" {
		candidate := filepath.Join(appConfig.InputPath, config.SettingsFileName)
		if fsutil.IsRegularFile(candidate) {
			path = candidate
		}
	}
	if path == "" || loader == nil {
		logger.Debug("No settings file, using defaults.")
		return config.Default(), nil
	}

	logger.Debug("Loading settings file.", "path", path)
	return loader.Load(ctx, path)
}

func newGenerator(ctx context.Context, appConfig *Config, settings *config.Settings) preview.Generator {
	if appConfig.NoPreview {
		return preview.Disabled{}
	}

	args := preview.ScriptArgs(config.DefaultPreviewScript)
	if tmpl := settings.Preview.Args; tmpl != nil {
		args = func(geometryPath, stem string) ([]string, error) {
			return tmpl.Render(ctx, config.ArgVars{
				Geometry: geometryPath,
				Stem:     stem,
				Key:      filepath.Base(stem),
			})
		}
	}

	return &preview.ExecGenerator{
		Command: settings.Preview.Command,
		Args:    args,
		Dir:     settings.Preview.Dir,
		Timeout: settings.Preview.Timeout,
	}
}
