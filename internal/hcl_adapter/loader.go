package hcl_adapter

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/holdimport/internal/config"
	"github.com/specialistvlad/holdimport/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL settings loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses the settings file at path and overlays it on config.Default().
func (l *Loader) Load(ctx context.Context, path string) (*config.Settings, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	settings, err := l.translate(&root, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}

	logger.Debug("HCL loading complete.",
		"manifest", settings.Layout.Manifest,
		"preview_command", settings.Preview.Command,
		"custom_args", settings.Preview.Args != nil,
		"notify", settings.Notify != nil,
		"keep_going", settings.KeepGoing,
	)
	return settings, nil
}

// translate converts the HCL-specific schema into the agnostic model. Relative
// directories are resolved against baseDir, the settings file's folder.
func (l *Loader) translate(root *fileRoot, baseDir string) (*config.Settings, error) {
	s := config.Default()

	if root.KeepGoing != nil {
		s.KeepGoing = *root.KeepGoing
	}

	if b := root.Layout; b != nil {
		for _, f := range []struct {
			name string
			src  *string
			dst  *string
		}{
			{"manifest", b.Manifest, &s.Layout.Manifest},
			{"geometry", b.Geometry, &s.Layout.Geometry},
			{"material", b.Material, &s.Layout.Material},
			{"texture", b.Texture, &s.Layout.Texture},
		} {
			if f.src == nil {
				continue
			}
			if err := validateBaseName(*f.src); err != nil {
				return nil, fmt.Errorf("layout.%s: %w", f.name, err)
			}
			*f.dst = *f.src
		}
		if filepath.Ext(s.Layout.Texture) == "" {
			return nil, fmt.Errorf("layout.texture: %q has no extension", s.Layout.Texture)
		}
	}

	if b := root.Preview; b != nil {
		if b.Command != nil {
			if strings.TrimSpace(*b.Command) == "" {
				return nil, fmt.Errorf("preview.command must not be empty")
			}
			s.Preview.Command = *b.Command
		}
		if b.Dir != nil {
			s.Preview.Dir = resolveDir(baseDir, *b.Dir)
		}
		if b.Timeout != nil {
			d, err := parseDuration(*b.Timeout)
			if err != nil {
				return nil, fmt.Errorf("preview.timeout: %w", err)
			}
			s.Preview.Timeout = d
		}
		if b.Args != nil && !isNullExpr(b.Args) {
			tmpl, err := newArgsTemplate(b.Args)
			if err != nil {
				return nil, fmt.Errorf("preview.args: %w", err)
			}
			s.Preview.Args = tmpl
		}
	}

	if b := root.Notify; b != nil {
		if strings.TrimSpace(b.URL) == "" {
			return nil, fmt.Errorf("notify.url must not be empty")
		}
		n := &config.Notify{
			URL:       b.URL,
			Namespace: config.DefaultNotifyNamespace,
			Timeout:   config.DefaultNotifyTimeout,
		}
		if b.Namespace != nil {
			n.Namespace = *b.Namespace
		}
		if b.Timeout != nil {
			d, err := parseDuration(*b.Timeout)
			if err != nil {
				return nil, fmt.Errorf("notify.timeout: %w", err)
			}
			n.Timeout = d
		}
		s.Notify = n
	}

	return s, nil
}

func validateBaseName(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return fmt.Errorf("%q must be a plain file name", name)
	}
	return nil
}

func resolveDir(baseDir, dir string) string {
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(baseDir, dir)
}

func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("duration %q must not be negative", s)
	}
	return d, nil
}

// isNullExpr reports whether expr is gohcl's placeholder for an omitted
// optional attribute.
func isNullExpr(expr hcl.Expression) bool {
	if len(expr.Variables()) > 0 {
		return false
	}
	val, diags := expr.Value(nil)
	return !diags.HasErrors() && val.IsNull()
}
