package config

import "context"

// Loader is the interface for a format-specific settings loader.
type Loader interface {
	// Load reads settings from path on top of Default(). A missing file is
	// an error; callers decide whether a settings file is optional.
	Load(ctx context.Context, path string) (*Settings, error)
}

// ArgVars are the per-hold values an argument template may reference. The
// cty tags name the variables exposed to templates.
type ArgVars struct {
	Geometry string `cty:"geometry"`
	Stem     string `cty:"stem"`
	Key      string `cty:"key"`
}

// ArgsTemplate renders the preview generator's argument list for one hold.
type ArgsTemplate interface {
	Render(ctx context.Context, vars ArgVars) ([]string, error)
}
