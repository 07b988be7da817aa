package config

import "time"

// Default names used by the modeling pipeline that produces the input tree.
const (
	DefaultManifest        = "holds.yaml"
	DefaultGeometry        = "model.obj"
	DefaultMaterial        = "model.mtl"
	DefaultTexture         = "model.jpg"
	DefaultPreviewCommand  = "python3"
	DefaultPreviewScript   = "GenerateHoldPreview.py"
	DefaultPreviewTimeout  = 10 * time.Minute
	DefaultNotifyNamespace = "/"
	DefaultNotifyTimeout   = 15 * time.Second
	// SettingsFileName is looked up in the input folder when no settings
	// file is given explicitly.
	SettingsFileName = "importer.hcl"
)

// Settings is the unified, format-agnostic representation of an import
// run's tunables.
type Settings struct {
	Layout    Layout
	Preview   Preview
	Notify    *Notify
	KeepGoing bool
}

// Layout names the files inside the input tree.
type Layout struct {
	Manifest string
	Geometry string
	Material string
	Texture  string
}

// Preview describes the external preview generator.
type Preview struct {
	Command string
	// Args is nil when the default [script, geometry, stem] list applies.
	Args    ArgsTemplate
	Dir     string
	Timeout time.Duration
}

// Notify configures the optional socket.io progress publisher.
type Notify struct {
	URL       string
	Namespace string
	Timeout   time.Duration
}

// Default returns the settings used when no settings file is present.
func Default() *Settings {
	return &Settings{
		Layout: Layout{
			Manifest: DefaultManifest,
			Geometry: DefaultGeometry,
			Material: DefaultMaterial,
			Texture:  DefaultTexture,
		},
		Preview: Preview{
			Command: DefaultPreviewCommand,
			Timeout: DefaultPreviewTimeout,
		},
	}
}
