package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is the top-level shape of an importer.hcl file. Unknown blocks or
// attributes are rejected by gohcl so typos surface at load time.
type fileRoot struct {
	Layout    *layoutBlock  `hcl:"layout,block"`
	Preview   *previewBlock `hcl:"preview,block"`
	Notify    *notifyBlock  `hcl:"notify,block"`
	KeepGoing *bool         `hcl:"keep_going,optional"`
}

type layoutBlock struct {
	Manifest *string `hcl:"manifest,optional"`
	Geometry *string `hcl:"geometry,optional"`
	Material *string `hcl:"material,optional"`
	Texture  *string `hcl:"texture,optional"`
}

type previewBlock struct {
	Command *string `hcl:"command,optional"`
	// Args stays unevaluated; it is rendered per hold with the
	// geometry, stem and key variables in scope.
	Args    hcl.Expression `hcl:"args,optional"`
	Dir     *string        `hcl:"dir,optional"`
	Timeout *string        `hcl:"timeout,optional"`
}

type notifyBlock struct {
	URL       string  `hcl:"url"`
	Namespace *string `hcl:"namespace,optional"`
	Timeout   *string `hcl:"timeout,optional"`
}
