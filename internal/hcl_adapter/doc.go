// Package hcl_adapter loads importer settings from an HCL file into the
// format-agnostic config.Settings model.
//
// A settings file looks like:
//
//	keep_going = true
//
//	layout {
//	  manifest = "holds.yaml"
//	  geometry = "model.obj"
//	}
//
//	preview {
//	  command = "blender"
//	  args    = ["--background", "--python", "render.py", "--", geometry, stem]
//	  timeout = "2m"
//	}
//
//	notify {
//	  url = "http://localhost:3000/socket.io/"
//	}
//
// preview.args is evaluated once per hold with the variables geometry, stem
// and key in scope.
package hcl_adapter
