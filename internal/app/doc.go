// Package app contains the import workflow. It defines the App struct, its
// configuration, and the run lifecycle (output guard, manifest, per-hold
// resolve and export, report), decoupled from the CLI entrypoint.
package app
