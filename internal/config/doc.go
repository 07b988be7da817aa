// Package config defines the format-agnostic settings model for an import
// run, along with the Loader interface for reading settings from a file.
//
// `config.Settings` is the single source of truth for the `app` package.
// Concrete loaders, such as the HCL one, live in separate packages.
package config
