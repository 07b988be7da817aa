package app

import (
	"errors"
	"path/filepath"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	InputPath  string // model tree produced by the modeling pipeline
	OutputPath string // must not exist yet
	ConfigPath string // optional settings file

	LogFormat string
	LogLevel  string
	KeepGoing bool
	NoPreview bool
	NotifyURL string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.InputPath == "" {
		return nil, errors.New("InputPath is a required configuration field and cannot be empty")
	}
	if cfg.OutputPath == "" {
		return nil, errors.New("OutputPath is a required configuration field and cannot be empty")
	}
	if filepath.Clean(cfg.InputPath) == filepath.Clean(cfg.OutputPath) {
		return nil, errors.New("OutputPath must differ from InputPath")
	}
	return &cfg, nil
}
