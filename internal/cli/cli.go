package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/holdimport/internal/app"
)

// Exit codes used by the process.
const (
	ExitFailure      = 1
	ExitUsage        = 2
	ExitOutputExists = 3
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("holdimport", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
holdimport - Imports hold models, generating their preview image and animation.

Usage:
  holdimport [options] INPUT OUTPUT [options]

Arguments:
  INPUT
    The models/ folder produced by the modeling pipeline (contains holds.yaml).
  OUTPUT
    The folder the holds are copied to. It must not exist yet.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to an importer.hcl settings file. Defaults to INPUT/importer.hcl when present.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	keepGoingFlag := flagSet.Bool("keep-going", false, "Continue with the remaining holds after one fails.")
	noPreviewFlag := flagSet.Bool("no-preview", false, "Do not run the preview generator.")
	notifyFlag := flagSet.String("notify-url", "", "socket.io endpoint that receives progress events.")

	positional, err := parseInterspersed(flagSet, args)
	if err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	switch len(positional) {
	case 0:
		slog.Debug("No paths provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	case 2:
	default:
		return nil, false, &ExitError{Code: ExitUsage, Message: fmt.Sprintf("expected INPUT and OUTPUT arguments, got %d argument(s)", len(positional))}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		InputPath:  positional[0],
		OutputPath: positional[1],
		ConfigPath: *configFlag,
		LogFormat:  logFormat,
		LogLevel:   logLevel,
		KeepGoing:  *keepGoingFlag,
		NoPreview:  *noPreviewFlag,
		NotifyURL:  *notifyFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// parseInterspersed parses flags that appear before, between or after the
// positional arguments. Everything after a "--" terminator is positional.
func parseInterspersed(flagSet *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := flagSet.Parse(args); err != nil {
			return nil, err
		}
		rest := flagSet.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		if consumed := len(args) - len(rest); consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}
