// Package preview invokes the external preview generator that renders an
// image and animation for each imported hold.
package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/specialistvlad/holdimport/internal/ctxlog"
)

// ErrGeneratorFailed wraps every generator failure: start error, non-zero
// exit or timeout.
var ErrGeneratorFailed = errors.New("preview generator failed")

const waitDelay = 5 * time.Second

// TimeoutExitCode is reported when the generator is killed by its timeout.
const TimeoutExitCode = 124

// Generator renders previews for one exported geometry file. stem is the
// destination path without extension; artifacts are written next to it.
type Generator interface {
	Generate(ctx context.Context, geometryPath, stem string) error
}

// ArgsFunc builds the generator's argument list for one hold.
type ArgsFunc func(geometryPath, stem string) ([]string, error)

// ScriptArgs returns an ArgsFunc producing [script, geometryPath, stem].
func ScriptArgs(script string) ArgsFunc {
	return func(geometryPath, stem string) ([]string, error) {
		return []string{script, geometryPath, stem}, nil
	}
}

// Result captures one generator process run.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
}

// ExecGenerator runs an external command once per hold and waits for it.
type ExecGenerator struct {
	Command string
	Args    ArgsFunc
	Dir     string
	// Timeout bounds a single invocation; zero means no limit.
	Timeout time.Duration
}

// Generate runs the command and returns an error wrapping ErrGeneratorFailed
// unless it exits with status zero. Paths are made absolute first since the
// command may run in Dir.
func (g *ExecGenerator) Generate(ctx context.Context, geometryPath, stem string) error {
	logger := ctxlog.FromContext(ctx).With("generator", g.Command)

	geometryPath, err := filepath.Abs(geometryPath)
	if err != nil {
		return fmt.Errorf("%w: resolving geometry path: %v", ErrGeneratorFailed, err)
	}
	stem, err = filepath.Abs(stem)
	if err != nil {
		return fmt.Errorf("%w: resolving stem: %v", ErrGeneratorFailed, err)
	}

	args, err := g.Args(geometryPath, stem)
	if err != nil {
		return fmt.Errorf("%w: building arguments: %v", ErrGeneratorFailed, err)
	}

	logger.Debug("Starting preview generator.", "args", args)
	res, err := g.run(ctx, args)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", ErrGeneratorFailed, err)
	}

	if res.Stdout != "" {
		logger.Debug("Preview generator stdout.", "output", strings.TrimSpace(res.Stdout))
	}
	switch {
	case res.TimedOut:
		return fmt.Errorf("%w: timed out after %v", ErrGeneratorFailed, g.Timeout)
	case res.ExitCode != 0:
		return fmt.Errorf("%w: exit status %d: %s", ErrGeneratorFailed, res.ExitCode, lastLine(res.Stderr))
	}
	logger.Debug("Preview generator finished.", "stem", stem)
	return nil
}

func (g *ExecGenerator) run(ctx context.Context, args []string) (Result, error) {
	runCtx := ctx
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, g.Command, args...)
	if strings.TrimSpace(g.Dir) != "" {
		cmd.Dir = g.Dir
	}

	// Bound the wait for output pipes held open by grandchildren after a kill.
	cmd.WaitDelay = waitDelay

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	if err := cmd.Start(); err != nil {
		return Result{ExitCode: -1}, fmt.Errorf("failed to start %s: %w", g.Command, err)
	}
	waitErr := cmd.Wait()

	res := Result{Stdout: outBuf.String(), Stderr: errBuf.String()}
	if ctx.Err() != nil {
		return res, ctx.Err()
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		res.TimedOut = true
		res.ExitCode = TimeoutExitCode
		return res, nil
	}

	var exitErr *exec.ExitError
	switch {
	case waitErr == nil:
		res.ExitCode = cmd.ProcessState.ExitCode()
	case errors.As(waitErr, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		return res, waitErr
	}
	return res, nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// Disabled is a Generator that does nothing.
type Disabled struct{}

// Generate implements Generator.
func (Disabled) Generate(ctx context.Context, geometryPath, stem string) error {
	ctxlog.FromContext(ctx).Debug("Preview generation disabled, skipping.", "stem", stem)
	return nil
}
