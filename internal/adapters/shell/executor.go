// Package shell provides the process executor adapter.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// tailSize is how much trailing output is kept for failure reports.
	tailSize = 4 << 10
	// waitDelay bounds how long Wait blocks on pipes held open by orphaned children.
	waitDelay = 5 * time.Second
)

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor using os/exec.
type Executor struct {
	logger  ports.Logger
	verbose atomic.Bool
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// SetVerbose makes every output line of every process go to the logger as well.
func (e *Executor) SetVerbose(v bool) {
	e.verbose.Store(v)
}

// Execute runs the invocation.
// The environment is merged with the following priority (low to high):
// 1. os.Environ() (System base)
// 2. inv.Env, with PATH prepended to the system PATH
//
// Output is copied to out, to the vertex stored in ctx, and to the logger when verbose.
func (e *Executor) Execute(
	ctx context.Context,
	inv domain.ProcessInvocation,
	out io.Writer,
) (domain.ProcessResult, error) {
	if inv.Path == "" {
		return domain.ProcessResult{}, zerr.Wrap(domain.ErrSubcommandFailed, "empty command")
	}

	runCtx := ctx
	if inv.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, inv.Timeout)
		defer cancel()
	}

	cmdEnv := resolveEnvironment(os.Environ(), inv.Env)

	// Resolve the executable path using the new environment's PATH.
	executable := inv.Path
	if !filepath.IsAbs(inv.Path) && !strings.ContainsRune(inv.Path, filepath.Separator) {
		if lp, err := lookPath(inv.Path, cmdEnv); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(runCtx, executable, inv.Args...) //nolint:gosec // commands come from the project manifest
	// Keep the name as invoked in Args[0].
	if len(cmd.Args) > 0 {
		cmd.Args[0] = inv.Path
	}
	cmd.Dir = inv.Dir
	cmd.Env = cmdEnv
	cmd.WaitDelay = waitDelay

	tail := newTailBuffer(tailSize)
	sinks := []io.Writer{tail}
	if out != nil {
		sinks = append(sinks, out)
	}
	if v, ok := ports.VertexFromContext(ctx); ok {
		sinks = append(sinks, v.Stdout())
	}
	var lw *LineWriter
	if e.verbose.Load() {
		lw = NewLineWriter(e.logger)
		sinks = append(sinks, lw)
	}
	w := io.MultiWriter(sinks...)
	cmd.Stdout = w
	cmd.Stderr = w

	err := cmd.Run()
	if lw != nil {
		lw.Flush()
	}

	result := domain.ProcessResult{Tail: tail.String()}
	if err == nil {
		return result, nil
	}

	result.ExitCode = -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	}

	if ctx.Err() != nil {
		return result, zerr.With(zerr.Wrap(ctx.Err(), "command cancelled"), "command", inv.String())
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		timeoutErr := zerr.With(zerr.Wrap(domain.ErrTimeout, "command timed out"), "command", inv.String())
		return result, zerr.With(timeoutErr, "timeout", inv.Timeout.String())
	}

	failErr := zerr.With(zerr.Wrap(domain.ErrSubcommandFailed, "command failed"), "exit_code", result.ExitCode)
	failErr = zerr.With(failErr, "command", inv.String())
	return result, zerr.With(failErr, "error", err.Error())
}

// resolveEnvironment merges environment variables with the defined priority.
func resolveEnvironment(sysEnv []string, env domain.EnvironmentMap) []string {
	envMap := make(domain.EnvironmentMap, len(sysEnv)+len(env))
	for _, entry := range sysEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}

	for k, v := range env {
		if k == "PATH" {
			if sysPath := envMap["PATH"]; sysPath != "" {
				envMap[k] = v + string(os.PathListSeparator) + sysPath
				continue
			}
		}
		envMap[k] = v
	}

	return envMap.Environ()
}

// lookPath searches for an executable in the directories named by the PATH environment variable.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
