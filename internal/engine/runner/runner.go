// Package runner executes the sub-commands of a dependency step.
package runner

import (
	"context"
	"errors"
	"time"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
)

// Runner runs steps through an executor, one sub-command at a time.
type Runner struct {
	executor ports.Executor
}

// New creates a new Runner.
func New(executor ports.Executor) *Runner {
	return &Runner{executor: executor}
}

// Execute runs every sub-command of step in order and stops at the first hard failure,
// which is returned as a *domain.BuildFailure. Tolerant sub-commands may fail with a
// non-zero exit; timeouts are never tolerated.
func (r *Runner) Execute(
	ctx context.Context,
	target domain.BuildTarget,
	step domain.DependencyStep,
	timeout time.Duration,
) error {
	vertex, hasVertex := ports.VertexFromContext(ctx)
	for _, cmd := range step.Commands {
		inv := Invocation(target, step, cmd, timeout)
		if hasVertex {
			vertex.Log(domain.LogLevelInfo, "$ "+inv.String())
		}

		res, err := r.executor.Execute(ctx, inv, nil)
		if err == nil {
			continue
		}
		if cmd.Tolerant && ctx.Err() == nil && !errors.Is(err, domain.ErrTimeout) {
			if hasVertex {
				vertex.Log(domain.LogLevelWarn, string(cmd.Kind)+" failed, continuing: "+err.Error())
			}
			continue
		}

		kind := domain.ErrSubcommandFailed
		if errors.Is(err, domain.ErrTimeout) {
			kind = domain.ErrTimeout
		}
		return &domain.BuildFailure{
			Target:     target.ID,
			Step:       step.Name,
			SubCommand: cmd.Kind,
			ExitCode:   res.ExitCode,
			Tail:       res.Tail,
			Kind:       kind,
			Err:        err,
		}
	}
	return nil
}

// Invocation builds the process launch for cmd. Shell wrapped targets run the
// quoted command line through `<shell> -lc`.
func Invocation(
	target domain.BuildTarget,
	step domain.DependencyStep,
	cmd domain.SubCommand,
	timeout time.Duration,
) domain.ProcessInvocation {
	inv := domain.ProcessInvocation{
		Dir:     step.WorkingDir,
		Env:     step.Env,
		Timeout: timeout,
	}
	if target.Capabilities.Has(domain.CapShellWrapped) && target.Toolchain.Shell != "" {
		inv.Path = target.Toolchain.Shell
		inv.Args = []string{"-lc", domain.QuoteArgs(cmd.Args)}
		return inv
	}
	if len(cmd.Args) > 0 {
		inv.Path = cmd.Args[0]
		inv.Args = cmd.Args[1:]
	}
	return inv
}
