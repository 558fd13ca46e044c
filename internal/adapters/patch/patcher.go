// Package patch applies vendor patches with the patch(1) tool.
package patch

import (
	"context"
	"io"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// Tool is the executable invoked for every patch operation.
const Tool = "patch"

var _ ports.Patcher = (*Patcher)(nil)

// Patcher implements ports.Patcher on top of an executor.
type Patcher struct {
	executor ports.Executor
}

// NewPatcher creates a new Patcher.
func NewPatcher(executor ports.Executor) *Patcher {
	return &Patcher{executor: executor}
}

// Apply patches p.File inside dir.
func (p *Patcher) Apply(ctx context.Context, dir string, spec domain.PatchSpec) error {
	inv := invocation(dir, spec, "--forward")
	if _, err := p.executor.Execute(ctx, inv, nil); err != nil {
		return wrap(domain.ErrPatchApply, "failed to apply patch", spec, err)
	}
	return nil
}

// Revert undoes p.File inside dir. A dry run decides whether the patch is applied at all,
// so reverting twice leaves the file untouched.
func (p *Patcher) Revert(ctx context.Context, dir string, spec domain.PatchSpec) error {
	probe := invocation(dir, spec, "--reverse", "--dry-run", "--silent")
	if _, err := p.executor.Execute(ctx, probe, io.Discard); err != nil {
		if ctx.Err() != nil {
			return wrap(domain.ErrPatchRevert, "revert interrupted", spec, ctx.Err())
		}
		return nil
	}

	inv := invocation(dir, spec, "--reverse")
	if _, err := p.executor.Execute(ctx, inv, nil); err != nil {
		return wrap(domain.ErrPatchRevert, "failed to revert patch", spec, err)
	}
	return nil
}

func invocation(dir string, spec domain.PatchSpec, flags ...string) domain.ProcessInvocation {
	args := append([]string{"--batch"}, flags...)
	args = append(args, spec.File, spec.Patch)
	return domain.ProcessInvocation{
		Path: Tool,
		Args: args,
		Dir:  dir,
	}
}

func wrap(sentinel error, msg string, spec domain.PatchSpec, cause error) error {
	err := zerr.With(zerr.Wrap(sentinel, msg), "file", spec.File)
	err = zerr.With(err, "patch", spec.Patch)
	return zerr.With(err, "error", cause.Error())
}
