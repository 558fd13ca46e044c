// Package pipeline drives one target through patching, building, staging and reverting.
package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/ffbuild/internal/engine/runner"
	"go.trai.ch/zerr"
)

// Job is everything a single target build needs.
type Job struct {
	Target domain.BuildTarget
	// Steps are the planned steps in execution order.
	Steps []domain.DependencyStep
	// Source is the pristine source tree copied into the target's work directory.
	Source  string
	Patches []domain.PatchSpec
	Binary  string
	Timeout time.Duration
}

// Pipeline runs jobs. It holds no per-target state, so one Pipeline serves
// every concurrently running target.
type Pipeline struct {
	workspace ports.Workspace
	patcher   ports.Patcher
	runner    *runner.Runner
	telemetry ports.Telemetry
	logger    ports.Logger
}

// New creates a new Pipeline.
func New(
	workspace ports.Workspace,
	patcher ports.Patcher,
	r *runner.Runner,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Pipeline {
	return &Pipeline{
		workspace: workspace,
		patcher:   patcher,
		runner:    r,
		telemetry: telemetry,
		logger:    logger,
	}
}

// Run builds job.Target. Patches are reverted exactly once before the result is
// returned, whatever happened before.
func (p *Pipeline) Run(ctx context.Context, job Job, observe Observer) (result domain.TargetResult) {
	start := time.Now()
	id := job.Target.ID
	m := newMachine(id, observe)
	result.Target = id

	var failure *domain.BuildFailure
	defer func() {
		if err := m.to(domain.StateReverting); err != nil {
			p.logger.Error(err)
		}
		p.revert(context.WithoutCancel(ctx), job)

		final := domain.StateComplete
		if failure != nil {
			final = domain.StateFailed
			result.Artifact = nil
		}
		if err := m.to(final); err != nil {
			p.logger.Error(err)
		}
		result.State = m.state
		result.Failure = failure
		result.Duration = time.Since(start)
	}()

	if err := m.to(domain.StatePatching); err != nil {
		failure = asFailure(id, "", domain.ErrIllegalTransition, err)
		return result
	}
	if err := p.prepare(job); err != nil {
		failure = asFailure(id, "", domain.ErrPrepare, err)
		return result
	}
	if err := p.apply(ctx, job); err != nil {
		failure = asFailure(id, "", domain.ErrPrepare, err)
		return result
	}

	if err := m.to(domain.StateBuilding); err != nil {
		failure = asFailure(id, "", domain.ErrIllegalTransition, err)
		return result
	}
	for _, step := range job.Steps {
		if err := p.step(ctx, job, step); err != nil {
			failure = asFailure(id, step.Name, domain.ErrSubcommandFailed, err)
			return result
		}
	}

	if err := m.to(domain.StateAssembling); err != nil {
		failure = asFailure(id, "", domain.ErrIllegalTransition, err)
		return result
	}
	artifact, err := p.stage(job)
	if err != nil {
		failure = asFailure(id, finalStep(job.Steps), domain.ErrArtifactMerge, err)
		return result
	}
	result.Artifact = &artifact
	return result
}

// prepare gives the target a private copy of the sources and an empty prefix.
func (p *Pipeline) prepare(job Job) error {
	t := job.Target
	if err := p.workspace.CopyTree(job.Source, t.SourceDir()); err != nil {
		return err
	}
	if err := p.workspace.RemoveAll(t.PrefixDir()); err != nil {
		return err
	}
	if err := os.MkdirAll(t.PrefixDir(), 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create prefix"), "path", t.PrefixDir())
	}
	return nil
}

// apply applies every patch. A patch that does not apply is reported and skipped.
func (p *Pipeline) apply(ctx context.Context, job Job) error {
	for _, patch := range job.Patches {
		err := p.patcher.Apply(ctx, job.Target.SourceDir(), patch)
		switch {
		case err == nil:
		case ctx.Err() != nil:
			return zerr.Wrap(ctx.Err(), "patching interrupted")
		case errors.Is(err, domain.ErrPatchApply):
			p.logger.Warn(job.Target.ID.String() + ": patch " + patch.Patch + " did not apply to " + patch.File)
		default:
			return err
		}
	}
	return nil
}

func (p *Pipeline) revert(ctx context.Context, job Job) {
	for i := len(job.Patches) - 1; i >= 0; i-- {
		patch := job.Patches[i]
		if err := p.patcher.Revert(ctx, job.Target.SourceDir(), patch); err != nil {
			p.logger.Warn(job.Target.ID.String() + ": failed to revert " + patch.File + ": " + err.Error())
		}
	}
}

func (p *Pipeline) step(ctx context.Context, job Job, step domain.DependencyStep) error {
	ctx, vertex := p.telemetry.Record(ctx, job.Target.ID.String()+"/"+step.Name)
	err := p.runner.Execute(ctx, job.Target, step, job.Timeout)
	vertex.Complete(err)
	return err
}

// stage copies the installed binary out of the prefix.
func (p *Pipeline) stage(job Job) (domain.Artifact, error) {
	t := job.Target
	name := t.BinaryName(job.Binary)
	installed := filepath.Join(t.PrefixDir(), "bin", name)
	if _, err := os.Stat(installed); err != nil {
		return domain.Artifact{}, zerr.With(zerr.Wrap(domain.ErrArtifactMerge, "binary not installed"), "path", installed)
	}
	staged := t.StagedBinary(job.Binary)
	if err := p.workspace.CopyFile(installed, staged); err != nil {
		return domain.Artifact{}, err
	}
	return domain.Artifact{Target: t.ID, Path: staged}, nil
}

func finalStep(steps []domain.DependencyStep) string {
	for _, s := range steps {
		if s.Final {
			return s.Name
		}
	}
	return ""
}

// asFailure keeps a *domain.BuildFailure as is and wraps anything else.
func asFailure(id domain.TargetID, step string, kind, err error) *domain.BuildFailure {
	if f, ok := domain.AsBuildFailure(err); ok {
		return f
	}
	return &domain.BuildFailure{Target: id, Step: step, Kind: kind, Err: err}
}
