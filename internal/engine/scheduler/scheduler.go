// Package scheduler fans targets out to the pipeline and assembles the results.
package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/ffbuild/internal/engine/assembler"
	"go.trai.ch/ffbuild/internal/engine/pipeline"
	"go.trai.ch/ffbuild/internal/engine/planner"
	"go.trai.ch/ffbuild/internal/engine/runner"
	"golang.org/x/sync/errgroup"
)

// Request describes one build run.
type Request struct {
	Project *domain.Project
	// Targets are the resolved targets in canonical order.
	Targets  []domain.BuildTarget
	Planner  *planner.Planner
	Parallel int
	// Force rebuilds targets whose build record is still current.
	Force bool
}

// Scheduler manages the execution of targets.
type Scheduler struct {
	pipeline  *pipeline.Pipeline
	assembler *assembler.Assembler
	runner    *runner.Runner
	hasher    ports.Hasher
	store     ports.BuildRecordStore
	resolver  ports.InputResolver
	telemetry ports.Telemetry
	logger    ports.Logger

	mu     sync.RWMutex
	status map[domain.TargetID]domain.TargetState
}

// NewScheduler creates a new Scheduler.
func NewScheduler(
	p *pipeline.Pipeline,
	a *assembler.Assembler,
	r *runner.Runner,
	hasher ports.Hasher,
	store ports.BuildRecordStore,
	resolver ports.InputResolver,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Scheduler {
	return &Scheduler{
		pipeline:  p,
		assembler: a,
		runner:    r,
		hasher:    hasher,
		store:     store,
		resolver:  resolver,
		telemetry: telemetry,
		logger:    logger,
		status:    make(map[domain.TargetID]domain.TargetState),
	}
}

// work is a planned target together with its fingerprint.
type work struct {
	job         pipeline.Job
	fingerprint string
}

// Run builds every requested target and assembles the platforms whose targets
// all succeeded. Target failures are reported in the summary; the returned
// error is reserved for problems that stop the run before any target starts.
func (s *Scheduler) Run(ctx context.Context, req Request) (domain.RunSummary, error) {
	s.initStatus(req.Targets)

	inputs, err := s.resolveInputs(req.Project)
	if err != nil {
		return domain.RunSummary{}, err
	}

	jobs := make([]work, len(req.Targets))
	for i, t := range req.Targets {
		steps, err := req.Planner.Plan(t)
		if err != nil {
			return domain.RunSummary{}, err
		}
		jobs[i] = work{job: pipeline.Job{
			Target:  t,
			Steps:   steps,
			Source:  req.Project.Paths.Source,
			Patches: req.Project.Patches[t.ID.Platform],
			Binary:  req.Project.Binary,
			Timeout: req.Project.Timeout,
		}}
		jobs[i].fingerprint = s.fingerprint(req, jobs[i].job, inputs)
	}

	results := make([]domain.TargetResult, len(jobs))
	var pending []int
	for i, w := range jobs {
		if !req.Force && s.upToDate(req.Project.Paths.State, w) {
			results[i] = s.cached(ctx, w.job)
			continue
		}
		pending = append(pending, i)
	}

	bootstrapped := s.bootstrap(ctx, req, jobs, pending)

	var g errgroup.Group
	g.SetLimit(max(req.Parallel, 1))
	for _, i := range pending {
		w := jobs[i]
		if f := bootstrapped[w.job.Target.ID.Platform]; f != nil {
			results[i] = s.skipped(w.job.Target.ID, f)
			continue
		}
		g.Go(func() error {
			res := s.pipeline.Run(ctx, w.job, s.observe)
			if res.State == domain.StateComplete {
				s.record(req.Project.Paths.State, w, res)
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	summary := domain.RunSummary{Results: results}
	s.assemble(ctx, req, &summary)
	return summary, nil
}

// Status returns a snapshot of every target's state.
func (s *Scheduler) Status() map[domain.TargetID]domain.TargetState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[domain.TargetID]domain.TargetState, len(s.status))
	for k, v := range s.status {
		out[k] = v
	}
	return out
}

func (s *Scheduler) initStatus(targets []domain.BuildTarget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.status)
	for _, t := range targets {
		s.status[t.ID] = domain.StatePending
	}
}

func (s *Scheduler) observe(id domain.TargetID, state domain.TargetState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[id] = state
}

func (s *Scheduler) resolveInputs(p *domain.Project) ([]string, error) {
	if len(p.Inputs) == 0 {
		return nil, nil
	}
	return s.resolver.ResolveInputs(p.Inputs, p.Paths.Source)
}

// fingerprint hashes the target's plan and every file that shapes it: the
// vendored sources of each step, flag files, patches and extra inputs. Flag files
// and patches are optional, so only the ones present are hashed. An empty
// fingerprint disables caching for the target.
func (s *Scheduler) fingerprint(req Request, job pipeline.Job, inputs []string) string {
	var files []string
	for _, spec := range req.Project.Steps {
		files = append(files, existing([]string{filepath.Join(req.Project.Paths.Source, spec.Dir)})...)
	}
	files = append(files, existing(req.Planner.FlagFiles(job.Target.ID))...)
	for _, p := range job.Patches {
		files = append(files, existing([]string{p.Patch})...)
	}
	files = append(files, inputs...)

	fp, err := s.hasher.Fingerprint(job.Target, job.Steps, files)
	if err != nil {
		s.logger.Warn(job.Target.ID.String() + ": fingerprint unavailable, rebuilding: " + err.Error())
		return ""
	}
	return fp
}

func existing(paths []string) []string {
	var out []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

// upToDate reports whether the stored record matches the fingerprint and the
// staged binary it points at is unchanged.
func (s *Scheduler) upToDate(dir string, w work) bool {
	if w.fingerprint == "" {
		return false
	}
	rec, err := s.store.Get(dir, w.job.Target.ID.String())
	if err != nil {
		s.logger.Warn("ignoring unreadable build record: " + err.Error())
		return false
	}
	if rec == nil || rec.Fingerprint != w.fingerprint {
		return false
	}
	staged := w.job.Target.StagedBinary(w.job.Binary)
	hash, err := s.hasher.FileHash(staged)
	return err == nil && hash == rec.ArtifactHash
}

func (s *Scheduler) cached(ctx context.Context, job pipeline.Job) domain.TargetResult {
	id := job.Target.ID
	_, vertex := s.telemetry.Record(ctx, id.String())
	vertex.Cached()
	s.observe(id, domain.StateCached)
	return domain.TargetResult{
		Target:   id,
		State:    domain.StateCached,
		Artifact: &domain.Artifact{Target: id, Path: job.Target.StagedBinary(job.Binary)},
	}
}

func (s *Scheduler) skipped(id domain.TargetID, f *domain.BuildFailure) domain.TargetResult {
	failure := *f
	failure.Target = id
	s.observe(id, domain.StateFailed)
	return domain.TargetResult{Target: id, State: domain.StateFailed, Failure: &failure}
}

// bootstrap runs each platform's bootstrap commands once, before any of its
// targets start, and returns the failure of every platform that could not be
// bootstrapped.
func (s *Scheduler) bootstrap(
	ctx context.Context,
	req Request,
	jobs []work,
	pending []int,
) map[domain.Platform]*domain.BuildFailure {
	failed := make(map[domain.Platform]*domain.BuildFailure)
	seen := make(map[domain.Platform]bool)
	for _, i := range pending {
		target := jobs[i].job.Target
		platform := target.ID.Platform
		cmds := req.Project.Bootstrap[platform]
		if seen[platform] || len(cmds) == 0 {
			continue
		}
		seen[platform] = true

		step := domain.DependencyStep{Name: "bootstrap", WorkingDir: req.Project.Paths.Source}
		for _, args := range cmds {
			step.Commands = append(step.Commands, domain.SubCommand{Kind: domain.KindBootstrap, Args: args})
		}

		vctx, vertex := s.telemetry.Record(ctx, string(platform)+"/bootstrap")
		err := s.runner.Execute(vctx, target, step, req.Project.Timeout)
		vertex.Complete(err)
		if err == nil {
			continue
		}
		f, ok := domain.AsBuildFailure(err)
		if !ok {
			f = &domain.BuildFailure{Step: step.Name, Kind: domain.ErrSubcommandFailed, Err: err}
		}
		failed[platform] = f
	}
	return failed
}

func (s *Scheduler) record(dir string, w work, res domain.TargetResult) {
	if w.fingerprint == "" || res.Artifact == nil {
		return
	}
	hash, err := s.hasher.FileHash(res.Artifact.Path)
	if err != nil {
		s.logger.Error(err)
		return
	}
	rec := domain.BuildRecord{
		Target:       w.job.Target.ID.String(),
		Fingerprint:  w.fingerprint,
		ArtifactHash: hash,
		Artifact:     res.Artifact.Path,
		Timestamp:    time.Now(),
	}
	if err := s.store.Put(dir, rec); err != nil {
		s.logger.Error(err)
	}
}

// assemble reduces each platform whose targets all succeeded to its artifacts.
func (s *Scheduler) assemble(ctx context.Context, req Request, summary *domain.RunSummary) {
	var platforms []domain.Platform
	byPlatform := make(map[domain.Platform][]domain.TargetResult)
	for _, r := range summary.Results {
		p := r.Target.Platform
		if !slices.Contains(platforms, p) {
			platforms = append(platforms, p)
		}
		byPlatform[p] = append(byPlatform[p], r)
	}

	for _, p := range platforms {
		outputs := make([]domain.Artifact, 0, len(byPlatform[p]))
		for _, r := range byPlatform[p] {
			if !r.State.Succeeded() || r.Artifact == nil {
				outputs = nil
				break
			}
			outputs = append(outputs, *r.Artifact)
		}
		if len(outputs) == 0 {
			continue
		}

		universal := req.Project.IsUniversal(p) && len(outputs) > 1
		finals, err := s.assembler.Assemble(ctx, req.Project.Paths.Artifacts, p, universal, outputs)
		if err != nil {
			f, ok := domain.AsBuildFailure(err)
			if !ok {
				f = &domain.BuildFailure{Target: domain.TargetID{Platform: p}, Kind: domain.ErrArtifactMerge, Err: err}
			}
			summary.AssemblyFailures = append(summary.AssemblyFailures, f)
			continue
		}
		summary.Artifacts = append(summary.Artifacts, finals...)
	}
}
