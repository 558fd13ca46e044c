// Package app implements the application layer for ffbuild.
package app

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"go.trai.ch/ffbuild/internal/adapters/checksum" //nolint:depguard // Sidecar naming is shared with the adapter
	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/ffbuild/internal/engine/composer"
	"go.trai.ch/ffbuild/internal/engine/planner"
	"go.trai.ch/ffbuild/internal/engine/registry"
	"go.trai.ch/ffbuild/internal/engine/runner"
	"go.trai.ch/ffbuild/internal/engine/scheduler"
	"go.trai.ch/ffbuild/internal/ui/summary"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	loader    ports.ConfigLoader
	flags     ports.FlagSource
	workspace ports.Workspace
	store     ports.BuildRecordStore
	verifier  ports.Verifier
	archiver  ports.Archiver
	publisher ports.Publisher
	scheduler *scheduler.Scheduler
	telemetry ports.Telemetry
	logger    ports.Logger

	host    domain.TargetID
	hostErr error
	out     io.Writer
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	flags ports.FlagSource,
	workspace ports.Workspace,
	store ports.BuildRecordStore,
	verifier ports.Verifier,
	archiver ports.Archiver,
	publisher ports.Publisher,
	sched *scheduler.Scheduler,
	telemetry ports.Telemetry,
	log ports.Logger,
) *App {
	host, err := registry.Host()
	return &App{
		loader:    loader,
		flags:     flags,
		workspace: workspace,
		store:     store,
		verifier:  verifier,
		archiver:  archiver,
		publisher: publisher,
		scheduler: sched,
		telemetry: telemetry,
		logger:    log,
		host:      host,
		hostErr:   err,
		out:       os.Stdout,
	}
}

// WithHost overrides the detected host target.
// This is primarily used for testing.
func (a *App) WithHost(host domain.TargetID) *App {
	a.host, a.hostErr = host, nil
	return a
}

// WithOutput redirects the build summary, stdout by default.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// BuildOptions configuration for the Build method.
type BuildOptions struct {
	Config string
	// Platform defaults to the host platform.
	Platform string
	// Archs restricts the build to these architectures; empty means all registered ones.
	Archs    []string
	Parallel int
	// Jobs is passed to make -j; zero means one per CPU.
	Jobs  int
	Force bool
}

// Build builds every requested target, assembles the artifacts and prints the
// summary. It returns domain.ErrBuildFailed when any target or platform failed.
func (a *App) Build(ctx context.Context, opts BuildOptions) error {
	p, err := a.load(opts.Config)
	if err != nil {
		return err
	}

	targets, err := a.resolve(p, opts.Platform, opts.Archs)
	if err != nil {
		return err
	}

	pl, err := newPlanner(p, a.flags, opts.Jobs)
	if err != nil {
		return err
	}

	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = t.ID.String()
	}
	a.logger.Info("building " + strings.Join(names, ", "))

	s, err := a.scheduler.Run(ctx, scheduler.Request{
		Project:  p,
		Targets:  targets,
		Planner:  pl,
		Parallel: opts.Parallel,
		Force:    opts.Force,
	})
	if closeErr := a.telemetry.Close(); closeErr != nil {
		a.logger.Error(closeErr)
	}
	if err != nil {
		return zerr.Wrap(err, "build execution failed")
	}

	if err := summary.Write(a.out, s); err != nil {
		return zerr.Wrap(err, "failed to write summary")
	}
	if s.Failed() {
		return zerr.With(zerr.Wrap(domain.ErrBuildFailed, "one or more targets failed"),
			"failures", len(s.Failures()))
	}
	return nil
}

// PlanOptions configuration for the Plan method.
type PlanOptions struct {
	Config   string
	Platform string
	Archs    []string
	Jobs     int
}

// StepPlan lists the processes one step would launch.
type StepPlan struct {
	Name        string
	Invocations []domain.ProcessInvocation
}

// TargetPlan is the dry run of one target.
type TargetPlan struct {
	Target    domain.BuildTarget
	Bootstrap []domain.ProcessInvocation
	Steps     []StepPlan
}

// Plan resolves and composes every step of the requested targets without running anything.
func (a *App) Plan(opts PlanOptions) ([]TargetPlan, error) {
	p, err := a.load(opts.Config)
	if err != nil {
		return nil, err
	}

	targets, err := a.resolve(p, opts.Platform, opts.Archs)
	if err != nil {
		return nil, err
	}

	pl, err := newPlanner(p, a.flags, opts.Jobs)
	if err != nil {
		return nil, err
	}

	plans := make([]TargetPlan, 0, len(targets))
	for _, t := range targets {
		steps, err := pl.Plan(t)
		if err != nil {
			return nil, err
		}

		tp := TargetPlan{Target: t}
		for _, args := range p.Bootstrap[t.ID.Platform] {
			tp.Bootstrap = append(tp.Bootstrap, domain.ProcessInvocation{
				Path: args[0],
				Args: args[1:],
				Dir:  p.Paths.Source,
			})
		}
		for _, step := range steps {
			sp := StepPlan{Name: step.Name}
			for _, cmd := range step.Commands {
				sp.Invocations = append(sp.Invocations, runner.Invocation(t, step, cmd, p.Timeout))
			}
			tp.Steps = append(tp.Steps, sp)
		}
		plans = append(plans, tp)
	}
	return plans, nil
}

// Targets lists every registered target of the project.
func (a *App) Targets(config string) ([]domain.BuildTarget, error) {
	p, err := a.load(config)
	if err != nil {
		return nil, err
	}
	return registry.New(p, a.host).All(), nil
}

// Clean removes the work directory, the artifacts and every build record.
func (a *App) Clean(config string) error {
	p, err := a.load(config)
	if err != nil {
		return err
	}
	for _, dir := range []string{p.Paths.Work, p.Paths.Artifacts} {
		if err := a.workspace.RemoveAll(dir); err != nil {
			return err
		}
		a.logger.Info("removed " + dir)
	}
	if err := a.store.Clear(p.Paths.State); err != nil {
		return zerr.Wrap(err, "failed to clear build records")
	}
	return nil
}

// PackageOptions configuration for the Package method.
type PackageOptions struct {
	Config string
	Format string
	// Output defaults to <binary><ext> next to the artifacts directory.
	Output string
}

// Package packs every artifact and its checksum into one tarball and returns its path.
func (a *App) Package(ctx context.Context, opts PackageOptions) (string, error) {
	p, err := a.load(opts.Config)
	if err != nil {
		return "", err
	}

	format, err := domain.ParseArchiveFormat(opts.Format)
	if err != nil {
		return "", err
	}

	files, err := a.artifacts(p)
	if err != nil {
		return "", err
	}

	dest := opts.Output
	if dest == "" {
		dest = filepath.Join(filepath.Dir(p.Paths.Artifacts), p.Binary+format.Extension())
	}
	dest, err = filepath.Abs(dest)
	if err != nil {
		return "", zerr.Wrap(err, "failed to resolve output path")
	}

	if err := a.archiver.Archive(ctx, dest, format, p.Paths.Artifacts, files); err != nil {
		return "", err
	}
	a.logger.Info("packed " + strconv.Itoa(len(files)) + " files into " + dest)
	return dest, nil
}

// PublishOptions configuration for the Publish method.
type PublishOptions struct {
	Config string
	// Prefix replaces the manifest's key prefix when set.
	Prefix string
}

// Publish uploads every artifact and its checksum and returns the object keys.
func (a *App) Publish(ctx context.Context, opts PublishOptions) ([]string, error) {
	p, err := a.load(opts.Config)
	if err != nil {
		return nil, err
	}

	files, err := a.artifacts(p)
	if err != nil {
		return nil, err
	}

	cfg := p.Publish
	if opts.Prefix != "" {
		cfg.Prefix = opts.Prefix
	}
	return a.publisher.Publish(ctx, cfg, p.Paths.Artifacts, files)
}

func (a *App) load(config string) (*domain.Project, error) {
	p, err := a.loader.Load(config)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return p, nil
}

func (a *App) resolve(p *domain.Project, platformName string, archNames []string) ([]domain.BuildTarget, error) {
	platform := a.host.Platform
	if platformName != "" {
		parsed, err := domain.ParsePlatform(platformName)
		if err != nil {
			return nil, err
		}
		platform = parsed
	} else if a.hostErr != nil {
		return nil, zerr.Wrap(a.hostErr, "host is not a supported target, name a platform")
	}

	archs := make([]domain.Arch, 0, len(archNames))
	for _, name := range archNames {
		arch, err := domain.ParseArch(name)
		if err != nil {
			return nil, err
		}
		archs = append(archs, arch)
	}
	return registry.New(p, a.host).ResolveTargets(platform, archs)
}

func newPlanner(p *domain.Project, flags ports.FlagSource, jobs int) (*planner.Planner, error) {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	return planner.New(p.Steps, composer.New(flags, p.Paths.Flags), jobs)
}

// artifacts lists the binaries under the artifacts directory together with
// their checksum sidecars. A binary without a sidecar is an error.
func (a *App) artifacts(p *domain.Project) ([]string, error) {
	root := p.Paths.Artifacts
	var binaries []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && !strings.HasSuffix(path, checksum.Extension) {
			binaries = append(binaries, path)
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, zerr.With(zerr.Wrap(err, "failed to list artifacts"), "path", root)
	}
	if len(binaries) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrNothingToPublish, "artifacts directory is empty"), "path", root)
	}

	slices.Sort(binaries)
	files := make([]string, 0, 2*len(binaries))
	for _, bin := range binaries {
		sidecar := bin + checksum.Extension
		ok, err := a.verifier.VerifyOutputs(root, []string{sidecar})
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrMissingChecksum, "run a build to regenerate it"), "path", bin)
		}
		files = append(files, bin, sidecar)
	}
	return files, nil
}
