// Package planner turns step declarations into the ordered, fully composed steps of a target.
package planner

import (
	"path/filepath"
	"slices"
	"strconv"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/engine/composer"
	"go.trai.ch/zerr"
)

const (
	defaultBootstrap = "./autogen.sh"
	defaultConfigure = "./configure"
	makeTool         = "make"
)

// Planner resolves the step order once and instantiates it per target.
type Planner struct {
	order    []domain.StepSpec
	composer *composer.Composer
	jobs     int
}

// New validates the step declarations and fixes their execution order.
// Ties between independent steps keep declaration order.
func New(steps []domain.StepSpec, c *composer.Composer, jobs int) (*Planner, error) {
	g := domain.NewStepGraph()
	for _, s := range steps {
		if err := g.AddStep(s); err != nil {
			return nil, err
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	order := slices.Collect(g.Walk())
	if !slices.ContainsFunc(order, func(s domain.StepSpec) bool { return s.Final }) {
		return nil, zerr.Wrap(domain.ErrNoFinalStep, "no step produces the binary")
	}
	if jobs < 1 {
		jobs = 1
	}
	return &Planner{order: order, composer: c, jobs: jobs}, nil
}

// Order returns the step names in execution order.
func (p *Planner) Order() []string {
	names := make([]string, len(p.order))
	for i, s := range p.order {
		names[i] = s.Name
	}
	return names
}

// FinalStep returns the step producing the shipped binary.
func (p *Planner) FinalStep() domain.StepSpec {
	i := slices.IndexFunc(p.order, func(s domain.StepSpec) bool { return s.Final })
	return p.order[i]
}

// FlagFiles lists every flag file consulted for target, in step order.
func (p *Planner) FlagFiles(id domain.TargetID) []string {
	var files []string
	for _, s := range p.order {
		files = append(files, p.composer.FlagFiles(s, id)...)
	}
	return files
}

// Plan instantiates every step for target.
func (p *Planner) Plan(target domain.BuildTarget) ([]domain.DependencyStep, error) {
	steps := make([]domain.DependencyStep, 0, len(p.order))
	for _, spec := range p.order {
		flags, env, err := p.composer.Compose(spec, target)
		if err != nil {
			return nil, zerr.With(err, "target", target.ID.String())
		}
		steps = append(steps, domain.DependencyStep{
			Name:       spec.Name,
			WorkingDir: filepath.Join(target.SourceDir(), spec.Dir),
			Requires:   slices.Clone(spec.Requires),
			Commands:   Commands(spec, target, flags, p.jobs),
			Env:        env,
			Final:      spec.Final,
		})
	}
	return steps, nil
}

// Commands returns the sub-commands of spec in execution order:
// clean, bootstrap (autotools only), configure, build, install.
func Commands(
	spec domain.StepSpec,
	target domain.BuildTarget,
	flags domain.ConfigureFlagSet,
	jobs int,
) []domain.SubCommand {
	cmds := []domain.SubCommand{
		{Kind: domain.KindClean, Args: []string{makeTool, "distclean"}, Tolerant: true},
	}
	if spec.Autotools {
		script := spec.BootstrapScript
		if script == "" {
			script = defaultBootstrap
		}
		cmds = append(cmds, domain.SubCommand{Kind: domain.KindBootstrap, Args: []string{script}})
	}

	configure := spec.ConfigureScript
	if configure == "" {
		configure = defaultConfigure
	}
	return append(cmds,
		domain.SubCommand{
			Kind: domain.KindConfigure,
			Args: append([]string{configure}, composer.ConfigureArgs(target, flags)...),
		},
		domain.SubCommand{Kind: domain.KindBuild, Args: []string{makeTool, "-j" + strconv.Itoa(jobs)}},
		domain.SubCommand{Kind: domain.KindInstall, Args: []string{makeTool, "install"}},
	)
}
