// Package config loads the ffbuild.yaml project manifest.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the manifest looked up when no path is given.
const DefaultFilename = "ffbuild.yaml"

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads the manifest at path and returns the resolved project.
// A missing manifest yields the built-in defaults rooted at the manifest's directory.
func (l *Loader) Load(path string) (*domain.Project, error) {
	if path == "" {
		path = DefaultFilename
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve config path")
	}

	data, err := os.ReadFile(abs) //nolint:gosec // path is provided by user
	switch {
	case errors.Is(err, fs.ErrNotExist):
		l.logger.Info("no manifest at " + abs + ", using built-in defaults")
		data = nil
	case err != nil:
		return nil, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", abs)
	}

	var manifest Manifest
	if len(data) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&manifest); err != nil && !errors.Is(err, io.EOF) {
			return nil, zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "failed to parse config file: "+err.Error()),
				"path", abs)
		}
	}

	return toProject(&manifest, filepath.Dir(abs))
}

func toProject(m *Manifest, root string) (*domain.Project, error) {
	if m.Version != "" && m.Version != "1" {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "unsupported manifest version"), "version", m.Version)
	}

	p := &domain.Project{
		Binary:  m.Binary,
		Timeout: domain.DefaultTimeout,
		Publish: domain.PublishConfig(m.Publish),
	}
	if p.Binary == "" {
		p.Binary = domain.DefaultBinary
	}

	if m.Timeout != "" {
		d, err := time.ParseDuration(m.Timeout)
		if err != nil || d <= 0 {
			return nil, zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "invalid timeout"), "timeout", m.Timeout)
		}
		p.Timeout = d
	}

	p.Paths = resolvePaths(m.Paths, root)
	if within(p.Paths.Source, p.Paths.Work) {
		return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "work directory must be outside the source tree"),
			"source", p.Paths.Source), "work", p.Paths.Work)
	}

	universal, err := parseUniversal(m.Universal)
	if err != nil {
		return nil, err
	}
	p.Universal = universal

	if p.Bootstrap, err = parseBootstrap(m.Bootstrap); err != nil {
		return nil, err
	}
	if p.Patches, err = parsePatches(m.Patches, root); err != nil {
		return nil, err
	}
	if p.Targets, err = parseTargets(m.Targets); err != nil {
		return nil, err
	}
	if p.Steps, err = parseSteps(m.Steps); err != nil {
		return nil, err
	}

	for _, in := range m.Inputs {
		p.Inputs = append(p.Inputs, absolute(root, in))
	}

	return p, nil
}

func resolvePaths(dto PathsDTO, root string) domain.Paths {
	paths := domain.DefaultPaths()
	for _, o := range []struct {
		dst *string
		src string
	}{
		{&paths.Source, dto.Source},
		{&paths.Flags, dto.Flags},
		{&paths.Work, dto.Work},
		{&paths.Artifacts, dto.Artifacts},
		{&paths.State, dto.State},
	} {
		if o.src != "" {
			*o.dst = o.src
		}
		*o.dst = absolute(root, *o.dst)
	}
	return paths
}

func absolute(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

// within reports whether path is dir or lies below it.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func parseUniversal(in *[]string) ([]domain.Platform, error) {
	if in == nil {
		return []domain.Platform{domain.PlatformMacOS}, nil
	}
	out := make([]domain.Platform, 0, len(*in))
	for _, s := range *in {
		platform, err := domain.ParsePlatform(s)
		if err != nil {
			return nil, zerr.Wrap(err, "invalid universal platform")
		}
		if !slices.Contains(out, platform) {
			out = append(out, platform)
		}
	}
	return out, nil
}

func parseBootstrap(in map[string][][]string) (map[domain.Platform][][]string, error) {
	out := make(map[domain.Platform][][]string, len(in))
	for key, cmds := range in {
		platform, err := domain.ParsePlatform(key)
		if err != nil {
			return nil, zerr.Wrap(err, "invalid bootstrap platform")
		}
		for _, cmd := range cmds {
			if len(cmd) == 0 {
				return nil, zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "empty bootstrap command"),
					"platform", key)
			}
		}
		out[platform] = append(out[platform], cmds...)
	}
	return out, nil
}

func parsePatches(in map[string][]PatchDTO, root string) (map[domain.Platform][]domain.PatchSpec, error) {
	out := make(map[domain.Platform][]domain.PatchSpec, len(in))
	for key, patches := range in {
		platform, err := domain.ParsePlatform(key)
		if err != nil {
			return nil, zerr.Wrap(err, "invalid patch platform")
		}
		for _, dto := range patches {
			if dto.File == "" || dto.Patch == "" {
				return nil, zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "patch needs file and patch"),
					"platform", key)
			}
			out[platform] = append(out[platform], domain.PatchSpec{File: dto.File, Patch: absolute(root, dto.Patch)})
		}
	}
	return out, nil
}

func parseTargets(in map[string]TargetDTO) (map[domain.TargetID]domain.TargetOverride, error) {
	out := make(map[domain.TargetID]domain.TargetOverride, len(in))
	for key, dto := range in {
		id, err := domain.ParseTargetID(key)
		if err != nil {
			return nil, zerr.Wrap(err, "invalid target override")
		}
		out[id] = domain.TargetOverride(dto)
	}
	return out, nil
}

func parseSteps(in []StepDTO) ([]domain.StepSpec, error) {
	if len(in) == 0 {
		return domain.DefaultSteps(), nil
	}

	steps := make([]domain.StepSpec, 0, len(in))
	finals := 0
	for _, dto := range in {
		if dto.Name == "" {
			return nil, zerr.Wrap(domain.ErrConfigInvalid, "step without a name")
		}
		dir := dto.Dir
		if dir == "" {
			dir = dto.Name
		}
		if dto.Final {
			finals++
		}
		steps = append(steps, domain.StepSpec{
			Name:            dto.Name,
			Dir:             dir,
			Requires:        dto.Requires,
			Autotools:       dto.Autotools,
			FlagTool:        dto.Flags,
			Final:           dto.Final,
			ConfigureScript: dto.Configure,
			BootstrapScript: dto.Bootstrap,
			Env:             dto.Env,
		})
	}

	switch {
	case finals == 0:
		steps[len(steps)-1].Final = true
	case finals > 1:
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "more than one final step"), "count", finals)
	}

	g := domain.NewStepGraph()
	for _, s := range steps {
		if err := g.AddStep(s); err != nil {
			return nil, err
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return steps, nil
}
