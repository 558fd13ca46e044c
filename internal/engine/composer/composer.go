// Package composer assembles configure flags and the build environment of a step.
package composer

import (
	"path/filepath"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// FlagFileExt is the suffix of every flag file.
const FlagFileExt = ".config"

// Composer reads flag files from a single directory.
type Composer struct {
	flags ports.FlagSource
	dir   string
}

// New creates a Composer reading flag files from dir.
func New(flags ports.FlagSource, dir string) *Composer {
	return &Composer{flags: flags, dir: dir}
}

// FlagFiles returns the common and the target specific flag file of step, in merge order.
func (c *Composer) FlagFiles(step domain.StepSpec, id domain.TargetID) []string {
	tool := step.Tool()
	return []string{
		filepath.Join(c.dir, tool+FlagFileExt),
		filepath.Join(c.dir, tool+"."+id.String()+FlagFileExt),
	}
}

// Compose returns the configure flags and environment for step on target.
func (c *Composer) Compose(
	step domain.StepSpec,
	target domain.BuildTarget,
) (domain.ConfigureFlagSet, domain.EnvironmentMap, error) {
	files := c.FlagFiles(step, target.ID)
	common, err := c.flags.ReadFlags(files[0])
	if err != nil {
		return nil, nil, zerr.With(err, "step", step.Name)
	}
	specific, err := c.flags.ReadFlags(files[1])
	if err != nil {
		return nil, nil, zerr.With(err, "step", step.Name)
	}
	return domain.Merge(common, specific), Environment(step, target), nil
}

// Environment builds the variables every sub-command of step runs with.
func Environment(step domain.StepSpec, target domain.BuildTarget) domain.EnvironmentMap {
	prefix := target.PrefixDir()
	tc := target.Toolchain

	env := domain.EnvironmentMap{}
	env.AppendFlag("CFLAGS", "-I"+filepath.Join(prefix, "include"))
	env.AppendFlag("CPPFLAGS", "-I"+filepath.Join(prefix, "include"))
	env.AppendFlag("LDFLAGS", "-L"+filepath.Join(prefix, "lib"))
	env["PKG_CONFIG_PATH"] = filepath.Join(prefix, "lib", "pkgconfig")

	env.AppendFlag("CFLAGS", tc.ArchFlags...)
	env.AppendFlag("LDFLAGS", tc.ArchFlags...)
	if target.Capabilities.Has(domain.CapMinOSVersion) {
		minOS := "-mmacosx-version-min=" + tc.MinOSVersion
		env.AppendFlag("CFLAGS", minOS)
		env.AppendFlag("LDFLAGS", minOS)
	}

	if target.Capabilities.Has(domain.CapCross) {
		if tc.CC != "" {
			env["CC"] = tc.CC
		}
		if tc.CXX != "" {
			env["CXX"] = tc.CXX
		}
	}

	for k, v := range step.Env {
		env[k] = v
	}
	return env
}

// ConfigureArgs prepends --prefix and, on cross targets, --host to flags.
func ConfigureArgs(target domain.BuildTarget, flags domain.ConfigureFlagSet) []string {
	args := make([]string, 0, len(flags)+2)
	args = append(args, "--prefix="+target.PrefixDir())
	if target.Capabilities.Has(domain.CapCross) && target.Toolchain.HostTriple != "" {
		args = append(args, "--host="+target.Toolchain.HostTriple)
	}
	return append(args, flags...)
}
