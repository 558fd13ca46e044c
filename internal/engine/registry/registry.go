// Package registry resolves build targets and their toolchains.
package registry

import (
	"path/filepath"
	"runtime"
	"slices"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

// MacOSMinVersion is the deployment target used by the built-in macOS toolchains.
const MacOSMinVersion = "10.15"

// msysShell is the MSYS2 login shell used by the Windows toolchains.
const msysShell = "bash"

// defaults holds the built-in toolchain of every supported target.
var defaults = map[domain.TargetID]domain.Toolchain{
	{Platform: domain.PlatformLinux, Arch: domain.ArchX64}: {
		HostTriple: "x86_64-linux-gnu",
		CC:         "gcc",
		CXX:        "g++",
	},
	{Platform: domain.PlatformLinux, Arch: domain.ArchArm64}: {
		HostTriple: "aarch64-linux-gnu",
		CC:         "aarch64-linux-gnu-gcc",
		CXX:        "aarch64-linux-gnu-g++",
	},
	{Platform: domain.PlatformMacOS, Arch: domain.ArchX64}: {
		HostTriple:   "x86_64-apple-darwin",
		CC:           "clang",
		CXX:          "clang++",
		ArchFlags:    []string{"-arch", "x86_64"},
		MinOSVersion: MacOSMinVersion,
	},
	{Platform: domain.PlatformMacOS, Arch: domain.ArchArm64}: {
		HostTriple:   "aarch64-apple-darwin",
		CC:           "clang",
		CXX:          "clang++",
		ArchFlags:    []string{"-arch", "arm64"},
		MinOSVersion: MacOSMinVersion,
	},
	{Platform: domain.PlatformWindows, Arch: domain.ArchX64}: {
		HostTriple: "x86_64-w64-mingw32",
		CC:         "x86_64-w64-mingw32-gcc",
		CXX:        "x86_64-w64-mingw32-g++",
		Shell:      msysShell,
	},
	{Platform: domain.PlatformWindows, Arch: domain.ArchArm64}: {
		HostTriple: "aarch64-w64-mingw32",
		CC:         "aarch64-w64-mingw32-clang",
		CXX:        "aarch64-w64-mingw32-clang++",
		Shell:      msysShell,
	},
}

// Registry is a read-only table of the targets a project can build.
type Registry struct {
	targets map[domain.TargetID]domain.BuildTarget
}

// New builds the registry for p. Manifest overrides replace built-in toolchain fields
// one by one, and disabled targets are dropped. host decides which targets are cross
// compiled.
func New(p *domain.Project, host domain.TargetID) *Registry {
	r := &Registry{targets: make(map[domain.TargetID]domain.BuildTarget, len(defaults))}
	for id, tc := range defaults {
		o, ok := p.Targets[id]
		if ok && o.Disabled {
			continue
		}
		if ok {
			tc = override(tc, o)
		}
		r.targets[id] = domain.BuildTarget{
			ID:           id,
			Toolchain:    tc,
			Capabilities: capabilities(p, id, host, tc),
			Root:         filepath.Join(p.Paths.Work, id.String()),
		}
	}
	return r
}

func override(tc domain.Toolchain, o domain.TargetOverride) domain.Toolchain {
	if o.Host != "" {
		tc.HostTriple = o.Host
	}
	if o.CC != "" {
		tc.CC = o.CC
	}
	if o.CXX != "" {
		tc.CXX = o.CXX
	}
	if o.Shell != "" {
		tc.Shell = o.Shell
	}
	if o.ArchFlags != nil {
		tc.ArchFlags = slices.Clone(o.ArchFlags)
	}
	if o.MinOS != "" {
		tc.MinOSVersion = o.MinOS
	}
	return tc
}

func capabilities(p *domain.Project, id, host domain.TargetID, tc domain.Toolchain) domain.Capability {
	var c domain.Capability
	if p.IsUniversal(id.Platform) {
		c |= domain.CapUniversal
	}
	if id.Platform == domain.PlatformWindows {
		c |= domain.CapExeSuffix
	}
	if id.Platform == domain.PlatformMacOS && tc.MinOSVersion != "" {
		c |= domain.CapMinOSVersion
	}
	if id != host {
		c |= domain.CapCross
	}
	if tc.Shell != "" {
		c |= domain.CapShellWrapped
	}
	return c
}

// ResolveTargets returns the targets for platform, one per arch, in canonical arch order.
// An empty archs selects every registered arch of the platform.
func (r *Registry) ResolveTargets(platform domain.Platform, archs []domain.Arch) ([]domain.BuildTarget, error) {
	if !slices.Contains(domain.Platforms, platform) {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnsupportedTarget, "unknown platform"), "platform", string(platform))
	}
	for _, a := range archs {
		if !slices.Contains(domain.Archs, a) {
			return nil, zerr.With(zerr.Wrap(domain.ErrUnsupportedTarget, "unknown architecture"), "arch", string(a))
		}
	}

	explicit := len(archs) > 0
	var out []domain.BuildTarget
	for _, a := range domain.Archs {
		if explicit && !slices.Contains(archs, a) {
			continue
		}
		id := domain.TargetID{Platform: platform, Arch: a}
		t, ok := r.targets[id]
		switch {
		case ok:
			out = append(out, t)
		case explicit:
			return nil, zerr.With(zerr.Wrap(domain.ErrUnsupportedTarget, "no configuration for target"),
				"target", id.String())
		}
	}
	if len(out) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnsupportedTarget, "no targets registered"),
			"platform", string(platform))
	}
	return out, nil
}

// All returns every registered target in canonical order.
func (r *Registry) All() []domain.BuildTarget {
	var out []domain.BuildTarget
	for _, p := range domain.Platforms {
		for _, a := range domain.Archs {
			if t, ok := r.targets[domain.TargetID{Platform: p, Arch: a}]; ok {
				out = append(out, t)
			}
		}
	}
	return out
}

// Host returns the target matching the running machine.
func Host() (domain.TargetID, error) {
	return hostFor(runtime.GOOS, runtime.GOARCH)
}

func hostFor(goos, goarch string) (domain.TargetID, error) {
	platform, err := domain.ParsePlatform(goos)
	if err != nil {
		return domain.TargetID{}, err
	}
	arch, err := domain.ParseArch(goarch)
	if err != nil {
		return domain.TargetID{}, err
	}
	return domain.TargetID{Platform: platform, Arch: arch}, nil
}
