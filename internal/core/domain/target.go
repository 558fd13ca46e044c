package domain

import (
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// Platform identifies an operating system the pipeline can produce binaries for.
type Platform string

const (
	// PlatformLinux targets glibc based Linux distributions.
	PlatformLinux Platform = "linux"
	// PlatformMacOS targets Darwin.
	PlatformMacOS Platform = "macos"
	// PlatformWindows targets Windows through a MinGW toolchain.
	PlatformWindows Platform = "windows"
)

// Arch identifies a CPU architecture.
type Arch string

const (
	// ArchX64 is amd64.
	ArchX64 Arch = "x64"
	// ArchArm64 is aarch64.
	ArchArm64 Arch = "arm64"
)

// Platforms lists every supported platform in canonical order.
var Platforms = []Platform{PlatformLinux, PlatformMacOS, PlatformWindows}

// Archs lists every supported architecture in canonical order.
var Archs = []Arch{ArchX64, ArchArm64}

// ParsePlatform converts user input into a Platform.
// A few common aliases are accepted ("darwin", "osx", "win").
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linux":
		return PlatformLinux, nil
	case "macos", "darwin", "osx":
		return PlatformMacOS, nil
	case "windows", "win":
		return PlatformWindows, nil
	default:
		return "", zerr.With(zerr.Wrap(ErrUnsupportedTarget, "unknown platform"), "platform", s)
	}
}

// ParseArch converts user input into an Arch.
func ParseArch(s string) (Arch, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x64", "amd64", "x86_64":
		return ArchX64, nil
	case "arm64", "aarch64":
		return ArchArm64, nil
	default:
		return "", zerr.With(zerr.Wrap(ErrUnsupportedTarget, "unknown architecture"), "arch", s)
	}
}

// TargetID is the (platform, arch) pair naming a build target.
type TargetID struct {
	Platform Platform
	Arch     Arch
}

// String returns the "<platform>-<arch>" form used in paths and flag file names.
// A platform-wide ID without an arch renders as the platform alone.
func (id TargetID) String() string {
	if id.Arch == "" {
		return string(id.Platform)
	}
	return string(id.Platform) + "-" + string(id.Arch)
}

// ParseTargetID parses the "<platform>-<arch>" form.
func ParseTargetID(s string) (TargetID, error) {
	p, a, ok := strings.Cut(s, "-")
	if !ok {
		return TargetID{}, zerr.With(zerr.Wrap(ErrUnsupportedTarget, "malformed target"), "target", s)
	}
	platform, err := ParsePlatform(p)
	if err != nil {
		return TargetID{}, err
	}
	arch, err := ParseArch(a)
	if err != nil {
		return TargetID{}, err
	}
	return TargetID{Platform: platform, Arch: arch}, nil
}

// Capability is a set of platform traits resolved once, when the target is registered.
type Capability uint8

const (
	// CapUniversal marks platforms whose per-arch binaries are merged into one fat binary.
	CapUniversal Capability = 1 << iota
	// CapExeSuffix marks platforms whose executables end in ".exe".
	CapExeSuffix
	// CapMinOSVersion marks toolchains that accept a minimum OS version flag.
	CapMinOSVersion
	// CapCross marks targets built with a toolchain for a different host.
	CapCross
	// CapShellWrapped marks targets whose commands run inside a POSIX shell (MSYS2).
	CapShellWrapped
)

// Has reports whether every bit of c2 is set in c.
func (c Capability) Has(c2 Capability) bool {
	return c&c2 == c2
}

// Names returns the human readable names of the set bits.
func (c Capability) Names() []string {
	var names []string
	for _, e := range []struct {
		bit  Capability
		name string
	}{
		{CapUniversal, "universal"},
		{CapExeSuffix, "exe-suffix"},
		{CapMinOSVersion, "min-os-version"},
		{CapCross, "cross"},
		{CapShellWrapped, "shell"},
	} {
		if c.Has(e.bit) {
			names = append(names, e.name)
		}
	}
	return names
}

// Toolchain holds the compiler parameters for a target.
type Toolchain struct {
	// HostTriple is passed as --host to configure scripts when cross compiling.
	HostTriple string
	CC         string
	CXX        string
	// Shell, when set, wraps each command line as `<shell> -lc '<cmd>'`.
	Shell        string
	ArchFlags    []string
	MinOSVersion string
}

// BuildTarget is the immutable, fully resolved description of one target.
type BuildTarget struct {
	ID           TargetID
	Toolchain    Toolchain
	Capabilities Capability
	// Root is the isolated per-target work directory.
	Root string
}

// SourceDir is the target's private copy of the source tree.
func (t BuildTarget) SourceDir() string {
	return filepath.Join(t.Root, "src")
}

// PrefixDir is the install prefix shared by every step of the target.
func (t BuildTarget) PrefixDir() string {
	return filepath.Join(t.Root, "prefix")
}

// StagedBinary is where the target's final binary is kept between runs.
func (t BuildTarget) StagedBinary(name string) string {
	return filepath.Join(t.Root, "stage", t.BinaryName(name))
}

// BinaryName appends the platform executable suffix to name.
func (t BuildTarget) BinaryName(name string) string {
	if t.Capabilities.Has(CapExeSuffix) {
		return name + ".exe"
	}
	return name
}

// Universal reports whether the target's output is merged with other archs.
func (t BuildTarget) Universal() bool {
	return t.Capabilities.Has(CapUniversal)
}
