package registry_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/engine/registry"
)

var linuxX64 = domain.TargetID{Platform: domain.PlatformLinux, Arch: domain.ArchX64}

func project() *domain.Project {
	return &domain.Project{
		Paths:     domain.Paths{Work: "/work"},
		Universal: []domain.Platform{domain.PlatformMacOS},
	}
}

func TestResolveTargets_AllPairs(t *testing.T) {
	r := registry.New(project(), linuxX64)
	for _, p := range domain.Platforms {
		targets, err := r.ResolveTargets(p, nil)
		require.NoError(t, err)
		require.Len(t, targets, 2)
		assert.Equal(t, domain.ArchX64, targets[0].ID.Arch)
		assert.Equal(t, domain.ArchArm64, targets[1].ID.Arch)
		for _, tg := range targets {
			assert.Equal(t, filepath.Join("/work", tg.ID.String()), tg.Root)
			assert.NotEmpty(t, tg.Toolchain.HostTriple)
		}
	}
}

func TestResolveTargets_Capabilities(t *testing.T) {
	r := registry.New(project(), linuxX64)

	linux, err := r.ResolveTargets(domain.PlatformLinux, []domain.Arch{domain.ArchArm64, domain.ArchX64})
	require.NoError(t, err)
	assert.Equal(t, domain.ArchX64, linux[0].ID.Arch, "canonical order")
	assert.False(t, linux[0].Capabilities.Has(domain.CapCross))
	assert.True(t, linux[1].Capabilities.Has(domain.CapCross))
	assert.False(t, linux[0].Universal())

	mac, err := r.ResolveTargets(domain.PlatformMacOS, []domain.Arch{domain.ArchArm64})
	require.NoError(t, err)
	require.Len(t, mac, 1)
	assert.True(t, mac[0].Universal())
	assert.True(t, mac[0].Capabilities.Has(domain.CapMinOSVersion))
	assert.Equal(t, []string{"-arch", "arm64"}, mac[0].Toolchain.ArchFlags)

	win, err := r.ResolveTargets(domain.PlatformWindows, []domain.Arch{domain.ArchX64})
	require.NoError(t, err)
	assert.True(t, win[0].Capabilities.Has(domain.CapExeSuffix|domain.CapShellWrapped))
	assert.Equal(t, "ffprobe.exe", win[0].BinaryName("ffprobe"))
}

func TestResolveTargets_Overrides(t *testing.T) {
	p := project()
	p.Targets = map[domain.TargetID]domain.TargetOverride{
		{Platform: domain.PlatformLinux, Arch: domain.ArchArm64}: {CC: "clang", ArchFlags: []string{"--target=aarch64"}},
		{Platform: domain.PlatformWindows, Arch: domain.ArchArm64}: {Disabled: true},
	}
	r := registry.New(p, linuxX64)

	arm, err := r.ResolveTargets(domain.PlatformLinux, []domain.Arch{domain.ArchArm64})
	require.NoError(t, err)
	assert.Equal(t, "clang", arm[0].Toolchain.CC)
	assert.Equal(t, "aarch64-linux-gnu-g++", arm[0].Toolchain.CXX, "unset fields keep defaults")
	assert.Equal(t, []string{"--target=aarch64"}, arm[0].Toolchain.ArchFlags)

	win, err := r.ResolveTargets(domain.PlatformWindows, nil)
	require.NoError(t, err)
	require.Len(t, win, 1)
	assert.Equal(t, domain.ArchX64, win[0].ID.Arch)

	_, err = r.ResolveTargets(domain.PlatformWindows, []domain.Arch{domain.ArchArm64})
	require.ErrorIs(t, err, domain.ErrUnsupportedTarget)

	assert.Len(t, r.All(), 5)
}

func TestResolveTargets_Unsupported(t *testing.T) {
	r := registry.New(project(), linuxX64)

	_, err := r.ResolveTargets(domain.Platform("beos"), nil)
	require.ErrorIs(t, err, domain.ErrUnsupportedTarget)

	_, err = r.ResolveTargets(domain.PlatformLinux, []domain.Arch{"riscv64"})
	require.ErrorIs(t, err, domain.ErrUnsupportedTarget)
}

func TestHostFor(t *testing.T) {
	id, err := registry.HostFor("darwin", "arm64")
	require.NoError(t, err)
	assert.Equal(t, domain.TargetID{Platform: domain.PlatformMacOS, Arch: domain.ArchArm64}, id)

	_, err = registry.HostFor("plan9", "amd64")
	require.ErrorIs(t, err, domain.ErrUnsupportedTarget)
}
