package domain_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ffbuild/internal/core/domain"
)

func TestParseTargetID(t *testing.T) {
	id, err := domain.ParseTargetID("darwin-aarch64")
	require.NoError(t, err)
	assert.Equal(t, domain.TargetID{Platform: domain.PlatformMacOS, Arch: domain.ArchArm64}, id)
	assert.Equal(t, "macos-arm64", id.String())

	for _, bad := range []string{"linux", "solaris-x64", "linux-mips", ""} {
		_, err := domain.ParseTargetID(bad)
		require.Error(t, err, bad)
		assert.True(t, errors.Is(err, domain.ErrUnsupportedTarget), bad)
	}
}

func TestCapability(t *testing.T) {
	c := domain.CapUniversal | domain.CapMinOSVersion
	assert.True(t, c.Has(domain.CapUniversal))
	assert.False(t, c.Has(domain.CapExeSuffix))
	assert.True(t, c.Has(domain.CapUniversal|domain.CapMinOSVersion))
	assert.Equal(t, []string{"universal", "min-os-version"}, c.Names())
}

func TestBuildTarget_Paths(t *testing.T) {
	target := domain.BuildTarget{
		ID:           domain.TargetID{Platform: domain.PlatformWindows, Arch: domain.ArchX64},
		Capabilities: domain.CapExeSuffix,
		Root:         filepath.Join("work", "windows-x64"),
	}

	assert.Equal(t, filepath.Join("work", "windows-x64", "src"), target.SourceDir())
	assert.Equal(t, filepath.Join("work", "windows-x64", "prefix"), target.PrefixDir())
	assert.Equal(t, "ffprobe.exe", target.BinaryName("ffprobe"))
	assert.False(t, target.Universal())
}

func TestBuildFailure(t *testing.T) {
	cause := errors.New("exit status 1")
	f := &domain.BuildFailure{
		Target:     domain.TargetID{Platform: domain.PlatformLinux, Arch: domain.ArchX64},
		Step:       "vorbis",
		SubCommand: domain.KindConfigure,
		ExitCode:   1,
		Kind:       domain.ErrSubcommandFailed,
		Err:        cause,
	}

	var err error = f
	assert.True(t, errors.Is(err, domain.ErrSubcommandFailed))
	assert.False(t, errors.Is(err, domain.ErrTimeout))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "linux-x64")
	assert.Contains(t, err.Error(), "step vorbis, configure, exit 1")

	got, ok := domain.AsBuildFailure(errors.Join(errors.New("other"), err))
	require.True(t, ok)
	assert.Same(t, f, got)
}

func TestRunSummary(t *testing.T) {
	ok := domain.RunSummary{Results: []domain.TargetResult{
		{State: domain.StateComplete},
		{State: domain.StateCached},
	}}
	assert.False(t, ok.Failed())

	f := &domain.BuildFailure{Kind: domain.ErrArtifactMerge}
	bad := domain.RunSummary{
		Results:          []domain.TargetResult{{State: domain.StateComplete}},
		AssemblyFailures: []*domain.BuildFailure{f},
	}
	assert.True(t, bad.Failed())
	assert.Equal(t, []*domain.BuildFailure{f}, bad.Failures())
}
