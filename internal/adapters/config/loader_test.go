package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ffbuild/internal/adapters/config"
	"go.trai.ch/ffbuild/internal/adapters/logger"
	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.DefaultFilename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newLoader() *config.Loader {
	return config.NewLoader(logger.NewWithWriter(&discard{}))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestLoad_Success(t *testing.T) {
	path := writeManifest(t, `
version: "1"
binary: ffmpeg
timeout: 10m
paths:
  source: vendor
universal: [macos]
bootstrap:
  darwin:
    - [brew, install, nasm]
patches:
  linux:
    - {file: ffmpeg/configure, patch: patches/configure.patch}
steps:
  - {name: ogg, autotools: true}
  - {name: ffmpeg, requires: [ogg], final: true, flags: ff}
targets:
  linux-arm64: {host: aarch64-linux-gnu, cc: aarch64-linux-gnu-gcc}
  windows-arm64: {disabled: true}
inputs: [flags.lock]
`)
	root := filepath.Dir(path)

	p, err := newLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ffmpeg", p.Binary)
	assert.Equal(t, 10*time.Minute, p.Timeout)
	assert.Equal(t, filepath.Join(root, "vendor"), p.Paths.Source)
	assert.Equal(t, filepath.Join(root, "buildscripts", "flags"), p.Paths.Flags)
	assert.Equal(t, []domain.Platform{domain.PlatformMacOS}, p.Universal)
	assert.Equal(t, [][]string{{"brew", "install", "nasm"}}, p.Bootstrap[domain.PlatformMacOS])
	assert.Equal(t, []domain.PatchSpec{{File: "ffmpeg/configure", Patch: filepath.Join(root, "patches", "configure.patch")}},
		p.Patches[domain.PlatformLinux])

	require.Len(t, p.Steps, 2)
	assert.Equal(t, "ogg", p.Steps[0].Dir)
	assert.True(t, p.Steps[0].Autotools)
	assert.Equal(t, "ff", p.Steps[1].Tool())
	assert.True(t, p.Steps[1].Final)

	arm := domain.TargetID{Platform: domain.PlatformLinux, Arch: domain.ArchArm64}
	assert.Equal(t, "aarch64-linux-gnu", p.Targets[arm].Host)
	assert.True(t, p.Targets[domain.TargetID{Platform: domain.PlatformWindows, Arch: domain.ArchArm64}].Disabled)
	assert.Equal(t, []string{filepath.Join(root, "flags.lock")}, p.Inputs)
}

func TestLoad_Defaults(t *testing.T) {
	p, err := newLoader().Load(writeManifest(t, "version: \"1\"\n"))
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultBinary, p.Binary)
	assert.Equal(t, domain.DefaultTimeout, p.Timeout)
	assert.Equal(t, domain.DefaultSteps(), p.Steps)
	assert.True(t, p.IsUniversal(domain.PlatformMacOS))
	assert.False(t, p.IsUniversal(domain.PlatformLinux))
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	p, err := newLoader().Load(filepath.Join(dir, config.DefaultFilename))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "artifacts"), p.Paths.Artifacts)
	assert.Len(t, p.Steps, 4)
}

func TestLoad_EmptyUniversalDisablesMerging(t *testing.T) {
	p, err := newLoader().Load(writeManifest(t, "universal: []\n"))
	require.NoError(t, err)
	assert.Empty(t, p.Universal)
}

func TestLoad_LastStepIsFinalByDefault(t *testing.T) {
	p, err := newLoader().Load(writeManifest(t, `
steps:
  - {name: a}
  - {name: b, requires: [a]}
`))
	require.NoError(t, err)
	assert.False(t, p.Steps[0].Final)
	assert.True(t, p.Steps[1].Final)
}

func TestLoad_WorkBesideSource(t *testing.T) {
	p, err := newLoader().Load(writeManifest(t, "paths:\n  source: vendor\n  work: vendor-work\n"))
	require.NoError(t, err)
	assert.Equal(t, "vendor-work", filepath.Base(p.Paths.Work))
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		sentinel error
		meta     map[string]any
	}{
		{
			name:     "unknown field",
			content:  "binarry: ffprobe\n",
			sentinel: domain.ErrConfigInvalid,
		},
		{
			name:     "bad version",
			content:  "version: \"2\"\n",
			sentinel: domain.ErrConfigInvalid,
			meta:     map[string]any{"version": "2"},
		},
		{
			name:     "bad timeout",
			content:  "timeout: soon\n",
			sentinel: domain.ErrConfigInvalid,
		},
		{
			name:     "unknown platform",
			content:  "universal: [beos]\n",
			sentinel: domain.ErrUnsupportedTarget,
		},
		{
			name:     "unknown target",
			content:  "targets:\n  linux-riscv: {cc: gcc}\n",
			sentinel: domain.ErrUnsupportedTarget,
		},
		{
			name:     "two final steps",
			content:  "steps:\n  - {name: a, final: true}\n  - {name: b, final: true}\n",
			sentinel: domain.ErrConfigInvalid,
		},
		{
			name:     "missing prerequisite",
			content:  "steps:\n  - {name: a, requires: [z]}\n",
			sentinel: domain.ErrMissingDependency,
			meta:     map[string]any{"step": "a", "dependency": "z"},
		},
		{
			name:     "cycle",
			content:  "steps:\n  - {name: a, requires: [b]}\n  - {name: b, requires: [a]}\n",
			sentinel: domain.ErrCycleDetected,
		},
		{
			name:     "duplicate step",
			content:  "steps:\n  - {name: a}\n  - {name: a}\n",
			sentinel: domain.ErrStepAlreadyExists,
		},
		{
			name:     "work inside source",
			content:  "paths:\n  source: .\n",
			sentinel: domain.ErrConfigInvalid,
		},
		{
			name:     "work equals source",
			content:  "paths:\n  source: vendor\n  work: vendor\n",
			sentinel: domain.ErrConfigInvalid,
		},
		{
			name:     "empty bootstrap command",
			content:  "bootstrap:\n  linux: [[]]\n",
			sentinel: domain.ErrConfigInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newLoader().Load(writeManifest(t, tt.content))
			require.Error(t, err)
			require.ErrorIs(t, err, tt.sentinel)

			if tt.meta == nil {
				return
			}
			var zErr *zerr.Error
			require.ErrorAs(t, err, &zErr)
			meta := zErr.Metadata()
			for k, v := range tt.meta {
				assert.Equal(t, v, meta[k], "metadata %q", k)
			}
		})
	}
}
