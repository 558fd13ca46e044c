package assembler_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ffbuild/internal/adapters/checksum"
	"go.trai.ch/ffbuild/internal/adapters/fs"
	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports/mocks"
	"go.trai.ch/ffbuild/internal/engine/assembler"
	"go.uber.org/mock/gomock"
)

func stage(t *testing.T, work string, id domain.TargetID, name string) domain.Artifact {
	t.Helper()
	target := domain.BuildTarget{ID: id, Root: filepath.Join(work, id.String())}
	if id.Platform == domain.PlatformWindows {
		target.Capabilities = domain.CapExeSuffix
	}
	path := target.StagedBinary(name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(id.String()), 0o600))
	return domain.Artifact{Target: id, Path: path}
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	var names []string
	require.NoError(t, filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, _ := filepath.Rel(dir, path)
			names = append(names, filepath.ToSlash(rel))
		}
		return nil
	}))
	slices.Sort(names)
	return names
}

func newAssembler(ctrl *gomock.Controller) (*assembler.Assembler, *mocks.MockBinaryMerger) {
	merger := mocks.NewMockBinaryMerger(ctrl)
	return assembler.New(fs.NewWorkspace(fs.NewWalker()), merger, checksum.NewSummer()), merger
}

func TestAssemble_Universal(t *testing.T) {
	ctrl := gomock.NewController(t)
	a, merger := newAssembler(ctrl)
	work, artifacts := t.TempDir(), t.TempDir()

	x64 := stage(t, work, domain.TargetID{Platform: domain.PlatformMacOS, Arch: domain.ArchX64}, "ffprobe")
	arm := stage(t, work, domain.TargetID{Platform: domain.PlatformMacOS, Arch: domain.ArchArm64}, "ffprobe")
	// An earlier non-universal run left a per-arch copy behind.
	require.NoError(t, os.MkdirAll(filepath.Join(artifacts, "macos-x64"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(artifacts, "macos-x64", "ffprobe"), []byte("old"), 0o600))

	merger.EXPECT().Merge(gomock.Any(), []string{x64.Path, arm.Path}, filepath.Join(artifacts, "ffprobe")).
		DoAndReturn(func(_ context.Context, _ []string, out string) error {
			return os.WriteFile(out, []byte("fat"), 0o600)
		})

	finals, err := a.Assemble(context.Background(), artifacts, domain.PlatformMacOS, true,
		[]domain.Artifact{x64, arm})
	require.NoError(t, err)
	require.Len(t, finals, 1)

	assert.Equal(t, filepath.Join(artifacts, "ffprobe"), finals[0].Path)
	assert.Equal(t, []domain.Arch{domain.ArchX64, domain.ArchArm64}, finals[0].Archs)
	assert.Len(t, finals[0].Checksum, 64)
	assert.Equal(t, []string{"ffprobe", "ffprobe.b3"}, listDir(t, artifacts))
}

func TestAssemble_UniversalMissingInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	a, _ := newAssembler(ctrl)
	work, artifacts := t.TempDir(), t.TempDir()

	x64 := stage(t, work, domain.TargetID{Platform: domain.PlatformMacOS, Arch: domain.ArchX64}, "ffprobe")
	missing := domain.Artifact{
		Target: domain.TargetID{Platform: domain.PlatformMacOS, Arch: domain.ArchArm64},
		Path:   filepath.Join(work, "macos-arm64", "stage", "ffprobe"),
	}

	_, err := a.Assemble(context.Background(), artifacts, domain.PlatformMacOS, true, []domain.Artifact{x64, missing})
	require.ErrorIs(t, err, domain.ErrArtifactMerge)

	failure, ok := domain.AsBuildFailure(err)
	require.True(t, ok)
	assert.Equal(t, "macos", failure.Target.String())
	assert.Empty(t, listDir(t, artifacts))
}

func TestAssemble_UniversalMergeFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	a, merger := newAssembler(ctrl)
	work, artifacts := t.TempDir(), t.TempDir()

	x64 := stage(t, work, domain.TargetID{Platform: domain.PlatformMacOS, Arch: domain.ArchX64}, "ffprobe")
	merger.EXPECT().Merge(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.ErrArtifactMerge)

	_, err := a.Assemble(context.Background(), artifacts, domain.PlatformMacOS, true, []domain.Artifact{x64})
	require.ErrorIs(t, err, domain.ErrArtifactMerge)
}

func TestAssemble_SingleArch(t *testing.T) {
	ctrl := gomock.NewController(t)
	a, _ := newAssembler(ctrl)
	work, artifacts := t.TempDir(), t.TempDir()

	win := stage(t, work, domain.TargetID{Platform: domain.PlatformWindows, Arch: domain.ArchX64}, "ffprobe")

	finals, err := a.Assemble(context.Background(), artifacts, domain.PlatformWindows, false, []domain.Artifact{win})
	require.NoError(t, err)
	require.Len(t, finals, 1)
	assert.Equal(t, filepath.Join(artifacts, "ffprobe.exe"), finals[0].Path)
	assert.Equal(t, []string{"ffprobe.exe", "ffprobe.exe.b3"}, listDir(t, artifacts))

	data, err := os.ReadFile(finals[0].Path)
	require.NoError(t, err)
	assert.Equal(t, "windows-x64", string(data))
}

func TestAssemble_SeveralNonUniversal(t *testing.T) {
	ctrl := gomock.NewController(t)
	a, _ := newAssembler(ctrl)
	work, artifacts := t.TempDir(), t.TempDir()

	x64 := stage(t, work, domain.TargetID{Platform: domain.PlatformLinux, Arch: domain.ArchX64}, "ffprobe")
	arm := stage(t, work, domain.TargetID{Platform: domain.PlatformLinux, Arch: domain.ArchArm64}, "ffprobe")

	finals, err := a.Assemble(context.Background(), artifacts, domain.PlatformLinux, false, []domain.Artifact{x64, arm})
	require.NoError(t, err)
	require.Len(t, finals, 2)
	assert.Equal(t, []string{
		"linux-arm64/ffprobe", "linux-arm64/ffprobe.b3",
		"linux-x64/ffprobe", "linux-x64/ffprobe.b3",
	}, listDir(t, artifacts))
}

func TestAssemble_NoOutputs(t *testing.T) {
	ctrl := gomock.NewController(t)
	a, _ := newAssembler(ctrl)
	_, err := a.Assemble(context.Background(), t.TempDir(), domain.PlatformLinux, false, nil)
	require.ErrorIs(t, err, domain.ErrArtifactMerge)
}
