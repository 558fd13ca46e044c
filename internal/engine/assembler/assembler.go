// Package assembler reduces per-target binaries to the artifacts of a platform.
package assembler

import (
	"context"
	"os"
	"path/filepath"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// Assembler copies or merges staged binaries into the artifacts directory.
type Assembler struct {
	workspace ports.Workspace
	merger    ports.BinaryMerger
	checksum  ports.Checksummer
}

// New creates a new Assembler.
func New(workspace ports.Workspace, merger ports.BinaryMerger, checksum ports.Checksummer) *Assembler {
	return &Assembler{workspace: workspace, merger: merger, checksum: checksum}
}

// Assemble places the outputs of platform under dir.
//
// Universal platforms merge every output into dir/<binary>. Otherwise a single
// output is copied to dir/<binary>, and several outputs each go to
// dir/<platform>-<arch>/<binary>. Every artifact gets a checksum sidecar.
func (a *Assembler) Assemble(
	ctx context.Context,
	dir string,
	platform domain.Platform,
	universal bool,
	outputs []domain.Artifact,
) ([]domain.FinalArtifact, error) {
	if len(outputs) == 0 {
		return nil, failure(platform, zerr.Wrap(domain.ErrArtifactMerge, "no binaries to assemble"))
	}
	if universal {
		fa, err := a.merge(ctx, dir, platform, outputs)
		if err != nil {
			return nil, err
		}
		return []domain.FinalArtifact{fa}, nil
	}

	finals := make([]domain.FinalArtifact, 0, len(outputs))
	for _, out := range outputs {
		dest := filepath.Join(dir, filepath.Base(out.Path))
		if len(outputs) > 1 {
			dest = filepath.Join(dir, out.Target.String(), filepath.Base(out.Path))
		}
		if err := a.workspace.CopyFile(out.Path, dest); err != nil {
			return nil, failure(platform, zerr.With(zerr.Wrap(domain.ErrArtifactMerge, "failed to copy binary: "+err.Error()),
				"target", out.Target.String()))
		}
		fa, err := a.finalize(platform, dest, []domain.Arch{out.Target.Arch})
		if err != nil {
			return nil, err
		}
		finals = append(finals, fa)
	}
	return finals, nil
}

func (a *Assembler) merge(
	ctx context.Context,
	dir string,
	platform domain.Platform,
	outputs []domain.Artifact,
) (domain.FinalArtifact, error) {
	inputs := make([]string, 0, len(outputs))
	archs := make([]domain.Arch, 0, len(outputs))
	for _, out := range outputs {
		if _, err := os.Stat(out.Path); err != nil {
			return domain.FinalArtifact{}, failure(platform, zerr.With(
				zerr.Wrap(domain.ErrArtifactMerge, "per-arch binary missing"), "path", out.Path))
		}
		inputs = append(inputs, out.Path)
		archs = append(archs, out.Target.Arch)
	}

	dest := filepath.Join(dir, filepath.Base(outputs[0].Path))
	// Drop per-arch copies left by an earlier non-universal run.
	for _, out := range outputs {
		if err := a.workspace.RemoveAll(filepath.Join(dir, out.Target.String())); err != nil {
			return domain.FinalArtifact{}, failure(platform, err)
		}
	}
	if err := a.merger.Merge(ctx, inputs, dest); err != nil {
		return domain.FinalArtifact{}, failure(platform, err)
	}
	return a.finalize(platform, dest, archs)
}

func (a *Assembler) finalize(platform domain.Platform, path string, archs []domain.Arch) (domain.FinalArtifact, error) {
	sum, err := a.checksum.WriteSidecar(path)
	if err != nil {
		return domain.FinalArtifact{}, failure(platform, err)
	}
	return domain.FinalArtifact{Platform: platform, Path: path, Archs: archs, Checksum: sum}, nil
}

func failure(platform domain.Platform, err error) *domain.BuildFailure {
	return &domain.BuildFailure{
		Target: domain.TargetID{Platform: platform},
		Kind:   domain.ErrArtifactMerge,
		Err:    err,
	}
}
