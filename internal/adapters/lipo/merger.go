// Package lipo merges single-arch Mach-O executables with lipo(1).
package lipo

import (
	"context"
	"os"
	"path/filepath"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// Tool is the executable used to create universal binaries.
const Tool = "lipo"

var _ ports.BinaryMerger = (*Merger)(nil)

// Merger implements ports.BinaryMerger.
type Merger struct {
	executor ports.Executor
}

// NewMerger creates a new Merger.
func NewMerger(executor ports.Executor) *Merger {
	return &Merger{executor: executor}
}

// Merge writes a universal binary holding every input slice to output.
func (m *Merger) Merge(ctx context.Context, inputs []string, output string) error {
	if len(inputs) == 0 {
		return zerr.Wrap(domain.ErrArtifactMerge, "no binaries to merge")
	}
	for _, in := range inputs {
		if _, err := os.Stat(in); err != nil {
			return zerr.With(zerr.Wrap(domain.ErrArtifactMerge, "missing per-arch binary"), "path", in)
		}
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o750); err != nil {
		return zerr.Wrap(err, "failed to create output directory")
	}

	args := append([]string{"-create"}, inputs...)
	args = append(args, "-output", output)
	res, err := m.executor.Execute(ctx, domain.ProcessInvocation{Path: Tool, Args: args}, nil)
	if err != nil {
		mergeErr := zerr.With(zerr.Wrap(domain.ErrArtifactMerge, "lipo failed"), "output", output)
		mergeErr = zerr.With(mergeErr, "tail", res.Tail)
		return zerr.With(mergeErr, "error", err.Error())
	}
	return nil
}
