package ports

import (
	"context"

	"go.trai.ch/ffbuild/internal/core/domain"
)

// Patcher applies and reverts vendor patches inside a source tree.
//
//go:generate go run go.uber.org/mock/mockgen -source=patcher.go -destination=mocks/mock_patcher.go -package=mocks
type Patcher interface {
	// Apply applies p inside dir. Failures wrap domain.ErrPatchApply.
	Apply(ctx context.Context, dir string, p domain.PatchSpec) error
	// Revert undoes p inside dir. Reverting a patch that is not applied is a no-op.
	Revert(ctx context.Context, dir string, p domain.PatchSpec) error
}
