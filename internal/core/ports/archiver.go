package ports

import (
	"context"

	"go.trai.ch/ffbuild/internal/core/domain"
)

// Archiver packs artifacts into a compressed tarball.
//
//go:generate go run go.uber.org/mock/mockgen -source=archiver.go -destination=mocks/mock_archiver.go -package=mocks
type Archiver interface {
	// Archive writes files, named by their path relative to root, into dest.
	Archive(ctx context.Context, dest string, format domain.ArchiveFormat, root string, files []string) error
}
