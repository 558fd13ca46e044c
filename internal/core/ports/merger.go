package ports

import "context"

// BinaryMerger combines single-arch executables into one universal executable.
//
//go:generate go run go.uber.org/mock/mockgen -source=merger.go -destination=mocks/mock_merger.go -package=mocks
type BinaryMerger interface {
	Merge(ctx context.Context, inputs []string, output string) error
}
