package ports

import "go.trai.ch/ffbuild/internal/core/domain"

// Hasher defines the interface for computing fingerprints.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// Fingerprint hashes everything that decides a target's output: its toolchain,
	// the planned invocations and the content of the given input files.
	Fingerprint(target domain.BuildTarget, steps []domain.DependencyStep, inputs []string) (string, error)

	// FileHash hashes a single file's content.
	FileHash(path string) (string, error)
}
