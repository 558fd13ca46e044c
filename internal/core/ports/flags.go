package ports

import "go.trai.ch/ffbuild/internal/core/domain"

// FlagSource reads configure flag files.
//
//go:generate go run go.uber.org/mock/mockgen -source=flags.go -destination=mocks/mock_flags.go -package=mocks
type FlagSource interface {
	// ReadFlags returns the flags listed in the file at path.
	// A missing file yields an empty set and no error.
	ReadFlags(path string) (domain.ConfigureFlagSet, error)
}
