package ports

import "go.trai.ch/ffbuild/internal/core/domain"

// BuildRecordStore defines the interface for storing and retrieving build records.
// Records live under the project's state directory, passed as dir.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type BuildRecordStore interface {
	// Get retrieves the build record for a given target.
	// Returns nil, nil if not found.
	Get(dir, target string) (*domain.BuildRecord, error)

	// Put stores the build record.
	Put(dir string, rec domain.BuildRecord) error

	// Clear removes every stored record.
	Clear(dir string) error
}
