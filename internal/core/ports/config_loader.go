package ports

import "go.trai.ch/ffbuild/internal/core/domain"

// ConfigLoader defines the interface for loading the project manifest.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the manifest at path. Relative paths inside it are resolved against its directory.
	Load(path string) (*domain.Project, error)
}
