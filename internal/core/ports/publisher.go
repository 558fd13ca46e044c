package ports

import (
	"context"

	"go.trai.ch/ffbuild/internal/core/domain"
)

// Publisher uploads artifacts to remote storage.
//
//go:generate go run go.uber.org/mock/mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks
type Publisher interface {
	// Publish uploads files, keyed by their path relative to root under cfg.Prefix,
	// and returns the object keys written.
	Publish(ctx context.Context, cfg domain.PublishConfig, root string, files []string) ([]string, error)
}
