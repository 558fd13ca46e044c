// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/ffbuild/internal/core/domain"
)

// Executor defines the interface for launching external processes.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the invocation and streams its combined output to out, which may be nil.
	//
	// The invocation environment is layered over the process environment.
	// A non-zero exit returns an error wrapping domain.ErrSubcommandFailed, and
	// exceeding inv.Timeout returns an error wrapping domain.ErrTimeout. The result
	// carries the exit code and output tail in both cases.
	Execute(ctx context.Context, inv domain.ProcessInvocation, out io.Writer) (domain.ProcessResult, error)
}
