// Package main is the entry point for the ffbuild tool.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/ffbuild/cmd/ffbuild/commands"
	"go.trai.ch/ffbuild/internal/app"
	"go.trai.ch/ffbuild/internal/core/domain"
	_ "go.trai.ch/ffbuild/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run(opts ...func(*app.App)) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// No logger yet.
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	for _, opt := range opts {
		opt(components.App)
	}

	cli := commands.New(components.App)
	cli.SetVerbosityHook(components.SetVerbosity)

	if err := cli.Execute(ctx); err != nil {
		// The run summary already lists every failure.
		if errors.Is(err, domain.ErrBuildFailed) {
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
