package app

import (
	"go.trai.ch/ffbuild/internal/adapters/logger" //nolint:depguard // Wired in app layer
	"go.trai.ch/ffbuild/internal/adapters/shell"  //nolint:depguard // Wired in app layer
	"go.trai.ch/ffbuild/internal/core/ports"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App      *App
	Logger   ports.Logger
	Executor *shell.Executor
}

// SetVerbosity streams sub-command output when verbose is set and hides
// informational logs when quiet is set.
func (c *Components) SetVerbosity(verbose, quiet bool) {
	if c.Executor != nil {
		c.Executor.SetVerbose(verbose)
	}
	if l, ok := c.Logger.(*logger.Logger); ok {
		l.SetQuiet(quiet)
	}
}
