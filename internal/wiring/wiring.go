// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/ffbuild/internal/adapters/archive"
	_ "go.trai.ch/ffbuild/internal/adapters/cas"
	_ "go.trai.ch/ffbuild/internal/adapters/checksum"
	_ "go.trai.ch/ffbuild/internal/adapters/config"
	_ "go.trai.ch/ffbuild/internal/adapters/flagfile"
	_ "go.trai.ch/ffbuild/internal/adapters/fs"
	_ "go.trai.ch/ffbuild/internal/adapters/lipo"
	_ "go.trai.ch/ffbuild/internal/adapters/logger"
	_ "go.trai.ch/ffbuild/internal/adapters/patch"
	_ "go.trai.ch/ffbuild/internal/adapters/publish"
	_ "go.trai.ch/ffbuild/internal/adapters/shell"
	_ "go.trai.ch/ffbuild/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/ffbuild/internal/app"
	_ "go.trai.ch/ffbuild/internal/engine/pipeline"
	_ "go.trai.ch/ffbuild/internal/engine/scheduler"
)
