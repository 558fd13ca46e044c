package pipeline

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ffbuild/internal/adapters/fs"                 //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ffbuild/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ffbuild/internal/adapters/patch"              //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ffbuild/internal/adapters/shell"              //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ffbuild/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/ffbuild/internal/engine/runner"
)

// NodeID is the unique identifier for the pipeline Graft node.
const NodeID graft.ID = "engine.pipeline"

func init() {
	graft.Register(graft.Node[*Pipeline]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.WorkspaceNodeID,
			patch.NodeID,
			shell.NodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Pipeline, error) {
			workspace, err := graft.Dep[ports.Workspace](ctx)
			if err != nil {
				return nil, err
			}

			patcher, err := graft.Dep[ports.Patcher](ctx)
			if err != nil {
				return nil, err
			}

			executor, err := graft.Dep[*shell.Executor](ctx)
			if err != nil {
				return nil, err
			}

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(workspace, patcher, runner.New(executor), telemetry, log), nil
		},
	})
}
