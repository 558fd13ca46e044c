package scheduler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ffbuild/internal/adapters/cas"                //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ffbuild/internal/adapters/checksum"           //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ffbuild/internal/adapters/fs"                 //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ffbuild/internal/adapters/lipo"               //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ffbuild/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ffbuild/internal/adapters/shell"              //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ffbuild/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/ffbuild/internal/engine/assembler"
	"go.trai.ch/ffbuild/internal/engine/pipeline"
	"go.trai.ch/ffbuild/internal/engine/runner"
)

// NodeID is the unique identifier for the scheduler Graft node.
const NodeID graft.ID = "engine.scheduler"

func init() {
	graft.Register(graft.Node[*Scheduler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			pipeline.NodeID,
			fs.WorkspaceNodeID,
			lipo.NodeID,
			checksum.NodeID,
			shell.NodeID,
			fs.HasherNodeID,
			cas.NodeID,
			fs.ResolverNodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Scheduler, error) {
			p, err := graft.Dep[*pipeline.Pipeline](ctx)
			if err != nil {
				return nil, err
			}

			workspace, err := graft.Dep[ports.Workspace](ctx)
			if err != nil {
				return nil, err
			}

			merger, err := graft.Dep[ports.BinaryMerger](ctx)
			if err != nil {
				return nil, err
			}

			summer, err := graft.Dep[ports.Checksummer](ctx)
			if err != nil {
				return nil, err
			}

			executor, err := graft.Dep[*shell.Executor](ctx)
			if err != nil {
				return nil, err
			}

			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.BuildRecordStore](ctx)
			if err != nil {
				return nil, err
			}

			resolver, err := graft.Dep[ports.InputResolver](ctx)
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

			return NewScheduler(
				p,
				assembler.New(workspace, merger, summer),
				runner.New(executor),
				hasher,
				store,
				resolver,
				telemetry,
				log,
			), nil
		},
	})
}
