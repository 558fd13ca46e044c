package lipo

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ffbuild/internal/adapters/shell"
	"go.trai.ch/ffbuild/internal/core/ports"
)

// NodeID is the unique identifier for the binary merger Graft node.
const NodeID graft.ID = "adapter.binary_merger"

func init() {
	graft.Register(graft.Node[ports.BinaryMerger]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.BinaryMerger, error) {
			executor, err := graft.Dep[*shell.Executor](ctx)
			if err != nil {
				return nil, err
			}
			return NewMerger(executor), nil
		},
	})
}
