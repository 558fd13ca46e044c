package flagfile

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ffbuild/internal/core/ports"
)

// NodeID is the unique identifier for the flag source Graft node.
const NodeID graft.ID = "adapter.flag_source"

func init() {
	graft.Register(graft.Node[ports.FlagSource]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.FlagSource, error) {
			return NewReader(), nil
		},
	})
}
