package progrock

import (
	"sync"

	"github.com/vito/progrock"
	"go.trai.ch/ffbuild/internal/core/ports"
)

var _ progrock.Writer = (*Journal)(nil)

// Journal is a progrock.Writer that reports each vertex start and completion once
// through a logger.
type Journal struct {
	logger ports.Logger

	mu       sync.Mutex
	started  map[string]bool
	finished map[string]bool
}

// NewJournal creates a new Journal.
func NewJournal(logger ports.Logger) *Journal {
	return &Journal{
		logger:   logger,
		started:  make(map[string]bool),
		finished: make(map[string]bool),
	}
}

// WriteStatus logs the vertex transitions carried by update.
func (j *Journal) WriteStatus(update *progrock.StatusUpdate) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	for _, v := range update.Vertexes {
		if !j.started[v.Id] {
			j.started[v.Id] = true
			j.logger.Info(v.Name + " started")
		}
		if j.finished[v.Id] {
			continue
		}
		switch {
		case v.Cached:
			j.finished[v.Id] = true
			j.logger.Info(v.Name + " cached")
		case v.Completed == nil:
		case v.Error != nil:
			j.finished[v.Id] = true
			j.logger.Warn(v.Name + " failed: " + *v.Error)
		default:
			j.finished[v.Id] = true
			j.logger.Info(v.Name + " done")
		}
	}
	return nil
}

// Close does nothing.
func (j *Journal) Close() error {
	return nil
}
