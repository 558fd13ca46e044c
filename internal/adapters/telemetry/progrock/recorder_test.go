package progrock_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ffbuild/internal/adapters/telemetry/progrock"
	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
)

type captureLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *captureLogger) Info(msg string) { l.add(msg) }
func (l *captureLogger) Warn(msg string) { l.add(msg) }
func (l *captureLogger) Error(err error) { l.add(err.Error()) }

func (l *captureLogger) add(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, msg)
}

func (l *captureLogger) has(msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Contains(l.lines, msg)
}

func TestRecorder_VertexLifecycle(t *testing.T) {
	log := &captureLogger{}
	recorder := progrock.New(log)

	ctx, vertex := recorder.Record(context.Background(), "linux-x64/ogg")
	got, ok := ports.VertexFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, vertex, got)

	_, err := vertex.Stdout().Write([]byte("checking for gcc... gcc\n"))
	require.NoError(t, err)
	vertex.Log(domain.LogLevelDebug, "debug msg")
	vertex.Complete(nil)

	_, failed := recorder.Record(context.Background(), "linux-x64/ffmpeg")
	failed.Complete(errors.New("exit status 1"))

	require.NoError(t, recorder.Close())

	assert.True(t, log.has("linux-x64/ogg started"))
	assert.True(t, log.has("linux-x64/ogg done"))
	assert.True(t, log.has("linux-x64/ffmpeg failed: exit status 1"))
}

func TestRecorder_Cached(t *testing.T) {
	log := &captureLogger{}
	recorder := progrock.New(log)

	_, vertex := recorder.Record(context.Background(), "macos-arm64")
	vertex.Cached()
	vertex.Complete(nil)

	require.NoError(t, recorder.Close())
	assert.True(t, log.has("macos-arm64 cached"))
	assert.False(t, log.has("macos-arm64 done"))
}
