package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ffbuild/internal/adapters/telemetry"
	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
)

func TestNoOp(t *testing.T) {
	rec := telemetry.NewNoOp()
	ctx, v := rec.Record(context.Background(), "linux-x64/ogg")

	got, ok := ports.VertexFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, v, got)

	n, err := v.Stdout().Write([]byte("configure: ok\n"))
	require.NoError(t, err)
	assert.Equal(t, 14, n)

	v.Log(domain.LogLevelInfo, "msg")
	v.Cached()
	v.Complete(errors.New("boom"))
	require.NoError(t, rec.Close())
}
