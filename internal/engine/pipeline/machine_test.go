package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestMachine_RejectsSkippingRevert(t *testing.T) {
	id := domain.TargetID{Platform: domain.PlatformMacOS, Arch: domain.ArchArm64}
	var seen []domain.TargetState
	m := newMachine(id, func(_ domain.TargetID, s domain.TargetState) { seen = append(seen, s) })

	require.NoError(t, m.to(domain.StatePatching))
	require.NoError(t, m.to(domain.StateBuilding))

	err := m.to(domain.StateComplete)
	require.ErrorIs(t, err, domain.ErrIllegalTransition)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "building", zErr.Metadata()["from"])
	assert.Equal(t, "complete", zErr.Metadata()["to"])
	assert.Equal(t, "macos-arm64", zErr.Metadata()["target"])

	assert.Equal(t, domain.StateBuilding, m.state)
	assert.Equal(t, []domain.TargetState{domain.StatePatching, domain.StateBuilding}, seen)
}

func TestMachine_NilObserver(t *testing.T) {
	m := newMachine(domain.TargetID{Platform: domain.PlatformLinux, Arch: domain.ArchX64}, nil)
	require.NoError(t, m.to(domain.StateCached))
	assert.True(t, m.state.IsTerminal())
}
