package domain_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

func order(g *domain.StepGraph) []string {
	var names []string
	for s := range g.Walk() {
		names = append(names, s.Name)
	}
	return names
}

func TestStepGraph_AddStep(t *testing.T) {
	g := domain.NewStepGraph()
	step := domain.StepSpec{Name: "ogg"}

	require.NoError(t, g.AddStep(step))

	err := g.AddStep(step)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStepAlreadyExists))

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	assert.Equal(t, "ogg", zErr.Metadata()["step"])
}

func TestStepGraph_Validate_DefaultPipeline(t *testing.T) {
	g := domain.NewStepGraph()
	for _, s := range domain.DefaultSteps() {
		require.NoError(t, g.AddStep(s))
	}

	require.NoError(t, g.Validate())
	assert.Equal(t, []string{"ogg", "vorbis", "lame", "ffmpeg"}, order(g))
}

func TestStepGraph_Validate_DeclarationOrderBreaksTies(t *testing.T) {
	g := domain.NewStepGraph()
	require.NoError(t, g.AddStep(domain.StepSpec{Name: "ffmpeg", Requires: []string{"lame", "ogg"}}))
	require.NoError(t, g.AddStep(domain.StepSpec{Name: "ogg"}))
	require.NoError(t, g.AddStep(domain.StepSpec{Name: "lame"}))

	require.NoError(t, g.Validate())
	got := order(g)
	assert.Equal(t, []string{"lame", "ogg", "ffmpeg"}, got)

	// Stable across repeated validation.
	for range 10 {
		require.NoError(t, g.Validate())
		assert.True(t, slices.Equal(got, order(g)))
	}
}

func TestStepGraph_Validate_Cycle(t *testing.T) {
	g := domain.NewStepGraph()
	require.NoError(t, g.AddStep(domain.StepSpec{Name: "A", Requires: []string{"B"}}))
	require.NoError(t, g.AddStep(domain.StepSpec{Name: "B", Requires: []string{"A"}}))

	err := g.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCycleDetected))

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok)
	assert.Equal(t, "A -> B -> A", zErr.Metadata()["cycle"])
}

func TestStepGraph_Validate_MissingDependency(t *testing.T) {
	g := domain.NewStepGraph()
	require.NoError(t, g.AddStep(domain.StepSpec{Name: "vorbis", Requires: []string{"ogg"}}))

	err := g.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMissingDependency))

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok)
	assert.Equal(t, "ogg", zErr.Metadata()["dependency"])
	assert.Equal(t, "vorbis", zErr.Metadata()["step"])
}

func TestStepGraph_InsertLibraryIsDataOnly(t *testing.T) {
	steps := domain.DefaultSteps()
	steps = append([]domain.StepSpec{{Name: "zlib", Dir: "zlib"}}, steps...)
	steps[len(steps)-1].Requires = append(steps[len(steps)-1].Requires, "zlib")

	g := domain.NewStepGraph()
	for _, s := range steps {
		require.NoError(t, g.AddStep(s))
	}
	require.NoError(t, g.Validate())

	got := order(g)
	assert.Equal(t, "ffmpeg", got[len(got)-1])
	assert.Less(t, slices.Index(got, "zlib"), slices.Index(got, "ffmpeg"))
	assert.Less(t, slices.Index(got, "ogg"), slices.Index(got, "vorbis"))
	assert.Equal(t, 5, g.Len())
}
