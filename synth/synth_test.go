package synth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/peak-asymmetry/common"
)

func TestGrid(t *testing.T) {
	grid := Grid(200, 800, 1000)
	require.Len(t, grid, 1000)
	assert.Equal(t, 200.0, grid[0])
	assert.InDelta(t, 800.0, grid[999], 1e-9)
	assert.InDelta(t, 600.0/999, grid[1]-grid[0], 1e-9)

	assert.Equal(t, []float64{5}, Grid(5, 10, 1))
}

func TestPeakShapeHalves(t *testing.T) {
	p := Asymmetric(2, 100, 5, 10)
	assert.Equal(t, 2.0, p.Value(100))
	// one sigma away on each side gives the same relative drop
	assert.InDelta(t, p.Value(95), p.Value(110), 1e-12)
	assert.Less(t, p.Value(90), p.Value(110))
}

func TestGenerate(t *testing.T) {
	positions := Grid(0, 100, 101)
	s, err := Generate("one", positions, []PeakShape{Symmetric(1, 50, 4)})
	require.NoError(t, err)
	require.NoError(t, s.Validate())
	assert.Equal(t, 1.0, s.Samples[50].Intensity)
	assert.InDelta(t, s.Samples[45].Intensity, s.Samples[55].Intensity, 1e-12)

	_, err = Generate("bad", positions, []PeakShape{Symmetric(1, 50, 0)})
	assert.True(t, errors.Is(err, common.ErrorInvalidInput))
}

func TestPreset(t *testing.T) {
	for _, kind := range []string{"symmetric", "asymmetric"} {
		s, err := Preset(kind)
		require.NoError(t, err, kind)
		assert.Equal(t, DefaultPoints, s.Len())
		assert.Equal(t, kind, s.Name)
	}

	_, err := Preset("lorentzian")
	assert.True(t, errors.Is(err, common.ErrorInvalidInput))
}

func TestAddNoiseDeterministic(t *testing.T) {
	s, err := Generate("clean", Grid(0, 10, 11), []PeakShape{Symmetric(1, 5, 1)})
	require.NoError(t, err)

	a := AddNoise(s, 0.01, 7)
	b := AddNoise(s, 0.01, 7)
	assert.Equal(t, a.Intensities(), b.Intensities())
	assert.NotEqual(t, s.Intensities(), a.Intensities())
	assert.Equal(t, s.Positions(), a.Positions())
}
