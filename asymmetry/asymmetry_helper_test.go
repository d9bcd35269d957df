package asymmetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/peak-asymmetry/model"
	"github.com/uyouii/peak-asymmetry/synth"
	"github.com/uyouii/peak-asymmetry/utils"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observedContext() (context.Context, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return utils.WithLogger(context.Background(), zap.New(core)), logs
}

func TestAnalyze(t *testing.T) {
	ctx, logs := observedContext()
	s, err := synth.Preset("symmetric")
	require.NoError(t, err)

	res, err := Analyze(ctx, s, Options{MinProminence: 0.1, RelativeHeight: 0.95})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Len())
	assert.Equal(t, 1, logs.FilterMessage("analyze spectrum success").Len())
}

func TestAnalyzeDetectedPeakIsNotClamped(t *testing.T) {
	ctx, logs := observedContext()
	s, err := model.NewSpectrum("clamped", []float64{0, 1, 2, 3, 4}, []float64{0, 2, 5, 4, 3})
	require.NoError(t, err)

	res, err := Analyze(ctx, s, Options{MinProminence: 0, RelativeHeight: 1})
	require.NoError(t, err)
	require.Equal(t, 1, res.Len())
	assert.Equal(t, 5.0-3.0, res.Entries[0].Peak.Prominence)
	assert.Equal(t, 0, logs.FilterMessage("peak flagged").Len())
}

func TestAnalyzeInvalid(t *testing.T) {
	ctx, logs := observedContext()
	_, err := Analyze(ctx, &model.Spectrum{Name: "short"}, DefaultOptions())
	require.Error(t, err)
	assert.True(t, IsFatal(err))
	assert.Equal(t, 1, logs.FilterMessage("analyze spectrum failed").Len())

	_, err = Analyze(ctx, nil, DefaultOptions())
	assert.True(t, IsFatal(err))
}

func TestAnalyzeBatch(t *testing.T) {
	ctx, _ := observedContext()
	var spectra []*model.Spectrum
	for _, center := range []float64{300, 400, 500, 600, 700} {
		s, err := synth.Generate("batch", synth.Grid(200, 800, 1000), []synth.PeakShape{synth.Asymmetric(1, center, 5, 10)})
		require.NoError(t, err)
		spectra = append(spectra, s)
	}

	results, err := AnalyzeBatch(ctx, spectra, Options{MinProminence: 0.1, RelativeHeight: 0.95}, 2)
	require.NoError(t, err)
	require.Len(t, results, len(spectra))
	for i, res := range results {
		require.Equal(t, 1, res.Len(), "spectrum %d", i)
		assert.InDelta(t, 300+100*float64(i), res.Entries[0].Position, 1)
		assert.InEpsilon(t, 2.0, res.Entries[0].Factor, 0.1)
	}
}

func TestAnalyzeBatchFatal(t *testing.T) {
	ctx, _ := observedContext()
	good, err := synth.Preset("symmetric")
	require.NoError(t, err)
	bad := &model.Spectrum{Name: "bad", Samples: []model.Sample{{Position: 1}, {Position: 0}, {Position: 2}}}

	_, err = AnalyzeBatch(ctx, []*model.Spectrum{good, bad, good}, Options{MinProminence: 0.1, RelativeHeight: 0.5}, 0)
	require.Error(t, err)
	assert.True(t, IsFatal(err))

	_, err = AnalyzeBatch(ctx, []*model.Spectrum{good}, Options{MinProminence: -1, RelativeHeight: 0.5}, 1)
	assert.True(t, IsFatal(err))
}
