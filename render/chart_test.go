package render

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/peak-asymmetry/asymmetry"
	"github.com/uyouii/peak-asymmetry/model"
	"github.com/uyouii/peak-asymmetry/synth"
)

func TestLabel(t *testing.T) {
	assert.Equal(t, "AF: 1.235", Label(model.Entry{Factor: 1.23456}))
	assert.Equal(t, "AF: 2.400 (clamped)", Label(model.Entry{Factor: 2.4, Flag: model.FlagClamped}))
	assert.Equal(t, "AF: n/a (degenerate)", Label(model.Entry{Factor: math.NaN(), Flag: model.FlagDegenerate}))
}

func TestChart(t *testing.T) {
	s, err := synth.Preset("asymmetric")
	require.NoError(t, err)
	res, err := asymmetry.Run(s, asymmetry.Options{MinProminence: 0.1, RelativeHeight: 0.95})
	require.NoError(t, err)
	require.Equal(t, 4, res.Len())

	var buf bytes.Buffer
	require.NoError(t, Chart(&buf, s, res, ""))

	html := buf.String()
	assert.Contains(t, html, "Spectra asymmetric")
	assert.Contains(t, html, "markLine")
	for _, entry := range res.Entries {
		assert.Contains(t, html, Label(entry))
	}
}

func TestChartEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Chart(&buf, &model.Spectrum{Name: "none"}, nil, "x"))

	s, err := synth.Preset("symmetric")
	require.NoError(t, err)
	require.NoError(t, Chart(&buf, s, nil, "trace only"))
	assert.Contains(t, buf.String(), "trace only")
}
