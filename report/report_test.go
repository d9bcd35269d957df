package report

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/peak-asymmetry/asymmetry"
	"github.com/uyouii/peak-asymmetry/common"
	"github.com/uyouii/peak-asymmetry/model"
	"gopkg.in/yaml.v3"
)

func sampleResult() *model.Result {
	return &model.Result{Entries: []model.Entry{
		{
			Peak:      model.Peak{Index: 10, Prominence: 1},
			Position:  300,
			Intensity: 1,
			Boundary:  model.Boundary{LeftPosition: 290, RightPosition: 320},
			Factor:    2,
		},
		{
			Peak:      model.Peak{Index: 20, Prominence: 0.5},
			Position:  400,
			Intensity: 0.5,
			Boundary:  model.Boundary{LeftPosition: 390, RightPosition: 405},
			Factor:    0.5,
		},
		{
			Peak:      model.Peak{Index: 30},
			Position:  500,
			Intensity: 0.2,
			Boundary:  model.Boundary{LeftPosition: 500, RightPosition: 500},
			Factor:    math.NaN(),
			Flag:      model.FlagDegenerate,
			Err:       common.ErrorDegenerateWidth,
		},
	}}
}

func TestNew(t *testing.T) {
	opts := asymmetry.Options{MinProminence: 0.1, RelativeHeight: 0.95}
	r := New("trace", opts, sampleResult())

	_, err := uuid.Parse(r.RunID)
	require.NoError(t, err)
	assert.Equal(t, "trace", r.Spectrum)
	require.Len(t, r.Peaks, 3)

	assert.Equal(t, 30.0, r.Peaks[0].Width)
	require.NotNil(t, r.Peaks[0].Factor)
	assert.Equal(t, 2.0, *r.Peaks[0].Factor)
	assert.Equal(t, "ok", r.Peaks[0].Flag)

	assert.Nil(t, r.Peaks[2].Factor)
	assert.Equal(t, "degenerate", r.Peaks[2].Flag)
	assert.Equal(t, "degenerate width", r.Peaks[2].Message)

	assert.Equal(t, Summary{Peaks: 3, Reliable: 2, MeanFactor: 1.25, StdFactor: 1.061}, r.Summary)
}

func TestNewEmpty(t *testing.T) {
	r := New("empty", asymmetry.DefaultOptions(), &model.Result{})
	assert.Empty(t, r.Peaks)
	assert.Equal(t, Summary{}, r.Summary)

	r = New("nil", asymmetry.DefaultOptions(), nil)
	assert.Empty(t, r.Peaks)
}

func TestWriteJSON(t *testing.T) {
	r := New("trace", asymmetry.DefaultOptions(), sampleResult())
	var buf bytes.Buffer
	require.NoError(t, r.Write(&buf, "json"))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	peaks := decoded["peaks"].([]any)
	require.Len(t, peaks, 3)
	assert.Nil(t, peaks[2].(map[string]any)["factor"])
	assert.Equal(t, 0.95, decoded["options"].(map[string]any)["relative_height"])
}

func TestWriteYAML(t *testing.T) {
	r := New("trace", asymmetry.DefaultOptions(), sampleResult())
	var buf bytes.Buffer
	require.NoError(t, r.Write(&buf, "yaml"))

	var decoded Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, r.RunID, decoded.RunID)
	assert.Equal(t, r.Summary, decoded.Summary)
	assert.Nil(t, decoded.Peaks[2].Factor)
}

func TestWriteTable(t *testing.T) {
	r := New("trace", asymmetry.DefaultOptions(), sampleResult())
	var buf bytes.Buffer
	require.NoError(t, r.Write(&buf, "table"))

	out := buf.String()
	assert.Contains(t, out, "spectrum trace")
	assert.Contains(t, out, "2.000")
	assert.Contains(t, out, "degenerate")
	assert.True(t, strings.HasSuffix(out, "3 peaks, 2 reliable\n"))

	assert.Error(t, r.Write(&buf, "xml"))
}
