package model

import (
	"fmt"
	"math"

	"github.com/uyouii/peak-asymmetry/common"
	"gonum.org/v1/gonum/floats"
)

// MinSpectrumLen is the shortest trace that can hold an interior peak.
const MinSpectrumLen = 3

type Sample struct {
	Position  float64 `json:"position"`
	Intensity float64 `json:"intensity"`
}

// Spectrum is an ordered intensity-vs-position trace. It is read-only to the analysis code.
type Spectrum struct {
	Name    string
	Samples []Sample
}

func NewSpectrum(name string, positions, intensities []float64) (*Spectrum, error) {
	if len(positions) != len(intensities) {
		return nil, fmt.Errorf("%w: %d positions but %d intensities",
			common.ErrorInvalidInput, len(positions), len(intensities))
	}
	samples := make([]Sample, len(positions))
	for i := range positions {
		samples[i] = Sample{Position: positions[i], Intensity: intensities[i]}
	}
	return &Spectrum{Name: name, Samples: samples}, nil
}

func (s *Spectrum) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Samples)
}

func (s *Spectrum) DebugString() string {
	if s == nil {
		return "nil spectrum"
	}
	return fmt.Sprintf("name: %v, sampleCount: %v", s.Name, s.Len())
}

// Validate checks length, finiteness and strictly increasing positions.
func (s *Spectrum) Validate() error {
	if s.Len() < MinSpectrumLen {
		return fmt.Errorf("%w: spectrum needs at least %d samples, got %d",
			common.ErrorInvalidInput, MinSpectrumLen, s.Len())
	}
	for i, sample := range s.Samples {
		if !isFinite(sample.Position) || !isFinite(sample.Intensity) {
			return fmt.Errorf("%w: non-finite sample at index %d", common.ErrorInvalidInput, i)
		}
		if i > 0 && sample.Position <= s.Samples[i-1].Position {
			return fmt.Errorf("%w: positions not strictly increasing at index %d (%v after %v)",
				common.ErrorInvalidInput, i, sample.Position, s.Samples[i-1].Position)
		}
	}
	return nil
}

func (s *Spectrum) Positions() []float64 {
	if s == nil {
		return nil
	}
	res := make([]float64, s.Len())
	for i, sample := range s.Samples {
		res[i] = sample.Position
	}
	return res
}

func (s *Spectrum) Intensities() []float64 {
	if s == nil {
		return nil
	}
	res := make([]float64, s.Len())
	for i, sample := range s.Samples {
		res[i] = sample.Intensity
	}
	return res
}

// IntensityRange returns max - min of the intensities, 0 for an empty spectrum.
func (s *Spectrum) IntensityRange() float64 {
	if s.Len() == 0 {
		return 0
	}
	values := s.Intensities()
	return floats.Max(values) - floats.Min(values)
}

// Scale returns a copy with every intensity multiplied by c.
func (s *Spectrum) Scale(c float64) *Spectrum {
	if s == nil {
		return nil
	}
	values := s.Intensities()
	floats.Scale(c, values)
	res, _ := NewSpectrum(s.Name, s.Positions(), values)
	return res
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
