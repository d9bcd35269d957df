package synth

import (
	"fmt"
	"math"

	"github.com/uyouii/peak-asymmetry/common"
	"github.com/uyouii/peak-asymmetry/model"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// PeakShape describes one synthetic band. SigmaLeft and SigmaRight are equal for a symmetric peak.
type PeakShape struct {
	Amplitude  float64 `json:"amplitude" yaml:"amplitude"`
	Center     float64 `json:"center" yaml:"center"`
	SigmaLeft  float64 `json:"sigma_left" yaml:"sigma_left"`
	SigmaRight float64 `json:"sigma_right" yaml:"sigma_right"`
}

func Symmetric(amplitude, center, sigma float64) PeakShape {
	return PeakShape{Amplitude: amplitude, Center: center, SigmaLeft: sigma, SigmaRight: sigma}
}

func Asymmetric(amplitude, center, sigmaLeft, sigmaRight float64) PeakShape {
	return PeakShape{Amplitude: amplitude, Center: center, SigmaLeft: sigmaLeft, SigmaRight: sigmaRight}
}

// Value evaluates the two half-Gaussians; x == Center belongs to the left half.
func (p PeakShape) Value(x float64) float64 {
	sigma := p.SigmaRight
	if x <= p.Center {
		sigma = p.SigmaLeft
	}
	return Gaussian(x, p.Amplitude, p.Center, sigma)
}

func (p PeakShape) validate() error {
	if p.SigmaLeft <= 0 || p.SigmaRight <= 0 {
		return fmt.Errorf("%w: peak at %v needs positive sigmas", common.ErrorInvalidInput, p.Center)
	}
	return nil
}

func Gaussian(x, amplitude, center, sigma float64) float64 {
	d := x - center
	return amplitude * math.Exp(-d*d/(2*sigma*sigma))
}

// Grid returns n evenly spaced positions over [lo, hi].
func Grid(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// Generate sums every peak shape over positions.
func Generate(name string, positions []float64, peaks []PeakShape) (*model.Spectrum, error) {
	values := make([]float64, len(positions))
	for _, p := range peaks {
		if err := p.validate(); err != nil {
			return nil, err
		}
		for i, x := range positions {
			values[i] += p.Value(x)
		}
	}
	return model.NewSpectrum(name, positions, values)
}

// AddNoise returns a copy of spectrum with seeded Gaussian noise added to every intensity.
func AddNoise(spectrum *model.Spectrum, sigma float64, seed uint64) *model.Spectrum {
	noise := distuv.Normal{Mu: 0, Sigma: sigma, Src: rand.NewSource(seed)}
	values := spectrum.Intensities()
	for i := range values {
		values[i] += noise.Rand()
	}
	res, _ := model.NewSpectrum(spectrum.Name, spectrum.Positions(), values)
	return res
}
