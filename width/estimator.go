package width

import (
	"fmt"
	"math"

	"github.com/uyouii/peak-asymmetry/common"
	"github.com/uyouii/peak-asymmetry/model"
	"gonum.org/v1/gonum/interp"
)

// Estimator measures peak boundaries on one spectrum. The index to position
// mapping is fitted once and shared by every Estimate call.
type Estimator struct {
	values    []float64
	positions []float64
	axis      interp.PiecewiseLinear
}

func NewEstimator(spectrum *model.Spectrum) (*Estimator, error) {
	if err := spectrum.Validate(); err != nil {
		return nil, err
	}

	n := spectrum.Len()
	indexes := make([]float64, n)
	for i := range indexes {
		indexes[i] = float64(i)
	}

	e := &Estimator{
		values:    spectrum.Intensities(),
		positions: spectrum.Positions(),
	}
	if err := e.axis.Fit(indexes, e.positions); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInvalidInput, err)
	}
	return e, nil
}

// Estimate is a one-shot helper around NewEstimator and Estimator.Estimate.
func Estimate(spectrum *model.Spectrum, peak model.Peak, relativeHeight float64) (model.Boundary, error) {
	e, err := NewEstimator(spectrum)
	if err != nil {
		return model.Boundary{}, err
	}
	return e.Estimate(peak, relativeHeight)
}

// Estimate finds where the trace crosses intensity(peak) - relativeHeight*prominence
// on each side of the peak. A side that reaches the sequence edge without a
// crossing is clamped to the edge and flagged.
func (e *Estimator) Estimate(peak model.Peak, relativeHeight float64) (model.Boundary, error) {
	if err := CheckRelativeHeight(relativeHeight); err != nil {
		return model.Boundary{}, err
	}
	n := len(e.values)
	if peak.Index <= 0 || peak.Index >= n-1 {
		return model.Boundary{}, fmt.Errorf("%w: peak index %d is not interior to %d samples",
			common.ErrorInvalidInput, peak.Index, n)
	}

	height := e.values[peak.Index] - relativeHeight*peak.Prominence
	leftIndex, leftClamped := e.leftCrossing(peak.Index, height)
	rightIndex, rightClamped := e.rightCrossing(peak.Index, height)

	return model.Boundary{
		Height:        height,
		LeftIndex:     leftIndex,
		RightIndex:    rightIndex,
		LeftPosition:  e.position(leftIndex),
		RightPosition: e.position(rightIndex),
		LeftClamped:   leftClamped,
		RightClamped:  rightClamped,
	}, nil
}

func CheckRelativeHeight(relativeHeight float64) error {
	if math.IsNaN(relativeHeight) || relativeHeight <= 0 || relativeHeight > 1 {
		return fmt.Errorf("%w: relative height must be in (0, 1], got %v", common.ErrorInvalidInput, relativeHeight)
	}
	return nil
}

func (e *Estimator) leftCrossing(index int, height float64) (float64, bool) {
	k := index
	for k >= 0 && e.values[k] > height {
		k--
	}
	if k < 0 {
		return 0, true
	}
	if k == index {
		return float64(k), false
	}
	lower, upper := e.values[k], e.values[k+1]
	return float64(k) + (height-lower)/(upper-lower), false
}

func (e *Estimator) rightCrossing(index int, height float64) (float64, bool) {
	n := len(e.values)
	k := index
	for k < n && e.values[k] > height {
		k++
	}
	if k >= n {
		return float64(n - 1), true
	}
	if k == index {
		return float64(k), false
	}
	lower, upper := e.values[k], e.values[k-1]
	return float64(k) - (height-lower)/(upper-lower), false
}

// position maps a fractional sample index onto the position axis.
func (e *Estimator) position(index float64) float64 {
	if index == math.Trunc(index) {
		return e.positions[int(index)]
	}
	return e.axis.Predict(index)
}
