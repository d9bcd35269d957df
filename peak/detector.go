package peak

import (
	"fmt"
	"math"

	"github.com/uyouii/peak-asymmetry/common"
	"github.com/uyouii/peak-asymmetry/model"
)

// Detector finds local maxima whose prominence is at least MinProminence.
type Detector struct {
	MinProminence float64
}

func NewDetector(minProminence float64) (*Detector, error) {
	if err := checkMinProminence(minProminence); err != nil {
		return nil, err
	}
	return &Detector{MinProminence: minProminence}, nil
}

func (d *Detector) Detect(spectrum *model.Spectrum) ([]model.Peak, error) {
	return Detect(spectrum, d.MinProminence)
}

// Detect returns the peaks of spectrum ordered by index.
//
// A candidate is an interior sample higher than its left neighbour whose value
// (or equal-valued run) is followed by a lower sample. Plateaus report their
// first sample. A zero threshold keeps every candidate.
func Detect(spectrum *model.Spectrum, minProminence float64) ([]model.Peak, error) {
	if err := checkMinProminence(minProminence); err != nil {
		return nil, err
	}
	if err := spectrum.Validate(); err != nil {
		return nil, err
	}

	values := spectrum.Intensities()
	res := []model.Peak{}
	for _, index := range candidates(values) {
		p := prominence(values, index)
		if p.Prominence < minProminence {
			continue
		}
		res = append(res, p)
	}
	return res, nil
}

func checkMinProminence(minProminence float64) error {
	if math.IsNaN(minProminence) || minProminence < 0 {
		return fmt.Errorf("%w: min prominence must be >= 0, got %v", common.ErrorInvalidInput, minProminence)
	}
	return nil
}

// candidates returns the first index of every strict local maximum or plateau.
func candidates(values []float64) []int {
	res := []int{}
	n := len(values)
	i := 1
	for i < n-1 {
		if values[i] <= values[i-1] {
			i++
			continue
		}
		j := i
		for j < n-1 && values[j+1] == values[i] {
			j++
		}
		if j < n-1 && values[j+1] < values[i] {
			res = append(res, i)
		}
		i = j + 1
	}
	return res
}

// prominence walks away from the plateau starting at index in both directions
// until a strictly higher sample or the sequence edge.
func prominence(values []float64, index int) model.Peak {
	height := values[index]

	end := index
	for end+1 < len(values) && values[end+1] == height {
		end++
	}

	leftMin, leftBase := height, index
	for k := index - 1; k >= 0 && values[k] <= height; k-- {
		if values[k] < leftMin {
			leftMin, leftBase = values[k], k
		}
	}

	rightMin, rightBase := height, end
	for k := end + 1; k < len(values) && values[k] <= height; k++ {
		if values[k] < rightMin {
			rightMin, rightBase = values[k], k
		}
	}

	return model.Peak{
		Index:      index,
		Prominence: height - math.Max(leftMin, rightMin),
		LeftBase:   leftBase,
		RightBase:  rightBase,
	}
}
