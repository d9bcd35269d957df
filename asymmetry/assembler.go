package asymmetry

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/uyouii/peak-asymmetry/common"
	"github.com/uyouii/peak-asymmetry/model"
	"github.com/uyouii/peak-asymmetry/peak"
	"github.com/uyouii/peak-asymmetry/width"
	"go.uber.org/multierr"
)

type Options struct {
	MinProminence  float64 `json:"min_prominence" yaml:"min_prominence"`
	RelativeHeight float64 `json:"relative_height" yaml:"relative_height"`
}

func DefaultOptions() Options {
	return Options{
		MinProminence:  DefaultMinProminence,
		RelativeHeight: DefaultRelativeHeight,
	}
}

func (o Options) Validate() error {
	var err error
	if math.IsNaN(o.MinProminence) || o.MinProminence < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: min prominence must be >= 0, got %v",
			common.ErrorInvalidInput, o.MinProminence))
	}
	err = multierr.Append(err, width.CheckRelativeHeight(o.RelativeHeight))
	return err
}

// Run detects peaks and assembles their asymmetry factors.
func Run(spectrum *model.Spectrum, opts Options) (*model.Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	peaks, err := peak.Detect(spectrum, opts.MinProminence)
	if err != nil {
		return nil, err
	}
	return Assemble(spectrum, peaks, opts.RelativeHeight)
}

// Assemble measures every peak in ascending index order. A degenerate or clamped
// peak is flagged on its entry; only invalid input fails the whole call.
func Assemble(spectrum *model.Spectrum, peaks []model.Peak, relativeHeight float64) (*model.Result, error) {
	if err := width.CheckRelativeHeight(relativeHeight); err != nil {
		return nil, err
	}
	estimator, err := width.NewEstimator(spectrum)
	if err != nil {
		return nil, err
	}

	ordered := make([]model.Peak, len(peaks))
	copy(ordered, peaks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Index < ordered[j].Index
	})

	res := &model.Result{Entries: make([]model.Entry, 0, len(ordered))}
	for _, p := range ordered {
		boundary, err := estimator.Estimate(p, relativeHeight)
		if err != nil {
			return nil, err
		}
		res.Entries = append(res.Entries, buildEntry(spectrum.Samples[p.Index], p, boundary))
	}
	return res, nil
}

func buildEntry(sample model.Sample, p model.Peak, boundary model.Boundary) model.Entry {
	entry := model.Entry{
		Peak:      p,
		Position:  sample.Position,
		Intensity: sample.Intensity,
		Boundary:  boundary,
	}

	factor, err := Factor(sample.Position, boundary)
	if err != nil {
		entry.Factor = math.NaN()
		entry.Flag = model.FlagDegenerate
		entry.Err = fmt.Errorf("peak %d: %w", p.Index, err)
		return entry
	}
	entry.Factor = factor

	if boundary.Clamped() {
		entry.Flag = model.FlagClamped
		entry.Err = fmt.Errorf("peak %d: %w (left=%v right=%v)", p.Index,
			common.ErrorClampedBoundary, boundary.LeftClamped, boundary.RightClamped)
	}
	return entry
}

// IsFatal reports whether err rejects the whole operation rather than a single peak.
func IsFatal(err error) bool {
	return errors.Is(err, common.ErrorInvalidInput)
}
