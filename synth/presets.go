package synth

import (
	"fmt"

	"github.com/uyouii/peak-asymmetry/common"
	"github.com/uyouii/peak-asymmetry/model"
)

const (
	DefaultLower  = 200.0
	DefaultUpper  = 800.0
	DefaultPoints = 1000
)

var (
	SymmetricPreset = []PeakShape{
		Symmetric(1.0, 300, 5),
		Symmetric(0.8, 450, 8),
		Symmetric(1.2, 550, 6),
		Symmetric(0.6, 700, 10),
	}

	AsymmetricPreset = []PeakShape{
		Asymmetric(1.0, 300, 5, 10),
		Asymmetric(0.8, 450, 8, 15),
		Asymmetric(1.2, 550, 6, 12),
		Asymmetric(0.6, 700, 10, 5),
	}
)

// Preset builds one of the named presets ("symmetric" or "asymmetric") on the default grid.
func Preset(kind string) (*model.Spectrum, error) {
	var peaks []PeakShape
	switch kind {
	case "symmetric":
		peaks = SymmetricPreset
	case "asymmetric":
		peaks = AsymmetricPreset
	default:
		return nil, fmt.Errorf("%w: unknown preset %q", common.ErrorInvalidInput, kind)
	}
	return Generate(kind, Grid(DefaultLower, DefaultUpper, DefaultPoints), peaks)
}
