package asymmetry

import (
	"fmt"

	"github.com/uyouii/peak-asymmetry/common"
	"github.com/uyouii/peak-asymmetry/model"
)

// Factor returns (right - peak) / (peak - left).
func Factor(peakPosition float64, boundary model.Boundary) (float64, error) {
	leftWidth := peakPosition - boundary.LeftPosition
	rightWidth := boundary.RightPosition - peakPosition
	if leftWidth <= 0 || rightWidth <= 0 {
		return 0, fmt.Errorf("%w: half widths left=%v right=%v at position %v",
			common.ErrorDegenerateWidth, leftWidth, rightWidth, peakPosition)
	}
	return rightWidth / leftWidth, nil
}
