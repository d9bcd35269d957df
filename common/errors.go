package common

import "errors"

var (
	// ErrorInvalidInput is fatal: the whole operation is rejected and no partial result is produced.
	ErrorInvalidInput = errors.New("invalid input")

	// ErrorDegenerateWidth marks a single peak whose one-sided width is zero or negative.
	ErrorDegenerateWidth = errors.New("degenerate width")

	// ErrorClampedBoundary marks a boundary that hit the sequence edge without crossing the threshold.
	ErrorClampedBoundary = errors.New("clamped boundary")
)
