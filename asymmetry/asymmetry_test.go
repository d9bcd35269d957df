package asymmetry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/peak-asymmetry/common"
	"github.com/uyouii/peak-asymmetry/model"
)

func TestFactor(t *testing.T) {
	tests := []struct {
		name     string
		peak     float64
		boundary model.Boundary
		want     float64
		wantErr  error
	}{
		{name: "symmetric", peak: 10, boundary: model.Boundary{LeftPosition: 8, RightPosition: 12}, want: 1},
		{name: "tailing", peak: 10, boundary: model.Boundary{LeftPosition: 9, RightPosition: 13}, want: 3},
		{name: "fronting", peak: 10, boundary: model.Boundary{LeftPosition: 6, RightPosition: 11}, want: 0.25},
		{name: "zero left width", peak: 10, boundary: model.Boundary{LeftPosition: 10, RightPosition: 12}, wantErr: common.ErrorDegenerateWidth},
		{name: "zero right width", peak: 10, boundary: model.Boundary{LeftPosition: 8, RightPosition: 10}, wantErr: common.ErrorDegenerateWidth},
		{name: "inverted", peak: 10, boundary: model.Boundary{LeftPosition: 11, RightPosition: 12}, wantErr: common.ErrorDegenerateWidth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Factor(tt.peak, tt.boundary)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "err = %v", err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}
