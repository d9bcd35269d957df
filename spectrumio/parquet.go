package spectrumio

import (
	"fmt"
	"io"

	parquet "github.com/parquet-go/parquet-go"
	"github.com/uyouii/peak-asymmetry/common"
	"github.com/uyouii/peak-asymmetry/model"
)

type sampleRow struct {
	WaveNm    float64 `parquet:"wave_nm"`
	Intensity float64 `parquet:"int"`
}

// ReadParquet reads a file with float columns wave_nm and int.
func ReadParquet(ra io.ReaderAt, size int64) (*model.Spectrum, error) {
	file, err := parquet.OpenFile(ra, size)
	if err != nil {
		return nil, fmt.Errorf("%w: parquet: %v", common.ErrorInvalidInput, err)
	}
	gr := parquet.NewGenericReader[sampleRow](file)
	defer gr.Close()

	positions, intensities := []float64{}, []float64{}
	batch := make([]sampleRow, 1024)
	for {
		n, err := gr.Read(batch)
		for _, row := range batch[:n] {
			positions = append(positions, row.WaveNm)
			intensities = append(intensities, row.Intensity)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: parquet: %v", common.ErrorInvalidInput, err)
		}
	}
	return model.NewSpectrum("", positions, intensities)
}

func WriteParquet(w io.Writer, spectrum *model.Spectrum) error {
	rows := make([]sampleRow, spectrum.Len())
	for i, sample := range spectrum.Samples {
		rows[i] = sampleRow{WaveNm: sample.Position, Intensity: sample.Intensity}
	}

	pw := parquet.NewGenericWriter[sampleRow](w)
	if _, err := pw.Write(rows); err != nil {
		return err
	}
	return pw.Close()
}
