package spectrumio

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/uyouii/peak-asymmetry/model"
)

// WriteText writes the space separated "wave_nm int" layout read by ReadText.
func WriteText(w io.Writer, spectrum *model.Spectrum) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(DefaultPositionColumn + " " + DefaultIntensityColumn + "\n")
	for _, sample := range spectrum.Samples {
		bw.WriteString(strconv.FormatFloat(sample.Position, 'g', -1, 64))
		bw.WriteByte(' ')
		bw.WriteString(strconv.FormatFloat(sample.Intensity, 'g', -1, 64))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteFile writes parquet for a .parquet path and text otherwise.
func WriteFile(path string, spectrum *model.Spectrum) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if strings.ToLower(filepath.Ext(path)) == ".parquet" {
		err = WriteParquet(f, spectrum)
	} else {
		err = WriteText(f, spectrum)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
