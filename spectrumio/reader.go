package spectrumio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/uyouii/peak-asymmetry/common"
	"github.com/uyouii/peak-asymmetry/model"
)

const (
	DefaultPositionColumn  = "wave_nm"
	DefaultIntensityColumn = "int"
)

// Columns names the header fields holding positions and intensities.
type Columns struct {
	Position  string `mapstructure:"position" yaml:"position"`
	Intensity string `mapstructure:"intensity" yaml:"intensity"`
}

func DefaultColumns() Columns {
	return Columns{Position: DefaultPositionColumn, Intensity: DefaultIntensityColumn}
}

func (c Columns) withDefaults() Columns {
	if c.Position == "" {
		c.Position = DefaultPositionColumn
	}
	if c.Intensity == "" {
		c.Intensity = DefaultIntensityColumn
	}
	return c
}

// ReadFile reads path with the format picked by ReadBytes.
func ReadFile(path string, columns Columns) (*model.Spectrum, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	spectrum, err := ReadBytes(data, filepath.Ext(path), columns)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	spectrum.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return spectrum, nil
}

// ReadBytes picks the format from the file extension. A .csv file is comma
// separated only when its header line holds a comma, otherwise it is read as
// whitespace separated text like any other extension.
func ReadBytes(data []byte, ext string, columns Columns) (*model.Spectrum, error) {
	switch strings.ToLower(ext) {
	case ".parquet":
		return ReadParquet(bytes.NewReader(data), int64(len(data)))
	case ".csv":
		if strings.Contains(headerLine(data), ",") {
			return ReadCSV(bytes.NewReader(data), columns)
		}
	}
	return ReadText(bytes.NewReader(data), columns)
}

// headerLine returns the first line that is neither blank nor a comment.
func headerLine(data []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			return line
		}
	}
	return ""
}

// ReadText parses a header line followed by rows separated by spaces or tabs.
// Blank lines and lines starting with '#' are skipped.
func ReadText(r io.Reader, columns Columns) (*model.Spectrum, error) {
	scanner := bufio.NewScanner(r)
	var rows [][]string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rows = append(rows, strings.Fields(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return fromRows(rows, columns)
}

// ReadCSV parses comma separated values with a header row.
func ReadCSV(r io.Reader, columns Columns) (*model.Spectrum, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInvalidInput, err)
	}
	return fromRows(rows, columns)
}

func fromRows(rows [][]string, columns Columns) (*model.Spectrum, error) {
	columns = columns.withDefaults()
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty table", common.ErrorInvalidInput)
	}

	posCol, intCol := -1, -1
	for i, name := range rows[0] {
		switch strings.TrimSpace(name) {
		case columns.Position:
			posCol = i
		case columns.Intensity:
			intCol = i
		}
	}
	if posCol < 0 || intCol < 0 {
		return nil, fmt.Errorf("%w: header %v must contain columns %q and %q",
			common.ErrorInvalidInput, rows[0], columns.Position, columns.Intensity)
	}

	positions := make([]float64, 0, len(rows)-1)
	intensities := make([]float64, 0, len(rows)-1)
	for line, row := range rows[1:] {
		if len(row) <= posCol || len(row) <= intCol {
			return nil, fmt.Errorf("%w: row %d has %d fields", common.ErrorInvalidInput, line+1, len(row))
		}
		pos, err := strconv.ParseFloat(strings.TrimSpace(row[posCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d %s: %v", common.ErrorInvalidInput, line+1, columns.Position, err)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(row[intCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d %s: %v", common.ErrorInvalidInput, line+1, columns.Intensity, err)
		}
		positions = append(positions, pos)
		intensities = append(intensities, value)
	}
	return model.NewSpectrum("", positions, intensities)
}
