package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/uyouii/peak-asymmetry/asymmetry"
	"github.com/uyouii/peak-asymmetry/model"
	"github.com/uyouii/peak-asymmetry/utils"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"
)

// Report is the serialisable form of a Result handed to renderers and API clients.
type Report struct {
	RunID     string            `json:"run_id" yaml:"run_id"`
	Spectrum  string            `json:"spectrum" yaml:"spectrum"`
	CreatedAt time.Time         `json:"created_at" yaml:"created_at"`
	Options   asymmetry.Options `json:"options" yaml:"options"`
	Peaks     []Row             `json:"peaks" yaml:"peaks"`
	Summary   Summary           `json:"summary" yaml:"summary"`
}

type Row struct {
	Index         int      `json:"index" yaml:"index"`
	Position      float64  `json:"position" yaml:"position"`
	Intensity     float64  `json:"intensity" yaml:"intensity"`
	Prominence    float64  `json:"prominence" yaml:"prominence"`
	LeftPosition  float64  `json:"left_position" yaml:"left_position"`
	RightPosition float64  `json:"right_position" yaml:"right_position"`
	Width         float64  `json:"width" yaml:"width"`
	Factor        *float64 `json:"factor" yaml:"factor"` // nil for a degenerate peak
	Flag          string   `json:"flag" yaml:"flag"`
	Message       string   `json:"message,omitempty" yaml:"message,omitempty"`
}

type Summary struct {
	Peaks      int     `json:"peaks" yaml:"peaks"`
	Reliable   int     `json:"reliable" yaml:"reliable"`
	MeanFactor float64 `json:"mean_factor,omitempty" yaml:"mean_factor,omitempty"`
	StdFactor  float64 `json:"std_factor,omitempty" yaml:"std_factor,omitempty"`
}

func New(name string, opts asymmetry.Options, result *model.Result) *Report {
	r := &Report{
		RunID:     uuid.NewString(),
		Spectrum:  name,
		CreatedAt: time.Now().UTC(),
		Options:   opts,
		Peaks:     make([]Row, 0, result.Len()),
	}
	if result == nil {
		return r
	}

	factors := []float64{}
	for _, entry := range result.Entries {
		row := Row{
			Index:         entry.Peak.Index,
			Position:      entry.Position,
			Intensity:     entry.Intensity,
			Prominence:    entry.Peak.Prominence,
			LeftPosition:  entry.Boundary.LeftPosition,
			RightPosition: entry.Boundary.RightPosition,
			Width:         entry.Boundary.Width(),
			Flag:          entry.Flag.String(),
		}
		if !math.IsNaN(entry.Factor) {
			factor := utils.FormatFloat(entry.Factor, 3)
			row.Factor = &factor
		}
		if entry.Err != nil {
			row.Message = entry.Err.Error()
		}
		if entry.Reliable() {
			factors = append(factors, entry.Factor)
		}
		r.Peaks = append(r.Peaks, row)
	}

	r.Summary = Summary{Peaks: len(r.Peaks), Reliable: len(factors)}
	if len(factors) > 0 {
		r.Summary.MeanFactor = utils.FormatFloat(stat.Mean(factors, nil), 3)
	}
	if len(factors) > 1 {
		r.Summary.StdFactor = utils.FormatFloat(stat.StdDev(factors, nil), 3)
	}
	return r
}

func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

// WriteTable prints one aligned line per peak.
func (r *Report) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "spectrum %s (min prominence %v, relative height %v)\n",
		r.Spectrum, r.Options.MinProminence, r.Options.RelativeHeight)
	fmt.Fprintln(tw, "peak\tposition\tintensity\tleft\tright\tfactor\tflag")
	for i, row := range r.Peaks {
		factor := "-"
		if row.Factor != nil {
			factor = fmt.Sprintf("%.3f", *row.Factor)
		}
		fmt.Fprintf(tw, "%d\t%.3f\t%.4g\t%.3f\t%.3f\t%s\t%s\n",
			i+1, row.Position, row.Intensity, row.LeftPosition, row.RightPosition, factor, row.Flag)
	}
	fmt.Fprintf(tw, "%d peaks, %d reliable\n", r.Summary.Peaks, r.Summary.Reliable)
	return tw.Flush()
}

// Write encodes the report in format "json", "yaml" or "table".
func (r *Report) Write(w io.Writer, format string) error {
	switch format {
	case "json", "":
		return r.WriteJSON(w)
	case "yaml", "yml":
		return r.WriteYAML(w)
	case "table", "text":
		return r.WriteTable(w)
	}
	return fmt.Errorf("unknown report format %q", format)
}
