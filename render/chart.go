package render

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/uyouii/peak-asymmetry/model"
	"github.com/uyouii/peak-asymmetry/utils"
)

const (
	colorTrace    = "#3b82f6"
	colorBoundary = "red"

	chartWidthPx  = 1200
	chartHeightPx = 600
)

// Chart writes an HTML page with the trace, dashed boundary markers for every
// peak and the asymmetry factor labelled at each apex.
func Chart(w io.Writer, spectrum *model.Spectrum, result *model.Result, title string) error {
	if spectrum.Len() == 0 {
		return fmt.Errorf("nothing to render for %s", spectrum.DebugString())
	}
	if title == "" {
		title = fmt.Sprintf("Spectra %s", spectrum.Name)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     fmt.Sprintf("%dpx", chartWidthPx),
			Height:    fmt.Sprintf("%dpx", chartHeightPx),
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside", XAxisIndex: []int{0}}),
		charts.WithXAxisOpts(opts.XAxis{Name: "wave_nm", Type: "value", Min: "dataMin", Max: "dataMax"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "int", Type: "value"}),
	)

	seriesOpts := []charts.SeriesOpts{
		charts.WithLineStyleOpts(opts.LineStyle{Color: colorTrace, Width: 1}),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
			Symbol:    []string{"none", "none"},
			LineStyle: &opts.LineStyle{Color: colorBoundary, Type: "dashed"},
			Label:     &opts.Label{Show: opts.Bool(false)},
		}),
	}
	seriesOpts = append(seriesOpts, annotations(result)...)

	line.AddSeries(spectrum.Name, traceData(spectrum), seriesOpts...)
	return line.Render(w)
}

func traceData(spectrum *model.Spectrum) []opts.LineData {
	data := make([]opts.LineData, spectrum.Len())
	for i, sample := range spectrum.Samples {
		data[i] = opts.LineData{Value: []interface{}{sample.Position, sample.Intensity}}
	}
	return data
}

func annotations(result *model.Result) []charts.SeriesOpts {
	res := []charts.SeriesOpts{}
	if result == nil {
		return res
	}
	for i, entry := range result.Entries {
		res = append(res,
			charts.WithMarkLineNameXAxisItemOpts(
				opts.MarkLineNameXAxisItem{Name: fmt.Sprintf("left %d", i+1), XAxis: entry.Boundary.LeftPosition},
				opts.MarkLineNameXAxisItem{Name: fmt.Sprintf("right %d", i+1), XAxis: entry.Boundary.RightPosition},
			),
			charts.WithMarkPointNameCoordItemOpts(opts.MarkPointNameCoordItem{
				Name:       Label(entry),
				Coordinate: []interface{}{entry.Position, entry.Intensity},
				Label:      &opts.Label{Show: opts.Bool(true), Position: "top", Formatter: "{b}"},
			}),
		)
	}
	return res
}

// Label is the annotation text drawn above a peak.
func Label(entry model.Entry) string {
	if math.IsNaN(entry.Factor) {
		return fmt.Sprintf("AF: n/a (%s)", entry.Flag)
	}
	label := fmt.Sprintf("AF: %.3f", utils.FormatFloat(entry.Factor, 3))
	if !entry.Reliable() {
		label += fmt.Sprintf(" (%s)", entry.Flag)
	}
	return label
}
