// Package report renders the analysis results: static charts, a single HTML
// document and an xlsx workbook of the aggregate tables.
package report

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"ShootingInsights/src/processor"
)

// Chart file names inside the output directory.
const (
	BoroughPieFile = "incidents_by_borough.png"
	HourBarFile    = "incidents_by_hour.png"
	HourFitFile    = "hourly_trend_fit.png"
	MonthBarFile   = "incidents_by_month.png"
)

var (
	barFill  = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	fitLine  = color.RGBA{R: 178, G: 34, B: 34, A: 255}
	obsPoint = color.RGBA{R: 25, G: 25, B: 112, A: 255}
)

// RenderCharts writes the four report charts into outputDir.
func RenderCharts(outputDir string, boroughs, hours, months []processor.Bucket, fit processor.HourlyFit) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	if err := renderBoroughPie(boroughs, filepath.Join(outputDir, BoroughPieFile)); err != nil {
		return err
	}
	if err := renderBucketBars(hours, "Incidents by Hour of Day", "Hour",
		filepath.Join(outputDir, HourBarFile)); err != nil {
		return err
	}
	if err := renderHourFit(hours, fit, filepath.Join(outputDir, HourFitFile)); err != nil {
		return err
	}
	return renderBucketBars(months, "Incidents by Month", "Month",
		filepath.Join(outputDir, MonthBarFile))
}

func renderBoroughPie(buckets []processor.Bucket, path string) error {
	values := make([]chart.Value, 0, len(buckets))
	for _, b := range buckets {
		values = append(values, chart.Value{
			Value: float64(b.Count),
			Label: fmt.Sprintf("%s %.1f%%", b.Label, b.Share*100),
		})
	}

	pie := chart.PieChart{
		Title:  "Incidents by Borough",
		Width:  800,
		Height: 800,
		Values: values,
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := pie.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("failed to render pie chart: %w", err)
	}
	return nil
}

func renderBucketBars(buckets []processor.Bucket, title, xLabel, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "Incidents"

	values := make(plotter.Values, len(buckets))
	labels := make([]string, len(buckets))
	for i, b := range buckets {
		values[i] = float64(b.Count)
		labels[i] = b.Label
	}

	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return fmt.Errorf("failed to build bar chart: %w", err)
	}
	bars.Color = barFill
	bars.LineStyle.Width = vg.Length(0)

	p.Add(bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 3
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Tick.Label.XAlign = draw.XRight

	if err := p.Save(12*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// renderHourFit overlays the fitted quadratic on the observed hourly
// relative frequencies.
func renderHourFit(hours []processor.Bucket, fit processor.HourlyFit, path string) error {
	p := plot.New()
	p.Title.Text = "Hourly Relative Frequency, Observed vs Fitted"
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Hour of day"
	p.Y.Label.Text = "Relative frequency"

	observed := make(plotter.XYs, len(hours))
	for i, b := range hours {
		observed[i].X = float64(i)
		observed[i].Y = b.Share
	}

	scatter, err := plotter.NewScatter(observed)
	if err != nil {
		return fmt.Errorf("failed to build scatter: %w", err)
	}
	scatter.GlyphStyle.Color = obsPoint
	scatter.GlyphStyle.Radius = vg.Points(3)
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}

	// Sample the polynomial finer than the 24 buckets for a smooth curve.
	const steps = 97
	fitted := make(plotter.XYs, steps)
	for i := 0; i < steps; i++ {
		h := float64(i) * 23.0 / float64(steps-1)
		fitted[i].X = h
		fitted[i].Y = fit.Eval(h)
	}

	line, err := plotter.NewLine(fitted)
	if err != nil {
		return fmt.Errorf("failed to build fit line: %w", err)
	}
	line.Color = fitLine
	line.Width = vg.Points(2)

	p.Add(scatter, line, plotter.NewGrid())
	p.Legend.Add("observed", scatter)
	p.Legend.Add("fitted", line)
	p.Legend.Top = true

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
