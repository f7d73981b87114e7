package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ShootingInsights/src/processor"
)

func testSummary() Summary {
	hours := make([]processor.Bucket, 24)
	for h := range hours {
		count := 10 + h
		hours[h] = processor.Bucket{
			Label: processor.HourLabel(h),
			Count: count,
			Share: float64(count) / 516.0,
		}
	}

	months := make([]processor.Bucket, 12)
	for m := range months {
		months[m] = processor.Bucket{
			Label: time.Month(m + 1).String()[:3],
			Count: 43,
			Share: 1.0 / 12.0,
		}
	}

	return Summary{
		GeneratedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Source:      "testdata",
		Total:       516,
		Boroughs: []processor.Bucket{
			{Label: "BROOKLYN", Count: 300, Share: 300.0 / 516.0},
			{Label: "BRONX", Count: 216, Share: 216.0 / 516.0},
		},
		Hours:  hours,
		Months: months,
		Fit: processor.HourlyFit{
			Intercept: 0.06,
			Linear:    -0.005,
			Quadratic: 0.0002,
			Fitted:    make([]float64, 24),
			R2:        0.82,
			PValue:    0.0001,
		},
		Summer: processor.ProportionTest{
			Successes: 129,
			Trials:    516,
			Observed:  0.25,
			Null:      0.25,
			Z:         0,
			PValue:    1,
		},
		Missing: []processor.MissingReport{
			{Column: "PRECINCT", Missing: 2, Rows: []int{3, 9}},
		},
		Categories: map[string]processor.Categorical{
			"BORO": {Levels: []string{"BRONX", "BROOKLYN"}},
		},
	}
}

func TestRenderCharts(t *testing.T) {
	dir := t.TempDir()
	s := testSummary()

	err := RenderCharts(dir, s.Boroughs, s.Hours, s.Months, s.Fit)
	require.NoError(t, err)

	for _, name := range []string{BoroughPieFile, HourBarFile, HourFitFile, MonthBarFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, "chart %s should exist", name)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestWriteHTML(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, WriteHTML(dir, testSummary()))

	data, err := os.ReadFile(filepath.Join(dir, HTMLFile))
	require.NoError(t, err)

	html := string(data)
	assert.Contains(t, html, "NYC Shooting Incident Analysis")
	assert.Contains(t, html, "BROOKLYN")
	assert.Contains(t, html, "516")
	assert.Contains(t, html, BoroughPieFile)
	assert.Contains(t, html, "PRECINCT")
}

func TestWriteWorkbook(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, WriteWorkbook(dir, testSummary()))

	info, err := os.Stat(filepath.Join(dir, WorkbookFile))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestSummaryNarrativeHelpers(t *testing.T) {
	s := testSummary()

	assert.Equal(t, "BROOKLYN", s.TopBorough().Label)
	assert.Equal(t, "11 PM", s.PeakHour().Label)
	assert.Contains(t, s.SummerVerdict(), "indistinguishable")

	s.Summer.PValue = 0.001
	s.Summer.Observed = 0.4
	assert.Contains(t, s.SummerVerdict(), "significantly")
}
