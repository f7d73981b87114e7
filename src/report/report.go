package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"ShootingInsights/src/processor"
)

const (
	HTMLFile     = "shooting_report.html"
	WorkbookFile = "shooting_aggregates.xlsx"
)

// Summary gathers everything the rendered document needs.
type Summary struct {
	GeneratedAt time.Time
	Source      string // URL or file path the table was loaded from
	Total       int

	Boroughs []processor.Bucket
	Hours    []processor.Bucket
	Months   []processor.Bucket

	Fit    processor.HourlyFit
	Summer processor.ProportionTest

	Missing    []processor.MissingReport
	Categories map[string]processor.Categorical
}

// TopBorough returns the borough with the most incidents.
func (s Summary) TopBorough() processor.Bucket {
	if len(s.Boroughs) == 0 {
		return processor.Bucket{}
	}
	return s.Boroughs[0]
}

// PeakHour returns the busiest hour bucket.
func (s Summary) PeakHour() processor.Bucket {
	return peak(s.Hours)
}

// PeakMonth returns the busiest month bucket.
func (s Summary) PeakMonth() processor.Bucket {
	return peak(s.Months)
}

func peak(buckets []processor.Bucket) processor.Bucket {
	var top processor.Bucket
	for _, b := range buckets {
		if b.Count > top.Count {
			top = b
		}
	}
	return top
}

// CurveShape describes the fitted quadratic for the narrative.
func (s Summary) CurveShape() string {
	if s.Fit.Quadratic > 0 {
		return "U-shaped, dipping through the daytime hours and rising again toward night"
	}
	return "inverted-U, peaking in the middle of the range"
}

// SummerVerdict is the plain-language outcome of the proportion test.
func (s Summary) SummerVerdict() string {
	if s.Summer.Significant(0.05) {
		return fmt.Sprintf(
			"The observed summer share of %.1f%% differs significantly from the %.0f%% expected under an even seasonal spread.",
			s.Summer.Observed*100, s.Summer.Null*100)
	}
	return fmt.Sprintf(
		"The observed summer share of %.1f%% is statistically indistinguishable from the %.0f%% expected under an even seasonal spread.",
		s.Summer.Observed*100, s.Summer.Null*100)
}

var englishPrinter = message.NewPrinter(language.English)

var reportFuncs = template.FuncMap{
	"comma": func(n int) string { return englishPrinter.Sprintf("%d", n) },
	"pct":   func(f float64) string { return fmt.Sprintf("%.1f%%", f*100) },
	"f4":    func(f float64) string { return fmt.Sprintf("%.4f", f) },
	"f6":    func(f float64) string { return fmt.Sprintf("%.6f", f) },
	"pval": func(f float64) string {
		if f < 0.001 {
			return "< 0.001"
		}
		return fmt.Sprintf("%.3f", f)
	},
}

var reportTemplate = template.Must(template.New("report").Funcs(reportFuncs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>NYC Shooting Incident Analysis</title>
<style>
body { font-family: Georgia, serif; max-width: 900px; margin: 2em auto; line-height: 1.5; }
table { border-collapse: collapse; margin: 1em 0; }
th, td { border: 1px solid #999; padding: 4px 10px; text-align: left; }
img { max-width: 100%; }
.note { color: #666; font-size: 0.9em; }
</style>
</head>
<body>
<h1>NYC Shooting Incident Analysis</h1>
<p class="note">Generated {{.GeneratedAt.Format "2006-01-02 15:04"}} from {{.Source}}.</p>

<p>The cleaned table holds {{comma .Total}} shooting incidents. {{.TopBorough.Label}}
records the most, {{comma .TopBorough.Count}} incidents ({{pct .TopBorough.Share}} of the total).
Incidents peak at {{.PeakHour.Label}} and in {{.PeakMonth.Label}}.</p>

<h2>Incidents by borough</h2>
<table>
<tr><th>Borough</th><th>Incidents</th><th>Share</th></tr>
{{range .Boroughs}}<tr><td>{{.Label}}</td><td>{{comma .Count}}</td><td>{{pct .Share}}</td></tr>
{{end}}</table>
<img src="{{.PieFile}}" alt="Incidents by borough">

<h2>Incidents by hour of day</h2>
<img src="{{.HourFile}}" alt="Incidents by hour">
<p>A degree-2 polynomial fit of hourly relative frequency on hour of day is
{{.CurveShape}}. The fitted curve is
f(h) = {{f6 .Fit.Intercept}} + {{f6 .Fit.Linear}}&middot;h + {{f6 .Fit.Quadratic}}&middot;h&sup2;
with R&sup2; = {{f4 .Fit.R2}} (overall F-test p {{pval .Fit.PValue}}).</p>
<img src="{{.FitFile}}" alt="Observed vs fitted hourly frequency">

<h2>Incidents by month</h2>
<img src="{{.MonthFile}}" alt="Incidents by month">
<p>{{comma .Summer.Successes}} of {{comma .Summer.Trials}} incidents fall in
June&ndash;August. A one-proportion z-test against a null proportion of
{{f4 .Summer.Null}} gives z = {{f4 .Summer.Z}}, p {{pval .Summer.PValue}}.
{{.SummerVerdict}}</p>

<h2>Data quality</h2>
{{if .Missing}}
<p>Columns still carrying missing values after sentinel substitution:</p>
<table>
<tr><th>Column</th><th>Missing</th><th>First rows</th></tr>
{{range .Missing}}<tr><td>{{.Column}}</td><td>{{comma .Missing}}</td><td>{{.Rows}}</td></tr>
{{end}}</table>
{{else}}
<p>No column contains missing values after cleaning.</p>
{{end}}

<h2>Categorical columns</h2>
<table>
<tr><th>Column</th><th>Distinct levels</th></tr>
{{range $name, $cat := .Categories}}<tr><td>{{$name}}</td><td>{{len $cat.Levels}}</td></tr>
{{end}}</table>

</body>
</html>
`))

// templateData extends Summary with the chart file names so the document can
// reference them relatively.
type templateData struct {
	Summary
	PieFile   string
	HourFile  string
	FitFile   string
	MonthFile string
}

// WriteHTML renders the report document into outputDir.
func WriteHTML(outputDir string, s Summary) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	path := filepath.Join(outputDir, HTMLFile)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	data := templateData{
		Summary:   s,
		PieFile:   BoroughPieFile,
		HourFile:  HourBarFile,
		FitFile:   HourFitFile,
		MonthFile: MonthBarFile,
	}

	if err := reportTemplate.Execute(f, data); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

// WriteWorkbook exports the aggregate tables and model outputs as an xlsx
// workbook, one sheet per aggregate.
func WriteWorkbook(outputDir string, s Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", "By Borough")
	writeBucketSheet(f, "By Borough", "Borough", s.Boroughs)

	f.NewSheet("By Hour")
	writeBucketSheet(f, "By Hour", "Hour", s.Hours)

	f.NewSheet("By Month")
	writeBucketSheet(f, "By Month", "Month", s.Months)

	f.NewSheet("Model")
	model := [][]interface{}{
		{"Statistic", "Value"},
		{"Fit intercept", s.Fit.Intercept},
		{"Fit hour coefficient", s.Fit.Linear},
		{"Fit hour^2 coefficient", s.Fit.Quadratic},
		{"Fit R^2", s.Fit.R2},
		{"Fit F-test p-value", s.Fit.PValue},
		{"Summer incidents", s.Summer.Successes},
		{"Total incidents", s.Summer.Trials},
		{"Summer share", s.Summer.Observed},
		{"Null proportion", s.Summer.Null},
		{"z statistic", s.Summer.Z},
		{"Proportion test p-value", s.Summer.PValue},
	}
	for i, row := range model {
		for j, value := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			f.SetCellValue("Model", cell, value)
		}
	}

	path := filepath.Join(outputDir, WorkbookFile)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeBucketSheet(f *excelize.File, sheet, label string, buckets []processor.Bucket) {
	headers := []string{label, "Incidents", "Share"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, 16)
	}

	for i, b := range buckets {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), b.Label)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), b.Count)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), b.Share)
	}
}
