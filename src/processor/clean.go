// Package processor implements the data-shaping and statistical stages of
// the pipeline: cleaning, completeness validation, aggregation and the two
// statistical models.
package processor

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"ShootingInsights/src/config"
	"ShootingInsights/src/utils"
)

// Column names of the raw city export that the pipeline touches directly.
const (
	ColDate     = "OCCUR_DATE"
	ColTime     = "OCCUR_TIME"
	ColDatetime = "OCCUR_DATETIME"
	ColBorough  = "BORO"
)

// rawTimeLayout is the format of the merged OCCUR_DATE + OCCUR_TIME text.
const rawTimeLayout = "01/02/2006 15:04:05"

// Categorical is the encoded form of a text column: a finite ordered level
// set plus one code per row indexing into it. A missing value keeps code -1.
type Categorical struct {
	Levels []string
	Codes  []int
}

// CleanResult carries the cleaned table together with the categorical
// encoding of its text columns.
type CleanResult struct {
	Table      dataframe.DataFrame
	Categories map[string]Categorical
}

// Clean produces a new table from the raw export: discarded columns removed,
// date and time merged into one canonical timestamp, missing values replaced
// by the configured sentinels, and text columns factorized. Columns without
// a configured sentinel keep their missing values; ValidateComplete reports
// those.
func Clean(df dataframe.DataFrame, dcfg *config.DataConfig) (CleanResult, error) {
	df = dropColumns(df, dcfg.DropColumns)

	df, err := mergeTimestamp(df)
	if err != nil {
		return CleanResult{}, err
	}

	df = fillSentinels(df, dcfg)

	df, err = fillNumericSentinels(df, dcfg)
	if err != nil {
		return CleanResult{}, err
	}

	return CleanResult{
		Table:      df,
		Categories: factorizeText(df),
	}, nil
}

func dropColumns(df dataframe.DataFrame, drop []string) dataframe.DataFrame {
	var present []string
	for _, name := range drop {
		if utils.HasColumn(df, name) {
			present = append(present, name)
		}
	}
	if len(present) == 0 {
		return df
	}
	return df.Drop(present)
}

// mergeTimestamp combines the OCCUR_DATE and OCCUR_TIME text columns into a
// single OCCUR_DATETIME column in the canonical layout. Every row must
// parse; a malformed row aborts the clean.
func mergeTimestamp(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if !utils.HasColumn(df, ColDate) || !utils.HasColumn(df, ColTime) {
		return df, fmt.Errorf("table is missing %s or %s", ColDate, ColTime)
	}

	dates := df.Col(ColDate).Records()
	times := df.Col(ColTime).Records()

	merged := make([]string, len(dates))
	for i := range dates {
		combined := dates[i] + " " + times[i]
		t, err := time.Parse(rawTimeLayout, combined)
		if err != nil {
			return df, fmt.Errorf("row %d: cannot parse %q as %s: %w", i, combined, rawTimeLayout, err)
		}
		merged[i] = t.Format(utils.TimeLayout)
	}

	df = df.Mutate(series.New(merged, series.String, ColDatetime))
	return df.Drop([]string{ColDate, ColTime}), nil
}

func fillSentinels(df dataframe.DataFrame, dcfg *config.DataConfig) dataframe.DataFrame {
	for _, name := range df.Names() {
		sentinel, ok := dcfg.Sentinel(name)
		if !ok {
			continue
		}

		col := df.Col(name)
		mask := col.IsNaN()
		records := col.Records()

		dirty := false
		for i, missing := range mask {
			if missing {
				records[i] = sentinel
				dirty = true
			}
		}
		if !dirty {
			continue
		}

		df = df.Mutate(series.New(records, series.String, name))
	}
	return df
}

// fillNumericSentinels substitutes the numeric sentinel and coerces the
// column to integers in one pass.
func fillNumericSentinels(df dataframe.DataFrame, dcfg *config.DataConfig) (dataframe.DataFrame, error) {
	for _, name := range df.Names() {
		sentinel, ok := dcfg.NumericSentinel(name)
		if !ok {
			continue
		}

		col := df.Col(name)
		mask := col.IsNaN()
		records := col.Records()

		values := make([]int, len(records))
		for i, r := range records {
			if mask[i] {
				values[i] = sentinel
				continue
			}
			// The export occasionally renders integers as "2.0".
			f, err := strconv.ParseFloat(r, 64)
			if err != nil {
				return df, fmt.Errorf("column %s row %d: %q is not numeric", name, i, r)
			}
			values[i] = int(f)
		}

		df = df.Mutate(series.New(values, series.Int, name))
	}
	return df, nil
}

// factorizeText encodes every remaining text column as a Categorical.
func factorizeText(df dataframe.DataFrame) map[string]Categorical {
	categories := make(map[string]Categorical)

	names := df.Names()
	for i, typ := range df.Types() {
		if typ != series.String {
			continue
		}
		name := names[i]
		if name == ColDatetime {
			continue
		}
		categories[name] = Factorize(df.Col(name))
	}
	return categories
}

// Factorize maps a text series onto integer codes over its sorted distinct
// labels. Missing elements get code -1.
func Factorize(s series.Series) Categorical {
	seen := make(map[string]bool)
	mask := s.IsNaN()
	records := s.Records()

	for i, r := range records {
		if !mask[i] {
			seen[r] = true
		}
	}

	levels := make([]string, 0, len(seen))
	for label := range seen {
		levels = append(levels, label)
	}
	sort.Strings(levels)

	index := make(map[string]int, len(levels))
	for code, label := range levels {
		index[label] = code
	}

	codes := make([]int, len(records))
	for i, r := range records {
		if mask[i] {
			codes[i] = -1
			continue
		}
		codes[i] = index[r]
	}

	return Categorical{Levels: levels, Codes: codes}
}
