package processor

import (
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCompleteCleanTable(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"a", "b"}, series.String, "X"),
		series.New([]int{1, 2}, series.Int, "Y"),
	)

	assert.Empty(t, ValidateComplete(df))
}

func TestValidateCompleteReportsMissingColumns(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"a", "NaN", "c", "NaN"}, series.String, "X"),
		series.New([]string{"1", "2", "3", "4"}, series.String, "Y"),
	)

	reports := ValidateComplete(df)
	require.Len(t, reports, 1)

	assert.Equal(t, "X", reports[0].Column)
	assert.Equal(t, 2, reports[0].Missing)
	assert.Equal(t, []int{1, 3}, reports[0].Rows)
	assert.Contains(t, reports[0].String(), "X")
}

func TestValidateCompleteCapsReportedRows(t *testing.T) {
	values := make([]string, 30)
	for i := range values {
		values[i] = "NaN"
	}
	df := dataframe.New(series.New(values, series.String, "X"))

	reports := ValidateComplete(df)
	require.Len(t, reports, 1)
	assert.Equal(t, 30, reports[0].Missing)
	assert.Len(t, reports[0].Rows, maxReportedRows)
}
