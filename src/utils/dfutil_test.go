package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContains(t *testing.T) {
	assert.True(t, Contains([]string{"a", "b"}, "b"))
	assert.False(t, Contains([]string{"a", "b"}, "c"))
	assert.True(t, Contains([]int{1, 2, 3}, 2))
}

func TestHasColumn(t *testing.T) {
	df := dataframe.New(series.New([]string{"x"}, series.String, "BORO"))

	assert.True(t, HasColumn(df, "BORO"))
	assert.False(t, HasColumn(df, "PRECINCT"))
}

func TestParseTime(t *testing.T) {
	s := series.New([]string{"2020-01-02 03:04:05", "NaN"}, series.String, "ts")

	got, err := ParseTime(s.Elem(0))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC), got)

	zero, err := ParseTime(s.Elem(1))
	require.NoError(t, err)
	assert.True(t, zero.IsZero())
}

func TestParseTimeRejectsOtherLayouts(t *testing.T) {
	s := series.New([]string{"01/02/2020 03:04:05"}, series.String, "ts")

	_, err := ParseTime(s.Elem(0))
	require.Error(t, err)
}

func TestReadCSVMarksMissing(t *testing.T) {
	csv := "A,B\n1,x\n(null),\n"

	df := ReadCSV(strings.NewReader(csv))
	require.NoError(t, df.Err)

	assert.Equal(t, 2, df.Nrow())
	assert.True(t, df.Col("A").Elem(1).IsNA())
	assert.True(t, df.Col("B").Elem(1).IsNA())
	assert.Equal(t, series.String, df.Col("A").Type(), "no type detection on load")
}

func TestSaveToExcel(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"BROOKLYN", "BRONX"}, series.String, "Borough"),
		series.New([]int{300, 216}, series.Int, "Incidents"),
	)

	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, SaveToExcel(df, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
