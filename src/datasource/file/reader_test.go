package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

const sampleCSV = `INCIDENT_KEY,OCCUR_DATE,OCCUR_TIME,BORO
1,01/02/2020,03:04:05,BROOKLYN
2,06/15/2021,22:30:00,QUEENS
`

func TestReadCSVToDataFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0644))

	df, err := ReadCSVToDataFrame(path)
	require.NoError(t, err)

	assert.Equal(t, 2, df.Nrow())
	assert.Equal(t, []string{"INCIDENT_KEY", "OCCUR_DATE", "OCCUR_TIME", "BORO"}, df.Names())
	assert.Equal(t, "QUEENS", df.Col("BORO").Elem(1).String())
}

func TestReadCSVToDataFrameMissingFile(t *testing.T) {
	_, err := ReadCSVToDataFrame(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}

func TestReadXLSXToDataFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.xlsx")

	wb := xlsx.NewFile()
	sheet, err := wb.AddSheet("incidents")
	require.NoError(t, err)

	rows := [][]string{
		{"INCIDENT_KEY", "OCCUR_DATE", "OCCUR_TIME", "BORO", "LOCATION_DESC"},
		{"1", "01/02/2020", "03:04:05", "BROOKLYN", "STREET"},
		{"2", "06/15/2021", "22:30:00", "QUEENS", ""},
	}
	for _, r := range rows {
		row := sheet.AddRow()
		for _, v := range r {
			row.AddCell().Value = v
		}
	}
	require.NoError(t, wb.Save(path))

	df, err := ReadXLSXToDataFrame(path, "incidents")
	require.NoError(t, err)

	assert.Equal(t, 2, df.Nrow())
	assert.Equal(t, "BROOKLYN", df.Col("BORO").Elem(0).String())
	assert.True(t, df.Col("LOCATION_DESC").Elem(1).IsNA(), "empty cells load as missing")
}

func TestReadXLSXToDataFrameMissingSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.xlsx")

	wb := xlsx.NewFile()
	_, err := wb.AddSheet("other")
	require.NoError(t, err)
	require.NoError(t, wb.Save(path))

	_, err = ReadXLSXToDataFrame(path, "incidents")
	require.Error(t, err)
}
