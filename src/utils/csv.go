package utils

import (
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Cell contents treated as missing on load. The city export uses "(null)"
// for absent values alongside plain empty cells.
var nanValues = []string{"", "NA", "N/A", "NaN", "(null)", "<nil>"}

// ReadCSV loads a CSV stream into a DataFrame with the pipeline's canonical
// load options: header row, every column kept as text, missing cells marked
// as NA. Type coercion happens later, during cleaning, where the schema is
// known.
func ReadCSV(r io.Reader) dataframe.DataFrame {
	return dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nanValues),
	)
}
