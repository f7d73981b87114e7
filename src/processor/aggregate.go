package processor

import (
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"

	"ShootingInsights/src/utils"
)

// Bucket is one group of an aggregation: its display label, event count and
// share of the total.
type Bucket struct {
	Label string
	Count int
	Share float64
}

// CountByBorough groups the cleaned table by borough and returns one bucket
// per borough, sorted by descending count. The source table is not mutated.
func CountByBorough(df dataframe.DataFrame) ([]Bucket, error) {
	if !utils.HasColumn(df, ColBorough) {
		return nil, fmt.Errorf("table is missing %s", ColBorough)
	}

	groups := df.GroupBy(ColBorough)
	if groups.Err != nil {
		return nil, fmt.Errorf("failed to group by %s: %w", ColBorough, groups.Err)
	}

	agg := groups.Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_COUNT},
		[]string{ColBorough},
	)
	if agg.Err != nil {
		return nil, fmt.Errorf("failed to count by %s: %w", ColBorough, agg.Err)
	}

	countCol := ColBorough + "_COUNT"
	agg = agg.Rename("Count", countCol).Arrange(dataframe.RevSort("Count"))
	if agg.Err != nil {
		return nil, agg.Err
	}

	total := df.Nrow()
	buckets := make([]Bucket, 0, agg.Nrow())
	for i := 0; i < agg.Nrow(); i++ {
		count, err := agg.Col("Count").Elem(i).Int()
		if err != nil {
			return nil, fmt.Errorf("unexpected count value at row %d: %w", i, err)
		}
		buckets = append(buckets, Bucket{
			Label: agg.Col(ColBorough).Elem(i).String(),
			Count: count,
			Share: float64(count) / float64(total),
		})
	}

	return buckets, nil
}

// Clock extracts the hour-of-day and month of every row from the canonical
// timestamp column.
func Clock(df dataframe.DataFrame) (hours, months []int, err error) {
	if !utils.HasColumn(df, ColDatetime) {
		return nil, nil, fmt.Errorf("table is missing %s", ColDatetime)
	}

	col := df.Col(ColDatetime)
	hours = make([]int, 0, df.Nrow())
	months = make([]int, 0, df.Nrow())

	for i := 0; i < df.Nrow(); i++ {
		t, err := utils.ParseTime(col.Elem(i))
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i, err)
		}
		hours = append(hours, t.Hour())
		months = append(months, int(t.Month()))
	}

	return hours, months, nil
}

// CountByHour buckets rows into the 24 hours of the day. All 24 buckets are
// always present, zero counts included.
func CountByHour(hours []int) []Bucket {
	counts := make([]int, 24)
	for _, h := range hours {
		counts[h]++
	}

	total := len(hours)
	buckets := make([]Bucket, 24)
	for h, n := range counts {
		buckets[h] = Bucket{
			Label: HourLabel(h),
			Count: n,
			Share: share(n, total),
		}
	}
	return buckets
}

// CountByMonth buckets rows into the 12 months. All 12 buckets are always
// present, zero counts included.
func CountByMonth(months []int) []Bucket {
	counts := make([]int, 13)
	for _, m := range months {
		counts[m]++
	}

	total := len(months)
	buckets := make([]Bucket, 12)
	for m := 1; m <= 12; m++ {
		buckets[m-1] = Bucket{
			Label: time.Month(m).String()[:3],
			Count: counts[m],
			Share: share(counts[m], total),
		}
	}
	return buckets
}

func share(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}

// HourLabel renders an hour of day as a 12-hour clock label, "12 AM" through
// "11 PM".
func HourLabel(hour int) string {
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d %s", h, suffix)
}
