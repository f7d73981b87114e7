package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quadBuckets(a, b, c float64) []Bucket {
	buckets := make([]Bucket, 24)
	for h := range buckets {
		x := float64(h)
		buckets[h] = Bucket{Label: HourLabel(h), Share: a + b*x + c*x*x}
	}
	return buckets
}

func TestFitHourlyCurveRecoversExactQuadratic(t *testing.T) {
	buckets := quadBuckets(0.01, 0.002, -0.0001)

	fit, err := FitHourlyCurve(buckets)
	require.NoError(t, err)

	assert.InDelta(t, 0.01, fit.Intercept, 1e-8)
	assert.InDelta(t, 0.002, fit.Linear, 1e-8)
	assert.InDelta(t, -0.0001, fit.Quadratic, 1e-8)
	assert.InDelta(t, 1.0, fit.R2, 1e-8)
	assert.Less(t, fit.PValue, 1e-6)

	require.Len(t, fit.Fitted, 24)
	for h, b := range buckets {
		assert.InDelta(t, b.Share, fit.Fitted[h], 1e-8)
	}
}

func TestFitHourlyCurveNeedsEnoughBuckets(t *testing.T) {
	_, err := FitHourlyCurve([]Bucket{{Share: 0.5}, {Share: 0.5}})
	require.Error(t, err)
}

// monthsFixture builds months for n rows with summer of them in June-August.
func monthsFixture(n, summer int) []int {
	months := make([]int, 0, n)
	for i := 0; i < summer; i++ {
		months = append(months, 6+i%3)
	}
	for i := 0; i < n-summer; i++ {
		months = append(months, 1+i%5)
	}
	return months
}

func TestSummerProportionTestAtNull(t *testing.T) {
	// 25 of 100 rows in June-August matches the null exactly.
	test, err := SummerProportionTest(monthsFixture(100, 25), testDataConfig())
	require.NoError(t, err)

	assert.Equal(t, 25, test.Successes)
	assert.Equal(t, 100, test.Trials)
	assert.InDelta(t, 0.25, test.Observed, 1e-12)
	assert.InDelta(t, 0.0, test.Z, 1e-12)
	assert.InDelta(t, 1.0, test.PValue, 1e-9)
	assert.False(t, test.Significant(0.05))
}

func TestSummerProportionTestRejectsExcess(t *testing.T) {
	// 40 of 100 rows in summer: z is about 3.46, p well under 0.05.
	test, err := SummerProportionTest(monthsFixture(100, 40), testDataConfig())
	require.NoError(t, err)

	assert.InDelta(t, 3.4641, test.Z, 1e-3)
	assert.Less(t, test.PValue, 0.05)
	assert.True(t, test.Significant(0.05))
}

func TestSummerProportionTestSuccessesNeverExceedTrials(t *testing.T) {
	test, err := SummerProportionTest(monthsFixture(50, 50), testDataConfig())
	require.NoError(t, err)

	assert.Equal(t, 50, test.Successes)
	assert.LessOrEqual(t, test.Successes, test.Trials)
}

func TestSummerProportionTestZeroTrials(t *testing.T) {
	_, err := SummerProportionTest(nil, testDataConfig())
	require.Error(t, err)
}
