package processor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"ShootingInsights/src/config"
)

// HourlyFit is a degree-2 polynomial least-squares fit of hourly relative
// frequency on hour-of-day. R2 and PValue feed the narrative only; nothing
// downstream consumes them.
type HourlyFit struct {
	Intercept float64
	Linear    float64
	Quadratic float64
	Fitted    []float64 // one value per hour bucket
	R2        float64
	PValue    float64 // overall F-test
}

// Eval evaluates the fitted polynomial at an hour.
func (f HourlyFit) Eval(hour float64) float64 {
	return f.Intercept + f.Linear*hour + f.Quadratic*hour*hour
}

// FitHourlyCurve regresses the relative frequency of the hour buckets on
// hour and hour squared, solving the least-squares system by QR.
func FitHourlyCurve(buckets []Bucket) (HourlyFit, error) {
	n := len(buckets)
	if n < 4 {
		return HourlyFit{}, fmt.Errorf("need at least 4 hour buckets, got %d", n)
	}

	x := mat.NewDense(n, 3, nil)
	y := mat.NewVecDense(n, nil)
	for i, b := range buckets {
		h := float64(i)
		x.Set(i, 0, 1)
		x.Set(i, 1, h)
		x.Set(i, 2, h*h)
		y.SetVec(i, b.Share)
	}

	var qr mat.QR
	qr.Factorize(x)

	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, y); err != nil {
		return HourlyFit{}, fmt.Errorf("least-squares solve failed: %w", err)
	}

	fit := HourlyFit{
		Intercept: beta.At(0, 0),
		Linear:    beta.At(1, 0),
		Quadratic: beta.At(2, 0),
		Fitted:    make([]float64, n),
	}

	mean := 0.0
	for _, b := range buckets {
		mean += b.Share
	}
	mean /= float64(n)

	var sse, sst float64
	for i, b := range buckets {
		fit.Fitted[i] = fit.Eval(float64(i))
		resid := b.Share - fit.Fitted[i]
		sse += resid * resid
		dev := b.Share - mean
		sst += dev * dev
	}

	fit.R2 = 1 - sse/sst

	// Overall F-test with 2 model degrees of freedom.
	fstat := (fit.R2 / 2) / ((1 - fit.R2) / float64(n-3))
	fdist := distuv.F{D1: 2, D2: float64(n - 3)}
	fit.PValue = fdist.Survival(fstat)

	return fit, nil
}

// ProportionTest is the outcome of a one-proportion z-test.
type ProportionTest struct {
	Successes int
	Trials    int
	Observed  float64
	Null      float64
	Z         float64
	PValue    float64 // two-sided
}

// Significant reports whether the null is rejected at the given level.
func (t ProportionTest) Significant(alpha float64) bool {
	return t.PValue < alpha
}

// SummerProportionTest compares the observed share of incidents falling in
// the configured summer months against the configured null proportion, with
// no continuity correction. months carries the 1-based month of every row.
func SummerProportionTest(months []int, dcfg *config.DataConfig) (ProportionTest, error) {
	trials := len(months)
	if trials == 0 {
		return ProportionTest{}, fmt.Errorf("proportion test needs at least one trial")
	}

	successes := 0
	for _, m := range months {
		if dcfg.IsSummerMonth(m) {
			successes++
		}
	}

	p0 := dcfg.NullProportion
	observed := float64(successes) / float64(trials)
	se := math.Sqrt(p0 * (1 - p0) / float64(trials))
	z := (observed - p0) / se

	return ProportionTest{
		Successes: successes,
		Trials:    trials,
		Observed:  observed,
		Null:      p0,
		Z:         z,
		PValue:    2 * distuv.UnitNormal.Survival(math.Abs(z)),
	}, nil
}
