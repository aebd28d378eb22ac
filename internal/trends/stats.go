package trends

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats are the descriptive statistics of one series.
type Stats struct {
	Count   int     `json:"count"`
	Slope   float64 `json:"slope"`
	Current float64 `json:"current"`
	Average float64 `json:"average"`
	StdDev  float64 `json:"stdDev"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// slopeThreshold is the magnitude a slope must exceed to count as a trend.
const slopeThreshold = 0.01

// Summarize returns the descriptive statistics of values in series order. An
// empty series yields zero Stats.
func Summarize(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}
	return describe(values)
}

func describe(values []float64) Stats {
	n := len(values)
	mean, std := stat.PopMeanStdDev(values, nil)
	return Stats{
		Count:   n,
		Slope:   slope(values),
		Current: values[n-1],
		Average: mean,
		StdDev:  std,
		Min:     floats.Min(values),
		Max:     floats.Max(values),
	}
}

// slope is the least-squares slope of values against their index.
func slope(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	xs := make([]float64, len(values))
	for i := range xs {
		xs[i] = float64(i)
	}
	_, beta := stat.LinearRegression(xs, values, nil, false)
	return beta
}

// anomalies returns the values farther than two standard deviations from the
// mean, in series order.
func anomalies(values []float64, s Stats) []float64 {
	out := []float64{}
	limit := 2 * s.StdDev
	for _, v := range values {
		if math.Abs(v-s.Average) > limit {
			out = append(out, v)
		}
	}
	return out
}
