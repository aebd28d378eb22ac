package quality

import (
	"math"

	"waterquality-backend/internal/guidelines"
)

// Normalize maps a raw value to a 0-100 desirability score for the spec's
// shape. Specs come from a validated catalog, so no interval used here has zero
// width.
func Normalize(value float64, spec *guidelines.ParameterSpec) float64 {
	if spec == nil {
		return 0
	}
	r, d := spec.Range, spec.Domain
	var score float64
	switch spec.Shape {
	case guidelines.ShapeLowerIsBetter:
		switch {
		case value <= r.Min:
			score = 100
		case value >= r.Max:
			score = 0
		default:
			score = 100 * (1 - (value-r.Min)/(r.Max-r.Min))
		}
	case guidelines.ShapeHigherIsBetter:
		switch {
		case value >= r.Max:
			score = 100
		case value <= r.Min:
			score = 0
		default:
			score = 100 * (value - r.Min) / (r.Max - r.Min)
		}
	case guidelines.ShapeOptimalRange:
		switch {
		case r.Contains(value):
			score = 100
		case value < r.Min:
			score = 100 * (value - d.Min) / (r.Min - d.Min)
		default:
			score = 100 * (1 - (value-r.Max)/(d.Max-r.Max))
		}
	}
	return clamp(score, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
