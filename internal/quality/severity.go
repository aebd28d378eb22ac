package quality

import "waterquality-backend/internal/guidelines"

// ClassifySeverity returns the severity tier of a value violating the
// acceptable range in direction dir.
//
// The direction's thresholds are scanned mild, moderate, severe, critical and
// the first tier whose test holds wins (low: value <= threshold, high: value >=
// threshold). Because the scan starts at the least extreme tier, a value past
// the critical threshold still reports the first tier it satisfies. A nil spec
// is unknown; no matching tier is normal.
func ClassifySeverity(spec *guidelines.ParameterSpec, value float64, dir guidelines.Direction) guidelines.Severity {
	if spec == nil {
		return guidelines.SeverityUnknown
	}
	for _, th := range spec.ThresholdsFor(dir) {
		switch dir {
		case guidelines.DirectionLow:
			if value <= th.Value {
				return th.Tier
			}
		case guidelines.DirectionHigh:
			if value >= th.Value {
				return th.Tier
			}
		}
	}
	return guidelines.SeverityNormal
}

// Violation reports which side of the acceptable range a value falls on. ok is
// false when the value is within range.
func Violation(spec *guidelines.ParameterSpec, value float64) (dir guidelines.Direction, ok bool) {
	switch {
	case value < spec.Range.Min:
		return guidelines.DirectionLow, true
	case value > spec.Range.Max:
		return guidelines.DirectionHigh, true
	default:
		return "", false
	}
}
