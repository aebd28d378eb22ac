package trends

import (
	"fmt"
	"math"

	"waterquality-backend/internal/guidelines"
)

// Warning kinds.
const (
	BelowMinimum = "below_minimum"
	AboveMaximum = "above_maximum"
	NearMinimum  = "near_minimum"
	NearMaximum  = "near_maximum"
)

// nearFraction is the share of the bounds' width treated as close to a bound.
const nearFraction = 0.1

// Warning flags a current value outside or close to its warning bounds.
type Warning struct {
	Kind    string            `json:"kind"`
	Message string            `json:"message"`
	Bounds  guidelines.Bounds `json:"bounds"`
}

// checkBounds compares the current value with the bounds. The minimum is
// checked before the maximum at each stage.
func checkBounds(current float64, b guidelines.Bounds) *Warning {
	near := nearFraction * b.Width()
	switch {
	case current < b.Min:
		return &Warning{
			Kind:    BelowMinimum,
			Message: fmt.Sprintf("Current value %v is below the acceptable minimum (%v).", current, b.Min),
			Bounds:  b,
		}
	case current > b.Max:
		return &Warning{
			Kind:    AboveMaximum,
			Message: fmt.Sprintf("Current value %v is above the acceptable maximum (%v).", current, b.Max),
			Bounds:  b,
		}
	case math.Abs(current-b.Min) < near:
		return &Warning{
			Kind:    NearMinimum,
			Message: fmt.Sprintf("Current value %v is close to the minimum threshold (%v).", current, b.Min),
			Bounds:  b,
		}
	case math.Abs(current-b.Max) < near:
		return &Warning{
			Kind:    NearMaximum,
			Message: fmt.Sprintf("Current value %v is close to the maximum threshold (%v).", current, b.Max),
			Bounds:  b,
		}
	}
	return nil
}
