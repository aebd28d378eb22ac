package assessments

import (
	"time"

	"waterquality-backend/internal/guidelines"
	"waterquality-backend/internal/quality"
	"waterquality-backend/internal/trends"
)

// Assessment is a stored, scored measurement.
type Assessment struct {
	ID              string                   `json:"id"`
	Source          string                   `json:"source"`
	MeasuredAt      time.Time                `json:"measuredAt"`
	Values          map[string]float64       `json:"values"`
	Index           quality.IndexResult      `json:"index"`
	Recommendations []quality.Recommendation `json:"recommendations"`
	Diagnostics     []quality.Diagnostic     `json:"diagnostics"`
	CatalogVersion  int                      `json:"catalogVersion"`
	CreatedAt       time.Time                `json:"createdAt"`
}

// Measurement rebuilds the measurement the assessment was computed from.
func (a Assessment) Measurement() quality.Measurement {
	return quality.NewMeasurement(a.Source, a.MeasuredAt, a.Values)
}

// Input is a measurement submitted for assessment.
type Input struct {
	Source     string             `json:"source"`
	MeasuredAt time.Time          `json:"timestamp"`
	Values     map[string]float64 `json:"values"`
}

// TrendReport is the trend analysis of one source over a time window.
type TrendReport struct {
	Source     string            `json:"source"`
	From       time.Time         `json:"from"`
	To         time.Time         `json:"to"`
	Samples    int               `json:"samples"`
	Report     trends.Report     `json:"report"`
	Advisories []trends.Advisory `json:"advisories"`
}

// GuidelineSummary is the public view of one catalog parameter.
type GuidelineSummary struct {
	Name        string            `json:"name"`
	Unit        string            `json:"unit"`
	Description string            `json:"description"`
	Shape       guidelines.Shape  `json:"shape"`
	Weight      float64           `json:"weight"`
	Domain      guidelines.Bounds `json:"domain"`
	Range       guidelines.Bounds `json:"range"`
}

// Dashboard is the recent state of one source: its latest index, a summary of
// every catalog parameter over the window and alerts for current values
// outside the acceptable range.
type Dashboard struct {
	Source          string                   `json:"source"`
	From            time.Time                `json:"from"`
	To              time.Time                `json:"to"`
	Samples         int                      `json:"samples"`
	Score           float64                  `json:"score"`
	Category        string                   `json:"category"`
	Parameters      []ParameterSummary       `json:"parameters"`
	Alerts          []Alert                  `json:"alerts"`
	Recommendations []quality.Recommendation `json:"recommendations"`
	Recent          []RecentAssessment       `json:"recent"`
}

// ParameterSummary is the window statistics of one parameter.
type ParameterSummary struct {
	Parameter string  `json:"parameter"`
	Unit      string  `json:"unit"`
	Count     int     `json:"count"`
	Current   float64 `json:"current"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Average   float64 `json:"average"`
}

// Alert flags a current value outside its acceptable range.
type Alert struct {
	Parameter string               `json:"parameter"`
	Direction guidelines.Direction `json:"direction"`
	Message   string               `json:"message"`
}

// RecentAssessment is the dashboard view of one stored assessment.
type RecentAssessment struct {
	ID         string             `json:"id"`
	MeasuredAt time.Time          `json:"measuredAt"`
	Score      float64            `json:"score"`
	Category   string             `json:"category"`
	Values     map[string]float64 `json:"values"`
}

// ParameterDetail is the history and statistics of one parameter for a source.
type ParameterDetail struct {
	Parameter string         `json:"parameter"`
	Unit      string         `json:"unit"`
	Source    string         `json:"source"`
	From      time.Time      `json:"from"`
	To        time.Time      `json:"to"`
	Current   float64        `json:"current"`
	History   []trends.Point `json:"history"`
	Stats     trends.Stats   `json:"stats"`
	Threshold ThresholdInfo  `json:"threshold"`
	Alert     *Alert         `json:"alert,omitempty"`
}

// ThresholdInfo reports the acceptable range and whether the current value is in it.
type ThresholdInfo struct {
	MinAcceptable float64 `json:"minAcceptable"`
	MaxAcceptable float64 `json:"maxAcceptable"`
	WithinRange   bool    `json:"withinRange"`
}
