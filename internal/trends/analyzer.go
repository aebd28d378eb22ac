package trends

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"waterquality-backend/internal/guidelines"
	"waterquality-backend/internal/quality"
)

// ErrUnorderedSeries is returned when a series is not ascending by timestamp.
var ErrUnorderedSeries = errors.New("series is not in ascending timestamp order")

// Direction labels for parameter series.
const (
	Stable     = "stable"
	Increasing = "increasing"
	Decreasing = "decreasing"
)

// Direction labels for the index series.
const (
	Improving     = "improving"
	Deteriorating = "deteriorating"
)

// IndexParameter names the index series in diagnostics and advisories.
const IndexParameter = "index"

// Point is one observation of a series.
type Point struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// Input holds the series to analyze. Every series must be ascending by
// timestamp (oldest first); equal timestamps are allowed. Bounds overrides the
// catalog's warning bounds per parameter.
type Input struct {
	Series map[string][]Point
	Index  []Point
	Bounds map[string]guidelines.Bounds
}

// ParameterTrend is the analysis of one parameter series.
type ParameterTrend struct {
	Parameter string    `json:"parameter"`
	Trend     string    `json:"trend"`
	Stats     Stats     `json:"stats"`
	Anomalies []float64 `json:"anomalies"`
	Warning   *Warning  `json:"warning,omitempty"`
}

// IndexTrend is the analysis of the composite index series.
type IndexTrend struct {
	Trend string `json:"trend"`
	Stats Stats  `json:"stats"`
}

// Report is the result of Analyze. Parameters are sorted by name.
type Report struct {
	Parameters  []ParameterTrend     `json:"parameters"`
	Index       *IndexTrend          `json:"index,omitempty"`
	Diagnostics []quality.Diagnostic `json:"diagnostics"`
}

// Analyze computes the trend report for the given series. Unknown parameters
// and series shorter than two points are skipped with a diagnostic. A series
// that goes backwards in time fails the whole call with ErrUnorderedSeries.
func Analyze(cat *guidelines.Catalog, in Input) (Report, error) {
	raw := make([]string, 0, len(in.Series))
	for name := range in.Series {
		raw = append(raw, name)
	}
	sort.Strings(raw)

	for _, name := range raw {
		if err := checkOrder(name, in.Series[name]); err != nil {
			return Report{}, err
		}
	}
	if err := checkOrder(IndexParameter, in.Index); err != nil {
		return Report{}, err
	}

	series := normalizeSeries(in.Series)
	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)
	overrides := make(map[string]guidelines.Bounds, len(in.Bounds))
	for name, b := range in.Bounds {
		overrides[normalizeKey(name)] = b
	}

	report := Report{
		Parameters:  []ParameterTrend{},
		Diagnostics: []quality.Diagnostic{},
	}
	catalogBounds := cat.WarningBounds()

	for _, name := range names {
		spec, ok := cat.Lookup(name)
		if !ok {
			report.Diagnostics = append(report.Diagnostics, quality.UnknownParameter(name))
			continue
		}
		points := series[name]
		if len(points) < 2 {
			report.Diagnostics = append(report.Diagnostics, quality.InsufficientData(spec.Name, len(points)))
			continue
		}

		values := valuesOf(points)
		stats := describe(values)
		pt := ParameterTrend{
			Parameter: spec.Name,
			Trend:     label(stats.Slope, Increasing, Decreasing),
			Stats:     stats,
			Anomalies: anomalies(values, stats),
		}
		bounds, ok := overrides[spec.Name]
		if !ok {
			bounds, ok = catalogBounds[spec.Name]
		}
		if ok {
			pt.Warning = checkBounds(stats.Current, bounds)
		}
		report.Parameters = append(report.Parameters, pt)
	}

	switch {
	case len(in.Index) >= 2:
		stats := describe(valuesOf(in.Index))
		report.Index = &IndexTrend{
			Trend: label(stats.Slope, Improving, Deteriorating),
			Stats: stats,
		}
	case len(in.Index) == 1:
		report.Diagnostics = append(report.Diagnostics, quality.InsufficientData(IndexParameter, 1))
	}

	return report, nil
}

// normalizeSeries keys series the way measurements are keyed. Series whose
// names collide after normalization are merged in timestamp order; each input
// series has already been checked to be ascending.
func normalizeSeries(in map[string][]Point) map[string][]Point {
	raw := make([]string, 0, len(in))
	for name := range in {
		raw = append(raw, name)
	}
	sort.Strings(raw)

	out := make(map[string][]Point, len(in))
	merged := make(map[string]bool)
	for _, name := range raw {
		key := normalizeKey(name)
		if _, dup := out[key]; dup {
			merged[key] = true
		}
		out[key] = append(out[key], in[name]...)
	}
	for key := range merged {
		points := out[key]
		sort.SliceStable(points, func(i, j int) bool {
			return points[i].Timestamp.Before(points[j].Timestamp)
		})
	}
	return out
}

func normalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func checkOrder(name string, series []Point) error {
	for i := 1; i < len(series); i++ {
		if series[i].Timestamp.Before(series[i-1].Timestamp) {
			return fmt.Errorf("%w: %s point %d (%s) precedes point %d (%s)",
				ErrUnorderedSeries, name,
				i, series[i].Timestamp.Format(time.RFC3339),
				i-1, series[i-1].Timestamp.Format(time.RFC3339))
		}
	}
	return nil
}

func label(slope float64, up, down string) string {
	switch {
	case slope > slopeThreshold:
		return up
	case slope < -slopeThreshold:
		return down
	default:
		return Stable
	}
}

func valuesOf(series []Point) []float64 {
	out := make([]float64, len(series))
	for i, p := range series {
		out[i] = p.Value
	}
	return out
}
