package trends

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"waterquality-backend/internal/guidelines"
	"waterquality-backend/internal/quality"
)

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func points(values ...float64) []Point {
	out := make([]Point, len(values))
	for i, v := range values {
		out[i] = Point{Timestamp: base.Add(time.Duration(i) * 24 * time.Hour), Value: v}
	}
	return out
}

func defaultCatalog(t *testing.T) *guidelines.Catalog {
	t.Helper()
	cat, err := guidelines.Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	return cat
}

func TestAnalyzeFlatSeries(t *testing.T) {
	cat := defaultCatalog(t)
	report, err := Analyze(cat, Input{Series: map[string][]Point{"nitrate": points(10, 10, 10, 10)}})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(report.Parameters) != 1 {
		t.Fatalf("expected one parameter, got %+v", report.Parameters)
	}
	pt := report.Parameters[0]
	if pt.Trend != Stable || pt.Stats.Slope != 0 {
		t.Fatalf("expected stable with zero slope, got %s %v", pt.Trend, pt.Stats.Slope)
	}
	if len(pt.Anomalies) != 0 {
		t.Fatalf("expected no anomalies, got %v", pt.Anomalies)
	}
	if pt.Stats.StdDev != 0 || pt.Stats.Average != 10 || pt.Stats.Current != 10 {
		t.Fatalf("unexpected stats %+v", pt.Stats)
	}
}

func TestAnalyzeSingleAnomaly(t *testing.T) {
	cat := defaultCatalog(t)
	series := points(10, 10, 10, 10, 10, 50, 10, 10, 10, 10)
	report, err := Analyze(cat, Input{Series: map[string][]Point{"bod": series}})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	pt := report.Parameters[0]
	if !reflect.DeepEqual(pt.Anomalies, []float64{50}) {
		t.Fatalf("expected [50], got %v", pt.Anomalies)
	}
	if math.Abs(pt.Stats.Average-14) > 1e-9 || math.Abs(pt.Stats.StdDev-12) > 1e-9 {
		t.Fatalf("expected mean 14 and std 12, got %+v", pt.Stats)
	}
	if pt.Stats.Min != 10 || pt.Stats.Max != 50 || pt.Stats.Count != 10 {
		t.Fatalf("unexpected range stats %+v", pt.Stats)
	}
}

func TestAnalyzeSlope(t *testing.T) {
	cat := defaultCatalog(t)
	cases := []struct {
		name   string
		values []float64
		trend  string
		slope  float64
	}{
		{"increasing", []float64{1, 2, 3, 4}, Increasing, 1},
		{"decreasing", []float64{8, 6, 4, 2}, Decreasing, -2},
		{"within_threshold", []float64{5, 5.005, 5.01}, Stable, 0.005},
		{"noisy_up", []float64{1, 3, 2, 4}, Increasing, 0.8},
		{"two_points", []float64{7, 6.5}, Decreasing, -0.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			report, err := Analyze(cat, Input{Series: map[string][]Point{"ph": points(tc.values...)}})
			if err != nil {
				t.Fatalf("analyze: %v", err)
			}
			pt := report.Parameters[0]
			if pt.Trend != tc.trend {
				t.Fatalf("expected %s, got %s", tc.trend, pt.Trend)
			}
			if math.Abs(pt.Stats.Slope-tc.slope) > 1e-9 {
				t.Fatalf("expected slope %v, got %v", tc.slope, pt.Stats.Slope)
			}
		})
	}
}

func TestAnalyzeDiagnostics(t *testing.T) {
	cat := defaultCatalog(t)
	report, err := Analyze(cat, Input{
		Series: map[string][]Point{
			"turbidity":   points(1, 2, 3),
			"nitrate":     points(4),
			"temperature": points(21, 22),
			"ph":          nil,
		},
		Index: points(80),
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(report.Parameters) != 1 || report.Parameters[0].Parameter != "temperature" {
		t.Fatalf("expected only temperature, got %+v", report.Parameters)
	}
	want := []quality.Diagnostic{
		quality.InsufficientData("nitrate", 1),
		quality.InsufficientData("ph", 0),
		quality.UnknownParameter("turbidity"),
		quality.InsufficientData(IndexParameter, 1),
	}
	if !reflect.DeepEqual(report.Diagnostics, want) {
		t.Fatalf("unexpected diagnostics %+v", report.Diagnostics)
	}
	if report.Index != nil {
		t.Fatalf("expected no index trend")
	}
}

func TestAnalyzeSortedByName(t *testing.T) {
	cat := defaultCatalog(t)
	report, err := Analyze(cat, Input{Series: map[string][]Point{
		"total_coliform": points(1, 2),
		"bod":            points(1, 2),
		"ph":             points(7, 7),
	}})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var got []string
	for _, p := range report.Parameters {
		got = append(got, p.Parameter)
	}
	if !reflect.DeepEqual(got, []string{"bod", "ph", "total_coliform"}) {
		t.Fatalf("expected sorted parameters, got %v", got)
	}
}

func TestAnalyzeUnorderedSeriesFailsClosed(t *testing.T) {
	cat := defaultCatalog(t)
	series := points(1, 2, 3)
	series[0], series[2] = series[2], series[0]

	_, err := Analyze(cat, Input{Series: map[string][]Point{"nitrate": points(1, 2), "bod": series}})
	if !errors.Is(err, ErrUnorderedSeries) {
		t.Fatalf("expected ErrUnorderedSeries, got %v", err)
	}

	index := points(70, 60)
	index[1].Timestamp = base.Add(-time.Hour)
	_, err = Analyze(cat, Input{Index: index})
	if !errors.Is(err, ErrUnorderedSeries) {
		t.Fatalf("expected ErrUnorderedSeries for index, got %v", err)
	}
}

func TestAnalyzeEqualTimestampsAllowed(t *testing.T) {
	cat := defaultCatalog(t)
	series := []Point{{Timestamp: base, Value: 1}, {Timestamp: base, Value: 2}}
	if _, err := Analyze(cat, Input{Series: map[string][]Point{"bod": series}}); err != nil {
		t.Fatalf("expected equal timestamps to be accepted, got %v", err)
	}
}

func TestAnalyzeIndexTrend(t *testing.T) {
	cat := defaultCatalog(t)
	report, err := Analyze(cat, Input{Index: points(90, 80, 70)})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if report.Index == nil || report.Index.Trend != Deteriorating || math.Abs(report.Index.Stats.Slope+10) > 1e-9 {
		t.Fatalf("unexpected index trend %+v", report.Index)
	}

	report, _ = Analyze(cat, Input{Index: points(70, 80)})
	if report.Index.Trend != Improving {
		t.Fatalf("expected improving, got %s", report.Index.Trend)
	}
}

func TestAnalyzeWarnings(t *testing.T) {
	cat := defaultCatalog(t)
	cases := []struct {
		name    string
		param   string
		current float64
		kind    string
		message string
	}{
		{"below", "dissolved_oxygen", 3.5, BelowMinimum, "Current value 3.5 is below the acceptable minimum (4)."},
		{"above", "ph", 9.1, AboveMaximum, "Current value 9.1 is above the acceptable maximum (8.5)."},
		{"near_min", "dissolved_oxygen", 4.3, NearMinimum, "Current value 4.3 is close to the minimum threshold (4)."},
		{"near_max", "temperature", 29.5, NearMaximum, "Current value 29.5 is close to the maximum threshold (30)."},
		{"zero_min_near", "nitrate", 0.5, NearMinimum, "Current value 0.5 is close to the minimum threshold (0)."},
		{"mid", "ph", 7.5, "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			report, err := Analyze(cat, Input{Series: map[string][]Point{tc.param: points(tc.current, tc.current)}})
			if err != nil {
				t.Fatalf("analyze: %v", err)
			}
			w := report.Parameters[0].Warning
			if tc.kind == "" {
				if w != nil {
					t.Fatalf("expected no warning, got %+v", w)
				}
				return
			}
			if w == nil || w.Kind != tc.kind || w.Message != tc.message {
				t.Fatalf("expected %s %q, got %+v", tc.kind, tc.message, w)
			}
		})
	}
}

func TestAnalyzeBoundsOverride(t *testing.T) {
	cat := defaultCatalog(t)
	report, err := Analyze(cat, Input{
		Series: map[string][]Point{"ph": points(7.5, 7.5)},
		Bounds: map[string]guidelines.Bounds{"ph": {Min: 7.6, Max: 9}},
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if w := report.Parameters[0].Warning; w == nil || w.Kind != BelowMinimum {
		t.Fatalf("expected override bounds to apply, got %+v", w)
	}
}

func TestFromAssessments(t *testing.T) {
	ms := []quality.Measurement{
		quality.NewMeasurement("a", base, map[string]float64{"ph": 7, "bod": 1}),
		quality.NewMeasurement("a", base.Add(time.Hour), map[string]float64{"ph": 6.8}),
	}
	in := FromAssessments(ms, []float64{80, 75})
	if len(in.Series["ph"]) != 2 || len(in.Series["bod"]) != 1 {
		t.Fatalf("unexpected series %+v", in.Series)
	}
	if in.Series["ph"][1].Value != 6.8 || !in.Series["ph"][1].Timestamp.Equal(base.Add(time.Hour)) {
		t.Fatalf("unexpected ph point %+v", in.Series["ph"][1])
	}
	if len(in.Index) != 2 || in.Index[1].Value != 75 {
		t.Fatalf("unexpected index %+v", in.Index)
	}
}

func TestAnalyzeMergesCaseVariantKeys(t *testing.T) {
	cat := defaultCatalog(t)
	upper := []Point{
		{Timestamp: base, Value: 7.0},
		{Timestamp: base.Add(2 * time.Hour), Value: 7.2},
	}
	lower := []Point{
		{Timestamp: base.Add(time.Hour), Value: 7.1},
		{Timestamp: base.Add(3 * time.Hour), Value: 7.3},
	}
	report, err := Analyze(cat, Input{
		Series: map[string][]Point{"pH": upper, " ph ": lower},
		Bounds: map[string]guidelines.Bounds{"PH": {Min: 7.4, Max: 9}},
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(report.Parameters) != 1 {
		t.Fatalf("expected a single ph trend, got %+v", report.Parameters)
	}
	pt := report.Parameters[0]
	if pt.Parameter != "ph" || pt.Stats.Count != 4 || pt.Stats.Current != 7.3 || pt.Trend != Increasing {
		t.Fatalf("unexpected merged trend %+v", pt)
	}
	if pt.Warning == nil || pt.Warning.Kind != BelowMinimum {
		t.Fatalf("expected override bounds keyed case-insensitively, got %+v", pt.Warning)
	}
	if len(report.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics %+v", report.Diagnostics)
	}
}
