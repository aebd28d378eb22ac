package assessments

import (
	"context"
	"fmt"
	"strings"

	"waterquality-backend/internal/guidelines"
	"waterquality-backend/internal/quality"
	"waterquality-backend/internal/shared/telemetry"
	"waterquality-backend/internal/trends"
)

const (
	dashboardDays       = 7
	parameterDetailDays = 30
	recentAssessments   = 5
	noDataCategory      = "No Data"
)

// parameterAliases maps alternate spellings used by dashboards and older
// clients to catalog names. Hyphens and spaces are folded to underscores
// before the lookup.
var parameterAliases = map[string]string{
	"do":              "dissolved_oxygen",
	"d_o":             "dissolved_oxygen",
	"dissolvedoxygen": "dissolved_oxygen",
	"b_o_d":           "bod",
	"fecalcoliform":   "fecal_coliform",
	"fecalcaliform":   "fecal_coliform",
	"totalcoliform":   "total_coliform",
	"totalcaliform":   "total_coliform",
	"temp":            "temperature",
	"ec":              "conductivity",
	"no3":             "nitrate",
}

// ResolveParameter maps a client parameter name, such as "dissolved-oxygen"
// or "pH", to its catalog spec.
func (s *Service) ResolveParameter(name string) (*guidelines.ParameterSpec, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	if spec, ok := s.Catalog.Lookup(key); ok {
		return spec, true
	}
	if alias, ok := parameterAliases[key]; ok {
		return s.Catalog.Lookup(alias)
	}
	return nil, false
}

// Dashboard summarizes a source's assessments over the last week.
func (s *Service) Dashboard(ctx context.Context, source string) (Dashboard, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return Dashboard{}, &ValidationError{Field: "source", Issue: "is required"}
	}
	to := s.now()
	from := to.AddDate(0, 0, -dashboardDays)
	history, err := s.Repo.History(ctx, source, from)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load history: %w", err)
	}

	d := Dashboard{
		Source:          source,
		From:            from,
		To:              to,
		Samples:         len(history),
		Category:        noDataCategory,
		Parameters:      make([]ParameterSummary, 0, len(s.Catalog.Names())),
		Alerts:          []Alert{},
		Recommendations: []quality.Recommendation{},
		Recent:          []RecentAssessment{},
	}
	if len(history) > 0 {
		latest := history[len(history)-1]
		d.Score = latest.Index.Score
		d.Category = latest.Index.Category
		if latest.Recommendations != nil {
			d.Recommendations = latest.Recommendations
		}
	}

	for _, spec := range s.Catalog.Parameters() {
		values := seriesOf(history, spec.Name)
		st := trends.Summarize(values)
		d.Parameters = append(d.Parameters, ParameterSummary{
			Parameter: spec.Name,
			Unit:      spec.Unit,
			Count:     st.Count,
			Current:   st.Current,
			Min:       st.Min,
			Max:       st.Max,
			Average:   st.Average,
		})
		if st.Count == 0 {
			continue
		}
		if alert := rangeAlert(spec, st.Current); alert != nil {
			d.Alerts = append(d.Alerts, *alert)
		}
	}

	for i := len(history) - 1; i >= 0 && len(d.Recent) < recentAssessments; i-- {
		a := history[i]
		d.Recent = append(d.Recent, RecentAssessment{
			ID:         a.ID,
			MeasuredAt: a.MeasuredAt,
			Score:      a.Index.Score,
			Category:   a.Index.Category,
			Values:     a.Values,
		})
	}

	telemetry.Info("dashboard.reported", map[string]any{
		"request_id": requestIDFromContext(ctx),
		"source":     source,
		"samples":    len(history),
		"alerts":     len(d.Alerts),
	})
	return d, nil
}

// ParameterDetail returns one parameter's history, statistics and range
// status for a source over the last 30 days.
func (s *Service) ParameterDetail(ctx context.Context, source, parameter string) (ParameterDetail, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return ParameterDetail{}, &ValidationError{Field: "source", Issue: "is required"}
	}
	spec, ok := s.ResolveParameter(parameter)
	if !ok {
		return ParameterDetail{}, &ValidationError{Field: "parameter", Issue: fmt.Sprintf("unknown parameter %q", parameter)}
	}
	to := s.now()
	from := to.AddDate(0, 0, -parameterDetailDays)
	history, err := s.Repo.History(ctx, source, from)
	if err != nil {
		return ParameterDetail{}, fmt.Errorf("load history: %w", err)
	}

	points := make([]trends.Point, 0, len(history))
	values := make([]float64, 0, len(history))
	for _, a := range history {
		if v, ok := a.Values[spec.Name]; ok {
			points = append(points, trends.Point{Timestamp: a.MeasuredAt, Value: v})
			values = append(values, v)
		}
	}
	st := trends.Summarize(values)
	out := ParameterDetail{
		Parameter: spec.Name,
		Unit:      spec.Unit,
		Source:    source,
		From:      from,
		To:        to,
		Current:   st.Current,
		History:   points,
		Stats:     st,
		Threshold: ThresholdInfo{
			MinAcceptable: spec.Range.Min,
			MaxAcceptable: spec.Range.Max,
			WithinRange:   true,
		},
	}
	if st.Count > 0 {
		out.Alert = rangeAlert(spec, st.Current)
		out.Threshold.WithinRange = out.Alert == nil
	}
	return out, nil
}

// seriesOf returns the values of one parameter across history, skipping
// assessments that did not measure it.
func seriesOf(history []Assessment, name string) []float64 {
	out := make([]float64, 0, len(history))
	for _, a := range history {
		if v, ok := a.Values[name]; ok {
			out = append(out, v)
		}
	}
	return out
}

func rangeAlert(spec *guidelines.ParameterSpec, current float64) *Alert {
	switch {
	case current < spec.Range.Min:
		return &Alert{
			Parameter: spec.Name,
			Direction: guidelines.DirectionLow,
			Message:   trends.DisplayName(spec.Name) + " is below acceptable range",
		}
	case current > spec.Range.Max:
		return &Alert{
			Parameter: spec.Name,
			Direction: guidelines.DirectionHigh,
			Message:   trends.DisplayName(spec.Name) + " is above acceptable range",
		}
	}
	return nil
}
