package trends

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"waterquality-backend/internal/guidelines"
)

// Advisory severities.
const (
	AdvisoryMedium  = "medium"
	AdvisoryHigh    = "high"
	AdvisoryWarning = "warning"
	AdvisoryAnomaly = "anomaly"
)

// Advisory is a short operator-facing message derived from a trend report.
type Advisory struct {
	Parameter string `json:"parameter"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
}

// DisplayName renders a catalog parameter name for operator messages, e.g.
// "dissolved_oxygen" becomes "Dissolved Oxygen". A Caser is stateful, so one
// is built per call.
func DisplayName(param string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(param, "_", " "))
}

// Advisories derives advisories from a report. For each parameter, in report
// order: a trend moving in the catalog's watched direction, then any bound
// warning, then any anomalies. A deteriorating index comes last.
func Advisories(cat *guidelines.Catalog, report Report) []Advisory {
	out := []Advisory{}
	for _, pt := range report.Parameters {
		human := strings.ReplaceAll(pt.Parameter, "_", " ")
		if spec, ok := cat.Lookup(pt.Parameter); ok {
			switch {
			case spec.TrendWatch == guidelines.WatchIncreasing && pt.Trend == Increasing:
				out = append(out, Advisory{
					Parameter: pt.Parameter,
					Severity:  AdvisoryMedium,
					Message:   DisplayName(pt.Parameter) + " is increasing. Monitor closely and consider preventive measures.",
				})
			case spec.TrendWatch == guidelines.WatchDecreasing && pt.Trend == Decreasing:
				out = append(out, Advisory{
					Parameter: pt.Parameter,
					Severity:  AdvisoryHigh,
					Message:   DisplayName(pt.Parameter) + " is decreasing. Immediate action may be required.",
				})
			}
		}
		if pt.Warning != nil {
			out = append(out, Advisory{
				Parameter: pt.Parameter,
				Severity:  AdvisoryWarning,
				Message:   pt.Warning.Message,
			})
		}
		if len(pt.Anomalies) > 0 {
			out = append(out, Advisory{
				Parameter: pt.Parameter,
				Severity:  AdvisoryAnomaly,
				Message:   fmt.Sprintf("Detected anomalies in %s: %v", human, pt.Anomalies),
			})
		}
	}
	if report.Index != nil && report.Index.Trend == Deteriorating {
		out = append(out, Advisory{
			Parameter: IndexParameter,
			Severity:  AdvisoryHigh,
			Message:   "Overall water quality is deteriorating. Comprehensive review of all parameters recommended.",
		})
	}
	return out
}
