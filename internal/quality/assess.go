package quality

import "waterquality-backend/internal/guidelines"

// Assessment is the combined result of scoring a measurement.
type Assessment struct {
	Index           IndexResult      `json:"index"`
	Recommendations []Recommendation `json:"recommendations"`
	Diagnostics     []Diagnostic     `json:"diagnostics"`
}

// Assess scores a measurement and derives its recommendations. It never fails:
// parameters that cannot be handled are reported in Diagnostics.
func Assess(m Measurement, cat *guidelines.Catalog) Assessment {
	index, indexDiags := Aggregate(m, cat)
	recs, recDiags := GenerateRecommendations(m, cat)
	diags := MergeDiagnostics(indexDiags, recDiags)
	if diags == nil {
		diags = []Diagnostic{}
	}
	return Assessment{
		Index:           index,
		Recommendations: recs,
		Diagnostics:     diags,
	}
}
