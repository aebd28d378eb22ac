package quality

import "waterquality-backend/internal/guidelines"

const unknownImplications = "Unknown health implications"

// Recommendation is one remediation action for one out-of-range parameter.
type Recommendation struct {
	Parameter          string               `json:"parameter"`
	Severity           guidelines.Severity  `json:"severity"`
	Priority           guidelines.Priority  `json:"priority"`
	Direction          guidelines.Direction `json:"direction"`
	Action             string               `json:"action"`
	Description        string               `json:"description"`
	HealthImplications []string             `json:"healthImplications"`
	Value              float64              `json:"value"`
	AcceptableRange    [2]float64           `json:"acceptableRange"`
}

// GenerateRecommendations expands every out-of-range parameter into one
// record per action string. Output order is catalog parameter order, then
// priority tier (immediate, short_term, long_term, preventive), then action
// list order. Measurement parameters missing from the catalog are skipped and
// reported as diagnostics.
func GenerateRecommendations(m Measurement, cat *guidelines.Catalog) ([]Recommendation, []Diagnostic) {
	diags := unknownParameters(m, func(name string) bool {
		_, ok := cat.Lookup(name)
		return ok
	})

	recs := []Recommendation{}
	for _, spec := range cat.Parameters() {
		v, ok := m.Value(spec.Name)
		if !ok {
			continue
		}
		dir, out := Violation(spec, v)
		if !out {
			continue
		}
		tier := ClassifySeverity(spec, v, dir)
		implications := spec.ImplicationsFor(tier)
		if len(implications) == 0 {
			implications = []string{unknownImplications}
		}
		for _, group := range spec.ActionsFor(dir).Tiers() {
			for _, action := range group.Actions {
				recs = append(recs, Recommendation{
					Parameter:          spec.Name,
					Severity:           tier,
					Priority:           group.Priority,
					Direction:          dir,
					Action:             action,
					Description:        spec.Description,
					HealthImplications: append([]string(nil), implications...),
					Value:              v,
					AcceptableRange:    [2]float64{spec.Range.Min, spec.Range.Max},
				})
			}
		}
	}
	return recs, diags
}
