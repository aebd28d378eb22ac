package quality

import "waterquality-backend/internal/guidelines"

// IndexComponent is one parameter's contribution to the composite index.
type IndexComponent struct {
	Parameter       string  `json:"parameter"`
	Value           float64 `json:"value"`
	Score           float64 `json:"score"`
	Weight          float64 `json:"weight"`
	EffectiveWeight float64 `json:"effectiveWeight"`
}

// IndexResult is the composite quality index for a measurement.
type IndexResult struct {
	Score      float64          `json:"score"`
	Category   string           `json:"category"`
	Components []IndexComponent `json:"components"`
}

// Aggregate combines the normalized scores of every catalog parameter present
// in the measurement. Weights are renormalized over that subset so they sum
// to 1. Components are reported in catalog order.
func Aggregate(m Measurement, cat *guidelines.Catalog) (IndexResult, []Diagnostic) {
	diags := unknownParameters(m, func(name string) bool {
		_, ok := cat.Lookup(name)
		return ok
	})

	var (
		components  []IndexComponent
		totalWeight float64
	)
	for _, spec := range cat.Parameters() {
		v, ok := m.Value(spec.Name)
		if !ok {
			continue
		}
		components = append(components, IndexComponent{
			Parameter: spec.Name,
			Value:     v,
			Score:     Normalize(v, spec),
			Weight:    spec.Weight,
		})
		totalWeight += spec.Weight
	}

	if len(components) == 0 {
		diags = append(diags, Diagnostic{
			Code:    CodeNoScorableParameters,
			Message: "measurement has no parameters present in the guideline catalog",
		})
		return IndexResult{Score: 0, Category: cat.Categorize(0), Components: []IndexComponent{}}, diags
	}

	var score float64
	for i := range components {
		components[i].EffectiveWeight = components[i].Weight / totalWeight
		score += components[i].EffectiveWeight * components[i].Score
	}
	score = clamp(score, 0, 100)

	return IndexResult{
		Score:      score,
		Category:   cat.Categorize(score),
		Components: components,
	}, diags
}
