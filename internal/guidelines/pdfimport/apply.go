package pdfimport

import (
	"fmt"

	"waterquality-backend/internal/guidelines"
)

// ApplyOverlays returns a copy of cat with every non-empty overlay merged in.
// The merged catalog goes through the same validation as a loaded one, so an
// imported range outside a parameter's domain is rejected rather than applied.
func ApplyOverlays(cat *guidelines.Catalog, overlays []Overlay) (*guidelines.Catalog, error) {
	specs := make([]*guidelines.ParameterSpec, 0, len(overlays))
	for _, ov := range overlays {
		if ov.Empty() {
			continue
		}
		base, ok := cat.Lookup(ov.Parameter)
		if !ok {
			return nil, fmt.Errorf("apply overlay: unknown parameter %q", ov.Parameter)
		}
		spec := base.Clone()
		if ov.Range != nil {
			spec.Range = *ov.Range
		}
		if len(ov.Thresholds) > 0 {
			spec.Thresholds[ov.Direction] = append([]guidelines.Threshold(nil), ov.Thresholds...)
		}
		if ov.Actions != nil {
			applyActions(spec, ov.Direction, *ov.Actions)
		}
		specs = append(specs, spec)
	}
	if len(specs) == 0 {
		return cat, nil
	}
	out, err := cat.Replace(specs...)
	if err != nil {
		return nil, fmt.Errorf("apply overlays: %w", err)
	}
	return out, nil
}

// applyActions replaces each non-empty tier of the plan for dir. Without a
// direction the plan goes to every direction the parameter has a severity
// scale for, falling back to both.
func applyActions(spec *guidelines.ParameterSpec, dir guidelines.Direction, plan guidelines.ActionPlan) {
	var dirs []guidelines.Direction
	if dir != "" {
		dirs = []guidelines.Direction{dir}
	} else {
		for _, d := range []guidelines.Direction{guidelines.DirectionLow, guidelines.DirectionHigh} {
			if len(spec.Thresholds[d]) > 0 {
				dirs = append(dirs, d)
			}
		}
		if len(dirs) == 0 {
			dirs = []guidelines.Direction{guidelines.DirectionLow, guidelines.DirectionHigh}
		}
	}
	for _, d := range dirs {
		cur := spec.Actions[d]
		if len(plan.Immediate) > 0 {
			cur.Immediate = append([]string(nil), plan.Immediate...)
		}
		if len(plan.ShortTerm) > 0 {
			cur.ShortTerm = append([]string(nil), plan.ShortTerm...)
		}
		if len(plan.LongTerm) > 0 {
			cur.LongTerm = append([]string(nil), plan.LongTerm...)
		}
		if len(plan.Preventive) > 0 {
			cur.Preventive = append([]string(nil), plan.Preventive...)
		}
		spec.Actions[d] = cur
	}
}
