package guidelines

import (
	"errors"
	"math"
)

// validateParameter checks one spec against the catalog invariants and returns
// every violation it finds.
func validateParameter(p *ParameterSpec) error {
	var errs []error
	name := p.Name

	switch p.Shape {
	case ShapeLowerIsBetter, ShapeHigherIsBetter, ShapeOptimalRange:
	default:
		errs = append(errs, configErr(name, "shape", "unknown shape %q", p.Shape))
	}

	if !isFinite(p.Weight) || p.Weight <= 0 {
		errs = append(errs, configErr(name, "weight", "must be a positive finite number, got %v", p.Weight))
	}

	if !finiteBounds(p.Domain) || !finiteBounds(p.Range) {
		errs = append(errs, configErr(name, "range", "bounds must be finite"))
	} else {
		if p.Domain.Min > p.Range.Min || p.Range.Max > p.Domain.Max {
			errs = append(errs, configErr(name, "range", "acceptable range [%v, %v] must lie within domain [%v, %v]",
				p.Range.Min, p.Range.Max, p.Domain.Min, p.Domain.Max))
		}
		if p.Range.Min >= p.Range.Max {
			errs = append(errs, configErr(name, "range", "zero-width or inverted acceptable range [%v, %v]", p.Range.Min, p.Range.Max))
		}
		if p.Shape == ShapeOptimalRange {
			if p.Domain.Min >= p.Range.Min {
				errs = append(errs, configErr(name, "domain", "zero-width falloff below range: domain min %v, range min %v", p.Domain.Min, p.Range.Min))
			}
			if p.Range.Max >= p.Domain.Max {
				errs = append(errs, configErr(name, "domain", "zero-width falloff above range: range max %v, domain max %v", p.Range.Max, p.Domain.Max))
			}
		}
	}

	for dir := range p.Thresholds {
		if dir != DirectionLow && dir != DirectionHigh {
			errs = append(errs, configErr(name, "thresholds", "unknown direction %q", dir))
		}
	}
	for _, dir := range []Direction{DirectionLow, DirectionHigh} {
		if err := validateThresholds(name, dir, p.Thresholds[dir]); err != nil {
			errs = append(errs, err)
		}
	}

	for dir := range p.Actions {
		if dir != DirectionLow && dir != DirectionHigh {
			errs = append(errs, configErr(name, "actions", "unknown direction %q", dir))
		}
	}

	for tier := range p.HealthImplications {
		if !isThresholdTier(tier) {
			errs = append(errs, configErr(name, "health_implications", "unknown severity tier %q", tier))
		}
	}

	if p.WarningBounds != nil {
		wb := *p.WarningBounds
		if !finiteBounds(wb) || wb.Min >= wb.Max {
			errs = append(errs, configErr(name, "warning_bounds", "min must be below max, got [%v, %v]", wb.Min, wb.Max))
		}
	}

	switch p.TrendWatch {
	case WatchNone, WatchIncreasing, WatchDecreasing:
	default:
		errs = append(errs, configErr(name, "trend_watch", "unknown trend direction %q", p.TrendWatch))
	}

	return errors.Join(errs...)
}

// validateThresholds requires the four tiers in scan order with values moving
// strictly away from the acceptable range: decreasing for low, increasing for high.
func validateThresholds(name string, dir Direction, scale []Threshold) error {
	if len(scale) == 0 {
		return nil
	}
	if len(scale) != len(SeverityTiers) {
		return configErr(name, "thresholds."+string(dir), "expected %d tiers, got %d", len(SeverityTiers), len(scale))
	}
	for i, th := range scale {
		if th.Tier != SeverityTiers[i] {
			return configErr(name, "thresholds."+string(dir), "tier %d must be %q, got %q", i, SeverityTiers[i], th.Tier)
		}
		if !isFinite(th.Value) {
			return configErr(name, "thresholds."+string(dir), "tier %q value must be finite", th.Tier)
		}
		if i == 0 {
			continue
		}
		prev := scale[i-1].Value
		if dir == DirectionLow && th.Value >= prev {
			return configErr(name, "thresholds.low", "%q (%v) must be below %q (%v)", th.Tier, th.Value, scale[i-1].Tier, prev)
		}
		if dir == DirectionHigh && th.Value <= prev {
			return configErr(name, "thresholds.high", "%q (%v) must be above %q (%v)", th.Tier, th.Value, scale[i-1].Tier, prev)
		}
	}
	return nil
}

// validateCategories requires strictly descending break points whose lowest
// band starts at or below zero, so every index score maps to a label.
func validateCategories(cats []Category) error {
	if len(cats) == 0 {
		return configErr("", "categories", "at least one category is required")
	}
	seen := make(map[string]bool, len(cats))
	for i, cat := range cats {
		if cat.Label == "" {
			return configErr("", "categories", "category %d has no label", i)
		}
		if seen[cat.Label] {
			return configErr("", "categories", "duplicate label %q", cat.Label)
		}
		seen[cat.Label] = true
		if !isFinite(cat.Min) {
			return configErr("", "categories", "%q min must be finite", cat.Label)
		}
		if i > 0 && cat.Min >= cats[i-1].Min {
			return configErr("", "categories", "%q min %v must be below %q min %v", cat.Label, cat.Min, cats[i-1].Label, cats[i-1].Min)
		}
	}
	if last := cats[len(cats)-1]; last.Min > 0 {
		return configErr("", "categories", "lowest category %q must start at or below 0, got %v", last.Label, last.Min)
	}
	return nil
}

func isThresholdTier(tier Severity) bool {
	for _, t := range SeverityTiers {
		if t == tier {
			return true
		}
	}
	return false
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finiteBounds(b Bounds) bool {
	return isFinite(b.Min) && isFinite(b.Max)
}
