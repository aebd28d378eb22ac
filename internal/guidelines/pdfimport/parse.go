// Package pdfimport pulls acceptable ranges and severity thresholds out of a
// guideline PDF and merges them into a catalog.
package pdfimport

import (
	"regexp"
	"strconv"
	"strings"

	"waterquality-backend/internal/guidelines"
)

var (
	rangePattern    = regexp.MustCompile(`(\d+\.?\d*)\s*(?:-|–|to)\s*(\d+\.?\d*)`)
	severityPattern = regexp.MustCompile(`(mild|moderate|severe|critical)\s*[:>]\s*(\d+\.?\d*)`)
	actionPattern   = regexp.MustCompile(`(?:(immediate)|(short)[\s-]*term|(long)[\s-]*term)\s*actions?\s*[:;]?|(preventive)\s*measures?\s*[:;]?`)
)

// Overlay is what the import found for one catalog parameter.
type Overlay struct {
	Parameter  string                 `json:"parameter"`
	Page       int                    `json:"page"`
	Range      *guidelines.Bounds     `json:"range,omitempty"`
	Direction  guidelines.Direction   `json:"direction,omitempty"`
	Thresholds []guidelines.Threshold `json:"thresholds,omitempty"`
	Actions    *guidelines.ActionPlan `json:"actions,omitempty"`
	Notes      []string               `json:"notes,omitempty"`
}

// Empty reports whether the overlay carries nothing to apply.
func (o Overlay) Empty() bool {
	return o.Range == nil && len(o.Thresholds) == 0 && o.Actions == nil
}

// Parse scans page texts for each catalog parameter. The section for a
// parameter starts at its first mention and runs until the next mention of a
// different parameter on the same page. Parameters never mentioned produce no
// overlay.
func Parse(pages []string, cat *guidelines.Catalog) []Overlay {
	names := cat.Names()
	patterns := make(map[string]*regexp.Regexp, len(names))
	for _, name := range names {
		patterns[name] = namePattern(name)
	}

	var out []Overlay
	for _, name := range names {
		pageIdx, start := -1, -1
		for i, text := range pages {
			if loc := patterns[name].FindStringIndex(strings.ToLower(text)); loc != nil {
				pageIdx, start = i, loc[1]
				break
			}
		}
		if pageIdx < 0 {
			continue
		}
		lower := strings.ToLower(pages[pageIdx])
		section := lower[start:]
		end := len(section)
		for _, other := range names {
			if other == name {
				continue
			}
			if loc := patterns[other].FindStringIndex(section); loc != nil && loc[0] < end {
				end = loc[0]
			}
		}
		spec, _ := cat.Lookup(name)
		out = append(out, parseSection(name, pageIdx+1, section[:end], spec))
	}
	return out
}

func parseSection(name string, page int, text string, spec *guidelines.ParameterSpec) Overlay {
	ov := Overlay{Parameter: name, Page: page, Actions: parseActions(text)}

	if m := rangePattern.FindStringSubmatch(text); m != nil {
		lo, errLo := strconv.ParseFloat(m[1], 64)
		hi, errHi := strconv.ParseFloat(m[2], 64)
		switch {
		case errLo != nil || errHi != nil:
			ov.Notes = append(ov.Notes, "unreadable range "+m[0])
		case lo >= hi:
			ov.Notes = append(ov.Notes, "ignored inverted range "+m[0])
		default:
			ov.Range = &guidelines.Bounds{Min: lo, Max: hi}
		}
	}

	levels := make(map[guidelines.Severity]float64, len(guidelines.SeverityTiers))
	for _, m := range severityPattern.FindAllStringSubmatch(text, -1) {
		v, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		levels[guidelines.Severity(m[1])] = v
	}
	if len(levels) == 0 {
		return ov
	}
	if len(levels) < len(guidelines.SeverityTiers) {
		ov.Notes = append(ov.Notes, "incomplete severity scale, thresholds not imported")
		return ov
	}

	rng := spec.Range
	if ov.Range != nil {
		rng = *ov.Range
	}
	mild := levels[guidelines.SeverityMild]
	switch {
	case mild < rng.Min:
		ov.Direction = guidelines.DirectionLow
	case mild > rng.Max:
		ov.Direction = guidelines.DirectionHigh
	default:
		ov.Notes = append(ov.Notes, "mild threshold inside acceptable range, thresholds not imported")
		return ov
	}
	for _, tier := range guidelines.SeverityTiers {
		ov.Thresholds = append(ov.Thresholds, guidelines.Threshold{Tier: tier, Value: levels[tier]})
	}
	return ov
}

// parseActions collects remediation lines labelled "immediate actions",
// "short term actions", "long term actions" or "preventive measures". Each
// label's text runs to the end of its line or the next label, whichever comes
// first. It returns nil when the section has no labelled actions.
func parseActions(text string) *guidelines.ActionPlan {
	matches := actionPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}
	var plan guidelines.ActionPlan
	found := false
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		if nl := strings.IndexByte(text[m[1]:end], '\n'); nl >= 0 {
			end = m[1] + nl
		}
		action := strings.Trim(text[m[1]:end], " \t\r.,;")
		if action == "" {
			continue
		}
		switch {
		case m[2] >= 0:
			plan.Immediate = append(plan.Immediate, action)
		case m[4] >= 0:
			plan.ShortTerm = append(plan.ShortTerm, action)
		case m[6] >= 0:
			plan.LongTerm = append(plan.LongTerm, action)
		default:
			plan.Preventive = append(plan.Preventive, action)
		}
		found = true
	}
	if !found {
		return nil
	}
	return &plan
}

// namePattern matches a catalog name as a whole word, treating underscores as
// spaces so "dissolved_oxygen" finds "Dissolved Oxygen".
func namePattern(name string) *regexp.Regexp {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`\b` + strings.Join(words, `\s+`) + `\b`)
}
