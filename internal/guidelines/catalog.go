package guidelines

import "strings"

// Shape describes how a parameter's desirability varies with its value.
type Shape string

const (
	ShapeLowerIsBetter  Shape = "lower_is_better"
	ShapeHigherIsBetter Shape = "higher_is_better"
	ShapeOptimalRange   Shape = "optimal_range"
)

// Direction is the side of the acceptable range a value violates.
type Direction string

const (
	DirectionLow  Direction = "low"
	DirectionHigh Direction = "high"
)

// Severity is the tier assigned to an out-of-range value.
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
	SeverityCritical Severity = "critical"
	SeverityNormal   Severity = "normal"
	SeverityUnknown  Severity = "unknown"
)

// SeverityTiers lists the threshold tiers in scan order, least to most extreme.
var SeverityTiers = []Severity{SeverityMild, SeverityModerate, SeveritySevere, SeverityCritical}

// Priority is the urgency tier of a remediation action.
type Priority string

const (
	PriorityImmediate  Priority = "immediate"
	PriorityShortTerm  Priority = "short_term"
	PriorityLongTerm   Priority = "long_term"
	PriorityPreventive Priority = "preventive"
)

// PriorityTiers lists the priority tiers in emission order.
var PriorityTiers = []Priority{PriorityImmediate, PriorityShortTerm, PriorityLongTerm, PriorityPreventive}

// TrendWatch names the trend direction that is a concern for a parameter.
type TrendWatch string

const (
	WatchNone       TrendWatch = ""
	WatchIncreasing TrendWatch = "increasing"
	WatchDecreasing TrendWatch = "decreasing"
)

// Bounds is a closed numeric interval.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies within [Min, Max].
func (b Bounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// Width returns Max - Min.
func (b Bounds) Width() float64 {
	return b.Max - b.Min
}

// Threshold is one (tier, value) pair of a direction's severity scale.
type Threshold struct {
	Tier  Severity `json:"tier"`
	Value float64  `json:"value"`
}

// ActionPlan holds remediation actions grouped by priority tier.
type ActionPlan struct {
	Immediate  []string `json:"immediate,omitempty"`
	ShortTerm  []string `json:"shortTerm,omitempty"`
	LongTerm   []string `json:"longTerm,omitempty"`
	Preventive []string `json:"preventive,omitempty"`
}

// PriorityActions pairs a priority tier with its actions.
type PriorityActions struct {
	Priority Priority
	Actions  []string
}

// Tiers returns the plan's actions in priority order, including empty tiers.
func (p ActionPlan) Tiers() []PriorityActions {
	return []PriorityActions{
		{Priority: PriorityImmediate, Actions: p.Immediate},
		{Priority: PriorityShortTerm, Actions: p.ShortTerm},
		{Priority: PriorityLongTerm, Actions: p.LongTerm},
		{Priority: PriorityPreventive, Actions: p.Preventive},
	}
}

// Count returns the total number of actions across all tiers.
func (p ActionPlan) Count() int {
	return len(p.Immediate) + len(p.ShortTerm) + len(p.LongTerm) + len(p.Preventive)
}

// ParameterSpec is the guideline entry for a single water-quality parameter.
type ParameterSpec struct {
	Name               string
	Unit               string
	Description        string
	Shape              Shape
	Weight             float64
	Domain             Bounds
	Range              Bounds
	Thresholds         map[Direction][]Threshold
	HealthImplications map[Severity][]string
	Actions            map[Direction]ActionPlan
	WarningBounds      *Bounds
	TrendWatch         TrendWatch
}

// ThresholdsFor returns the ordered severity scale for a direction.
func (p *ParameterSpec) ThresholdsFor(dir Direction) []Threshold {
	if p == nil {
		return nil
	}
	return p.Thresholds[dir]
}

// ActionsFor returns the remediation plan for a direction.
func (p *ParameterSpec) ActionsFor(dir Direction) ActionPlan {
	if p == nil {
		return ActionPlan{}
	}
	return p.Actions[dir]
}

// ImplicationsFor returns a copy of the health implications listed for a tier.
func (p *ParameterSpec) ImplicationsFor(tier Severity) []string {
	if p == nil {
		return nil
	}
	items := p.HealthImplications[tier]
	if len(items) == 0 {
		return nil
	}
	return append([]string(nil), items...)
}

// Category is one break point of the index category scheme.
type Category struct {
	Label string  `json:"label"`
	Min   float64 `json:"min"`
}

// Catalog is the validated, read-only guideline table. Build one with Load,
// LoadFile or Default; a Catalog is never mutated afterwards and may be shared
// across goroutines.
type Catalog struct {
	version    int
	params     []*ParameterSpec
	byName     map[string]*ParameterSpec
	categories []Category
}

// Version returns the catalog file version.
func (c *Catalog) Version() int {
	return c.version
}

// Lookup returns the spec for a parameter name. Names are matched
// case-insensitively after trimming.
func (c *Catalog) Lookup(name string) (*ParameterSpec, bool) {
	if c == nil {
		return nil, false
	}
	spec, ok := c.byName[normalizeName(name)]
	return spec, ok
}

// Parameters returns the specs in catalog order. The slice is a copy; the
// specs themselves must be treated as read-only.
func (c *Catalog) Parameters() []*ParameterSpec {
	if c == nil {
		return nil
	}
	return append([]*ParameterSpec(nil), c.params...)
}

// Names returns parameter names in catalog order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.params))
	for _, p := range c.params {
		out = append(out, p.Name)
	}
	return out
}

// Categories returns the index category scheme, highest band first.
func (c *Catalog) Categories() []Category {
	if c == nil {
		return nil
	}
	return append([]Category(nil), c.categories...)
}

// Categorize maps an index score to its category label. The scheme is
// exhaustive, so every score in [0,100] receives a label; scores below the
// lowest break point fall into the lowest band.
func (c *Catalog) Categorize(score float64) string {
	var cats []Category
	if c != nil {
		cats = c.categories
	}
	if len(cats) == 0 {
		cats = DefaultCategories()
	}
	for _, cat := range cats {
		if score >= cat.Min {
			return cat.Label
		}
	}
	return cats[len(cats)-1].Label
}

// WarningBounds returns the trend warning table keyed by parameter name.
func (c *Catalog) WarningBounds() map[string]Bounds {
	out := make(map[string]Bounds)
	if c == nil {
		return out
	}
	for _, p := range c.params {
		if p.WarningBounds != nil {
			out[p.Name] = *p.WarningBounds
		}
	}
	return out
}

// DefaultCategories returns the canonical five-tier index category scheme.
func DefaultCategories() []Category {
	return []Category{
		{Label: "Excellent", Min: 90},
		{Label: "Good", Min: 70},
		{Label: "Fair", Min: 50},
		{Label: "Poor", Min: 25},
		{Label: "Very Poor", Min: 0},
	}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
