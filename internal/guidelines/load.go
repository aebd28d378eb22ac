package guidelines

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded guideline catalog. It is parsed once per
// process and shared.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Load(defaultCatalogYAML)
	})
	return defaultCatalog, defaultErr
}

// LoadFile reads and validates a catalog from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read guideline catalog %s: %w", path, err)
	}
	cat, err := Load(raw)
	if err != nil {
		return nil, fmt.Errorf("load guideline catalog %s: %w", path, err)
	}
	return cat, nil
}

// Load parses and validates a YAML catalog document.
func Load(raw []byte) (*Catalog, error) {
	var doc catalogFile
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, &ConfigurationError{Reason: "decode yaml: " + err.Error()}
	}

	params := make([]*ParameterSpec, 0, len(doc.Parameters))
	var errs []error
	for i, fp := range doc.Parameters {
		spec, err := fp.toSpec(i)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		params = append(params, spec)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	cats := doc.Categories
	if len(cats) == 0 {
		cats = DefaultCategories()
	}
	cat, err := New(params, cats)
	if err != nil {
		return nil, err
	}
	cat.version = doc.Version
	return cat, nil
}

// Replace returns a new catalog with the given specs swapped in by name,
// keeping this catalog's version, order and category scheme. The result is
// validated like any loaded catalog; the receiver is not modified.
func (c *Catalog) Replace(specs ...*ParameterSpec) (*Catalog, error) {
	byName := make(map[string]*ParameterSpec, len(specs))
	for _, s := range specs {
		if s == nil {
			continue
		}
		key := normalizeName(s.Name)
		if _, ok := c.byName[key]; !ok {
			return nil, configErr(s.Name, "name", "not in catalog")
		}
		byName[key] = s
	}
	params := make([]*ParameterSpec, 0, len(c.params))
	for _, p := range c.params {
		if s, ok := byName[p.Name]; ok {
			params = append(params, s)
			continue
		}
		params = append(params, p)
	}
	out, err := New(params, c.categories)
	if err != nil {
		return nil, err
	}
	out.version = c.version
	return out, nil
}

// New validates the given specs and category scheme and returns an immutable
// catalog built from private copies of them.
func New(params []*ParameterSpec, categories []Category) (*Catalog, error) {
	var errs []error
	if len(params) == 0 {
		errs = append(errs, configErr("", "parameters", "at least one parameter is required"))
	}
	if err := validateCategories(categories); err != nil {
		errs = append(errs, err)
	}

	cat := &Catalog{
		params:     make([]*ParameterSpec, 0, len(params)),
		byName:     make(map[string]*ParameterSpec, len(params)),
		categories: append([]Category(nil), categories...),
	}
	for i, p := range params {
		if p == nil {
			errs = append(errs, configErr("", "parameters", "entry %d is nil", i))
			continue
		}
		key := normalizeName(p.Name)
		if key == "" {
			errs = append(errs, configErr("", "parameters", "entry %d has no name", i))
			continue
		}
		if _, dup := cat.byName[key]; dup {
			errs = append(errs, configErr(p.Name, "name", "duplicate parameter"))
			continue
		}
		if err := validateParameter(p); err != nil {
			errs = append(errs, err)
			continue
		}
		spec := p.Clone()
		spec.Name = key
		cat.params = append(cat.params, spec)
		cat.byName[key] = spec
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cat, nil
}

// Clone returns a deep copy of the spec.
func (p *ParameterSpec) Clone() *ParameterSpec {
	if p == nil {
		return nil
	}
	out := *p
	out.Thresholds = make(map[Direction][]Threshold, len(p.Thresholds))
	for dir, scale := range p.Thresholds {
		if len(scale) > 0 {
			out.Thresholds[dir] = append([]Threshold(nil), scale...)
		}
	}
	out.HealthImplications = make(map[Severity][]string, len(p.HealthImplications))
	for tier, items := range p.HealthImplications {
		out.HealthImplications[tier] = append([]string(nil), items...)
	}
	out.Actions = make(map[Direction]ActionPlan, len(p.Actions))
	for dir, plan := range p.Actions {
		out.Actions[dir] = ActionPlan{
			Immediate:  append([]string(nil), plan.Immediate...),
			ShortTerm:  append([]string(nil), plan.ShortTerm...),
			LongTerm:   append([]string(nil), plan.LongTerm...),
			Preventive: append([]string(nil), plan.Preventive...),
		}
	}
	if p.WarningBounds != nil {
		wb := *p.WarningBounds
		out.WarningBounds = &wb
	}
	return &out
}

type catalogFile struct {
	Version    int             `yaml:"version"`
	Categories []Category      `yaml:"categories"`
	Parameters []parameterFile `yaml:"parameters"`
}

type parameterFile struct {
	Name               string                     `yaml:"name"`
	Unit               string                     `yaml:"unit,omitempty"`
	Description        string                     `yaml:"description,omitempty"`
	Shape              string                     `yaml:"shape"`
	Weight             float64                    `yaml:"weight"`
	Domain             []float64                  `yaml:"domain,flow"`
	Range              []float64                  `yaml:"range,flow"`
	Thresholds         map[string][]thresholdFile `yaml:"thresholds,omitempty"`
	HealthImplications map[string][]string        `yaml:"health_implications,omitempty"`
	Actions            map[string]actionPlanFile  `yaml:"actions,omitempty"`
	WarningBounds      []float64                  `yaml:"warning_bounds,omitempty,flow"`
	TrendWatch         string                     `yaml:"trend_watch,omitempty"`
}

type thresholdFile struct {
	Tier  string  `yaml:"tier"`
	Value float64 `yaml:"value"`
}

type actionPlanFile struct {
	Immediate  []string `yaml:"immediate,omitempty"`
	ShortTerm  []string `yaml:"short_term,omitempty"`
	LongTerm   []string `yaml:"long_term,omitempty"`
	Preventive []string `yaml:"preventive,omitempty"`
}

func (fp parameterFile) toSpec(index int) (*ParameterSpec, error) {
	name := fp.Name
	if name == "" {
		name = fmt.Sprintf("parameters[%d]", index)
	}
	domain, err := pair(name, "domain", fp.Domain)
	if err != nil {
		return nil, err
	}
	rng, err := pair(name, "range", fp.Range)
	if err != nil {
		return nil, err
	}
	spec := &ParameterSpec{
		Name:               fp.Name,
		Unit:               fp.Unit,
		Description:        fp.Description,
		Shape:              Shape(fp.Shape),
		Weight:             fp.Weight,
		Domain:             domain,
		Range:              rng,
		Thresholds:         make(map[Direction][]Threshold, len(fp.Thresholds)),
		HealthImplications: make(map[Severity][]string, len(fp.HealthImplications)),
		Actions:            make(map[Direction]ActionPlan, len(fp.Actions)),
		TrendWatch:         TrendWatch(fp.TrendWatch),
	}
	for dir, scale := range fp.Thresholds {
		out := make([]Threshold, 0, len(scale))
		for _, th := range scale {
			out = append(out, Threshold{Tier: Severity(th.Tier), Value: th.Value})
		}
		spec.Thresholds[Direction(dir)] = out
	}
	for tier, items := range fp.HealthImplications {
		spec.HealthImplications[Severity(tier)] = items
	}
	for dir, plan := range fp.Actions {
		spec.Actions[Direction(dir)] = ActionPlan{
			Immediate:  plan.Immediate,
			ShortTerm:  plan.ShortTerm,
			LongTerm:   plan.LongTerm,
			Preventive: plan.Preventive,
		}
	}
	if len(fp.WarningBounds) > 0 {
		wb, err := pair(name, "warning_bounds", fp.WarningBounds)
		if err != nil {
			return nil, err
		}
		spec.WarningBounds = &wb
	}
	return spec, nil
}

// Marshal encodes the catalog in the YAML layout Load reads, so a catalog
// merged from a guideline import can be written out and loaded again.
func Marshal(c *Catalog) ([]byte, error) {
	if c == nil {
		return nil, errors.New("marshal guideline catalog: nil catalog")
	}
	doc := catalogFile{
		Version:    c.version,
		Categories: c.Categories(),
		Parameters: make([]parameterFile, 0, len(c.params)),
	}
	for _, p := range c.params {
		doc.Parameters = append(doc.Parameters, toFile(p))
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("marshal guideline catalog: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshal guideline catalog: %w", err)
	}
	return buf.Bytes(), nil
}

func toFile(p *ParameterSpec) parameterFile {
	fp := parameterFile{
		Name:        p.Name,
		Unit:        p.Unit,
		Description: p.Description,
		Shape:       string(p.Shape),
		Weight:      p.Weight,
		Domain:      []float64{p.Domain.Min, p.Domain.Max},
		Range:       []float64{p.Range.Min, p.Range.Max},
		TrendWatch:  string(p.TrendWatch),
	}
	if len(p.Thresholds) > 0 {
		fp.Thresholds = make(map[string][]thresholdFile, len(p.Thresholds))
		for dir, scale := range p.Thresholds {
			out := make([]thresholdFile, 0, len(scale))
			for _, th := range scale {
				out = append(out, thresholdFile{Tier: string(th.Tier), Value: th.Value})
			}
			fp.Thresholds[string(dir)] = out
		}
	}
	if len(p.HealthImplications) > 0 {
		fp.HealthImplications = make(map[string][]string, len(p.HealthImplications))
		for tier, items := range p.HealthImplications {
			fp.HealthImplications[string(tier)] = items
		}
	}
	if len(p.Actions) > 0 {
		fp.Actions = make(map[string]actionPlanFile, len(p.Actions))
		for dir, plan := range p.Actions {
			fp.Actions[string(dir)] = actionPlanFile{
				Immediate:  plan.Immediate,
				ShortTerm:  plan.ShortTerm,
				LongTerm:   plan.LongTerm,
				Preventive: plan.Preventive,
			}
		}
	}
	if p.WarningBounds != nil {
		fp.WarningBounds = []float64{p.WarningBounds.Min, p.WarningBounds.Max}
	}
	return fp
}

func pair(name, field string, values []float64) (Bounds, error) {
	if len(values) != 2 {
		return Bounds{}, configErr(name, field, "expected [min, max], got %d values", len(values))
	}
	return Bounds{Min: values[0], Max: values[1]}, nil
}
