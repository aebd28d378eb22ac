package pdfimport

import (
	"errors"
	"reflect"
	"testing"

	"waterquality-backend/internal/guidelines"
)

func defaultCatalog(t *testing.T) *guidelines.Catalog {
	t.Helper()
	cat, err := guidelines.Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	return cat
}

var samplePages = []string{
	"Guidelines for drinking-water quality\nIntroduction and scope",
	"pH\nAcceptable range: 6.5 - 8.5\nLow values: mild: 6.2 moderate: 5.8 severe: 5.2 critical: 4.8\n" +
		"Nitrate\nAcceptable range 0 to 12 mg/L\nMild > 15\n",
	"Dissolved Oxygen\nKeep between 6 and 9 mg/L\nSevere: 3",
}

func findOverlay(overlays []Overlay, name string) (Overlay, bool) {
	for _, ov := range overlays {
		if ov.Parameter == name {
			return ov, true
		}
	}
	return Overlay{}, false
}

func TestParseExtractsRangeAndThresholds(t *testing.T) {
	overlays := Parse(samplePages, defaultCatalog(t))

	ph, ok := findOverlay(overlays, "ph")
	if !ok {
		t.Fatalf("expected ph overlay, got %+v", overlays)
	}
	if ph.Page != 2 {
		t.Fatalf("ph page = %d, want 2", ph.Page)
	}
	if ph.Range == nil || ph.Range.Min != 6.5 || ph.Range.Max != 8.5 {
		t.Fatalf("ph range = %+v", ph.Range)
	}
	if ph.Direction != guidelines.DirectionLow {
		t.Fatalf("ph direction = %q, want low", ph.Direction)
	}
	want := []float64{6.2, 5.8, 5.2, 4.8}
	if len(ph.Thresholds) != len(want) {
		t.Fatalf("ph thresholds = %+v", ph.Thresholds)
	}
	for i, th := range ph.Thresholds {
		if th.Tier != guidelines.SeverityTiers[i] || th.Value != want[i] {
			t.Fatalf("threshold %d = %+v, want %s %v", i, th, guidelines.SeverityTiers[i], want[i])
		}
	}
}

func TestParseSectionStopsAtNextParameter(t *testing.T) {
	overlays := Parse(samplePages, defaultCatalog(t))

	nitrate, ok := findOverlay(overlays, "nitrate")
	if !ok {
		t.Fatalf("expected nitrate overlay")
	}
	if nitrate.Range == nil || nitrate.Range.Min != 0 || nitrate.Range.Max != 12 {
		t.Fatalf("nitrate range = %+v", nitrate.Range)
	}
	if len(nitrate.Thresholds) != 0 {
		t.Fatalf("partial scale must not be imported, got %+v", nitrate.Thresholds)
	}
	if len(nitrate.Notes) == 0 {
		t.Fatalf("expected a note about the incomplete scale")
	}
}

func TestParseMatchesUnderscoredNames(t *testing.T) {
	overlays := Parse(samplePages, defaultCatalog(t))
	do, ok := findOverlay(overlays, "dissolved_oxygen")
	if !ok {
		t.Fatalf("expected dissolved_oxygen overlay")
	}
	if do.Page != 3 {
		t.Fatalf("page = %d, want 3", do.Page)
	}
	if do.Range != nil {
		t.Fatalf("no numeric range in text, got %+v", do.Range)
	}
}

func TestParseSkipsUnmentionedParameters(t *testing.T) {
	overlays := Parse(samplePages, defaultCatalog(t))
	if _, ok := findOverlay(overlays, "conductivity"); ok {
		t.Fatalf("conductivity is not mentioned and must not produce an overlay")
	}
}

func TestParseWordBoundary(t *testing.T) {
	overlays := Parse([]string{"Phosphate limits 0.1 - 0.5"}, defaultCatalog(t))
	if _, ok := findOverlay(overlays, "ph"); ok {
		t.Fatalf("ph must not match inside another word")
	}
}

func TestParseMildInsideRangeIsIgnored(t *testing.T) {
	pages := []string{"pH range 6.5-8.5 mild: 7 moderate: 6 severe: 5 critical: 4"}
	overlays := Parse(pages, defaultCatalog(t))
	ph, ok := findOverlay(overlays, "ph")
	if !ok {
		t.Fatalf("expected ph overlay")
	}
	if len(ph.Thresholds) != 0 || ph.Direction != "" {
		t.Fatalf("ambiguous direction must not import thresholds, got %+v", ph)
	}
}

func TestApplyOverlays(t *testing.T) {
	cat := defaultCatalog(t)
	overlays := Parse(samplePages, cat)

	merged, err := ApplyOverlays(cat, overlays)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	ph, _ := merged.Lookup("ph")
	if got := ph.ThresholdsFor(guidelines.DirectionLow)[0].Value; got != 6.2 {
		t.Fatalf("merged ph mild low = %v, want 6.2", got)
	}
	if got := ph.ThresholdsFor(guidelines.DirectionHigh)[0].Value; got != 8.5 {
		t.Fatalf("ph high scale must be untouched, got %v", got)
	}
	nitrate, _ := merged.Lookup("nitrate")
	if nitrate.Range.Max != 12 {
		t.Fatalf("merged nitrate range max = %v, want 12", nitrate.Range.Max)
	}

	orig, _ := cat.Lookup("ph")
	if got := orig.ThresholdsFor(guidelines.DirectionLow)[0].Value; got != 6.0 {
		t.Fatalf("source catalog mutated: mild low = %v", got)
	}
	if merged.Version() != cat.Version() {
		t.Fatalf("version = %d, want %d", merged.Version(), cat.Version())
	}
}

func TestApplyOverlaysRevalidates(t *testing.T) {
	cat := defaultCatalog(t)
	overlays := []Overlay{{Parameter: "ph", Range: &guidelines.Bounds{Min: 6.5, Max: 15}}}
	_, err := ApplyOverlays(cat, overlays)
	if !errors.Is(err, guidelines.ErrInvalidCatalog) {
		t.Fatalf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestApplyOverlaysNothingToApply(t *testing.T) {
	cat := defaultCatalog(t)
	merged, err := ApplyOverlays(cat, []Overlay{{Parameter: "ph", Page: 1}})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if merged != cat {
		t.Fatalf("expected the original catalog back")
	}
}

func TestApplyOverlaysUnknownParameter(t *testing.T) {
	cat := defaultCatalog(t)
	_, err := ApplyOverlays(cat, []Overlay{{Parameter: "lead", Range: &guidelines.Bounds{Min: 0, Max: 1}}})
	if err == nil {
		t.Fatalf("expected error for unknown parameter")
	}
}

func TestExtractTextRejectsEmpty(t *testing.T) {
	if _, err := ExtractText(nil); !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
	if _, err := ExtractText([]byte("not a pdf")); err == nil {
		t.Fatalf("expected error for non-pdf input")
	}
}

var actionPages = []string{
	"pH\nAcceptable range: 6.5 - 8.5\nLow values: mild: 6.2 moderate: 5.8 severe: 5.2 critical: 4.8\n" +
		"Immediate actions: dose lime to raise alkalinity\n" +
		"Short-term actions: review coagulant dosing\n" +
		"Preventive measures: calibrate meters weekly\n" +
		"Dissolved Oxygen\nImmediate action: increase aeration long term actions: install diffusers\n",
}

func TestParseExtractsActions(t *testing.T) {
	cases := []struct {
		param string
		want  guidelines.ActionPlan
	}{
		{"ph", guidelines.ActionPlan{
			Immediate:  []string{"dose lime to raise alkalinity"},
			ShortTerm:  []string{"review coagulant dosing"},
			Preventive: []string{"calibrate meters weekly"},
		}},
		{"dissolved_oxygen", guidelines.ActionPlan{
			Immediate: []string{"increase aeration"},
			LongTerm:  []string{"install diffusers"},
		}},
	}
	overlays := Parse(actionPages, defaultCatalog(t))
	for _, tc := range cases {
		ov, ok := findOverlay(overlays, tc.param)
		if !ok || ov.Actions == nil {
			t.Fatalf("%s: expected actions, got %+v", tc.param, ov)
		}
		if !reflect.DeepEqual(*ov.Actions, tc.want) {
			t.Fatalf("%s: actions = %+v, want %+v", tc.param, *ov.Actions, tc.want)
		}
	}
}

func TestParseWithoutActions(t *testing.T) {
	overlays := Parse(samplePages, defaultCatalog(t))
	for _, ov := range overlays {
		if ov.Actions != nil {
			t.Fatalf("%s: unexpected actions %+v", ov.Parameter, ov.Actions)
		}
	}
}

func TestImportedCatalogReloads(t *testing.T) {
	cat := defaultCatalog(t)
	merged, err := ApplyOverlays(cat, Parse(actionPages, cat))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	raw, err := guidelines.Marshal(merged)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := guidelines.Load(raw)
	if err != nil {
		t.Fatalf("load imported catalog: %v", err)
	}

	ph, _ := back.Lookup("ph")
	if got := ph.ThresholdsFor(guidelines.DirectionLow)[0].Value; got != 6.2 {
		t.Fatalf("reloaded ph mild low = %v, want 6.2", got)
	}
	low := ph.ActionsFor(guidelines.DirectionLow)
	if len(low.Immediate) != 1 || low.Immediate[0] != "dose lime to raise alkalinity" {
		t.Fatalf("reloaded ph low immediate = %v", low.Immediate)
	}
	orig, _ := cat.Lookup("ph")
	if !reflect.DeepEqual(low.LongTerm, orig.ActionsFor(guidelines.DirectionLow).LongTerm) {
		t.Fatalf("tiers missing from the import must be kept")
	}
	if !reflect.DeepEqual(ph.ActionsFor(guidelines.DirectionHigh), orig.ActionsFor(guidelines.DirectionHigh)) {
		t.Fatalf("ph high plan must be untouched")
	}

	do, _ := back.Lookup("dissolved_oxygen")
	if got := do.ActionsFor(guidelines.DirectionLow).LongTerm; len(got) != 1 || got[0] != "install diffusers" {
		t.Fatalf("reloaded dissolved_oxygen low long term = %v", got)
	}
}
