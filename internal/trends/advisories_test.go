package trends

import (
	"reflect"
	"testing"
)

func TestAdvisories(t *testing.T) {
	cat := defaultCatalog(t)
	report, err := Analyze(cat, Input{
		Series: map[string][]Point{
			"dissolved_oxygen": points(7, 6, 5, 3.5),
			"nitrate":          points(2, 3, 4, 5),
			"conductivity":     points(500, 450, 400, 350),
			"ph":               points(7.5, 7.5, 7.5, 7.5),
		},
		Index: points(85, 80, 75, 70),
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	got := Advisories(cat, report)
	want := []Advisory{
		{Parameter: "dissolved_oxygen", Severity: AdvisoryHigh, Message: "Dissolved Oxygen is decreasing. Immediate action may be required."},
		{Parameter: "dissolved_oxygen", Severity: AdvisoryWarning, Message: "Current value 3.5 is below the acceptable minimum (4)."},
		{Parameter: "nitrate", Severity: AdvisoryMedium, Message: "Nitrate is increasing. Monitor closely and consider preventive measures."},
		{Parameter: IndexParameter, Severity: AdvisoryHigh, Message: "Overall water quality is deteriorating. Comprehensive review of all parameters recommended."},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected advisories:\n got %+v\nwant %+v", got, want)
	}
}

func TestAdvisoriesAnomaly(t *testing.T) {
	cat := defaultCatalog(t)
	report, err := Analyze(cat, Input{Series: map[string][]Point{
		"fecal_coliform": points(300, 300, 300, 300, 300, 410, 300, 300, 300, 300, 300),
	}})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	got := Advisories(cat, report)
	if len(got) != 1 {
		t.Fatalf("expected one advisory, got %+v", got)
	}
	if got[0].Severity != AdvisoryAnomaly || got[0].Message != "Detected anomalies in fecal coliform: [410]" {
		t.Fatalf("unexpected anomaly advisory %+v", got[0])
	}
}

func TestAdvisoriesEmpty(t *testing.T) {
	cat := defaultCatalog(t)
	got := Advisories(cat, Report{})
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil advisories, got %#v", got)
	}
}
