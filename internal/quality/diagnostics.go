package quality

import "fmt"

// Diagnostic codes.
const (
	CodeUnknownParameter     = "unknown_parameter"
	CodeInsufficientData     = "insufficient_data"
	CodeNoScorableParameters = "no_scorable_parameters"
)

// Diagnostic is a non-fatal note recorded alongside a result.
type Diagnostic struct {
	Code      string `json:"code"`
	Parameter string `json:"parameter,omitempty"`
	Message   string `json:"message"`
}

// UnknownParameter reports a parameter absent from the catalog.
func UnknownParameter(name string) Diagnostic {
	return Diagnostic{
		Code:      CodeUnknownParameter,
		Parameter: name,
		Message:   fmt.Sprintf("parameter %q is not in the guideline catalog; skipped", name),
	}
}

// InsufficientData reports a series too short to analyze.
func InsufficientData(name string, n int) Diagnostic {
	return Diagnostic{
		Code:      CodeInsufficientData,
		Parameter: name,
		Message:   fmt.Sprintf("parameter %q has %d data point(s); at least 2 are required", name, n),
	}
}

// MergeDiagnostics concatenates diagnostic lists, keeping the first occurrence
// of each (code, parameter) pair.
func MergeDiagnostics(lists ...[]Diagnostic) []Diagnostic {
	type key struct{ code, param string }
	seen := make(map[key]bool)
	var out []Diagnostic
	for _, list := range lists {
		for _, d := range list {
			k := key{d.Code, d.Parameter}
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, d)
		}
	}
	return out
}

func unknownParameters(m Measurement, lookup func(string) bool) []Diagnostic {
	var out []Diagnostic
	for _, name := range m.Names() {
		if !lookup(name) {
			out = append(out, UnknownParameter(name))
		}
	}
	return out
}
