package quality

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// Measurement is a single water sample: parameter name to raw value. Values are
// copied on construction and never exposed for mutation.
type Measurement struct {
	Timestamp time.Time
	Source    string
	values    map[string]float64
}

// NewMeasurement builds a measurement from a copy of values. Parameter names
// are lowercased and trimmed so they match catalog lookups.
func NewMeasurement(source string, ts time.Time, values map[string]float64) Measurement {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]float64, len(values))
	for _, k := range keys {
		name := strings.ToLower(strings.TrimSpace(k))
		if name == "" {
			continue
		}
		out[name] = values[k]
	}
	return Measurement{Timestamp: ts, Source: source, values: out}
}

// Value returns the raw value recorded for a parameter.
func (m Measurement) Value(name string) (float64, bool) {
	v, ok := m.values[strings.ToLower(strings.TrimSpace(name))]
	return v, ok
}

// Names returns the recorded parameter names in lexical order.
func (m Measurement) Names() []string {
	out := make([]string, 0, len(m.values))
	for k := range m.values {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Values returns a copy of the recorded values.
func (m Measurement) Values() map[string]float64 {
	out := make(map[string]float64, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// Len returns the number of recorded parameters.
func (m Measurement) Len() int {
	return len(m.values)
}

type measurementJSON struct {
	Timestamp time.Time          `json:"timestamp"`
	Source    string             `json:"source"`
	Values    map[string]float64 `json:"values"`
}

// MarshalJSON encodes the measurement as {timestamp, source, values}.
func (m Measurement) MarshalJSON() ([]byte, error) {
	return json.Marshal(measurementJSON{Timestamp: m.Timestamp, Source: m.Source, Values: m.values})
}

// UnmarshalJSON decodes {timestamp, source, values} through NewMeasurement, so
// parameter names are normalized the same way as constructed measurements.
func (m *Measurement) UnmarshalJSON(data []byte) error {
	var raw measurementJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = NewMeasurement(raw.Source, raw.Timestamp, raw.Values)
	return nil
}
