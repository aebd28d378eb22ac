package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"waterquality-backend/internal/assessments"
)

// sampleFile is one measurement as written in a YAML or JSON file.
type sampleFile struct {
	Source    string             `yaml:"source" json:"source"`
	Timestamp string             `yaml:"timestamp" json:"timestamp"`
	Values    map[string]float64 `yaml:"values" json:"values"`
}

// seriesFile is a source's samples, oldest first.
type seriesFile struct {
	Source  string       `yaml:"source" json:"source"`
	Samples []sampleFile `yaml:"samples" json:"samples"`
}

func (s sampleFile) input(defaultSource string) (assessments.Input, error) {
	in := assessments.Input{Source: s.Source, Values: s.Values}
	if strings.TrimSpace(in.Source) == "" {
		in.Source = defaultSource
	}
	if ts := strings.TrimSpace(s.Timestamp); ts != "" {
		parsed, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return assessments.Input{}, fmt.Errorf("timestamp %q: %w", ts, err)
		}
		in.MeasuredAt = parsed.UTC()
	}
	return in, nil
}

// decodeFile reads a .json file as JSON and anything else as YAML. Unknown
// fields are rejected in both formats.
func decodeFile(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		jd := json.NewDecoder(bytes.NewReader(raw))
		jd.DisallowUnknownFields()
		if err := jd.Decode(v); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
