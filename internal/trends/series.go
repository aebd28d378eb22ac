package trends

import "waterquality-backend/internal/quality"

// FromAssessments builds an Input from measurements and their index scores,
// which must already be ascending by timestamp. scores may be nil; otherwise
// it must be parallel to ms.
func FromAssessments(ms []quality.Measurement, scores []float64) Input {
	in := Input{Series: make(map[string][]Point)}
	for i, m := range ms {
		for _, name := range m.Names() {
			v, _ := m.Value(name)
			in.Series[name] = append(in.Series[name], Point{Timestamp: m.Timestamp, Value: v})
		}
		if i < len(scores) {
			in.Index = append(in.Index, Point{Timestamp: m.Timestamp, Value: scores[i]})
		}
	}
	return in
}
