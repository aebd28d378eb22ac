package quality

import (
	"math"
	"testing"
	"time"

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

func sample(values map[string]float64) Measurement {
	return NewMeasurement("well-7", time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), values)
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
