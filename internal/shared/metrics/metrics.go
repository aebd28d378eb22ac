package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	assessmentsTotal       atomic.Uint64
	assessmentsFailedTotal atomic.Uint64
	recommendationsTotal   atomic.Uint64
	diagnosticsTotal       atomic.Uint64
	trendReportsTotal      atomic.Uint64
	archiveFailedTotal     atomic.Uint64

	assessmentDuration = newHistogram([]float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 1000})
	trendDuration      = newHistogram([]float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000})
)

// IncAssessments increments the stored assessments counter.
func IncAssessments() {
	assessmentsTotal.Add(1)
}

// IncAssessmentsFailed increments the failed assessments counter.
func IncAssessmentsFailed() {
	assessmentsFailedTotal.Add(1)
}

// AddRecommendations adds n emitted recommendations.
func AddRecommendations(n int) {
	if n > 0 {
		recommendationsTotal.Add(uint64(n))
	}
}

// AddDiagnostics adds n recorded diagnostics.
func AddDiagnostics(n int) {
	if n > 0 {
		diagnosticsTotal.Add(uint64(n))
	}
}

// IncTrendReports increments the trend reports counter.
func IncTrendReports() {
	trendReportsTotal.Add(1)
}

// IncArchiveFailed increments the snapshot archive failure counter.
func IncArchiveFailed() {
	archiveFailedTotal.Add(1)
}

// ObserveAssessmentDurationMs records an assessment duration in milliseconds.
func ObserveAssessmentDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	assessmentDuration.Observe(value)
}

// ObserveTrendDurationMs records a trend report duration in milliseconds.
func ObserveTrendDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	trendDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "assessments_total", "Total assessments stored", assessmentsTotal.Load())
	writeCounter(&buf, "assessments_failed_total", "Total assessments that failed to store", assessmentsFailedTotal.Load())
	writeCounter(&buf, "recommendations_total", "Total recommendations emitted", recommendationsTotal.Load())
	writeCounter(&buf, "diagnostics_total", "Total diagnostics recorded", diagnosticsTotal.Load())
	writeCounter(&buf, "trend_reports_total", "Total trend reports produced", trendReportsTotal.Load())
	writeCounter(&buf, "archive_failed_total", "Total snapshot archive failures", archiveFailedTotal.Load())
	writeHistogram(&buf, "assessment_duration_ms", "Assessment duration in milliseconds", assessmentDuration.Snapshot())
	writeHistogram(&buf, "trend_duration_ms", "Trend report duration in milliseconds", trendDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe counts value in the first bucket whose bound it does not exceed.
// Values above every bound are only reflected in count and sum.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// SinceMillis returns the milliseconds elapsed since start.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
