package assessments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"waterquality-backend/internal/guidelines"
	"waterquality-backend/internal/quality"
	"waterquality-backend/internal/shared/metrics"
	"waterquality-backend/internal/shared/storage/object"
	"waterquality-backend/internal/shared/telemetry"
	"waterquality-backend/internal/shared/util"
	"waterquality-backend/internal/trends"
)

const (
	maxSourceLen      = 128
	defaultListLimit  = 20
	maxListLimit      = 100
	defaultTrendDays  = 30
	maxTrendDays      = 365
	archiveTimeout    = 10 * time.Second
	archivePrefix     = "assessments"
	archiveMediaType  = "application/json"
	futureMeasurement = 5 * time.Minute
)

// Service contains business logic for assessments.
type Service struct {
	Repo    Repo
	Catalog *guidelines.Catalog
	Store   object.ObjectStore // optional snapshot archive
	Now     func() time.Time

	TrendDefaultDays int
	TrendMaxDays     int
}

// Guidelines summarizes the catalog parameters in catalog order.
func (s *Service) Guidelines() []GuidelineSummary {
	params := s.Catalog.Parameters()
	out := make([]GuidelineSummary, 0, len(params))
	for _, p := range params {
		out = append(out, GuidelineSummary{
			Name:        p.Name,
			Unit:        p.Unit,
			Description: p.Description,
			Shape:       p.Shape,
			Weight:      p.Weight,
			Domain:      p.Domain,
			Range:       p.Range,
		})
	}
	return out
}

// Assess validates and scores a measurement, stores the result and archives a snapshot.
func (s *Service) Assess(ctx context.Context, in Input) (Assessment, error) {
	start := time.Now()
	now := s.now()

	source, err := validateInput(in, now)
	if err != nil {
		return Assessment{}, err
	}
	measuredAt := in.MeasuredAt.UTC()
	if in.MeasuredAt.IsZero() {
		measuredAt = now
	}

	m := quality.NewMeasurement(source, measuredAt, in.Values)
	result := quality.Assess(m, s.Catalog)

	a := Assessment{
		ID:              uuid.NewString(),
		Source:          source,
		MeasuredAt:      measuredAt,
		Values:          m.Values(),
		Index:           result.Index,
		Recommendations: result.Recommendations,
		Diagnostics:     result.Diagnostics,
		CatalogVersion:  s.Catalog.Version(),
		CreatedAt:       now,
	}

	log := telemetry.With(map[string]any{
		"request_id":    requestIDFromContext(ctx),
		"assessment_id": a.ID,
		"source":        source,
	})

	if err := s.Repo.Create(ctx, a); err != nil {
		metrics.IncAssessmentsFailed()
		log.Error("assessment.store_failed", map[string]any{"error": err})
		return Assessment{}, fmt.Errorf("store assessment: %w", err)
	}

	metrics.IncAssessments()
	metrics.AddRecommendations(len(a.Recommendations))
	metrics.AddDiagnostics(len(a.Diagnostics))
	metrics.ObserveAssessmentDurationMs(metrics.SinceMillis(start))

	log.Info("assessment.created", map[string]any{
		"score":           a.Index.Score,
		"category":        a.Index.Category,
		"parameters":      len(a.Index.Components),
		"recommendations": len(a.Recommendations),
		"diagnostics":     len(a.Diagnostics),
	})

	s.archive(ctx, a, log)
	return a, nil
}

// Get returns a stored assessment by ID.
func (s *Service) Get(ctx context.Context, id string) (Assessment, error) {
	if strings.TrimSpace(id) == "" {
		return Assessment{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

// List returns a page of a source's assessments, newest first. A non-positive
// limit selects the default page size; limits above the maximum are capped.
func (s *Service) List(ctx context.Context, source string, limit, offset int) ([]Assessment, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, &ValidationError{Field: "source", Issue: "is required"}
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.ListBySource(ctx, source, limit, offset)
}

// Trends analyzes a source's assessments over the last days. days <= 0 selects
// the configured default window.
func (s *Service) Trends(ctx context.Context, source string, days int) (TrendReport, error) {
	start := time.Now()
	source = strings.TrimSpace(source)
	if source == "" {
		return TrendReport{}, &ValidationError{Field: "source", Issue: "is required"}
	}
	if days <= 0 {
		days = s.trendDefaultDays()
	}
	if limit := s.trendMaxDays(); days > limit {
		return TrendReport{}, fmt.Errorf("%w: days must be at most %d", ErrInvalidWindow, limit)
	}

	to := s.now()
	from := to.AddDate(0, 0, -days)
	history, err := s.Repo.History(ctx, source, from)
	if err != nil {
		return TrendReport{}, fmt.Errorf("load history: %w", err)
	}

	ms := make([]quality.Measurement, 0, len(history))
	scores := make([]float64, 0, len(history))
	for _, a := range history {
		ms = append(ms, a.Measurement())
		scores = append(scores, a.Index.Score)
	}
	report, err := trends.Analyze(s.Catalog, trends.FromAssessments(ms, scores))
	if err != nil {
		return TrendReport{}, fmt.Errorf("analyze trends: %w", err)
	}
	advisories := trends.Advisories(s.Catalog, report)

	metrics.IncTrendReports()
	metrics.ObserveTrendDurationMs(metrics.SinceMillis(start))
	telemetry.Info("trends.reported", map[string]any{
		"request_id": requestIDFromContext(ctx),
		"source":     source,
		"days":       days,
		"samples":    len(history),
		"parameters": len(report.Parameters),
		"advisories": len(advisories),
	})

	return TrendReport{
		Source:     source,
		From:       from,
		To:         to,
		Samples:    len(history),
		Report:     report,
		Advisories: advisories,
	}, nil
}

// ArchiveKey returns the object-store key of an assessment snapshot.
func ArchiveKey(source, id string) (string, error) {
	name, err := util.SanitizeKeySegment(id + ".json")
	if err != nil {
		return "", err
	}
	return path.Join(archivePrefix, util.HashKey(source), name), nil
}

func (s *Service) archive(ctx context.Context, a Assessment, log telemetry.Logger) {
	if s.Store == nil {
		return
	}
	key, err := ArchiveKey(a.Source, a.ID)
	if err != nil {
		metrics.IncArchiveFailed()
		log.Warn("assessment.archive_failed", map[string]any{"error": err})
		return
	}
	payload, err := json.Marshal(a)
	if err != nil {
		metrics.IncArchiveFailed()
		log.Warn("assessment.archive_failed", map[string]any{"error": err})
		return
	}

	archiveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	defer cancel()
	if _, err := s.Store.Put(archiveCtx, key, archiveMediaType, bytes.NewReader(payload)); err != nil {
		metrics.IncArchiveFailed()
		log.Warn("assessment.archive_failed", map[string]any{"error": err, "key": key})
		return
	}
	log.Info("assessment.archived", map[string]any{"key": key, "bytes": len(payload)})
}

func validateInput(in Input, now time.Time) (string, error) {
	source := strings.TrimSpace(in.Source)
	switch {
	case source == "":
		return "", &ValidationError{Field: "source", Issue: "is required"}
	case len(source) > maxSourceLen:
		return "", &ValidationError{Field: "source", Issue: fmt.Sprintf("must be at most %d characters", maxSourceLen)}
	}
	if len(in.Values) == 0 {
		return "", &ValidationError{Field: "values", Issue: "must contain at least one parameter"}
	}
	for name, v := range in.Values {
		if strings.TrimSpace(name) == "" {
			return "", &ValidationError{Field: "values", Issue: "parameter names must not be empty"}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "", &ValidationError{Field: "values." + name, Issue: "must be a finite number"}
		}
	}
	if in.MeasuredAt.After(now.Add(futureMeasurement)) {
		return "", &ValidationError{Field: "timestamp", Issue: "must not be in the future"}
	}
	return source, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) trendDefaultDays() int {
	if s.TrendDefaultDays > 0 {
		return s.TrendDefaultDays
	}
	return defaultTrendDays
}

func (s *Service) trendMaxDays() int {
	if s.TrendMaxDays > 0 {
		return s.TrendMaxDays
	}
	return maxTrendDays
}
