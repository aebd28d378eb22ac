package assessments

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"waterquality-backend/internal/shared/server/middleware"
	"waterquality-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the assessments service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches assessment routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/guidelines", h.listGuidelines)
	rg.POST("/assessments", h.createAssessment)
	rg.GET("/assessments/:id", h.getAssessment)
	rg.GET("/sources/:source/assessments", h.listAssessments)
	rg.GET("/sources/:source/trends", h.getTrends)
	rg.GET("/sources/:source/dashboard", h.getDashboard)
	rg.GET("/sources/:source/parameters/:parameter", h.getParameterDetail)
}

type createRequest struct {
	Source    string             `json:"source"`
	Timestamp *time.Time         `json:"timestamp"`
	Values    map[string]float64 `json:"values"`
}

func (h *Handler) listGuidelines(c *gin.Context) {
	respond.OK(c, gin.H{
		"version":    h.Svc.Catalog.Version(),
		"categories": h.Svc.Catalog.Categories(),
		"parameters": h.Svc.Guidelines(),
	})
}

func (h *Handler) createAssessment(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "request body must be a JSON measurement", []map[string]string{
			{"field": "body", "issue": err.Error()},
		})
		return
	}
	c.Set(middleware.SourceKey, strings.TrimSpace(req.Source))

	in := Input{Source: req.Source, Values: req.Values}
	if req.Timestamp != nil {
		in.MeasuredAt = *req.Timestamp
	}

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	a, err := h.Svc.Assess(ctx, in)
	if err != nil {
		h.writeError(c, err, "failed to assess measurement")
		return
	}
	c.Set(middleware.AssessmentIDKey, a.ID)
	respond.Created(c, a)
}

func (h *Handler) getAssessment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "assessment id is required", nil)
		return
	}
	c.Set(middleware.AssessmentIDKey, id)

	a, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "failed to fetch assessment")
		return
	}
	respond.OK(c, a)
}

func (h *Handler) listAssessments(c *gin.Context) {
	source := c.Param("source")
	c.Set(middleware.SourceKey, source)

	limit := 0
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	items, err := h.Svc.List(c.Request.Context(), source, limit, offset)
	if err != nil {
		h.writeError(c, err, "failed to list assessments")
		return
	}
	respond.OK(c, gin.H{
		"source":      source,
		"assessments": items,
		"count":       len(items),
	})
}

func (h *Handler) getTrends(c *gin.Context) {
	source := c.Param("source")
	c.Set(middleware.SourceKey, source)

	days := 0
	if v := c.Query("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "days must be a positive integer", []map[string]string{
				{"field": "days", "issue": "invalid"},
			})
			return
		}
		days = parsed
	}

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	report, err := h.Svc.Trends(ctx, source, days)
	if err != nil {
		h.writeError(c, err, "failed to compute trends")
		return
	}
	respond.OK(c, report)
}

func (h *Handler) getDashboard(c *gin.Context) {
	source := c.Param("source")
	c.Set(middleware.SourceKey, source)

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	d, err := h.Svc.Dashboard(ctx, source)
	if err != nil {
		h.writeError(c, err, "failed to build dashboard")
		return
	}
	respond.OK(c, d)
}

func (h *Handler) getParameterDetail(c *gin.Context) {
	source := c.Param("source")
	c.Set(middleware.SourceKey, source)

	detail, err := h.Svc.ParameterDetail(c.Request.Context(), source, c.Param("parameter"))
	if err != nil {
		h.writeError(c, err, "failed to load parameter detail")
		return
	}
	respond.OK(c, detail)
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Error(c, http.StatusBadRequest, "validation_error", verr.Error(), []map[string]string{
			{"field": verr.Field, "issue": verr.Issue},
		})
	case errors.Is(err, ErrInvalidWindow):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), []map[string]string{
			{"field": "days", "issue": "out_of_range"},
		})
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "assessment not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
