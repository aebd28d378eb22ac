package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"waterquality-backend/internal/assessments"
	"waterquality-backend/internal/services/health"
	"waterquality-backend/internal/shared/config"
	"waterquality-backend/internal/shared/metrics"
	"waterquality-backend/internal/shared/server/middleware"
	"waterquality-backend/internal/shared/server/respond"
)

const (
	rateGroupAssess = "ASSESS"
	rateGroupRead   = "READ"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config            config.Config
	AssessmentHandler *assessments.Handler
	Health            *health.Service
	Limiter           *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.OK(c, gin.H{"ok": true})
			return
		}
		st := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !st.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, st)
	})

	if deps.AssessmentHandler != nil {
		limited := api.Group("")
		limited.Use(middleware.RateLimit(rateLimitConfig(deps)))
		deps.AssessmentHandler.RegisterRoutes(limited)
	}

	return r
}

func rateLimitConfig(deps RouterDeps) middleware.RateLimitConfig {
	cfg := deps.Config
	rules := map[string]middleware.RateLimitRule{}
	if cfg.RateLimitPerMin > 0 && cfg.RateLimitBurst > 0 {
		rules[rateGroupAssess] = middleware.PerMinute(cfg.RateLimitPerMin, cfg.RateLimitBurst)
	}
	return middleware.RateLimitConfig{
		Rules:        rules,
		DefaultGroup: rateGroupRead,
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost {
				return rateGroupAssess
			}
			return rateGroupRead
		},
		Limiter: deps.Limiter,
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
