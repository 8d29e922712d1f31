package http

import (
	"github.com/gin-gonic/gin"

	appprom "github.com/jgraziolaVU/Yeonni1MB/internal/infrastructure/monitoring/prometheus"
)

// RouterConfig aggregates everything the router needs.
type RouterConfig struct {
	Handler *Handler

	// Mode is the gin mode: "debug", "release" or "test".
	Mode string

	// Collector serves /metrics when non-nil.
	Collector appprom.MetricsCollector

	// Metrics feeds the request middleware; may be nil.
	Metrics *appprom.AppMetrics
}

// NewRouter wires middleware and routes into a gin engine.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(cfg.Mode)

	r := gin.New()
	logger := cfg.Handler.logger
	r.Use(Recovery(logger), RequestLogger(logger, cfg.Metrics), CORS())

	r.GET("/healthz", cfg.Handler.Healthz)
	r.GET("/readyz", cfg.Handler.Readyz)
	if cfg.Collector != nil {
		r.GET("/metrics", gin.WrapH(cfg.Collector.Handler()))
	}

	v1 := r.Group("/api/v1")
	{
		v1.POST("/analyze", cfg.Handler.Analyze)
		v1.GET("/reports/:id", cfg.Handler.GetReport)
		v1.DELETE("/reports/:id", cfg.Handler.DeleteReport)
	}

	return r
}
