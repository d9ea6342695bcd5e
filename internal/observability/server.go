package observability

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// OpsConfig describes the local health/metrics endpoint.
type OpsConfig struct {
	Addr        string
	CorsOrigins []string
	Version     string
}

// NewOpsRouter builds the gin router for the local ops endpoint.
func NewOpsRouter(cfg OpsConfig, logger zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	startedAt := time.Now()

	r := gin.New()

	// Middleware: keep it lean
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logger))
	r.Use(RequestMetricsMiddleware())
	if len(cfg.CorsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: cfg.CorsOrigins,
			AllowMethods: []string{"GET"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(startedAt).String(),
			"service": "edgecam",
			"version": cfg.Version,
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
