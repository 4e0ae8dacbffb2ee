package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"sql-converter/internal/config"
	"sql-converter/internal/controller"
	"sql-converter/internal/middleware"
	"sql-converter/internal/service"
	"sql-converter/internal/utils"
	"sql-converter/pkg/response"
)

// Router owns the gin engine and the middleware state that must be
// released on shutdown.
type Router struct {
	Engine      *gin.Engine
	rateLimiter *middleware.RateLimiter
}

// New builds the HTTP surface of the service
func New(cfg *config.Config, svc service.ConversionService, logger zerolog.Logger) *Router {
	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	engine.Use(middleware.Recovery(logger))
	engine.Use(middleware.CorrelationID())
	engine.Use(middleware.RequestLogger(logger))
	if cfg.Metrics.Enabled {
		middleware.InitMetrics()
		engine.Use(middleware.PrometheusMiddleware())
	}
	engine.Use(cors.New(corsConfig(cfg.Security.AllowedOrigins)))

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response.ErrorResponse(
			utils.ErrCodeInvalidRequest, "route not found", c.Request.URL.Path, middleware.GetCorrelationID(c)))
	})
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, response.ErrorResponse(
			utils.ErrCodeInvalidRequest, "method not allowed", c.Request.Method, middleware.GetCorrelationID(c)))
	})

	r := &Router{Engine: engine}

	conversionController := controller.NewConversionController(svc)
	healthController := controller.NewHealthController(svc)

	engine.GET("/", healthController.Root)
	engine.GET("/health", healthController.HealthCheck)
	if cfg.Metrics.Enabled {
		engine.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	api := engine.Group("")
	if cfg.Security.EnableRateLimit {
		r.rateLimiter = middleware.NewRateLimiter(middleware.RateLimiterConfig{
			RPM:             cfg.Security.RateLimitPerMinute,
			Burst:           cfg.Security.RateLimitBurst,
			CleanupInterval: 5 * time.Minute,
		})
		api.Use(r.rateLimiter.RateLimit())
	}
	api.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))
	{
		api.POST("/convert", conversionController.Convert)
		api.POST("/convert/batch", conversionController.ConvertBatch)
		api.POST("/parse", conversionController.Parse)
		api.POST("/parse/batch", conversionController.ParseBatch)
	}

	return r
}

// Close stops background work started by New
func (r *Router) Close() {
	if r.rateLimiter != nil {
		r.rateLimiter.Stop()
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.CorrelationIDHeader},
		ExposeHeaders: []string{middleware.CorrelationIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
