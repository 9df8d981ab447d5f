package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jwalitptl/hms-api/internal/handler/health"
	prometheushandler "github.com/jwalitptl/hms-api/internal/handler/prometheus"
	"github.com/jwalitptl/hms-api/internal/middleware"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine   *gin.Engine
	config   RouterConfig
	health   *health.Handler
	handlers []Handler
	metrics  *middleware.HTTPMetrics
}

type RouterConfig struct {
	BasePath       string
	RateLimit      float64
	RateBurst      int
	AllowedOrigins []string
	RequestTimeout time.Duration
	MaxBodySize    int64
	MetricsPrefix  string
	// Registerer and Gatherer default to the Prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

func NewRouter(config RouterConfig, healthH *health.Handler, handlers ...Handler) *Router {
	if config.BasePath == "" {
		config.BasePath = "/api"
	}
	if config.MetricsPrefix == "" {
		config.MetricsPrefix = "hms_http"
	}
	if config.MaxBodySize == 0 {
		config.MaxBodySize = middleware.DefaultMaxBodySize
	}

	engine := gin.New() // Use New() instead of Default() for more control

	r := &Router{
		engine:   engine,
		config:   config,
		health:   healthH,
		handlers: handlers,
		metrics:  middleware.NewHTTPMetrics(config.MetricsPrefix, config.Registerer),
	}

	// Add core middlewares
	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		r.metrics.Middleware(),
		middleware.CORS(config.AllowedOrigins),
		middleware.ErrorHandler(),
	)

	// Requests are bounded only by the caller unless a timeout is configured.
	if config.RequestTimeout > 0 {
		engine.Use(middleware.Timeout(config.RequestTimeout))
	}

	if config.RateLimit > 0 {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			RPS:   config.RateLimit,
			Burst: config.RateBurst,
		})
		engine.Use(rateLimiter.RateLimit())
	}

	return r
}

// Setup registers every route. Health and metrics live outside the base
// path so probes keep working when it changes.
func (r *Router) Setup() {
	if r.health != nil {
		r.health.RegisterRoutes(r.engine)
	}
	r.engine.GET("/metrics", prometheushandler.New(r.config.Gatherer).Handler())

	api := r.engine.Group(r.config.BasePath)
	api.Use(middleware.SizeLimit(r.config.MaxBodySize))
	for _, h := range r.handlers {
		h.RegisterRoutes(api)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
