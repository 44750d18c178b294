package router

import (
	"github.com/gin-gonic/gin"
	"github.com/innledger/backend/internal/infrastructure/logger"
	"github.com/innledger/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// EngineConfig configures the middleware chain
type EngineConfig struct {
	ServiceName    string
	TracingEnabled bool
	MaxBodySize    int64
	CORS           middleware.CORSConfig
	TrustedProxies []string
	// RateLimiter is optional; nil disables rate limiting
	RateLimiter *middleware.RateLimiter
	// Meter is optional; nil disables HTTP metrics
	Meter metric.Meter
}

// NewEngine builds the gin engine with the full middleware chain, /health
// and every API route.
func NewEngine(cfg EngineConfig, h Handlers, log *zap.Logger) *gin.Engine {
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Order matters:
	// 1. RequestID before anything that logs
	// 2. Recovery wraps the rest of the chain
	// 3. Tracing opens the server span that SpanAttributes enriches
	// 4. HTTPMetrics observes the final status
	// 5. ErrorHandler renders handler errors last
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.ServiceName,
		Enabled:     cfg.TracingEnabled,
	}))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.RequestContext())
	engine.Use(middleware.SpanAttributes())
	engine.Use(middleware.HTTPMetrics(cfg.Meter))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(cfg.CORS))
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}
	if cfg.RateLimiter != nil {
		engine.Use(middleware.RateLimit(cfg.RateLimiter))
	}
	engine.Use(middleware.ErrorHandler())

	engine.GET("/health", h.System.Health)

	r := NewRouter(engine)
	for _, group := range Routes(h) {
		r.Register(group)
	}
	r.Setup()

	return engine
}
