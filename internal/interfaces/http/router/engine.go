package router

import (
	"fmt"

	"github.com/bizline/backoffice/internal/infrastructure/config"
	"github.com/bizline/backoffice/internal/infrastructure/logger"
	"github.com/bizline/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EngineConfig carries what the HTTP engine needs besides the handlers
type EngineConfig struct {
	ServiceName    string
	APIVersion     string
	TracingEnabled bool
	HTTP           config.HTTPConfig
	Security       middleware.SecurityConfig
	Tokens         middleware.TokenValidator
	BusinessLines  middleware.BusinessLineFinder
	Logger         *zap.Logger
}

// Engine is the configured gin engine plus the resources it owns
type Engine struct {
	*gin.Engine
	limiter *middleware.RateLimiter
}

// Close releases background resources held by the middleware
func (e *Engine) Close() {
	if e.limiter != nil {
		e.limiter.Stop()
	}
}

// NewEngine builds the gin engine with the global middleware chain, the health
// endpoints and every API route group.
func NewEngine(cfg EngineConfig, h Handlers) (*Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "v1"
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	cors := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(cfg.ServiceName, cfg.TracingEnabled)...)
	engine.Use(middleware.Secure(cfg.Security))
	engine.Use(middleware.CORS(cors))
	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}

	e := &Engine{Engine: engine}
	if cfg.HTTP.RateLimitEnabled && cfg.HTTP.RateLimitRequests > 0 && cfg.HTTP.RateLimitWindow > 0 {
		e.limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(e.limiter))
	}

	if h.System != nil {
		engine.GET("/health", h.System.Health)
	}

	r := NewRouter(engine, WithAPIVersion(cfg.APIVersion))
	r.Use(middleware.JWTAuth(middleware.JWTConfig{
		Validator: cfg.Tokens,
		SkipPaths: []string{"/health", r.BasePath() + "/health", r.BasePath() + "/auth/login"},
		Logger:    log,
	}))
	if h.System != nil {
		r.Register(NewDomainGroup("health", "/health").GET("", h.System.Health))
	}
	scope := middleware.BusinessLineScope(cfg.BusinessLines, log)
	for _, g := range DomainGroups(h, scope) {
		r.Register(g)
	}
	r.Setup()

	log.Info("HTTP routes registered",
		zap.String("base_path", r.BasePath()),
		zap.Int("routes", len(engine.Routes())),
	)
	return e, nil
}
