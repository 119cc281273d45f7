package router

import (
	"context"
	"net/http"
	"time"

	apphttp "crm_backend/internal/http"
	"crm_backend/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	healthCheckTimeout = 2 * time.Second

	defaultRateLimitPerSecond = 20
	defaultRateLimitBurst     = 40
)

// New builds the gin engine: global middleware, health and metrics endpoints
// and the /api/v1 groups every module mounts its routes on.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(cors.New(corsConfig(app.Config)))

	limiter := httpkit.NewIPRateLimiter(rateLimit(app.Config), rateBurst(app.Config), app.Logger)

	engine.GET("/api/health", func(c *gin.Context) {
		if app.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
			defer cancel()
			if err := app.Health.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if app.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(app.Metrics))
	}

	v1 := engine.Group("/api/v1")
	v1.Use(limiter.RateLimit())

	protected := v1
	if app.Config.GetJWTAccessSecret() != "" {
		protected = v1.Group("")
		protected.Use(httpkit.AuthRequired(app.Config))
	} else {
		app.Logger.Warn("JWT_ACCESS_SECRET not set, API routes are unauthenticated")
	}

	rc := &apphttp.RouterContext{
		V1:        v1,
		Protected: protected,
	}
	for _, m := range app.Modules {
		m.RegisterRoutes(rc)
		app.Logger.Info("module registered", "module", m.Name())
	}

	return engine
}

func corsConfig(cfg apphttp.RouterConfig) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", httpkit.HeaderRequestID},
		ExposeHeaders:    []string{httpkit.HeaderRequestID},
		AllowCredentials: cfg.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}
	if cfg.GetCORSAllowAll() {
		c.AllowAllOrigins = true
		c.AllowCredentials = false
	} else {
		c.AllowOrigins = cfg.GetCORSOrigins()
	}
	return c
}

func rateLimit(cfg apphttp.RouterConfig) rate.Limit {
	if rps := cfg.GetRateLimitPerSecond(); rps > 0 {
		return rate.Limit(rps)
	}
	return defaultRateLimitPerSecond
}

func rateBurst(cfg apphttp.RouterConfig) int {
	if burst := cfg.GetRateLimitBurst(); burst > 0 {
		return burst
	}
	return defaultRateLimitBurst
}
