// Package http holds what the composition root hands to the router: the
// config and dependencies of the API process and the modules it serves.
package http

import (
	"context"
	"net/http"

	"crm_backend/platform/config"
	"crm_backend/platform/logger"
)

// RouterConfig is the subset of config the router reads: listen address,
// CORS, rate limit and the JWT secret.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
}

// HealthChecker is pinged by GET /api/health. The mongo client and the
// postgres store both satisfy it.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App is assembled in cmd/api.
type App struct {
	Config RouterConfig
	Logger *logger.Logger
	// Health is nil for the in-memory store; the endpoint then always reports ok.
	Health HealthChecker
	// Metrics is mounted on GET /metrics when set.
	Metrics http.Handler
	Modules []Module
}
