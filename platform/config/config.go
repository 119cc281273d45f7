// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Supported document store drivers.
const (
	StoreDriverMongo    = "mongo"
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides PostgreSQL connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// MongoConfig provides MongoDB connection settings.
type MongoConfig interface {
	GetMongoURI() string
	GetMongoDatabase() string
}

// StoreConfig selects and configures the document store backing leads,
// contacts and accounts.
type StoreConfig interface {
	DatabaseConfig
	MongoConfig
	GetStoreDriver() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	// Per-client-IP token bucket applied to /api/v1.
	GetRateLimitPerSecond() float64
	GetRateLimitBurst() int
}

// SchedulerConfig provides settings for the asynq background job queue.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// ConversionConfig provides tuning for lead conversion and deduplication.
type ConversionConfig interface {
	GetBulkConversionConcurrency() int
	GetDedupDefaultCriteria() []string
	GetDedupNormalizePhone() bool
	GetDedupSchedule() string
	GetPhoneDefaultRegion() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                       string
	HTTPAddr                  string
	StoreDriver               string
	DatabaseURL               string
	MongoURI                  string
	MongoDatabase             string
	JWTAccessSecret           string
	CORSAllowAll              bool
	CORSOrigins               []string
	CORSAllowCreds            bool
	RateLimitRPS              float64
	RateLimitBurst            int
	RedisURL                  string
	RedisTLSInsecure          bool
	AsynqQueueName            string
	AsynqConcurrency          int
	BulkConversionConcurrency int
	DedupDefaultCriteria      []string
	DedupNormalizePhone       bool
	DedupSchedule             string
	PhoneDefaultRegion        string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// MongoConfig implementation
func (c *Config) GetMongoURI() string      { return c.MongoURI }
func (c *Config) GetMongoDatabase() string { return c.MongoDatabase }

// StoreConfig implementation
func (c *Config) GetStoreDriver() string { return c.StoreDriver }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string            { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool          { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string       { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool        { return c.CORSAllowCreds }
func (c *Config) GetRateLimitPerSecond() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int         { return c.RateLimitBurst }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

// ConversionConfig implementation
func (c *Config) GetBulkConversionConcurrency() int { return c.BulkConversionConcurrency }
func (c *Config) GetDedupDefaultCriteria() []string { return c.DedupDefaultCriteria }
func (c *Config) GetDedupNormalizePhone() bool      { return c.DedupNormalizePhone }
func (c *Config) GetDedupSchedule() string          { return c.DedupSchedule }
func (c *Config) GetPhoneDefaultRegion() string     { return c.PhoneDefaultRegion }

// IsSchedulerEnabled reports whether background jobs can be enqueued.
func (c *Config) IsSchedulerEnabled() bool { return c.RedisURL != "" }

// IsAuthEnabled reports whether API routes require a bearer token.
func (c *Config) IsAuthEnabled() bool { return c.JWTAccessSecret != "" }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                       getEnv("APP_ENV", "development"),
		HTTPAddr:                  getEnv("HTTP_ADDR", ":8080"),
		StoreDriver:               strings.ToLower(getEnv("STORE_DRIVER", StoreDriverMongo)),
		DatabaseURL:               getEnv("DATABASE_URL", ""),
		MongoURI:                  getEnv("MONGO_URI", ""),
		MongoDatabase:             getEnv("MONGO_DATABASE", "crm"),
		JWTAccessSecret:           getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:              corsAllowAll,
		CORSOrigins:               corsOrigins,
		CORSAllowCreds:            strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		RateLimitRPS:              mustFloat(getEnv("RATE_LIMIT_RPS", "20")),
		RateLimitBurst:            mustInt(getEnv("RATE_LIMIT_BURST", "40")),
		RedisURL:                  getEnv("REDIS_URL", ""),
		RedisTLSInsecure:          strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:            getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:          mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		BulkConversionConcurrency: mustInt(getEnv("BULK_CONVERSION_CONCURRENCY", "10")),
		DedupDefaultCriteria:      splitCSV(getEnv("DEDUP_DEFAULT_CRITERIA", "email,phone")),
		DedupNormalizePhone:       strings.EqualFold(getEnv("DEDUP_NORMALIZE_PHONE", "false"), "true"),
		DedupSchedule:             getEnv("DEDUP_SCHEDULE", ""),
		PhoneDefaultRegion:        strings.ToUpper(getEnv("PHONE_DEFAULT_REGION", "US")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreDriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required when STORE_DRIVER is %q", StoreDriverMongo)
		}
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER is %q", StoreDriverPostgres)
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	if c.CORSAllowAll && c.CORSAllowCreds {
		return fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if !c.CORSAllowAll && len(c.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin unless CORS_ALLOW_ALL is true")
	}
	if len(c.DedupDefaultCriteria) == 0 {
		return fmt.Errorf("DEDUP_DEFAULT_CRITERIA must name at least one field")
	}
	if c.DedupSchedule != "" && c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required when DEDUP_SCHEDULE is set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
