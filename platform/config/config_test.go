package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithMemoryDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("DEDUP_DEFAULT_CRITERIA", "email, phone")
	t.Setenv("JWT_ACCESS_SECRET", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("DEDUP_SCHEDULE", "")
	t.Setenv("CORS_ALLOW_ALL", "false")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverMemory, cfg.GetStoreDriver())
	assert.Equal(t, []string{"email", "phone"}, cfg.GetDedupDefaultCriteria())
	assert.False(t, cfg.IsAuthEnabled())
	assert.False(t, cfg.IsSchedulerEnabled())
}

func TestLoadRequiresMongoURIForMongoDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("MONGO_URI", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGO_URI")
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "cassandra")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadScheduleNeedsRedis(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("DEDUP_SCHEDULE", "@daily")
	t.Setenv("REDIS_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_URL")
}

func TestLoadRejectsMissingCORSOrigins(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("CORS_ALLOW_ALL", "false")
	t.Setenv("CORS_ORIGINS", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CORS_ORIGINS")
}

func TestLoadRateLimit(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("REDIS_URL", "")
	t.Setenv("DEDUP_SCHEDULE", "")
	t.Setenv("CORS_ALLOW_ALL", "false")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", " 5 ")

	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, 2.5, cfg.GetRateLimitPerSecond(), 0.0001)
	assert.Equal(t, 5, cfg.GetRateLimitBurst())
}
