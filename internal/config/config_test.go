package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("APP_NAME", "demo")
	t.Setenv("PORT", "9090")
	t.Setenv("DEBUG", "false")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "5")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")

	cfg := Load()

	assert.Equal(t, "demo", cfg.AppName)
	assert.Equal(t, "demo", cfg.Tracing.ServiceName)
	assert.Equal(t, "9090", cfg.Port)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 5, cfg.RateLimitPerMinute)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"APP_NAME", "HOST", "PORT", "LOG_LEVEL", "CORS_ORIGINS", "OTEL_SDK_DISABLED", "ITEM_STORE_CAPACITY"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "starterapi", cfg.AppName)
	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 1000, cfg.ItemStoreCapacity)
	assert.True(t, cfg.Tracing.Disabled)
}

func TestAddrIPv6(t *testing.T) {
	cfg := &AppConfig{Host: "::1", Port: "8000"}
	assert.Equal(t, "[::1]:8000", cfg.Addr())
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	t.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	t.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	t.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	t.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	t.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	t.Setenv(key, "-4")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvPositiveInt(t *testing.T) {
	key := "TEST_POSITIVE_INT_VAR"

	t.Setenv(key, "5")
	assert.Equal(t, 5, getEnvPositiveInt(key, 10))

	t.Setenv(key, "0")
	assert.Equal(t, 10, getEnvPositiveInt(key, 10))

	t.Setenv(key, "-1")
	assert.Equal(t, 10, getEnvPositiveInt(key, 10))
}

func TestLoad_ZeroCapacityAndTimeoutFallBack(t *testing.T) {
	t.Setenv("ITEM_STORE_CAPACITY", "0")
	t.Setenv("SHUTDOWN_TIMEOUT_SEC", "0")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "0")

	cfg := Load()

	assert.Equal(t, 1000, cfg.ItemStoreCapacity)
	assert.Equal(t, 10, cfg.ShutdownTimeoutSec)
	// zero still disables rate limiting
	assert.Equal(t, 0, cfg.RateLimitPerMinute)
}
