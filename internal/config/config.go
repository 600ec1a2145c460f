package config

import (
	"net"
	"os"
	"strconv"
	"strings"
)

// TracingConfig holds OpenTelemetry exporter settings.
// Exporter endpoints and samplers are read by the OTel SDK from the standard OTEL_* variables.
type TracingConfig struct {
	ServiceName string
	Disabled    bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables; the entry point auto-loads .env first.
type AppConfig struct {
	AppName            string
	Version            string
	Env                string
	Debug              bool
	Host               string
	Port               string
	LogLevel           string
	CORSOrigins        []string
	RateLimitPerMinute int
	ItemStoreCapacity  int
	ShutdownTimeoutSec int
	Tracing            TracingConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	name := getEnv("APP_NAME", "starterapi")
	return &AppConfig{
		AppName:            name,
		Version:            getEnv("APP_VERSION", "1.0.0"),
		Env:                getEnv("APP_ENV", "development"),
		Debug:              getEnvBool("DEBUG", true),
		Host:               getEnv("HOST", "0.0.0.0"),
		Port:               getEnv("PORT", "8000"),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "info")),
		CORSOrigins:        getEnvList("CORS_ORIGINS", []string{"*"}),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		ItemStoreCapacity:  getEnvPositiveInt("ITEM_STORE_CAPACITY", 1000),
		ShutdownTimeoutSec: getEnvPositiveInt("SHUTDOWN_TIMEOUT_SEC", 10),
		Tracing: TracingConfig{
			ServiceName: getEnv("OTEL_SERVICE_NAME", name),
			Disabled:    getEnvBool("OTEL_SDK_DISABLED", true),
		},
	}
}

// Addr is the listen address shared by the direct and the auto-reload launch.
func (c *AppConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// IsDevelopment reports whether human-readable console logs should be used.
func (c *AppConfig) IsDevelopment() bool {
	return c.Env == "development" && c.Debug
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil && i >= 0 {
			return i
		}
	}
	return def
}

// getEnvPositiveInt is getEnvInt for settings where zero is meaningless.
func getEnvPositiveInt(key string, def int) int {
	if i := getEnvInt(key, def); i > 0 {
		return i
	}
	return def
}

// getEnvList splits a comma-separated value, dropping blank entries.
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
