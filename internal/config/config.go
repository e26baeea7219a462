package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/fernet/fernet-go"
	"github.com/joho/godotenv"

	"github.com/mheijden/portfolio-tracker/internal/marketdata"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Providers ProvidersConfig
	Security  SecurityConfig
	Scheduler SchedulerConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// ProvidersConfig holds the market-data provider configuration: credentials
// and the per-capability ordering table the dispatcher walks. The ordering
// is plain configuration data, read at call time and never mutated.
type ProvidersConfig struct {
	EODHDAPIKey string
	Ordering    marketdata.Ordering
}

// SecurityConfig holds secrets configuration. FernetKey encrypts provider
// API keys stored in the settings table; when empty, encrypted settings are
// unavailable.
type SecurityConfig struct {
	FernetKey *fernet.Key
}

// SchedulerConfig holds the cron schedule for the nightly rate recompute.
type SchedulerConfig struct {
	RecomputeSchedule string
	Enabled           bool
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/portfolio_tracker.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost",
			}),
		},
		Providers: ProvidersConfig{
			EODHDAPIKey: getEnv("EODHD_API_KEY", ""),
			Ordering:    loadProviderOrdering(),
		},
		Scheduler: SchedulerConfig{
			RecomputeSchedule: getEnv("RECOMPUTE_SCHEDULE", "30 2 * * *"),
			Enabled:           getEnv("RECOMPUTE_ENABLED", "true") == "true",
		},
	}

	if raw := getEnv("FERNET_KEY", ""); raw != "" {
		key, err := fernet.DecodeKey(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid FERNET_KEY: %w", err)
		}
		config.Security.FernetKey = key
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// loadProviderOrdering builds the per-capability provider ordering from
// PROVIDER_ORDER_<CAPABILITY> variables, e.g. PROVIDER_ORDER_QUOTE=yahoo,eodhd.
// Yahoo needs no credentials so it leads everywhere it has the capability;
// metrics and ISIN lookup only exist on eodhd.
func loadProviderOrdering() marketdata.Ordering {
	defaults := marketdata.Ordering{
		marketdata.CapabilityQuote:      {"yahoo", "eodhd"},
		marketdata.CapabilityCandles:    {"yahoo", "eodhd"},
		marketdata.CapabilityForex:      {"yahoo", "eodhd"},
		marketdata.CapabilityProfile:    {"yahoo", "eodhd"},
		marketdata.CapabilityMetrics:    {"eodhd"},
		marketdata.CapabilityISINLookup: {"eodhd"},
	}

	ordering := make(marketdata.Ordering, len(defaults))
	for capability, fallback := range defaults {
		envKey := "PROVIDER_ORDER_" + strings.ToUpper(string(capability))
		ordering[capability] = getEnvList(envKey, fallback)
	}
	return ordering
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvList gets a comma-separated environment variable or returns a
// default list.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	return list
}
