package app

import (
	"os"
	"strconv"
	"time"

	"github.com/takaio/ipgate/internal/service"
)

type Config struct {
	DiscordToken string // Required: bot token for the approval surface

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./ip_auth.db)
	CodeTTL              time.Duration // Optional: pending code validity (default: 5m)
	AuthTTL              time.Duration // Optional: approved authorization validity (default: 168h)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8000)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired-pending sweep interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		DiscordToken:         os.Getenv("DISCORD_TOKEN"),
		DatabaseFile:         getEnvOrDefault("IPGATE_DATABASE_FILE", "ip_auth.db"),
		CodeTTL:              getEnvDurationOrDefault("IPGATE_CODE_TTL", service.DefaultCodeTTL),
		AuthTTL:              getEnvDurationOrDefault("IPGATE_AUTH_TTL", service.DefaultAuthTTL),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("IPGATE_PORT", 8000),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Plain integers are read as minutes for convenience.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
