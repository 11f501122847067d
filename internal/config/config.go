package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the gateway.
// It follows the 12-factor app methodology by prioritizing environment variables.
type Config struct {
	Server   ServerConfig
	Remote   RemoteConfig
	Auth     AuthConfig
	Redis    RedisConfig
	HideList HideListConfig
}

type ServerConfig struct {
	Port        string
	Environment string
}

// RemoteConfig points at the marketplace backend that owns all
// conversation/message persistence.
type RemoteConfig struct {
	BaseURL string
	Timeout time.Duration
}

type AuthConfig struct {
	JWTSecret string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// HideListConfig selects the key-value backend for per-user hidden
// conversation sets. Backend is "redis" or "sqlite".
type HideListConfig struct {
	Backend    string
	SQLitePath string
}

// LoadConfig loads configuration from environment variables.
// Defaults can be set here if needed.
func LoadConfig() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Remote: RemoteConfig{
			BaseURL: getEnv("MARKETPLACE_API_URL", "http://localhost:3000/api"),
			Timeout: getEnvAsDuration("MARKETPLACE_API_TIMEOUT", 15*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "dev-secret"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		HideList: HideListConfig{
			Backend:    getEnv("HIDELIST_BACKEND", "redis"),
			SQLitePath: getEnv("HIDELIST_SQLITE_PATH", "hidelist.db"),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
