package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreFile     = "file"
	StorePostgres = "postgres"
)

type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	Store     StoreConfig
	Auth      AuthConfig
	Metrics   MetricsConfig
	Inventory InventoryConfig
}

type ServerConfig struct {
	AppEnv            string
	Port              string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

type LoggerConfig struct {
	Level string
}

type StoreConfig struct {
	Driver      string
	Path        string
	PostgresURL string
}

type AuthConfig struct {
	JWTSecret            string
	OperatorUser         string
	OperatorPasswordHash string
	TokenTTL             time.Duration
}

// Enabled reports whether mutating routes require an operator token.
func (a AuthConfig) Enabled() bool {
	return a.OperatorPasswordHash != ""
}

type MetricsConfig struct {
	Enabled bool
	Token   string
}

type InventoryConfig struct {
	SortLocale string
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:            getEnv("APP_ENV", "production"),
			Port:              getEnv("PORT", "8080"),
			ReadHeaderTimeout: getEnvDuration("HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
			ShutdownTimeout:   getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Store: StoreConfig{
			Driver:      strings.ToLower(getEnv("STORE_DRIVER", StoreFile)),
			Path:        getEnv("INVENTORY_FILE", "data/inventory.json"),
			PostgresURL: getEnv("DATABASE_URL", ""),
		},
		Auth: AuthConfig{
			JWTSecret:            getEnv("JWT_SECRET", ""),
			OperatorUser:         getEnv("OPERATOR_USER", "admin"),
			OperatorPasswordHash: getEnv("OPERATOR_PASSWORD_HASH", ""),
			TokenTTL:             getEnvDuration("AUTH_TOKEN_TTL", 12*time.Hour),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Token:   getEnv("METRICS_TOKEN", ""),
		},
		Inventory: InventoryConfig{
			SortLocale: getEnv("SORT_LOCALE", "en"),
		},
	}
}

func (c *Config) Development() bool {
	return c.Server.AppEnv == "development" || c.Server.AppEnv == "dev"
}

func (c *Config) Addr() string {
	if strings.HasPrefix(c.Server.Port, ":") {
		return c.Server.Port
	}
	return ":" + c.Server.Port
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
