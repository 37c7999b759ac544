package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	dbtypes "github.com/nitesh/news_api/internal/db"
)

type Config struct {
	Port              string
	DBDriver          dbtypes.Dialect
	DatabaseURL       string
	DBConnectAttempts int
	RedisAddr         string
	EventsChannel     string
	LogLevel          string
	LogFormat         string
	GinMode           string
	ShutdownTimeout   time.Duration
}

// Load reads configuration from the environment. Values in a .env file in
// the working directory fill in anything the environment leaves unset.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	driver, err := dbtypes.ParseDialect(os.Getenv("DB_DRIVER"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:              envOrDefault("PORT", "8080"),
		DBDriver:          driver,
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DBConnectAttempts: envInt("DB_CONNECT_ATTEMPTS", 10),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		EventsChannel:     envOrDefault("EVENTS_CHANNEL", "news-api:events"),
		LogLevel:          envOrDefault("LOG_LEVEL", "info"),
		LogFormat:         envOrDefault("LOG_FORMAT", "json"),
		GinMode:           envOrDefault("GIN_MODE", "release"),
		ShutdownTimeout:   envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if cfg.DatabaseURL == "" {
		switch driver {
		case dbtypes.SQLite:
			cfg.DatabaseURL = envOrDefault("DB_NAME", "news.db")
		default:
			cfg.DatabaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
				envOrDefault("DB_USER", "news_user"),
				envOrDefault("DB_PASS", "news_pass"),
				envOrDefault("DB_HOST", "localhost"),
				envOrDefault("DB_PORT", "5432"),
				envOrDefault("DB_NAME", "nc_news"),
			)
		}
	}

	return cfg, nil
}

func envOrDefault(key, d string) string {
	v := os.Getenv(key)
	if v == "" {
		return d
	}
	return v
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
