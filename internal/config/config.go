package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Vote     VoteConfig
	Cache    CacheConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	BoardLogFilePath   string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	OtelEnabled        bool
}

type DatabaseConfig struct {
	Connection string
	// "postgres" or "memory"
	StoreDriver string
}

type AuthConfig struct {
	JWTSecret string
}

type VoteConfig struct {
	// "local" (in-process) or "redis" (shared across instances)
	LockDriver     string
	LockTTL        time.Duration
	ReconcileTopic string
}

type CacheConfig struct {
	ProductTTL time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			BoardLogFilePath:   getEnv("BOARD_LOG_FILE_PATH", "logs/board.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Database: DatabaseConfig{
			Connection:  getEnv("DB_CONNECTION_STRING", ""),
			StoreDriver: getEnv("STORE_DRIVER", "postgres"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "change-me"),
		},
		Vote: VoteConfig{
			LockDriver:     getEnv("VOTE_LOCK_DRIVER", "local"),
			LockTTL:        getEnvAsDuration("VOTE_LOCK_TTL", 5*time.Second),
			ReconcileTopic: getEnv("VOTE_RECONCILE_TOPIC", "VOTE_RECONCILE"),
		},
		Cache: CacheConfig{
			ProductTTL: getEnvAsDuration("PRODUCT_CACHE_TTL", 5*time.Minute),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("750ms") or plain seconds ("5").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	if secs := getEnvAsInt(key, -1); secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
