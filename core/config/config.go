package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/kumarshubhh/Yuvamanthan/core/db"
)

type Config struct {
	OTel         OTelConfig
	ArangoDB     ArangoDBConfig
	Activity     ActivityConfig
	Auth         AuthConfig
	StoreBackend StoreBackend
	Env          string
	Port         string
	NodeID       int64
	DB           db.Config
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
}

type ArangoDBConfig struct {
	URL      string
	Username string
	Password string
	Database string
}

// ActivityConfig points at the Redis stream that receives activity events.
type ActivityConfig struct {
	RedisURL string
	Stream   string
}

type AuthConfig struct {
	JWTSecret string
	JWTIssuer string
}

type StoreBackend string

const (
	StoreBackendArangoDB StoreBackend = "arangodb"
	StoreBackendMemory   StoreBackend = "memory"
)

// Load loads configuration from environment variables.
// In development it first loads .env.server, falling back to .env.
func Load() (Config, error) {
	if getEnv("YUVA_ENV", "development") == "development" {
		if err := godotenv.Load(".env.server"); err != nil {
			_ = godotenv.Load(".env")
		}
	}

	cfg := Config{
		Env:          getEnv("YUVA_ENV", "development"),
		Port:         getEnv("PORT", "5000"),
		NodeID:       int64(getEnvInt("SNOWFLAKE_NODE_ID", 1)),
		StoreBackend: StoreBackend(getEnv("STORE_BACKEND", string(StoreBackendArangoDB))),
		DB: db.Config{
			DSN:      getEnv("DATABASE_URL", ""),
			MaxConns: getEnvInt32("DB_MAX_CONNS", 10),
			MinConns: getEnvInt32("DB_MIN_CONNS", 2),
		},
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "yuvamanthan-api"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
		},
		ArangoDB: ArangoDBConfig{
			URL:      getEnv("ARANGO_URL", ""),
			Username: getEnv("ARANGO_USERNAME", ""),
			Password: getEnv("ARANGO_PASSWORD", ""),
			Database: getEnv("ARANGO_DATABASE", "yuvamanthan"),
		},
		Activity: ActivityConfig{
			RedisURL: getEnv("REDIS_URL", ""),
			Stream:   getEnv("ACTIVITY_STREAM", "yuvamanthan_activity"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			JWTIssuer: getEnv("JWT_ISSUER", ""),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	switch cfg.StoreBackend {
	case StoreBackendArangoDB:
		if !cfg.ArangoDB.Enabled() {
			return Config{}, fmt.Errorf("ARANGO_URL, ARANGO_USERNAME and ARANGO_DATABASE are required when STORE_BACKEND=arangodb")
		}
	case StoreBackendMemory:
	default:
		return Config{}, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

func (c ArangoDBConfig) Enabled() bool {
	return c.URL != "" && c.Username != "" && c.Database != ""
}

func (c ActivityConfig) Enabled() bool {
	return c.RedisURL != ""
}

// UserDirectoryEnabled reports whether author profiles are read from Postgres.
func (c Config) UserDirectoryEnabled() bool {
	return c.DB.DSN != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt32(key string, fallback int32) int32 {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(i)
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}
