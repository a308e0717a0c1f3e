package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Catalog sources understood by CatalogConfig.Source
const (
	CatalogSourcePostgres  = "postgres"
	CatalogSourceTypesense = "typesense"
	CatalogSourceMock      = "mock"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Typesense TypesenseConfig
	Catalog   CatalogConfig
	Search    SearchConfig
	Log       LogConfig
	OTEL      OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	// Pool sizing; the catalog is read in one query per cache miss, so a
	// small pool suffices.
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// TypesenseConfig holds Typesense configuration
type TypesenseConfig struct {
	URL    string
	APIKey string
}

// CatalogConfig selects where the product catalog is read from
type CatalogConfig struct {
	Source          string
	CacheTTLSeconds int
	// MockFallback serves the embedded catalog when the primary source fails.
	MockFallback bool
}

// SearchConfig holds per-session search limits
type SearchConfig struct {
	HistoryLimit      int
	SavedLimit        int
	SessionTTLSeconds int
	LocalCacheSize    int
}

// LogConfig holds logger configuration
type LogConfig struct {
	Env   string
	Level string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present; real environment wins.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "zora"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Typesense: TypesenseConfig{
			URL:    getEnv("TYPESENSE_URL", "http://localhost:8108"),
			APIKey: getEnv("TYPESENSE_API_KEY", "xyz"),
		},
		Catalog: CatalogConfig{
			Source:          strings.ToLower(getEnv("CATALOG_SOURCE", CatalogSourcePostgres)),
			CacheTTLSeconds: getEnvAsInt("CATALOG_CACHE_TTL_SECONDS", 60),
			MockFallback:    getEnvAsBool("CATALOG_MOCK_FALLBACK", true),
		},
		Search: SearchConfig{
			HistoryLimit:      getEnvAsInt("SEARCH_HISTORY_LIMIT", 50),
			SavedLimit:        getEnvAsInt("SEARCH_SAVED_LIMIT", 20),
			SessionTTLSeconds: getEnvAsInt("SEARCH_SESSION_TTL_SECONDS", 86400),
			LocalCacheSize:    getEnvAsInt("SEARCH_LOCAL_CACHE_SIZE", 4096),
		},
		Log: LogConfig{
			Env:   getEnv("APP_ENV", "development"),
			Level: getEnv("LOG_LEVEL", "info"),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "zora-search"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Catalog.Source {
	case CatalogSourcePostgres, CatalogSourceTypesense, CatalogSourceMock:
	default:
		return fmt.Errorf("invalid CATALOG_SOURCE %q (want postgres, typesense or mock)", c.Catalog.Source)
	}
	if c.Search.HistoryLimit <= 0 {
		return fmt.Errorf("SEARCH_HISTORY_LIMIT must be positive, got %d", c.Search.HistoryLimit)
	}
	if c.Search.SavedLimit <= 0 {
		return fmt.Errorf("SEARCH_SAVED_LIMIT must be positive, got %d", c.Search.SavedLimit)
	}
	return nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
