// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Defines configuration structures for server, cache tiers, providers and curation policy

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Durable cache backends
const (
	CacheTypeMemory   = "memory"
	CacheTypeRedis    = "redis"
	CacheTypeSQLite   = "sqlite"
	CacheTypePostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig

	// Cache contains cache configuration
	Cache CacheConfig

	// Search contains search provider configuration
	Search SearchConfig

	// LLM contains text-generation provider configuration
	LLM LLMConfig

	// Curation contains link curation policy
	Curation CurationConfig

	// Translation contains answer translation settings
	Translation TranslationConfig

	// Analytics contains lookup event recording settings
	Analytics AnalyticsConfig

	// Directory contains the subject directory database settings
	Directory DirectoryConfig

	// LogLevel is the minimum log level (debug, info, warn, error)
	LogLevel string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string

	// AllowedOrigins lists CORS origins, "*" allows all
	AllowedOrigins []string

	// RateLimitPerMinute is the per-client request budget
	RateLimitPerMinute int

	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type selects the durable tier (memory/redis/sqlite/postgres).
	// memory runs the local tier only.
	Type string

	// Redis contains Redis-specific configuration
	Redis RedisConfig

	// SQLite contains SQLite-specific configuration
	SQLite SQLiteConfig

	// Memory contains in-memory cache configuration
	Memory MemoryConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	// Path is the database file
	Path string
}

// MemoryConfig holds in-memory cache configuration
type MemoryConfig struct {
	// CleanupInterval is how often expired local entries are purged
	CleanupInterval time.Duration
}

// SearchConfig holds search provider configuration
type SearchConfig struct {
	APIKey         string
	BaseURL        string
	MaxResults     int
	ExcludeDomains []string
	QuerySuffix    string
	Timeout        time.Duration
}

// LLMConfig holds text-generation provider configuration
type LLMConfig struct {
	APIKey string
	Model  string

	// Interval is the minimum spacing between provider calls
	Interval time.Duration

	// Timeout bounds a single generation call
	Timeout time.Duration
}

// CurationConfig holds link curation policy
type CurationConfig struct {
	BannedWords      []string
	MinInformational int
	MaxInformational int
}

// TranslationConfig holds answer translation settings
type TranslationConfig struct {
	// SourceLanguage is the language answers are produced in
	SourceLanguage string

	// Timeout bounds a whole translation lookup
	Timeout time.Duration
}

// AnalyticsConfig holds lookup event recording settings
type AnalyticsConfig struct {
	// SQLitePath is the event database file, empty disables recording
	SQLitePath string

	// RecordTimeout bounds a single event write
	RecordTimeout time.Duration
}

// DirectoryConfig holds the subject directory database settings
type DirectoryConfig struct {
	// DatabaseURL is the Postgres connection string, empty disables id lookups
	DatabaseURL string
}

// LoadDotEnv loads variables from .env files into the environment. Variables
// that are already set are not overridden.
func LoadDotEnv(paths ...string) error {
	return godotenv.Load(paths...)
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnvOrDefault("PORT", "8000"),
			AllowedOrigins:     getEnvAsListOrDefault("ALLOWED_ORIGINS", []string{"*"}),
			RateLimitPerMinute: getEnvAsIntOrDefault("RATE_LIMIT_PER_MINUTE", 60),
			ShutdownTimeout:    getEnvAsDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Cache: CacheConfig{
			Type: getEnvOrDefault("CACHE_TYPE", CacheTypeMemory),
			Redis: RedisConfig{
				Address:  getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
			},
			SQLite: SQLiteConfig{
				Path: getEnvOrDefault("SQLITE_PATH", "knowledge_cache.db"),
			},
			Memory: MemoryConfig{
				CleanupInterval: getEnvAsDurationOrDefault("MEMORY_CACHE_CLEANUP", 10*time.Minute),
			},
		},
		Search: SearchConfig{
			APIKey:     getEnvOrDefault("TAVILY_API_KEY", ""),
			BaseURL:    getEnvOrDefault("TAVILY_BASE_URL", "https://api.tavily.com"),
			MaxResults: getEnvAsIntOrDefault("SEARCH_MAX_RESULTS", 10),
			ExcludeDomains: getEnvAsListOrDefault("SEARCH_EXCLUDE_DOMAINS", []string{
				"tiktok.com", "reddit.com", "swissbeatbox.com", "onrender.com", "wikipedia.org", "swiki.jp",
			}),
			QuerySuffix: getEnvOrDefault("SEARCH_QUERY_SUFFIX", "beatbox"),
			Timeout:     getEnvAsDurationOrDefault("SEARCH_TIMEOUT", 15*time.Second),
		},
		LLM: LLMConfig{
			APIKey:   getEnvOrDefault("GEMINI_API_KEY", ""),
			Model:    getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash-lite"),
			Interval: getEnvAsDurationOrDefault("GEMINI_CALL_INTERVAL", 2*time.Second),
			Timeout:  getEnvAsDurationOrDefault("GEMINI_TIMEOUT", 20*time.Second),
		},
		Curation: CurationConfig{
			BannedWords:      getEnvAsListOrDefault("CURATION_BANNED_WORDS", []string{"HATEN", "BEATCITY", "JPN CUP", "WIKI", "/PLAYLIST"}),
			MinInformational: getEnvAsIntOrDefault("CURATION_MIN_LINKS", 3),
			MaxInformational: getEnvAsIntOrDefault("CURATION_MAX_LINKS", 5),
		},
		Translation: TranslationConfig{
			SourceLanguage: getEnvOrDefault("TRANSLATION_SOURCE_LANGUAGE", "en"),
			Timeout:        getEnvAsDurationOrDefault("TRANSLATION_TIMEOUT", 30*time.Second),
		},
		Analytics: AnalyticsConfig{
			SQLitePath:    getEnvOrDefault("ANALYTICS_SQLITE_PATH", ""),
			RecordTimeout: getEnvAsDurationOrDefault("ANALYTICS_RECORD_TIMEOUT", 5*time.Second),
		},
		Directory: DirectoryConfig{
			DatabaseURL: getEnvOrDefault("DATABASE_URL", ""),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDurationOrDefault accepts Go duration strings or whole seconds
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}

// getEnvAsListOrDefault splits a comma-separated variable
func getEnvAsListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	if c.Server.RateLimitPerMinute < 1 {
		return errors.New("rate limit must allow at least 1 request per minute")
	}

	switch c.Cache.Type {
	case CacheTypeMemory:
	case CacheTypeRedis:
		if c.Cache.Redis.Address == "" {
			return errors.New("redis address cannot be empty when using redis cache")
		}
	case CacheTypeSQLite:
		if c.Cache.SQLite.Path == "" {
			return errors.New("sqlite path cannot be empty when using sqlite cache")
		}
	case CacheTypePostgres:
		if c.Directory.DatabaseURL == "" {
			return errors.New("database url cannot be empty when using postgres cache")
		}
	default:
		return fmt.Errorf("cache type must be one of memory, redis, sqlite, postgres, got %q", c.Cache.Type)
	}

	if c.Search.APIKey == "" {
		return errors.New("search API key cannot be empty")
	}

	if c.Search.MaxResults < 1 {
		return errors.New("search max results must be at least 1")
	}

	if c.LLM.Interval < 0 {
		return errors.New("llm call interval cannot be negative")
	}

	if c.Curation.MinInformational < 0 {
		return errors.New("minimum link count cannot be negative")
	}

	if c.Curation.MaxInformational != 0 && c.Curation.MaxInformational < c.Curation.MinInformational {
		return errors.New("maximum link count must be 0 (no cap) or at least the minimum")
	}

	return nil
}
