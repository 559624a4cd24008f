package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	OffersURL   string
	SourceMode  string
	ChromeBin   string
	Headless    bool
	PageTimeout time.Duration
	MaxRetries  int

	MaxConcurrency int
	RateLimitMs    int

	CatalogDriver    string
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	SQLitePath       string

	CSVOutputPath string

	AnthropicAPIKey   string
	AdvisoryModel     string
	AdvisoryMaxTokens int
	AdvisoryTimeout   time.Duration

	LogLevel string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		OffersURL:   getEnv("OFFERS_URL", "https://www.liquorland.com.au/offers"),
		SourceMode:  strings.ToLower(getEnv("SOURCE_MODE", "browser")),
		ChromeBin:   getEnv("CHROME_BIN", ""),
		Headless:    getEnvBool("HEADLESS", true),
		PageTimeout: getEnvDuration("PAGE_TIMEOUT", 60*time.Second),
		MaxRetries:  getEnvInt("MAX_RETRIES", 3),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 4),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 0),

		CatalogDriver:    strings.ToLower(getEnv("CATALOG_DRIVER", "sqlite")),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "catalog_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		SQLitePath:       getEnv("SQLITE_PATH", "./output/catalog.db"),

		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "./output/raw_items.csv"),

		AnthropicAPIKey:   getEnv("ANTHROPIC_API_KEY", ""),
		AdvisoryModel:     getEnv("ADVISORY_MODEL", "claude-sonnet-4-20250514"),
		AdvisoryMaxTokens: getEnvInt("ADVISORY_MAX_TOKENS", 4096),
		AdvisoryTimeout:   getEnvDuration("ADVISORY_TIMEOUT", 90*time.Second),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// AdvisoryEnabled reports whether an advisory collaborator can be constructed.
func (c *Config) AdvisoryEnabled() bool {
	return c.AnthropicAPIKey != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("45s") or plain seconds ("45").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if n, err := strconv.Atoi(val); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}
