package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported store drivers
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Default store locations when STORE_PATH is unset
const (
	DefaultFileStorePath   = "./data"
	DefaultSQLiteStorePath = "./data/hotel.db"
)

// Supported password modes
const (
	PasswordPlain  = "plain"
	PasswordBcrypt = "bcrypt"
)

// Config holds application configuration
type Config struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"env"`

	// Store configuration
	StoreDriver    string `yaml:"store_driver"`
	StorePath      string `yaml:"store_path"`
	StoreNamespace string `yaml:"store_namespace"`
	DatabaseURL    string `yaml:"database_url"`
	RedisURL       string `yaml:"redis_url"`

	// Session and credentials
	SessionSecret string        `yaml:"session_secret"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	PasswordMode  string        `yaml:"password_mode"`

	// Booking re-checks overlap under the store lock before persisting
	StrictBooking bool `yaml:"strict_booking"`

	AllowedOrigins string `yaml:"allowed_origins"`
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"`

	// Requests per minute per client IP; zero disables limiting
	RateLimit int `yaml:"rate_limit"`
}

// Defaults returns the built-in configuration
func Defaults() *Config {
	return &Config{
		Port:           "8080",
		Environment:    "development",
		StoreDriver:    DriverFile,
		StoreNamespace: "hotel_",
		SessionTTL:     24 * time.Hour,
		PasswordMode:   PasswordPlain,
		StrictBooking:  true,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// New creates a new configuration instance from environment variables,
// layered over CONFIG_FILE when one is set.
func New() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Environment = getEnv("ENV", cfg.Environment)
	cfg.StoreDriver = getEnv("STORE_DRIVER", cfg.StoreDriver)
	cfg.StorePath = getEnv("STORE_PATH", cfg.StorePath)
	cfg.StoreNamespace = getEnv("STORE_NAMESPACE", cfg.StoreNamespace)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.SessionSecret = getEnv("SESSION_SECRET", cfg.SessionSecret)
	cfg.SessionTTL = getEnvAsDuration("SESSION_TTL", cfg.SessionTTL)
	cfg.PasswordMode = getEnv("PASSWORD_MODE", cfg.PasswordMode)
	cfg.StrictBooking = getEnvAsBool("STRICT_BOOKING", cfg.StrictBooking)
	cfg.AllowedOrigins = getEnv("ALLOWED_ORIGINS", cfg.AllowedOrigins)
	cfg.RateLimit = getEnvAsInt("RATE_LIMIT", cfg.RateLimit)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)

	if cfg.SessionSecret == "" && cfg.IsDevelopment() {
		cfg.SessionSecret = "dev-session-secret"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks the configuration for unsupported values
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMemory, DriverFile, DriverSQLite:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	case DriverRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis store")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}

	if c.PasswordMode != PasswordPlain && c.PasswordMode != PasswordBcrypt {
		return fmt.Errorf("unknown password mode %q", c.PasswordMode)
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required outside development")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("RATE_LIMIT cannot be negative")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

// StoreLocation returns STORE_PATH, or the driver's default when unset.
// The file driver wants a directory and sqlite wants a database file, so
// the two defaults never point at the same path.
func (c *Config) StoreLocation() string {
	if c.StorePath != "" {
		return c.StorePath
	}
	switch c.StoreDriver {
	case DriverSQLite:
		return DefaultSQLiteStorePath
	case DriverFile:
		return DefaultFileStorePath
	}
	return ""
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GetAllowedOrigins returns a slice of allowed CORS origins
func (c *Config) GetAllowedOrigins() []string {
	if c.AllowedOrigins == "" {
		return nil
	}
	origins := strings.Split(c.AllowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return origins
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
