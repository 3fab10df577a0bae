package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	JWT struct {
		Secret          string `yaml:"secret" env:"JWT_SECRET"`
		TokenExpiration string `yaml:"token_expiration" env:"JWT_TOKEN_EXPIRATION"`
		Issuer          string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Feed struct {
		DefaultPageSize int `yaml:"default_page_size" env:"FEED_DEFAULT_PAGE_SIZE"`
		MaxPageSize     int `yaml:"max_page_size" env:"FEED_MAX_PAGE_SIZE"`
		MaxContentLen   int `yaml:"max_content_len" env:"FEED_MAX_CONTENT_LEN"`
	} `yaml:"feed"`

	Reconciler struct {
		Enabled  bool   `yaml:"enabled" env:"RECONCILER_ENABLED"`
		Interval string `yaml:"interval" env:"RECONCILER_INTERVAL"`
	} `yaml:"reconciler"`

	Notifications struct {
		WebhookURL string `yaml:"webhook_url" env:"NOTIFY_WEBHOOK_URL"`
		Timeout    string `yaml:"timeout" env:"NOTIFY_TIMEOUT"`
	} `yaml:"notifications"`

	Cache struct {
		ProfileSize int    `yaml:"profile_size" env:"CACHE_PROFILE_SIZE"`
		ProfileTTL  string `yaml:"profile_ttl" env:"CACHE_PROFILE_TTL"`
	} `yaml:"cache"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// Try to read config file if it exists
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		err = yaml.Unmarshal(file, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	// Database defaults
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "choyxona"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	// JWT defaults
	config.JWT.TokenExpiration = "24h"
	config.JWT.Issuer = "talabahamkor.uz"

	// Feed defaults
	config.Feed.DefaultPageSize = 20
	config.Feed.MaxPageSize = 100
	config.Feed.MaxContentLen = 4000

	// Reconciler defaults
	config.Reconciler.Enabled = true
	config.Reconciler.Interval = "10m"

	// Notification defaults (empty webhook URL disables delivery)
	config.Notifications.Timeout = "5s"

	// Cache defaults
	config.Cache.ProfileSize = 2048
	config.Cache.ProfileTTL = "5m"

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.TokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT token expiration format: %w", err)
	}

	if _, err := time.ParseDuration(config.Reconciler.Interval); err != nil {
		return fmt.Errorf("invalid reconciler interval format: %w", err)
	}

	if config.Feed.DefaultPageSize < 1 || config.Feed.DefaultPageSize > config.Feed.MaxPageSize {
		return fmt.Errorf("feed default page size must be between 1 and max page size")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// ParseDurationOr parses a duration string, falling back to a default.
func ParseDurationOr(value string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return fallback
}
