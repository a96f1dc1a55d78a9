package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the whole application configuration.
// Populated from environment variables.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Review   ReviewConfig
	Notify   NotifyConfig
	Jobs     JobConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

// ReviewConfig holds the review engine windows.
// AvailabilityDelay: reviews are not actionable until this long after tour
// completion. ExpiryWindow: how long after availability a draft stays open.
type ReviewConfig struct {
	AvailabilityDelay time.Duration
	ExpiryWindow      time.Duration
	StatsCacheTTL     time.Duration
}

// NotifyConfig points at the external notification dispatch collaborator.
type NotifyConfig struct {
	WebhookURL string
	Timeout    time.Duration
}

// JobConfig configures the scheduled worker jobs.
type JobConfig struct {
	ExpireSweepCron string
}

// Load reads config from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "TrailGuide API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "trailguide"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "trailguide_dev"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		},
		Review: ReviewConfig{
			AvailabilityDelay: getEnvDuration("REVIEW_AVAILABILITY_DELAY", 24*time.Hour),
			ExpiryWindow:      getEnvDuration("REVIEW_EXPIRY_WINDOW", 30*24*time.Hour),
			StatsCacheTTL:     getEnvDuration("REVIEW_STATS_CACHE_TTL", 10*time.Minute),
		},
		Notify: NotifyConfig{
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
			Timeout:    getEnvDuration("NOTIFY_TIMEOUT", 5*time.Second),
		},
		Jobs: JobConfig{
			ExpireSweepCron: getEnv("JOB_EXPIRE_SWEEP_CRON", "0 * * * *"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that the config is usable
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.Notify.WebhookURL == "" {
			fmt.Println("WARNING: NOTIFY_WEBHOOK_URL not set - publish notifications will be dropped")
		}
	}

	if c.Review.AvailabilityDelay < 0 || c.Review.ExpiryWindow <= 0 {
		return fmt.Errorf("review windows must be positive")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
