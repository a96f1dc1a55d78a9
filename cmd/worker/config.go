package main

import (
	"log"
	"os"
	"time"
)

// Config holds the worker's own configuration
type Config struct {
	RedisAddr      string
	WebhookURL     string
	WebhookTimeout time.Duration
}

// loadConfig loads configuration from environment variables
func loadConfig() *Config {
	cfg := &Config{
		RedisAddr:      getEnvVariable("REDIS_HOST", "localhost:6379"),
		WebhookURL:     getEnvVariable("NOTIFY_WEBHOOK_URL", ""),
		WebhookTimeout: 5 * time.Second,
	}

	if timeout, err := time.ParseDuration(getEnvVariable("NOTIFY_TIMEOUT", "5s")); err == nil {
		cfg.WebhookTimeout = timeout
	}

	log.Printf("[Config] Redis: %s, Webhook configured: %t",
		cfg.RedisAddr, cfg.WebhookURL != "")

	return cfg
}

func getEnvVariable(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
