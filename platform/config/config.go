// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
}

// TwilioConfig provides settings for the Twilio WhatsApp channel.
type TwilioConfig interface {
	GetTwilioAccountSID() string
	GetTwilioAuthToken() string
	GetTwilioWhatsAppFrom() string
	IsTwilioEnabled() bool
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketJobPhotos() string
	IsMinIOEnabled() bool
}

// BotConfig provides settings for the conversation engine.
type BotConfig interface {
	GetDefaultTZ() string
	GetLaborPerScreen() float64
	GetPlaceholderTTL() time.Duration
}

// WebhookConfig provides settings for inbound webhook handling.
type WebhookConfig interface {
	GetPublicBaseURL() string
	GetWebhookRatePerMinute() float64
	GetWebhookRateBurst() int
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                  string
	HTTPAddr             string
	DatabaseURL          string
	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioWhatsAppFrom   string
	DefaultTZ            string
	LaborPerScreen       float64
	PlaceholderTTL       time.Duration
	MinIOEndpoint        string
	MinIOAccessKey       string
	MinIOSecretKey       string
	MinIOUseSSL          bool
	MinioBucketJobPhotos string
	PublicBaseURL        string
	WebhookRatePerMinute float64
	WebhookRateBurst     int
}

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string { return c.HTTPAddr }

// TwilioConfig implementation
func (c *Config) GetTwilioAccountSID() string   { return c.TwilioAccountSID }
func (c *Config) GetTwilioAuthToken() string    { return c.TwilioAuthToken }
func (c *Config) GetTwilioWhatsAppFrom() string { return c.TwilioWhatsAppFrom }
func (c *Config) IsTwilioEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != ""
}

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string        { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string       { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string       { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool            { return c.MinIOUseSSL }
func (c *Config) GetMinioBucketJobPhotos() string { return c.MinioBucketJobPhotos }
func (c *Config) IsMinIOEnabled() bool            { return c.MinIOEndpoint != "" }

// BotConfig implementation
func (c *Config) GetDefaultTZ() string             { return c.DefaultTZ }
func (c *Config) GetLaborPerScreen() float64       { return c.LaborPerScreen }
func (c *Config) GetPlaceholderTTL() time.Duration { return c.PlaceholderTTL }

// WebhookConfig implementation
func (c *Config) GetPublicBaseURL() string         { return c.PublicBaseURL }
func (c *Config) GetWebhookRatePerMinute() float64 { return c.WebhookRatePerMinute }
func (c *Config) GetWebhookRateBurst() int         { return c.WebhookRateBurst }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:                  getEnv("APP_ENV", "development"),
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		TwilioAccountSID:     getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:      getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioWhatsAppFrom:   getEnv("TWILIO_WHATSAPP_NUMBER", ""),
		DefaultTZ:            getEnv("DEFAULT_TZ", "Asia/Dubai"),
		LaborPerScreen:       mustFloat(getEnv("LABOR_PER_SCREEN", "50")),
		PlaceholderTTL:       mustDuration(getEnv("TECH_PLACEHOLDER_TTL", "48h")),
		MinIOEndpoint:        getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:       getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:       getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:          strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinioBucketJobPhotos: getEnv("MINIO_BUCKET_JOB_PHOTOS", "job-photos"),
		PublicBaseURL:        getEnv("PUBLIC_BASE_URL", ""),
		WebhookRatePerMinute: mustFloat(getEnv("WEBHOOK_RATE_PER_MINUTE", "30")),
		WebhookRateBurst:     mustInt(getEnv("WEBHOOK_RATE_BURST", "10")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.TwilioAuthToken == "" {
		return nil, fmt.Errorf("TWILIO_AUTH_TOKEN is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func mustFloat(value string) float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}

func mustInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}
