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

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetTrustedProxies() []string
}

// UpstreamConfig provides settings for the external site backend (CAPTCHA
// verification and email dispatch endpoints live under the same base URL).
type UpstreamConfig interface {
	GetAPIBaseURL() string
	GetHTTPClientTimeout() time.Duration
}

// CaptchaConfig provides settings for the proof-of-humanity step.
type CaptchaConfig interface {
	UpstreamConfig
	GetCaptchaAction() string
	GetCaptchaAcquireTimeout() time.Duration
	GetCaptchaMinScore() float64
}

// EmailConfig provides settings for quote email dispatch.
type EmailConfig interface {
	UpstreamConfig
	GetEmailEnabled() bool
	GetEmailRecipient() string
}

// ContactConfig provides the fallback contact channel shown on failures.
type ContactConfig interface {
	GetContactWhatsApp() string
	GetContactPhoneRegion() string
}

// QuoteConfig combines everything the quotes module needs.
type QuoteConfig interface {
	CaptchaConfig
	EmailConfig
	ContactConfig
	GetQuoteRatePerMinute() int
}

// WhatsAppConfig provides settings for operator alerts through a WhatsApp gateway.
type WhatsAppConfig interface {
	GetWhatsAppURL() string
	GetWhatsAppKey() string
	GetWhatsAppDeviceID() string
	GetWhatsAppOperatorPhone() string
	GetContactPhoneRegion() string
}

// GalleryConfig provides settings for the project gallery data source.
type GalleryConfig interface {
	UpstreamConfig
	GetProjectsFile() string
	GetProjectsURL() string
	GetRedisURL() string
	GetGalleryCacheTTL() time.Duration
}

// StorageConfig provides settings for MinIO S3-compatible storage of project images.
type StorageConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketProjectImages() string
	IsMinIOEnabled() bool
}

// StatsConfig provides settings for the site statistics.
type StatsConfig interface {
	GetStatsFile() string
}

// AdminConfig provides the shared key guarding operator endpoints.
type AdminConfig interface {
	GetAdminAPIKey() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                      string
	HTTPAddr                 string
	CORSAllowAll             bool
	CORSOrigins              []string
	TrustedProxies           []string
	APIBaseURL               string
	HTTPClientTimeout        time.Duration
	CaptchaAction            string
	CaptchaAcquireTimeout    time.Duration
	CaptchaMinScore          float64
	EmailEnabled             bool
	EmailRecipient           string
	ContactWhatsApp          string
	ContactPhoneRegion       string
	QuoteRatePerMinute       int
	ProjectsFile             string
	ProjectsURL              string
	RedisURL                 string
	GalleryCacheTTL          time.Duration
	MinIOEndpoint            string
	MinIOAccessKey           string
	MinIOSecretKey           string
	MinIOUseSSL              bool
	MinioBucketProjectImages string
	StatsFile                string
	AdminAPIKey              string
	WhatsAppURL              string
	WhatsAppKey              string
	WhatsAppDeviceID         string
	WhatsAppOperatorPhone    string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

// GetTrustedProxies lists the proxies whose forwarding headers are honoured
// when resolving the client IP. Empty means the socket address is used.
func (c *Config) GetTrustedProxies() []string { return c.TrustedProxies }

// UpstreamConfig implementation
func (c *Config) GetAPIBaseURL() string               { return c.APIBaseURL }
func (c *Config) GetHTTPClientTimeout() time.Duration { return c.HTTPClientTimeout }

// CaptchaConfig implementation
func (c *Config) GetCaptchaAction() string                { return c.CaptchaAction }
func (c *Config) GetCaptchaAcquireTimeout() time.Duration { return c.CaptchaAcquireTimeout }
func (c *Config) GetCaptchaMinScore() float64             { return c.CaptchaMinScore }

// EmailConfig implementation
func (c *Config) GetEmailEnabled() bool     { return c.EmailEnabled }
func (c *Config) GetEmailRecipient() string { return c.EmailRecipient }

// ContactConfig implementation
func (c *Config) GetContactWhatsApp() string    { return c.ContactWhatsApp }
func (c *Config) GetContactPhoneRegion() string { return c.ContactPhoneRegion }

// WhatsAppConfig implementation
func (c *Config) GetWhatsAppURL() string           { return c.WhatsAppURL }
func (c *Config) GetWhatsAppKey() string           { return c.WhatsAppKey }
func (c *Config) GetWhatsAppDeviceID() string      { return c.WhatsAppDeviceID }
func (c *Config) GetWhatsAppOperatorPhone() string { return c.WhatsAppOperatorPhone }

// QuoteConfig implementation
func (c *Config) GetQuoteRatePerMinute() int { return c.QuoteRatePerMinute }

// GalleryConfig implementation
func (c *Config) GetProjectsFile() string           { return c.ProjectsFile }
func (c *Config) GetProjectsURL() string            { return c.ProjectsURL }
func (c *Config) GetRedisURL() string               { return c.RedisURL }
func (c *Config) GetGalleryCacheTTL() time.Duration { return c.GalleryCacheTTL }

// StorageConfig implementation
func (c *Config) GetMinIOEndpoint() string            { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string           { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string           { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool                { return c.MinIOUseSSL }
func (c *Config) GetMinioBucketProjectImages() string { return c.MinioBucketProjectImages }
func (c *Config) IsMinIOEnabled() bool                { return c.MinIOEndpoint != "" }

// StatsConfig implementation
func (c *Config) GetStatsFile() string { return c.StatsFile }

// AdminConfig implementation
func (c *Config) GetAdminAPIKey() string { return c.AdminAPIKey }

// Load reads configuration from environment variables (and a .env file when present).
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                      getEnv("APP_ENV", "development"),
		HTTPAddr:                 getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:             corsAllowAll,
		CORSOrigins:              corsOrigins,
		TrustedProxies:           splitCSV(getEnv("TRUSTED_PROXIES", "")),
		APIBaseURL:               strings.TrimRight(getEnv("API_BASE_URL", ""), "/"),
		HTTPClientTimeout:        mustDuration(getEnv("HTTP_CLIENT_TIMEOUT", "15s")),
		CaptchaAction:            getEnv("CAPTCHA_ACTION", "contact"),
		CaptchaAcquireTimeout:    mustDuration(getEnv("CAPTCHA_ACQUIRE_TIMEOUT", "20s")),
		CaptchaMinScore:          mustFloat(getEnv("CAPTCHA_MIN_SCORE", "0")),
		EmailEnabled:             strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true"),
		EmailRecipient:           getEnv("EMAIL_RECIPIENT", ""),
		ContactWhatsApp:          getEnv("CONTACT_WHATSAPP", ""),
		ContactPhoneRegion:       getEnv("CONTACT_PHONE_REGION", "CO"),
		QuoteRatePerMinute:       int(mustInt64(getEnv("QUOTE_RATE_PER_MINUTE", "6"))),
		ProjectsFile:             getEnv("PROJECTS_FILE", "assets/data/proyectos.json"),
		ProjectsURL:              getEnv("PROJECTS_URL", ""),
		RedisURL:                 getEnv("REDIS_URL", ""),
		GalleryCacheTTL:          mustDuration(getEnv("GALLERY_CACHE_TTL", "1h")),
		MinIOEndpoint:            getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:           getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:           getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:              strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinioBucketProjectImages: getEnv("MINIO_BUCKET_PROJECT_IMAGES", "project-images"),
		StatsFile:                getEnv("STATS_FILE", ""),
		AdminAPIKey:              getEnv("ADMIN_API_KEY", ""),
		WhatsAppURL:              getEnv("WHATSAPP_URL", ""),
		WhatsAppKey:              getEnv("WHATSAPP_KEY", ""),
		WhatsAppDeviceID:         getEnv("WHATSAPP_DEVICE_ID", ""),
		WhatsAppOperatorPhone:    getEnv("WHATSAPP_OPERATOR_PHONE", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field requirements.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if c.EmailEnabled && c.EmailRecipient == "" {
		return fmt.Errorf("EMAIL_RECIPIENT is required when EMAIL_ENABLED is true")
	}
	if c.CaptchaAcquireTimeout <= 0 {
		return fmt.Errorf("CAPTCHA_ACQUIRE_TIMEOUT must be a positive duration")
	}
	if c.HTTPClientTimeout <= 0 {
		return fmt.Errorf("HTTP_CLIENT_TIMEOUT must be a positive duration")
	}
	if c.CaptchaMinScore < 0 || c.CaptchaMinScore > 1 {
		return fmt.Errorf("CAPTCHA_MIN_SCORE must be between 0 and 1")
	}
	if c.QuoteRatePerMinute <= 0 {
		return fmt.Errorf("QUOTE_RATE_PER_MINUTE must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return -1
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
