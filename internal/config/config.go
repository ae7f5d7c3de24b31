// Package config provides configuration management for the Beast Reader application.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Session   SessionConfig   `mapstructure:"session" validate:"required"`
	Storage   StorageConfig   `mapstructure:"storage" validate:"required"`
	OCR       OCRConfig       `mapstructure:"ocr"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Ticket    TicketConfig    `mapstructure:"ticket" validate:"required"`
	AWS       AWSConfig       `mapstructure:"aws"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// SessionConfig represents ticket entry limits and defaults
type SessionConfig struct {
	MaxPlays       int      `mapstructure:"max_plays" validate:"required,gt=0,lte=1000"`
	DefaultTracks  []string `mapstructure:"default_tracks" validate:"required,min=1,dive,required"`
	Timezone       string   `mapstructure:"timezone" validate:"required,timezone"`
	SaveDebounceMs int      `mapstructure:"save_debounce_ms" validate:"gte=0"`
}

// StorageConfig represents where the session state is persisted
type StorageConfig struct {
	Backend  string         `mapstructure:"backend" validate:"required,storagebackend"`
	Key      string         `mapstructure:"key" validate:"required"`
	FilePath string         `mapstructure:"file_path"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Database DatabaseConfig `mapstructure:"database"`
}

// RedisConfig represents redis connection configuration
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"gte=0"`
}

// OCRConfig represents the ticket image interpretation service
type OCRConfig struct {
	Enabled         bool    `mapstructure:"enabled"`
	BaseURL         string  `mapstructure:"base_url" validate:"omitempty,url"`
	Model           string  `mapstructure:"model"`
	APIKey          string  `mapstructure:"api_key"`
	TimeoutSeconds  int     `mapstructure:"timeout_seconds" validate:"gte=0"`
	RateLimit       float64 `mapstructure:"rate_limit" validate:"gte=0"`
	MaxRetries      int     `mapstructure:"max_retries" validate:"gte=0"`
	CacheTTLSeconds int     `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
	CacheMaxSize    int     `mapstructure:"cache_max_size" validate:"gte=0"`
}

// ServerConfig represents the HTTP API listener
type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

// SchedulerConfig represents background jobs
type SchedulerConfig struct {
	CutoffSweepIntervalSeconds int `mapstructure:"cutoff_sweep_interval_seconds" validate:"gte=0"`
}

// TicketConfig represents receipt rendering options
type TicketConfig struct {
	Title  string `mapstructure:"title" validate:"required"`
	QRSize int    `mapstructure:"qr_size" validate:"required,gte=64,lte=1024"`
}

// AWSConfig represents the optional secrets overlay
type AWSConfig struct {
	SecretsEnabled bool   `mapstructure:"secrets_enabled"`
	Region         string `mapstructure:"region" validate:"required_if=SecretsEnabled true"`
	SecretName     string `mapstructure:"secret_name" validate:"required_if=SecretsEnabled true"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Location returns the session timezone, falling back to local time
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Session.Timezone)
	if err != nil || c.Session.Timezone == "" {
		return time.Local
	}
	return loc
}

// SaveDebounce returns the delay between a change and its persistence
func (c *Config) SaveDebounce() time.Duration {
	return time.Duration(c.Session.SaveDebounceMs) * time.Millisecond
}

// Timeout returns the per-request OCR deadline
func (c *OCRConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ListenAddr returns the HTTP listen address
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	db := c.Storage.Database
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
		db.SSLMode,
	)
}
