// Package config provides configuration management for the Beast Reader application.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultConfigPath = "config/config.yaml"
	envPrefix         = "BEAST_READER"
)

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return unmarshal(v)
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing config file is not an error: defaults and environment apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

// ReloadFromEnv reloads the configuration when BEAST_READER_CONFIG_PATH is set
func ReloadFromEnv(cfg *Config) error {
	if envPath := os.Getenv(envPrefix + "_CONFIG_PATH"); envPath != "" {
		newCfg, err := Load(envPath)
		if err != nil {
			return err
		}
		*cfg = *newCfg
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "beast-reader")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("session.max_plays", 200)
	v.SetDefault("session.default_tracks", []string{"New York Evening", "Venezuela"})
	v.SetDefault("session.timezone", "America/New_York")
	v.SetDefault("session.save_debounce_ms", 500)

	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.key", "beastReaderState")
	v.SetDefault("storage.file_path", "data/beastReaderState.json")
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.database.port", 5432)
	v.SetDefault("storage.database.ssl_mode", "disable")
	v.SetDefault("storage.database.max_connections", 4)

	v.SetDefault("ocr.enabled", false)
	v.SetDefault("ocr.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("ocr.model", "gemini-2.5-flash")
	v.SetDefault("ocr.timeout_seconds", 60)
	v.SetDefault("ocr.rate_limit", 1)
	v.SetDefault("ocr.max_retries", 0)
	v.SetDefault("ocr.cache_ttl_seconds", 3600)
	v.SetDefault("ocr.cache_max_size", 100)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("scheduler.cutoff_sweep_interval_seconds", 60)

	v.SetDefault("ticket.title", "Beast Reader Cricket")
	v.SetDefault("ticket.qr_size", 128)

	v.SetDefault("aws.secrets_enabled", false)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}
