// Package config provides configuration management for the Beast Reader application.
package config

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

// Storage backends
const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("storagebackend", validateStorageBackend)
	_ = v.RegisterValidation("timezone", validateTimezone)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	if err := cv.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func validateStorageBackend(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case BackendFile, BackendRedis, BackendPostgres:
		return true
	default:
		return false
	}
}

func validateTimezone(fl validator.FieldLevel) bool {
	_, err := time.LoadLocation(fl.Field().String())
	return err == nil
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	switch cfg.Storage.Backend {
	case BackendFile:
		if cfg.Storage.FilePath == "" {
			return fmt.Errorf("storage.file_path is required for the file backend")
		}
	case BackendRedis:
		if cfg.Storage.Redis.Addr == "" {
			return fmt.Errorf("storage.redis.addr is required for the redis backend")
		}
	case BackendPostgres:
		db := cfg.Storage.Database
		if db.Host == "" || db.Name == "" || db.User == "" {
			return fmt.Errorf("storage.database host, name and user are required for the postgres backend")
		}
	}

	if cfg.OCR.Enabled && (cfg.OCR.BaseURL == "" || cfg.OCR.Model == "") {
		return fmt.Errorf("ocr.base_url and ocr.model are required when OCR is enabled")
	}

	if cfg.IsProduction() {
		if cfg.OCR.Enabled && cfg.OCR.APIKey == "" && !cfg.AWS.SecretsEnabled {
			return fmt.Errorf("production environment requires an OCR API key when OCR is enabled")
		}
		if cfg.Storage.Backend == BackendPostgres && cfg.Storage.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
		}
	}

	if cfg.OCR.MaxRetries > 0 {
		return fmt.Errorf("ocr.max_retries must be 0: image interpretation is never retried automatically")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required", "required_if":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "storagebackend":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: file, redis, postgres\n", field)
		case "timezone":
			errMsg += fmt.Sprintf("- Field '%s' must be an IANA time zone, got '%v'\n", field, value)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}

// ValidateEnvironment validates environment-specific requirements
func ValidateEnvironment(cfg *Config) error {
	if cfg.IsProduction() {
		if isTestCredential(cfg.OCR.APIKey) {
			return fmt.Errorf("production environment should not use a test OCR API key")
		}
		if cfg.App.LogLevel == "debug" {
			return fmt.Errorf("debug logging should be disabled in production")
		}
	}
	return nil
}

var testCredentialPattern = regexp.MustCompile(`(?i)test|demo|example|placeholder|YOUR_`)

// isTestCredential checks if a credential looks like a test credential
func isTestCredential(credential string) bool {
	return testCredentialPattern.MatchString(credential)
}
