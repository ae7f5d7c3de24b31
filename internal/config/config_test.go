// Package config provides configuration management for the Beast Reader application.
package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

const (
	validConfigPath              = "testdata/valid_config.yaml"
	expansionConfigPath          = "testdata/expansion_config.yaml"
	nonexistentConfigPath        = "testdata/nonexistent_config.yaml"
	expectedNoErrorLoadingConfig = "expected no error loading config, got %v"
	expectedNoErrorMsg           = "expected no error, got %v"
	expectedNonNilConfig         = "expected non-nil config"
	beastReaderName              = "beast-reader"
	developmentEnv               = "development"
	invalidEnv                   = "invalid"
	testAppName                  = "test-app"
	testDBPassword               = "TEST_DB_PASSWORD"
	expandedSecretValue          = "expanded_secret_value"
	postgresPrefix               = "postgres://"
)

func loadValid(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}
	return cfg
}

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg == nil {
		t.Fatal(expectedNonNilConfig)
	}

	if cfg.App.Name != beastReaderName {
		t.Errorf("expected app name '%s', got '%s'", beastReaderName, cfg.App.Name)
	}
	if cfg.App.Environment != developmentEnv {
		t.Errorf("expected environment '%s', got '%s'", developmentEnv, cfg.App.Environment)
	}
	if cfg.Session.MaxPlays != 200 {
		t.Errorf("expected max plays 200, got %d", cfg.Session.MaxPlays)
	}
	if len(cfg.Session.DefaultTracks) != 2 || cfg.Session.DefaultTracks[1] != "Venezuela" {
		t.Errorf("unexpected default tracks %v", cfg.Session.DefaultTracks)
	}
	if cfg.Storage.Key != "beastReaderState" {
		t.Errorf("expected storage key 'beastReaderState', got '%s'", cfg.Storage.Key)
	}
	if cfg.SaveDebounce() != 500*time.Millisecond {
		t.Errorf("expected 500ms debounce, got %s", cfg.SaveDebounce())
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	if _, err := Load(nonexistentConfigPath); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadWithDefaultsMissingFile tests that defaults apply without a config file
func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.Session.MaxPlays != 200 {
		t.Errorf("expected default max plays 200, got %d", cfg.Session.MaxPlays)
	}
	if cfg.Storage.Backend != BackendFile {
		t.Errorf("expected default backend '%s', got '%s'", BackendFile, cfg.Storage.Backend)
	}
	if cfg.OCR.Model != "gemini-2.5-flash" {
		t.Errorf("expected default OCR model, got '%s'", cfg.OCR.Model)
	}
	if cfg.Ticket.Title != "Beast Reader Cricket" {
		t.Errorf("expected default ticket title, got '%s'", cfg.Ticket.Title)
	}

	if err := Validate(cfg); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	t.Setenv("BEAST_READER_APP_NAME", testAppName)

	cfg := loadValid(t)
	if cfg.App.Name != testAppName {
		t.Errorf("expected app name '%s' from environment, got '%s'", testAppName, cfg.App.Name)
	}
}

// TestLoadConfigEnvironmentVariableExpansion tests ${VAR} expansion in the config file
func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	t.Setenv(testDBPassword, expandedSecretValue)

	cfg, err := Load(expansionConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config with expansion, got %v", err)
	}

	if cfg.Storage.Database.Password != expandedSecretValue {
		t.Errorf("expected password '%s' from environment expansion, got '%s'", expandedSecretValue, cfg.Storage.Database.Password)
	}
	if !strings.HasPrefix(cfg.GetDatabaseDSN(), postgresPrefix) {
		t.Errorf("expected DSN to start with '%s', got '%s'", postgresPrefix, cfg.GetDatabaseDSN())
	}
	if cfg.Location().String() != "America/Santo_Domingo" {
		t.Errorf("expected Santo Domingo location, got %s", cfg.Location())
	}
}

// TestValidateSuccess tests validation of a valid configuration
func TestValidateSuccess(t *testing.T) {
	if err := Validate(loadValid(t)); err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

// TestValidateInvalidEnvironment tests validation of invalid environment
func TestValidateInvalidEnvironment(t *testing.T) {
	cfg := loadValid(t)
	cfg.App.Environment = invalidEnv

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid environment")
	}
	if !strings.Contains(err.Error(), "development, staging, production") {
		t.Errorf("expected environment message, got: %v", err)
	}
}

// TestValidateInvalidBackend tests the storage backend rule
func TestValidateInvalidBackend(t *testing.T) {
	cfg := loadValid(t)
	cfg.Storage.Backend = "sqlite"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for unknown backend")
	}
	if !strings.Contains(err.Error(), "file, redis, postgres") {
		t.Errorf("expected backend message, got: %v", err)
	}
}

// TestValidateInvalidTimezone tests the timezone rule
func TestValidateInvalidTimezone(t *testing.T) {
	cfg := loadValid(t)
	cfg.Session.Timezone = "Mars/Olympus_Mons"

	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for unknown timezone")
	}
}

// TestValidateBackendSettings tests backend-specific cross-field checks
func TestValidateBackendSettings(t *testing.T) {
	cfg := loadValid(t)
	cfg.Storage.FilePath = ""
	if err := Validate(cfg); err == nil {
		t.Error("expected error for file backend without file_path")
	}

	cfg = loadValid(t)
	cfg.Storage.Backend = BackendRedis
	cfg.Storage.Redis.Addr = ""
	if err := Validate(cfg); err == nil {
		t.Error("expected error for redis backend without addr")
	}

	cfg = loadValid(t)
	cfg.Storage.Backend = BackendPostgres
	if err := Validate(cfg); err != nil {
		t.Errorf("expected postgres backend to validate, got %v", err)
	}
	cfg.Storage.Database.Host = ""
	if err := Validate(cfg); err == nil {
		t.Error("expected error for postgres backend without host")
	}
}

// TestValidateOCRRetries tests that automatic OCR retries are refused
func TestValidateOCRRetries(t *testing.T) {
	cfg := loadValid(t)
	cfg.OCR.MaxRetries = 2

	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for OCR retries")
	}
}

// TestValidateProductionRequiresOCRKey tests production OCR credentials
func TestValidateProductionRequiresOCRKey(t *testing.T) {
	cfg := loadValid(t)
	cfg.App.Environment = "production"
	cfg.OCR.APIKey = ""

	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for production OCR without API key")
	}

	cfg.AWS = AWSConfig{SecretsEnabled: true, Region: "us-east-1", SecretName: "beast-reader"}
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected secrets overlay to satisfy the OCR key, got %v", err)
	}
}

// TestValidateEnvironmentTestCredentials tests production credential checks
func TestValidateEnvironmentTestCredentials(t *testing.T) {
	cfg := loadValid(t)
	cfg.App.Environment = "production"
	cfg.OCR.APIKey = "YOUR_API_KEY"

	if err := ValidateEnvironment(cfg); err == nil {
		t.Fatal("expected error for placeholder API key in production")
	}

	cfg.OCR.APIKey = "AIzaSyRealLookingKey"
	if err := ValidateEnvironment(cfg); err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
}

// TestEnvironmentChecks tests environment check functions
func TestEnvironmentChecks(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: developmentEnv}}
	if !cfg.IsDevelopment() || cfg.IsProduction() || cfg.IsStaging() {
		t.Error("expected development only")
	}

	cfg.App.Environment = "staging"
	if !cfg.IsStaging() || cfg.IsDevelopment() {
		t.Error("expected staging only")
	}

	cfg.App.Environment = "production"
	if !cfg.IsProduction() || cfg.IsDevelopment() {
		t.Error("expected production only")
	}
}

// TestListenAddr tests listen address formatting
func TestListenAddr(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Host: "127.0.0.1", Port: 8080}}
	if got := cfg.ListenAddr(); got != "127.0.0.1:8080" {
		t.Errorf("expected '127.0.0.1:8080', got '%s'", got)
	}
}

// TestOverlaySecrets tests applying a parsed secret onto the configuration
func TestOverlaySecrets(t *testing.T) {
	secrets, err := parseSecretData(&secretsmanager.GetSecretValueOutput{
		SecretString: aws.String(`{"ocr_api_key":"k1","database_password":"p1","redis_password":"r1"}`),
	})
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	cfg := loadValid(t)
	overlaySecretsOnConfig(cfg, secrets)

	if cfg.OCR.APIKey != "k1" || cfg.Storage.Database.Password != "p1" || cfg.Storage.Redis.Password != "r1" {
		t.Errorf("secrets not applied: %+v", secrets)
	}

	if _, err := parseSecretData(&secretsmanager.GetSecretValueOutput{}); err == nil {
		t.Error("expected error for empty secret")
	}
}

// TestReloadFromEnv tests that BEAST_READER_CONFIG_PATH replaces the loaded configuration
func TestReloadFromEnv(t *testing.T) {
	cfg := loadValid(t)
	cfg.App.Name = testAppName

	if err := ReloadFromEnv(cfg); err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg.App.Name != testAppName {
		t.Errorf("expected config untouched without env path, got '%s'", cfg.App.Name)
	}

	t.Setenv(envPrefix+"_CONFIG_PATH", validConfigPath)
	if err := ReloadFromEnv(cfg); err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg.App.Name != beastReaderName {
		t.Errorf("expected reloaded app name '%s', got '%s'", beastReaderName, cfg.App.Name)
	}

	t.Setenv(envPrefix+"_CONFIG_PATH", nonexistentConfigPath)
	if err := ReloadFromEnv(cfg); err == nil {
		t.Fatal("expected error for missing reload path")
	}
}

// TestOCRTimeout tests conversion of the configured OCR timeout
func TestOCRTimeout(t *testing.T) {
	cfg := OCRConfig{TimeoutSeconds: 45}
	if cfg.Timeout() != 45*time.Second {
		t.Errorf("expected 45s, got %s", cfg.Timeout())
	}
}
