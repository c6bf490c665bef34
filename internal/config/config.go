// Package config provides configuration loading and validation for the
// service and the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/resume-forge/internal/artifacts"
	"github.com/jonathan/resume-forge/internal/llm"
	"github.com/jonathan/resume-forge/internal/store"
)

// Defaults
const (
	DefaultPort           = 8080
	DefaultServiceURL     = "http://localhost:8080"
	DefaultSQLitePath     = "data/resume-forge.db"
	DefaultMaxUploadBytes = 10 << 20
	DefaultUploadAttempts = 3
)

// ArtifactConfig describes the optional S3-compatible bucket for rendered documents
type ArtifactConfig struct {
	Endpoint  string `json:"endpoint,omitempty"`
	Bucket    string `json:"bucket,omitempty"`
	AccessKey string `json:"access_key,omitempty"`
	SecretKey string `json:"secret_key,omitempty"`
	Region    string `json:"region,omitempty"`
	Prefix    string `json:"prefix,omitempty"`
}

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values come from the environment or defaults.
type Config struct {
	// Service
	Port           int    `json:"port,omitempty"`
	ServiceURL     string `json:"service_url,omitempty"` // Base URL the CLI client talks to
	MaxUploadBytes int64  `json:"max_upload_bytes,omitempty"`
	UploadAttempts int    `json:"upload_attempts,omitempty"` // Client upload attempts before giving up

	// Storage
	StoreBackend string `json:"store_backend,omitempty"` // memory, sqlite or postgres
	DatabaseURL  string `json:"database_url,omitempty"`  // PostgreSQL connection URL
	SQLitePath   string `json:"sqlite_path,omitempty"`

	// Text generation
	APIKey            string `json:"api_key,omitempty"` // Gemini API key
	Model             string `json:"model,omitempty"`   // Overrides the advanced-tier model
	LLMTimeoutSeconds int    `json:"llm_timeout_seconds,omitempty"`
	LLMMaxAttempts    int    `json:"llm_max_attempts,omitempty"`

	Artifacts ArtifactConfig `json:"artifacts"`

	Verbose bool `json:"verbose,omitempty"`
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Port:              DefaultPort,
		ServiceURL:        DefaultServiceURL,
		MaxUploadBytes:    DefaultMaxUploadBytes,
		UploadAttempts:    DefaultUploadAttempts,
		StoreBackend:      string(store.BackendSQLite),
		SQLitePath:        DefaultSQLitePath,
		LLMTimeoutSeconds: int(llm.DefaultTimeout / time.Second),
		LLMMaxAttempts:    llm.DefaultMaxAttempts,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads configuration from environment variables. Unset or
// unparsable variables leave the field empty.
func FromEnv() Config {
	return Config{
		Port:              envInt("PORT"),
		ServiceURL:        os.Getenv("RESUME_FORGE_URL"),
		MaxUploadBytes:    int64(envInt("MAX_UPLOAD_BYTES")),
		UploadAttempts:    envInt("UPLOAD_ATTEMPTS"),
		StoreBackend:      os.Getenv("STORE_BACKEND"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		SQLitePath:        os.Getenv("SQLITE_PATH"),
		APIKey:            os.Getenv("GEMINI_API_KEY"),
		Model:             os.Getenv("GEMINI_MODEL"),
		LLMTimeoutSeconds: envInt("LLM_TIMEOUT_SECONDS"),
		LLMMaxAttempts:    envInt("LLM_MAX_ATTEMPTS"),
		Artifacts: ArtifactConfig{
			Endpoint:  os.Getenv("ARTIFACT_ENDPOINT"),
			Bucket:    os.Getenv("ARTIFACT_BUCKET"),
			AccessKey: os.Getenv("ARTIFACT_ACCESS_KEY"),
			SecretKey: os.Getenv("ARTIFACT_SECRET_KEY"),
			Region:    os.Getenv("ARTIFACT_REGION"),
			Prefix:    os.Getenv("ARTIFACT_PREFIX"),
		},
	}
}

func envInt(key string) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return 0
	}
	return v
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535, got %d", c.Port)
	}
	if c.MaxUploadBytes < 0 {
		return fmt.Errorf("config error: 'max_upload_bytes' must be non-negative")
	}
	if c.UploadAttempts < 0 || c.LLMMaxAttempts < 0 || c.LLMTimeoutSeconds < 0 {
		return fmt.Errorf("config error: attempts and timeouts must be non-negative")
	}

	switch store.Backend(c.StoreBackend) {
	case "", store.BackendMemory:
	case store.BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("config error: 'sqlite_path' is required for the sqlite store")
		}
	case store.BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'database_url' is required for the postgres store")
		}
	default:
		return fmt.Errorf("config error: unknown 'store_backend' %q (want memory, sqlite or postgres)", c.StoreBackend)
	}

	a := c.Artifacts
	if a.Bucket != "" && (a.AccessKey == "") != (a.SecretKey == "") {
		return fmt.Errorf("config error: artifact access key and secret key must be set together")
	}
	if a.Bucket == "" && (a.Endpoint != "" || a.AccessKey != "") {
		return fmt.Errorf("config error: 'artifacts.bucket' is required when artifacts are configured")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// The receiver wins wherever it has a value.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.ServiceURL == "" {
		result.ServiceURL = defaults.ServiceURL
	}
	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = defaults.MaxUploadBytes
	}
	if result.UploadAttempts == 0 {
		result.UploadAttempts = defaults.UploadAttempts
	}
	if result.StoreBackend == "" {
		result.StoreBackend = defaults.StoreBackend
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.SQLitePath == "" {
		result.SQLitePath = defaults.SQLitePath
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.LLMTimeoutSeconds == 0 {
		result.LLMTimeoutSeconds = defaults.LLMTimeoutSeconds
	}
	if result.LLMMaxAttempts == 0 {
		result.LLMMaxAttempts = defaults.LLMMaxAttempts
	}
	if result.Artifacts == (ArtifactConfig{}) {
		result.Artifacts = defaults.Artifacts
	}

	// Bool fields: true wins
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}

// Resolve layers environment over file over built-in defaults and validates
// the result. An empty path skips the file.
func Resolve(path string) (Config, error) {
	base := Defaults()
	if path != "" {
		file, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		base = file.MergeWithDefaults(base)
	}

	env := FromEnv()
	cfg := env.MergeWithDefaults(base)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// StoreDSN returns the backend and its connection string
func (c *Config) StoreDSN() (store.Backend, string) {
	backend := store.Backend(c.StoreBackend)
	switch backend {
	case store.BackendPostgres:
		return backend, c.DatabaseURL
	case store.BackendSQLite:
		return backend, c.SQLitePath
	default:
		return store.BackendMemory, ""
	}
}

// LLMConfig returns the Gemini configuration with the overrides applied
func (c *Config) LLMConfig() *llm.Config {
	cfg := llm.DefaultGeminiConfig()
	if c.Model != "" {
		cfg = cfg.WithModel(llm.TierAdvanced, c.Model)
	}
	if c.LLMTimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(c.LLMTimeoutSeconds) * time.Second
	}
	if c.LLMMaxAttempts > 0 {
		cfg.MaxAttempts = c.LLMMaxAttempts
	}
	return cfg
}

// ArtifactSink returns the artifact sink configuration
func (c *Config) ArtifactSink() artifacts.Config {
	return artifacts.Config{
		Endpoint:  c.Artifacts.Endpoint,
		Bucket:    c.Artifacts.Bucket,
		AccessKey: c.Artifacts.AccessKey,
		SecretKey: c.Artifacts.SecretKey,
		Region:    c.Artifacts.Region,
		Prefix:    c.Artifacts.Prefix,
	}
}
