package embedding

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Config configures the embedding provider (spec §4.4).
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
}

type ConfigErrorCode string

const (
	ConfigErrorMissingBaseURL ConfigErrorCode = "missing_base_url"
	ConfigErrorInvalidBaseURL ConfigErrorCode = "invalid_base_url"
	ConfigErrorMissingModel   ConfigErrorCode = "missing_model"
)

type ConfigError struct {
	Code  ConfigErrorCode
	Value string
	Cause error
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "invalid embedding config"
	}
	switch e.Code {
	case ConfigErrorMissingBaseURL:
		return "EMBEDDING_BASE_URL is required"
	case ConfigErrorInvalidBaseURL:
		return fmt.Sprintf("invalid EMBEDDING_BASE_URL=%q; expected absolute URL", e.Value)
	case ConfigErrorMissingModel:
		return "EMBEDDING_MODEL is required"
	default:
		return "invalid embedding config"
	}
}

func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// ResolveConfigFromEnv reads EMBEDDING_BASE_URL, EMBEDDING_API_KEY, and
// EMBEDDING_MODEL, defaulting the model to one producing domain.EmbeddingDim
// floats.
func ResolveConfigFromEnv() (Config, error) {
	cfg := Config{
		BaseURL: strings.TrimSpace(os.Getenv("EMBEDDING_BASE_URL")),
		APIKey:  strings.TrimSpace(os.Getenv("EMBEDDING_API_KEY")),
		Model:   strings.TrimSpace(os.Getenv("EMBEDDING_MODEL")),
	}
	if cfg.Model == "" {
		cfg.Model = "all-MiniLM-L6-v2"
	}
	if err := ValidateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func ValidateConfig(cfg Config) error {
	if cfg.BaseURL == "" {
		return &ConfigError{Code: ConfigErrorMissingBaseURL}
	}
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil || strings.TrimSpace(parsed.Scheme) == "" || strings.TrimSpace(parsed.Host) == "" {
		return &ConfigError{Code: ConfigErrorInvalidBaseURL, Value: cfg.BaseURL, Cause: err}
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return &ConfigError{Code: ConfigErrorMissingModel}
	}
	return nil
}
