package modelassisted

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Config configures the model-assisted extraction backend (spec §4.3).
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
		return "invalid model-assisted config"
	}
	switch e.Code {
	case ConfigErrorMissingBaseURL:
		return "EXTRACTION_MODEL_BASE_URL is required"
	case ConfigErrorInvalidBaseURL:
		return fmt.Sprintf("invalid EXTRACTION_MODEL_BASE_URL=%q; expected absolute URL", e.Value)
	case ConfigErrorMissingModel:
		return "EXTRACTION_MODEL_NAME is required"
	default:
		return "invalid model-assisted config"
	}
}

func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// ResolveConfigFromEnv reads EXTRACTION_MODEL_BASE_URL, EXTRACTION_MODEL_API_KEY
// and EXTRACTION_MODEL_NAME.
func ResolveConfigFromEnv() (Config, error) {
	cfg := Config{
		BaseURL: strings.TrimSpace(os.Getenv("EXTRACTION_MODEL_BASE_URL")),
		APIKey:  strings.TrimSpace(os.Getenv("EXTRACTION_MODEL_API_KEY")),
		Model:   strings.TrimSpace(os.Getenv("EXTRACTION_MODEL_NAME")),
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
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
