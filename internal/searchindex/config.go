package searchindex

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Config addresses the hand-rolled REST-backed search index (spec §4.6).
type Config struct {
	URL       string
	IndexName string
	VectorDim int
}

type ConfigErrorCode string

const (
	ConfigErrorMissingURL       ConfigErrorCode = "missing_url"
	ConfigErrorInvalidURL       ConfigErrorCode = "invalid_url"
	ConfigErrorMissingIndex     ConfigErrorCode = "missing_index"
	ConfigErrorInvalidVectorDim ConfigErrorCode = "invalid_vector_dim"
)

type ConfigError struct {
	Code  ConfigErrorCode
	Value string
	Cause error
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "invalid search index config"
	}
	switch e.Code {
	case ConfigErrorMissingURL:
		return "SEARCH_INDEX_URL is required"
	case ConfigErrorInvalidURL:
		return fmt.Sprintf("invalid SEARCH_INDEX_URL=%q; expected absolute URL like http://search:9200", e.Value)
	case ConfigErrorMissingIndex:
		return "SEARCH_INDEX_NAME is required"
	case ConfigErrorInvalidVectorDim:
		return fmt.Sprintf("invalid SEARCH_INDEX_VECTOR_DIM=%q; expected positive integer", e.Value)
	default:
		return "invalid search index config"
	}
}

func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func ResolveConfigFromEnv() (Config, error) {
	rawDim := strings.TrimSpace(os.Getenv("SEARCH_INDEX_VECTOR_DIM"))
	dim := 384
	if rawDim != "" {
		parsed, err := strconv.Atoi(rawDim)
		if err != nil {
			return Config{}, &ConfigError{Code: ConfigErrorInvalidVectorDim, Value: rawDim, Cause: err}
		}
		dim = parsed
	}

	cfg := Config{
		URL:       strings.TrimSpace(os.Getenv("SEARCH_INDEX_URL")),
		IndexName: strings.TrimSpace(os.Getenv("SEARCH_INDEX_NAME")),
		VectorDim: dim,
	}
	if cfg.IndexName == "" {
		cfg.IndexName = "recipes"
	}
	if err := ValidateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func ValidateConfig(cfg Config) error {
	if cfg.URL == "" {
		return &ConfigError{Code: ConfigErrorMissingURL}
	}
	parsed, err := url.Parse(cfg.URL)
	if err != nil || strings.TrimSpace(parsed.Scheme) == "" || strings.TrimSpace(parsed.Host) == "" {
		return &ConfigError{Code: ConfigErrorInvalidURL, Value: cfg.URL, Cause: err}
	}
	if strings.TrimSpace(cfg.IndexName) == "" {
		return &ConfigError{Code: ConfigErrorMissingIndex}
	}
	if cfg.VectorDim <= 0 {
		return &ConfigError{Code: ConfigErrorInvalidVectorDim, Value: strconv.Itoa(cfg.VectorDim)}
	}
	return nil
}
