package bus

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config addresses the Redis Streams bus (spec §4.9). The topic/key/payload
// contract is carried over from the original `kafka_service.py`'s
// `KAFKA_TOPIC_RECIPES` default and `recipe-processors` consumer group onto
// Redis Streams + consumer groups, since no Kafka/NATS client exists
// anywhere in the retrieval pack.
type Config struct {
	Addr          string
	Password      string
	DB            int
	Stream        string
	ConsumerGroup string
}

type ConfigErrorCode string

const (
	ConfigErrorMissingAddr ConfigErrorCode = "missing_addr"
	ConfigErrorInvalidDB   ConfigErrorCode = "invalid_db"
)

type ConfigError struct {
	Code  ConfigErrorCode
	Value string
	Cause error
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "invalid bus config"
	}
	switch e.Code {
	case ConfigErrorMissingAddr:
		return "BUS_REDIS_ADDR is required"
	case ConfigErrorInvalidDB:
		return fmt.Sprintf("invalid BUS_REDIS_DB=%q; expected integer", e.Value)
	default:
		return "invalid bus config"
	}
}

func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func ResolveConfigFromEnv() (Config, error) {
	rawDB := strings.TrimSpace(os.Getenv("BUS_REDIS_DB"))
	db := 0
	if rawDB != "" {
		parsed, err := strconv.Atoi(rawDB)
		if err != nil {
			return Config{}, &ConfigError{Code: ConfigErrorInvalidDB, Value: rawDB, Cause: err}
		}
		db = parsed
	}

	cfg := Config{
		Addr:          strings.TrimSpace(os.Getenv("BUS_REDIS_ADDR")),
		Password:      os.Getenv("BUS_REDIS_PASSWORD"),
		DB:            db,
		Stream:        strings.TrimSpace(os.Getenv("BUS_STREAM")),
		ConsumerGroup: strings.TrimSpace(os.Getenv("BUS_CONSUMER_GROUP")),
	}
	if cfg.Stream == "" {
		cfg.Stream = "reddit-recipes"
	}
	if cfg.ConsumerGroup == "" {
		cfg.ConsumerGroup = "recipe-processors"
	}
	if err := ValidateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.Addr) == "" {
		return &ConfigError{Code: ConfigErrorMissingAddr}
	}
	return nil
}
