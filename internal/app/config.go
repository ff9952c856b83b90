// Package app wires together every component the CLI and worker processes
// share: logging, the Postgres store, the search index, the embedding
// generator, the optional model-assisted extractor, the feed/bus stack,
// and the Temporal client — the way the teacher's cmd/main.go builds its
// dependency graph top-down (logger, then db, then repos/services), but
// without the HTTP server layer this system doesn't have (spec Non-goals).
package app

import (
	"fmt"

	"github.com/pill/recipes-etl/internal/bus"
	"github.com/pill/recipes-etl/internal/embedding"
	"github.com/pill/recipes-etl/internal/parsing/modelassisted"
	"github.com/pill/recipes-etl/internal/pkg/logger"
	"github.com/pill/recipes-etl/internal/searchindex"
	"github.com/pill/recipes-etl/internal/temporalx"
	"github.com/pill/recipes-etl/internal/utils"
)

// Config is the union of every component's env-resolved configuration.
// ExtractionModel is a pointer because the model-assisted path is
// optional: a deployment running only the local parser never sets
// EXTRACTION_MODEL_BASE_URL (spec §4.3).
type Config struct {
	LogMode string
	StageDir string

	Postgres PostgresConfig
	SearchIndex searchindex.Config
	Embedding embedding.Config
	ExtractionModel *modelassisted.Config
	Bus bus.Config
	Temporal temporalx.Config

	ConsumerName string
}

// PostgresConfig mirrors the teacher's db.PostgresService DSN inputs
// (internal/data/db/postgres.go): host/port/user/password/name env vars,
// assembled into a single DSN for gorm.Open.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN renders the libpq key=value connection string gorm's postgres
// driver expects.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// LoadConfig resolves every sub-config from the environment. The
// model-assisted extractor config is only attempted (and only fails loudly)
// when EXTRACTION_MODEL_BASE_URL is actually set, since it names an
// optional capability (spec §4.3 "falls back to local when unset").
func LoadConfig(log *logger.Logger) (Config, error) {
	pg := PostgresConfig{
		Host:     utils.GetEnv("POSTGRES_HOST", "localhost", log),
		Port:     utils.GetEnv("POSTGRES_PORT", "5432", log),
		User:     utils.GetEnv("POSTGRES_USER", "postgres", log),
		Password: utils.GetEnv("POSTGRES_PASSWORD", "", log),
		Name:     utils.GetEnv("POSTGRES_NAME", "recipes", log),
		SSLMode:  utils.GetEnv("POSTGRES_SSLMODE", "disable", log),
	}

	searchCfg, err := searchindex.ResolveConfigFromEnv()
	if err != nil {
		return Config{}, fmt.Errorf("app: resolve search index config: %w", err)
	}
	embedCfg, err := embedding.ResolveConfigFromEnv()
	if err != nil {
		return Config{}, fmt.Errorf("app: resolve embedding config: %w", err)
	}
	busCfg, err := bus.ResolveConfigFromEnv()
	if err != nil {
		return Config{}, fmt.Errorf("app: resolve bus config: %w", err)
	}

	var extractionCfg *modelassisted.Config
	if utils.GetEnv("EXTRACTION_MODEL_BASE_URL", "", log) != "" {
		cfg, err := modelassisted.ResolveConfigFromEnv()
		if err != nil {
			return Config{}, fmt.Errorf("app: resolve model-assisted config: %w", err)
		}
		extractionCfg = &cfg
	}

	return Config{
		LogMode:         utils.GetEnv("LOG_MODE", "development", log),
		StageDir:        utils.GetEnv("STAGE_DIR", "./staging", log),
		Postgres:        pg,
		SearchIndex:     searchCfg,
		Embedding:       embedCfg,
		ExtractionModel: extractionCfg,
		Bus:             busCfg,
		Temporal:        temporalx.LoadConfig(),
		ConsumerName:    utils.GetEnv("BUS_CONSUMER_NAME", "recipeworker", log),
	}, nil
}
