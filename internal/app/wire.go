package app

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.temporal.io/sdk/client"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pill/recipes-etl/internal/bus"
	"github.com/pill/recipes-etl/internal/embedding"
	"github.com/pill/recipes-etl/internal/feed"
	"github.com/pill/recipes-etl/internal/orchestrator/activities"
	"github.com/pill/recipes-etl/internal/orchestrator/schedule"
	"github.com/pill/recipes-etl/internal/parsing/modelassisted"
	"github.com/pill/recipes-etl/internal/pkg/logger"
	"github.com/pill/recipes-etl/internal/searchindex"
	"github.com/pill/recipes-etl/internal/store"
	"github.com/pill/recipes-etl/internal/temporalx"
)

// App bundles every wired component cmd/recipectl and cmd/recipeworker
// need, built once at process startup the way the teacher's cmd/main.go
// wires logger -> db -> repos -> services before anything else can run.
type App struct {
	Log *logger.Logger
	Cfg Config

	DB    *gorm.DB
	Store store.Store
	Index searchindex.Indexer

	Embedder  *embedding.Embedder
	Extractor *modelassisted.Extractor

	Redis    *redis.Client
	Producer *bus.Producer
	Consumer *bus.Consumer
	Feed     *feed.Registry
	Poller   *feed.Poller

	Temporal client.Client
	Schedule *schedule.Controller

	Activities *activities.Activities
}

// New resolves config from the environment and wires every dependency. It
// follows the teacher's wiring order: logger, then config, then storage,
// then domain services, then the process-specific surfaces (Temporal
// client, bus, feed) last.
func New() (*App, error) {
	bootstrapLog, err := logger.New("development")
	if err != nil {
		return nil, fmt.Errorf("app: construct bootstrap logger: %w", err)
	}

	cfg, err := LoadConfig(bootstrapLog)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("app: construct logger: %w", err)
	}

	db, err := openPostgres(cfg.Postgres, log)
	if err != nil {
		return nil, err
	}
	st := store.New(db, log)

	idx, err := searchindex.New(log, cfg.SearchIndex, nil)
	if err != nil {
		return nil, fmt.Errorf("app: construct search index: %w", err)
	}

	embedder, err := embedding.New(cfg.Embedding, log)
	if err != nil {
		return nil, fmt.Errorf("app: construct embedder: %w", err)
	}

	var extractor *modelassisted.Extractor
	if cfg.ExtractionModel != nil {
		extractor, err = modelassisted.New(*cfg.ExtractionModel, log)
		if err != nil {
			return nil, fmt.Errorf("app: construct model-assisted extractor: %w", err)
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Bus.Addr,
		Password: cfg.Bus.Password,
		DB:       cfg.Bus.DB,
	})
	producer := bus.NewProducer(rdb, cfg.Bus, log)

	registry := feed.NewRegistry()
	poller := feed.NewPoller(registry, producer, log)

	tc, err := temporalx.NewClient(log)
	if err != nil {
		return nil, fmt.Errorf("app: construct temporal client: %w", err)
	}

	var sched *schedule.Controller
	if tc != nil {
		sched, err = schedule.New(tc, log)
		if err != nil {
			return nil, err
		}
	}

	acts := &activities.Activities{
		Log:       log,
		Store:     st,
		Indexer:   idx,
		Embedder:  embedder,
		Extractor: extractor,
		StageDir:  cfg.StageDir,
		Poller:    poller,
	}

	consumer := bus.NewConsumer(rdb, cfg.Bus, cfg.ConsumerName, busHandler(st), log)
	acts.Consumer = consumer

	return &App{
		Log:        log,
		Cfg:        cfg,
		DB:         db,
		Store:      st,
		Index:      idx,
		Embedder:   embedder,
		Extractor:  extractor,
		Redis:      rdb,
		Producer:   producer,
		Consumer:   consumer,
		Feed:       registry,
		Poller:     poller,
		Temporal:   tc,
		Schedule:   sched,
		Activities: acts,
	}, nil
}

// Close releases held connections in reverse wiring order.
func (a *App) Close() {
	if a.Temporal != nil {
		a.Temporal.Close()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}

// openPostgres mirrors the teacher's db.NewPostgresService: a DSN built
// from discrete env vars, gorm.Open with foreign-key-constraint creation
// disabled during migration, then the pgvector extension ensured before
// AutoMigrate runs (spec §4.5 relies on the `vector` column type).
func openPostgres(cfg PostgresConfig, log *logger.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("app: open postgres: %w", err)
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return nil, fmt.Errorf("app: ensure uuid-ossp extension: %w", err)
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "vector"`).Error; err != nil {
		return nil, fmt.Errorf("app: ensure vector extension: %w", err)
	}
	if err := store.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("app: auto-migrate: %w", err)
	}
	if log != nil {
		log.Info("Connected to Postgres", "host", cfg.Host, "name", cfg.Name)
	}
	return db, nil
}

// busHandler adapts the store's dedup-on-create behavior into the
// bus.Handler contract consume_bus_batch needs: a freshly-scraped feed
// event either lands as a new recipe or collapses into an existing one
// (spec §4.5 policy #1/#2), and that outcome becomes the `already_existed`
// flag consume_bus_batch tallies as a duplicate.
func busHandler(st store.Store) bus.Handler {
	return activities.BusEventHandler(st)
}
