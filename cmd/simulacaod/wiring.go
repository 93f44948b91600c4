package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/port"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/infrastructure/cache"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/infrastructure/config"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/infrastructure/kafka"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/infrastructure/memory"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/infrastructure/messaging"
	pgRepo "github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/infrastructure/postgres"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/presentation/rest"
	pkgkafka "github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/pkg/kafka"
	pkgpostgres "github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/pkg/postgres"
)

const connectTimeout = 10 * time.Second

// storage bundles the driven adapters for one storage driver.
type storage struct {
	catalog     port.ProductCatalog
	simulations port.SimulationRepository
	telemetry   port.TelemetryRepository
	checks      map[string]rest.ReadinessCheck
	closers     []func()
}

// Close releases connections in reverse order of opening.
func (s *storage) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func openStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (*storage, error) {
	s := &storage{checks: make(map[string]rest.ReadinessCheck)}

	switch cfg.StorageDriver {
	case config.StorageMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		s.catalog = memory.NewCatalog(memory.SeedProducts()...)
		s.simulations = memory.NewSimulationStore()
		s.telemetry = memory.NewTelemetryStore()

	default:
		if err := s.openPostgres(ctx, cfg, logger); err != nil {
			s.Close()
			return nil, err
		}
	}

	if cfg.Redis.Addr != "" {
		client := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		s.closers = append(s.closers, func() { _ = client.Close() })
		s.checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		s.catalog = cache.NewCatalogCache(s.catalog, client, cfg.Redis.CacheTTL, logger)
		logger.Info("catalog cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
	}

	return s, nil
}

func (s *storage) openPostgres(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	dbCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pgCfg := cfg.Postgres()
	if cfg.DB.LogQueries {
		pgCfg.QueryLogger = logger.With("component", "pgx")
	}
	pool, err := pkgpostgres.NewPool(dbCtx, pgCfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	s.closers = append(s.closers, pool.Close)
	s.checks["database"] = func(ctx context.Context) error { return pkgpostgres.HealthCheck(ctx, pool) }
	logger.Info("connected to database")

	version, err := pgRepo.Migrate(pgCfg.DSN())
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database schema up to date", "version", version)

	s.simulations = pgRepo.NewSimulationRepo(pool, cfg.Location())
	s.telemetry = pgRepo.NewTelemetryRepo(pool)
	s.catalog = pgRepo.NewProductRepo(pool, logger)

	// The catalog may live in a database this service does not own.
	if cfg.DB.CatalogURL != "" {
		catalogPool, err := pkgpostgres.NewPool(dbCtx, pkgpostgres.Config{
			URL:      cfg.DB.CatalogURL,
			MaxConns: cfg.DB.MaxConns,
		})
		if err != nil {
			return fmt.Errorf("connect to catalog database: %w", err)
		}
		s.closers = append(s.closers, catalogPool.Close)
		s.checks["catalog"] = func(ctx context.Context) error { return pkgpostgres.HealthCheck(ctx, catalogPool) }
		s.catalog = pgRepo.NewProductRepo(catalogPool, logger)
		logger.Info("connected to catalog database")
	}

	return nil
}

// openPublisher returns the downstream event publisher: Kafka when brokers
// are configured, otherwise a logger.
func openPublisher(cfg config.Config, logger *slog.Logger) (port.EventPublisher, func(), error) {
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Warn("no Kafka brokers configured, events are only logged")
		return messaging.NewLogPublisher(logger), func() {}, nil
	}

	producer, err := pkgkafka.NewProducer(cfg.KafkaProducer())
	if err != nil {
		return nil, nil, fmt.Errorf("init kafka producer: %w", err)
	}
	closeFn := func() {
		stats := producer.Stats()
		logger.Info("closing kafka producer", "writes", stats.Writes, "messages", stats.Messages, "errors", stats.Errors)
		if err := producer.Close(); err != nil {
			logger.Warn("kafka producer close failed", "error", err)
		}
	}
	logger.Info("publishing events to Kafka", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	return kafka.NewEventPublisher(producer, logger), closeFn, nil
}
