package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	listingworkflow "tradepost/contexts/moderation-safety/listing-workflow"
	modkafka "tradepost/contexts/moderation-safety/listing-workflow/adapters/kafka"
	modpostgres "tradepost/contexts/moderation-safety/listing-workflow/adapters/postgres"
	labelregistry "tradepost/contexts/trust-core/label-registry"
	labelpostgres "tradepost/contexts/trust-core/label-registry/adapters/postgres"
	reputationservice "tradepost/contexts/trust-core/reputation-service"
	reppostgres "tradepost/contexts/trust-core/reputation-service/adapters/postgres"
	"tradepost/internal/platform/config"
	"tradepost/internal/platform/db"
	"tradepost/internal/platform/httpserver"
	"tradepost/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	kafka    *messaging.Kafka
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	kafka        *messaging.Kafka
	moderation   listingworkflow.Module
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	reputation := reputationservice.NewModule(reputationservice.Dependencies{
		Repository: reppostgres.NewRepository(pg.DB, logger),
		Clock:      reppostgres.SystemClock{},
		IDGen:      reppostgres.UUIDGenerator{},
		Logger:     logger,
	})

	labels := labelregistry.NewModule(labelregistry.Dependencies{
		Repository: labelpostgres.NewRepository(pg.DB, logger),
		Clock:      labelpostgres.SystemClock{},
		IDGen:      labelpostgres.UUIDGenerator{},
		Logger:     logger,
	})

	moderation := listingworkflow.NewModule(listingworkflow.Dependencies{
		Repository: modpostgres.NewRepository(pg.DB, logger),
		Publisher: modkafka.PublishClient{
			Bus:   kafka,
			Topic: cfg.PublishTopic,
		},
		Clock:          modpostgres.SystemClock{},
		IDGen:          modpostgres.UUIDGenerator{},
		SweepBatchSize: cfg.SweepBatchSize,
		Logger:         logger,
	})

	server := httpserver.New(reputation, labels, moderation, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		kafka:    kafka,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	moderation := listingworkflow.NewModule(listingworkflow.Dependencies{
		Repository: modpostgres.NewRepository(pg.DB, logger),
		Publisher: modkafka.PublishClient{
			Bus:   kafka,
			Topic: cfg.PublishTopic,
		},
		Clock:          modpostgres.SystemClock{},
		IDGen:          modpostgres.UUIDGenerator{},
		SweepBatchSize: cfg.SweepBatchSize,
		SweepDisabled:  !cfg.EnableExpirySweep,
		Logger:         logger,
	})
	moderation.OutboxRelay.Disabled = !cfg.EnableOutboxRelay

	return &WorkerApp{
		postgres:     pg,
		kafka:        kafka,
		moderation:   moderation,
		pollInterval: cfg.SweepInterval,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	var errs []error
	if a.kafka != nil {
		errs = append(errs, a.kafka.Close())
	}
	if a.postgres != nil {
		errs = append(errs, a.postgres.Close())
	}
	return errors.Join(errs...)
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.moderation.ExpirySweep.RunOnce(ctx); err != nil {
			return err
		}
		if err := w.moderation.OutboxRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	var errs []error
	if w.kafka != nil {
		errs = append(errs, w.kafka.Close())
	}
	if w.postgres != nil {
		errs = append(errs, w.postgres.Close())
	}
	return errors.Join(errs...)
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
