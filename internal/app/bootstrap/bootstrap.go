package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	commission "electorate/contexts/election-operations/commission-service"
	commissionpostgres "electorate/contexts/election-operations/commission-service/adapters/postgres"
	commissionworkers "electorate/contexts/election-operations/commission-service/application/workers"
	commissionports "electorate/contexts/election-operations/commission-service/ports"
	electionengine "electorate/contexts/election-operations/election-engine"
	electionpostgres "electorate/contexts/election-operations/election-engine/adapters/postgres"
	electionworkers "electorate/contexts/election-operations/election-engine/application/workers"
	electionports "electorate/contexts/election-operations/election-engine/ports"
	"electorate/internal/platform/config"
	"electorate/internal/platform/db"
	"electorate/internal/platform/httpserver"
	"electorate/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres        *db.Postgres
	electionRelay   electionworkers.OutboxRelay
	commissionRelay commissionworkers.OutboxRelay
	runElection     bool
	runCommission   bool
	pollInterval    time.Duration
	logger          *slog.Logger
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

	commissionRepo := commissionpostgres.NewRepository(pg.DB, logger)
	commissionModule := commission.NewModule(commission.Dependencies{
		Store:  commissionRepo,
		Clock:  commissionpostgres.SystemClock{},
		IDGen:  commissionpostgres.UUIDGenerator{},
		Logger: logger,
	})

	if err := seedAuthority(commissionRepo, cfg.InitialAuthority, logger); err != nil {
		return nil, err
	}

	electionRepo := electionpostgres.NewRepository(pg.DB, logger)
	electionModule := electionengine.NewModule(electionengine.Dependencies{
		Store:  electionRepo,
		Access: commissionModule.Policy,
		Clock:  electionpostgres.SystemClock{},
		IDGen:  electionpostgres.UUIDGenerator{},
		Logger: logger,
	})

	server := httpserver.New(electionModule, commissionModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
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

	electionRepo := electionpostgres.NewRepository(pg.DB, logger)
	commissionRepo := commissionpostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		electionRelay: electionworkers.OutboxRelay{
			Outbox:    electionRepo,
			Publisher: kafka,
			Clock:     electionpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		commissionRelay: commissionworkers.OutboxRelay{
			Outbox:    commissionRepo,
			Publisher: commissionPublisher{bus: kafka},
			Clock:     commissionpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		runElection:   cfg.EnableElectionOutboxRelay,
		runCommission: cfg.EnableCommissionOutboxRelay,
		pollInterval:  2 * time.Second,
		logger:        logger,
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
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
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
		if w.runElection {
			if err := w.electionRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		if w.runCommission {
			if err := w.commissionRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

// seedAuthority installs the initial authority once on an empty roster.
func seedAuthority(repo *commissionpostgres.Repository, principal string, logger *slog.Logger) error {
	trimmed := strings.TrimSpace(principal)
	if trimmed == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	roster, err := repo.GetRoster(ctx)
	if err != nil {
		return err
	}
	if roster.Authority != "" {
		return nil
	}
	if err := repo.SetAuthority(ctx, trimmed, time.Now().UTC(), nil); err != nil {
		return err
	}
	logger.Info("initial authority seeded",
		"event", "bootstrap_authority_seeded",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"authority", trimmed,
	)
	return nil
}

// commissionPublisher bridges the commission envelope type onto the shared bus.
type commissionPublisher struct {
	bus *messaging.Kafka
}

func (p commissionPublisher) Publish(ctx context.Context, topic string, event commissionports.EventEnvelope) error {
	return p.bus.Publish(ctx, topic, electionports.EventEnvelope{
		EventID:          event.EventID,
		EventType:        event.EventType,
		OccurredAt:       event.OccurredAt,
		SourceService:    event.SourceService,
		TraceID:          event.TraceID,
		SchemaVersion:    event.SchemaVersion,
		PartitionKeyPath: event.PartitionKeyPath,
		PartitionKey:     event.PartitionKey,
		Data:             event.Data,
	})
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
