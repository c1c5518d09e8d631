package app

import (
	"context"
	"fmt"
	"time"

	"github.com/yungbote/bioof-backend/internal/data/db"
	apphttp "github.com/yungbote/bioof-backend/internal/http"
	"github.com/yungbote/bioof-backend/internal/observability"
	"github.com/yungbote/bioof-backend/internal/platform/logger"
)

const storeProbeInterval = 15 * time.Second

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Metrics  *observability.Metrics
	Services Services
	Server   *apphttp.Server
}

func New(cfg Config, log *logger.Logger) (*App, error) {
	clients, err := wireClients(log, cfg)
	if err != nil {
		return nil, fmt.Errorf("wire clients: %w", err)
	}

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.Init(log)
	}

	repos := wireRepos(clients.Postgres.DB(), clients, cfg, log)
	services := wireServices(log, repos, metrics)
	handlers := wireHandlers(log, services, clients)

	server := apphttp.NewServer(apphttp.RouterConfig{
		Log:                   log,
		Metrics:               metrics,
		ServiceName:           otelServiceName(cfg),
		AllowedOrigins:        cfg.CORSAllowedOrigins,
		HealthHandler:         handlers.Health,
		HybridHandler:         handlers.Hybrid,
		RecommendationHandler: handlers.Recommendation,
		GeneHandler:           handlers.Gene,
		SchemaHandler:         handlers.Schema,
		AnalyticsHandler:      handlers.Analytics,
	})

	return &App{
		Log:      log,
		Cfg:      cfg,
		Clients:  clients,
		Repos:    repos,
		Metrics:  metrics,
		Services: services,
		Server:   server,
	}, nil
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.Metrics.StartStoreProbes(ctx, a.Log, storeProbeInterval, storeProbes(a.Clients))
	return a.Server.Run(ctx, a.Cfg.Addr(), a.Cfg.ShutdownTimeout())
}

// Migrate creates the relational tables, the HNSW index and the document
// collection indexes. It is safe to run repeatedly.
func (a *App) Migrate(ctx context.Context) error {
	gdb := a.Clients.Postgres.DB().WithContext(ctx)
	if err := db.AutoMigrateAll(gdb); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := db.EnsureVectorIndex(gdb, a.Cfg.EmbeddingDim); err != nil {
		return fmt.Errorf("vector index: %w", err)
	}
	if err := a.Repos.GeneDocs.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("gene document indexes: %w", err)
	}
	a.Log.Info("Migrations complete", "embedding_dim", a.Cfg.EmbeddingDim)
	return nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.Clients.Close(ctx)
}

func storeProbes(c Clients) map[string]observability.Probe {
	out := map[string]observability.Probe{}
	if c.Postgres != nil {
		out["postgres"] = c.Postgres.Ping
	}
	if c.Mongo != nil {
		out["mongo"] = c.Mongo.Ping
	}
	if c.Redis != nil {
		rdb := c.Redis
		out["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return out
}

func otelServiceName(cfg Config) string {
	if !cfg.Otel.Enabled {
		return ""
	}
	return cfg.Otel.ServiceName
}
