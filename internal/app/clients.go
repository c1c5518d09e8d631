package app

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/bioof-backend/internal/data/db"
	"github.com/yungbote/bioof-backend/internal/platform/logger"
	"github.com/yungbote/bioof-backend/internal/platform/mongodb"
	"github.com/yungbote/bioof-backend/internal/platform/redisx"
)

type Clients struct {
	Postgres *db.PostgresService
	Mongo    *mongodb.Client
	// Redis is nil when no cache is configured.
	Redis *goredis.Client
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	pg, err := db.NewPostgresService(log, db.PostgresConfig{
		DSN:             cfg.PostgresDSN(),
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetimeSeconds) * time.Second,
	})
	if err != nil {
		return Clients{}, fmt.Errorf("init postgres: %w", err)
	}

	mc, err := mongodb.New(log, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  time.Duration(cfg.Mongo.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		_ = pg.Close()
		return Clients{}, fmt.Errorf("init mongo: %w", err)
	}

	out := Clients{Postgres: pg, Mongo: mc}
	rcfg := redisx.Config{URL: cfg.Redis.URL, Addr: cfg.Redis.Addr}
	if !rcfg.Enabled() {
		log.Warn("Redis not configured; gene cache disabled")
		return out, nil
	}
	rdb, err := redisx.New(log, rcfg)
	if err != nil {
		// cache is optional
		log.Warn("Redis unavailable; gene cache disabled", "error", err)
		return out, nil
	}
	out.Redis = rdb
	return out, nil
}

func (c *Clients) Close(ctx context.Context) {
	if c == nil {
		return
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.Mongo != nil {
		_ = c.Mongo.Close(ctx)
	}
	if c.Postgres != nil {
		_ = c.Postgres.Close()
	}
}
