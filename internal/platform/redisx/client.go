package redisx

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/bioof-backend/internal/platform/logger"
)

// Config accepts either a redis:// URL or a bare host:port address.
type Config struct {
	URL         string
	Addr        string
	DialTimeout time.Duration
}

func (c Config) Enabled() bool {
	return strings.TrimSpace(c.URL) != "" || strings.TrimSpace(c.Addr) != ""
}

func New(log *logger.Logger, cfg Config) (*goredis.Client, error) {
	if log == nil {
		return nil, fmt.Errorf("redisx: logger required")
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}

	var opts *goredis.Options
	switch {
	case strings.TrimSpace(cfg.URL) != "":
		parsed, err := goredis.ParseURL(strings.TrimSpace(cfg.URL))
		if err != nil {
			return nil, fmt.Errorf("redisx: parse url: %w", err)
		}
		opts = parsed
	case strings.TrimSpace(cfg.Addr) != "":
		opts = &goredis.Options{Addr: strings.TrimSpace(cfg.Addr)}
	default:
		return nil, fmt.Errorf("redisx: missing REDIS_URL or REDIS_ADDR")
	}
	opts.DialTimeout = cfg.DialTimeout

	rdb := goredis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Info("Connected to Redis", "redis_addr", opts.Addr, "redis_db", opts.DB)
	return rdb, nil
}
