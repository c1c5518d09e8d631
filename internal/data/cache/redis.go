package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/bioof-backend/internal/domain/genes"
	"github.com/yungbote/bioof-backend/internal/platform/logger"
)

type redisGeneCache struct {
	rdb *goredis.Client
	ttl time.Duration
	log *logger.Logger
}

func NewRedisGeneCache(rdb *goredis.Client, ttl time.Duration, baseLog *logger.Logger) GeneCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &redisGeneCache{rdb: rdb, ttl: ttl, log: baseLog.With("cache", "RedisGeneCache")}
}

func (c *redisGeneCache) Get(ctx context.Context, id string) (genes.Document, bool, error) {
	raw, err := c.rdb.Get(ctx, Key(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc genes.Document
	if err := dec.Decode(&doc); err != nil {
		// a corrupt entry behaves like a miss and is overwritten on the next Set
		c.log.Warn("Dropping undecodable cache entry", "gene_id", id, "error", err)
		return nil, false, nil
	}
	return doc, true, nil
}

func (c *redisGeneCache) Set(ctx context.Context, id string, doc genes.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := c.rdb.Set(ctx, Key(id), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *redisGeneCache) Purge(ctx context.Context) (int64, error) {
	var removed int64
	var cursor uint64
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, KeyPrefix+"*", 500).Result()
		if err != nil {
			return removed, fmt.Errorf("redis scan: %w", err)
		}
		if len(keys) > 0 {
			n, err := c.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("redis del: %w", err)
			}
			removed += n
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return removed, nil
}
