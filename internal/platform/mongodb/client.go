package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/yungbote/bioof-backend/internal/platform/logger"
)

type Config struct {
	URI         string
	Database    string
	Timeout     time.Duration
	MaxPoolSize uint64
}

type Client struct {
	Mongo    *mongo.Client
	Database *mongo.Database
	log      *logger.Logger
}

func New(log *logger.Logger, cfg Config) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("mongodb: logger required")
	}
	uri := strings.TrimSpace(cfg.URI)
	if uri == "" {
		return nil, fmt.Errorf("mongodb: missing uri")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("mongodb: missing database name")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxPoolSize == 0 {
		cfg.MaxPoolSize = 50
	}

	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetConnectTimeout(cfg.Timeout).
		SetServerSelectionTimeout(cfg.Timeout)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	mc, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb: connect: %w", err)
	}
	if err := mc.Ping(ctx, readpref.Primary()); err != nil {
		_ = mc.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb: ping: %w", err)
	}

	l := log.With("client", "MongoDB", "database", cfg.Database)
	l.Info("Connected to MongoDB", "mongo_uri", uri)
	return &Client{
		Mongo:    mc,
		Database: mc.Database(cfg.Database),
		log:      l,
	}, nil
}

func (c *Client) Collection(name string) *mongo.Collection {
	return c.Database.Collection(name)
}

func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.Mongo == nil {
		return fmt.Errorf("mongodb: client not initialized")
	}
	return c.Mongo.Ping(ctx, readpref.Primary())
}

func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.Mongo == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return c.Mongo.Disconnect(ctx)
}
