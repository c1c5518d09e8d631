package app

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/bioof-backend/internal/observability"
	"github.com/yungbote/bioof-backend/internal/platform/envutil"
	"github.com/yungbote/bioof-backend/internal/platform/logger"
)

type PostgresSettings struct {
	DSN                    string `yaml:"dsn"`
	Host                   string `yaml:"host"`
	Port                   int    `yaml:"port"`
	User                   string `yaml:"user"`
	Password               string `yaml:"password"`
	Name                   string `yaml:"name"`
	SSLMode                string `yaml:"sslmode"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeSeconds int    `yaml:"conn_max_lifetime_seconds"`
}

type MongoSettings struct {
	URI            string `yaml:"uri"`
	Database       string `yaml:"database"`
	Collection     string `yaml:"collection"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type RedisSettings struct {
	URL  string `yaml:"url"`
	Addr string `yaml:"addr"`
}

type Config struct {
	Env                    string   `yaml:"env"`
	Port                   int      `yaml:"port"`
	LogMode                string   `yaml:"log_mode"`
	CacheTTLSeconds        int      `yaml:"cache_ttl_seconds"`
	EmbeddingDim           int      `yaml:"embedding_dim"`
	CORSAllowedOrigins     []string `yaml:"cors_allowed_origins"`
	MetricsEnabled         bool     `yaml:"metrics_enabled"`
	ShutdownTimeoutSeconds int      `yaml:"shutdown_timeout_seconds"`

	Postgres PostgresSettings         `yaml:"postgres"`
	Mongo    MongoSettings            `yaml:"mongo"`
	Redis    RedisSettings            `yaml:"redis"`
	Otel     observability.OtelConfig `yaml:"otel"`
}

func DefaultConfig() Config {
	return Config{
		Env:                    "development",
		Port:                   8080,
		LogMode:                "development",
		CacheTTLSeconds:        60,
		EmbeddingDim:           8,
		ShutdownTimeoutSeconds: 10,
		Postgres: PostgresSettings{
			Host:                   "localhost",
			Port:                   5432,
			User:                   "postgres",
			Name:                   "bioof",
			SSLMode:                "disable",
			MaxOpenConns:           20,
			MaxIdleConns:           10,
			ConnMaxLifetimeSeconds: 1800,
		},
		Mongo: MongoSettings{
			URI:            "mongodb://localhost:27017",
			Database:       "bioof_nosql",
			Collection:     "gene_data",
			TimeoutSeconds: 10,
		},
		Otel: observability.OtelConfig{ServiceName: "bioof", SampleRatio: 0.1},
	}
}

// LoadConfig starts from defaults, applies the YAML file at path (if any),
// then lets environment variables override individual values.
func LoadConfig(log *logger.Logger, path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		if log != nil {
			log.Info("Loaded config file", "path", path)
		}
	}
	cfg.applyEnv(log)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(log *logger.Logger) {
	c.Env = envutil.String("APP_ENV", c.Env, log)
	c.Port = envutil.Int("PORT", c.Port, log)
	c.LogMode = envutil.String("LOG_MODE", c.LogMode, log)
	c.CacheTTLSeconds = envutil.Int("CACHE_TTL_SECONDS", c.CacheTTLSeconds, log)
	c.EmbeddingDim = envutil.Int("EMBEDDING_DIM", c.EmbeddingDim, log)
	c.CORSAllowedOrigins = envutil.List("CORS_ALLOWED_ORIGINS", c.CORSAllowedOrigins, log)
	c.MetricsEnabled = envutil.Bool("METRICS_ENABLED", c.MetricsEnabled, log)
	c.ShutdownTimeoutSeconds = envutil.Int("SHUTDOWN_TIMEOUT_SECONDS", c.ShutdownTimeoutSeconds, log)

	c.Postgres.DSN = envutil.String("DATABASE_URL", c.Postgres.DSN, log)
	c.Postgres.Host = envutil.String("POSTGRES_HOST", c.Postgres.Host, log)
	c.Postgres.Port = envutil.Int("POSTGRES_PORT", c.Postgres.Port, log)
	c.Postgres.User = envutil.String("POSTGRES_USER", c.Postgres.User, log)
	c.Postgres.Password = envutil.String("POSTGRES_PASSWORD", c.Postgres.Password, nil)
	c.Postgres.Name = envutil.String("POSTGRES_NAME", c.Postgres.Name, log)
	c.Postgres.SSLMode = envutil.String("POSTGRES_SSLMODE", c.Postgres.SSLMode, log)
	c.Postgres.MaxOpenConns = envutil.Int("POSTGRES_MAX_OPEN_CONNS", c.Postgres.MaxOpenConns, log)
	c.Postgres.MaxIdleConns = envutil.Int("POSTGRES_MAX_IDLE_CONNS", c.Postgres.MaxIdleConns, log)

	c.Mongo.URI = envutil.String("MONGO_URI", c.Mongo.URI, log)
	c.Mongo.Database = envutil.String("MONGO_DATABASE", c.Mongo.Database, log)
	c.Mongo.Collection = envutil.String("MONGO_COLLECTION", c.Mongo.Collection, log)
	c.Mongo.TimeoutSeconds = envutil.Int("MONGO_TIMEOUT_SECONDS", c.Mongo.TimeoutSeconds, log)

	c.Redis.URL = envutil.String("REDIS_URL", c.Redis.URL, log)
	c.Redis.Addr = envutil.String("REDIS_ADDR", c.Redis.Addr, log)

	c.Otel.Enabled = envutil.Bool("OTEL_ENABLED", c.Otel.Enabled, log)
	c.Otel.ServiceName = envutil.String("OTEL_SERVICE_NAME", c.Otel.ServiceName, log)
	if c.Otel.Environment == "" {
		c.Otel.Environment = c.Env
	}
	c.Otel.Environment = envutil.String("OTEL_ENVIRONMENT", c.Otel.Environment, log)
	c.Otel.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", c.Otel.Endpoint, log)
	c.Otel.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", c.Otel.Insecure, log)
	if h := observability.ParseHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS")); h != nil {
		c.Otel.Headers = h
	}
	if v := os.Getenv("OTEL_SAMPLER_RATIO"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Otel.SampleRatio = f
		}
	}
}

func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.EmbeddingDim <= 0 {
		return fmt.Errorf("embedding_dim must be positive, got %d", c.EmbeddingDim)
	}
	if c.Mongo.Database == "" || c.Mongo.Collection == "" {
		return fmt.Errorf("mongo database and collection are required")
	}
	return nil
}

// PostgresDSN returns the explicit DSN or one assembled from its parts.
func (c Config) PostgresDSN() string {
	if c.Postgres.DSN != "" {
		return c.Postgres.DSN
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Postgres.User, c.Postgres.Password),
		Host:   fmt.Sprintf("%s:%d", c.Postgres.Host, c.Postgres.Port),
		Path:   "/" + c.Postgres.Name,
	}
	q := url.Values{}
	if c.Postgres.SSLMode != "" {
		q.Set("sslmode", c.Postgres.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (c Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

func (c Config) CacheTTL() time.Duration { return time.Duration(c.CacheTTLSeconds) * time.Second }

func (c Config) ShutdownTimeout() time.Duration {
	if c.ShutdownTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}
