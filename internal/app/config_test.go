package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(nil, "")
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.CacheTTLSeconds)
	assert.Equal(t, "bioof_nosql", cfg.Mongo.Database)
	assert.Equal(t, "gene_data", cfg.Mongo.Collection)
	assert.Equal(t, "postgres://postgres:@localhost:5432/bioof?sslmode=disable", cfg.PostgresDSN())
}

func TestLoadConfigYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bioof.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 9090
cache_ttl_seconds: 30
cors_allowed_origins: ["https://lab.example.org"]
mongo:
  database: research
postgres:
  dsn: postgres://bio:pw@db:5432/bio
`), 0o600))

	t.Setenv("CACHE_TTL_SECONDS", "15")
	t.Setenv("MONGO_COLLECTION", "genes_v2")

	cfg, err := LoadConfig(nil, path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 15, cfg.CacheTTLSeconds)
	assert.Equal(t, "research", cfg.Mongo.Database)
	assert.Equal(t, "genes_v2", cfg.Mongo.Collection)
	assert.Equal(t, []string{"https://lab.example.org"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "postgres://bio:pw@db:5432/bio", cfg.PostgresDSN())
	assert.Equal(t, ":9090", cfg.Addr())
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("EMBEDDING_DIM", "0")
	_, err := LoadConfig(nil, "")
	assert.Error(t, err)

	_, err = LoadConfig(nil, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
