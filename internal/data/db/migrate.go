package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/bioof-backend/internal/domain/catalog"
	"github.com/yungbote/bioof-backend/internal/domain/genes"
	"github.com/yungbote/bioof-backend/internal/domain/research"
)

// Models lists every relational table owned by this service.
func Models() []any {
	return []any{
		&research.User{},
		&research.Project{},
		&research.Experiment{},
		&genes.Metadata{},
		&catalog.Entry{},
	}
}

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS vector;`).Error; err != nil {
		return fmt.Errorf("enable vector extension: %w", err)
	}
	return db.AutoMigrate(Models()...)
}

// EnsureVectorIndex pins the embedding column to dim dimensions and builds the
// HNSW cosine index used by nearest-neighbor search.
func EnsureVectorIndex(db *gorm.DB, dim int) error {
	if dim <= 0 {
		return fmt.Errorf("embedding dimension must be positive, got %d", dim)
	}
	if err := db.Exec(fmt.Sprintf(
		`ALTER TABLE gene_metadata ALTER COLUMN embedding TYPE vector(%d);`, dim,
	)).Error; err != nil {
		return fmt.Errorf("set embedding dimension: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_gene_metadata_embedding_hnsw
		ON gene_metadata
		USING hnsw (embedding vector_cosine_ops);
	`).Error; err != nil {
		return fmt.Errorf("create idx_gene_metadata_embedding_hnsw: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_schema_evolution_log_created_at
		ON schema_evolution_log (created_at ASC, id ASC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_schema_evolution_log_created_at: %w", err)
	}
	return nil
}
