package genes

import (
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/yungbote/bioof-backend/internal/domain/genes"
	"github.com/yungbote/bioof-backend/internal/platform/dbctx"
	"github.com/yungbote/bioof-backend/internal/platform/logger"
)

type MetadataRepo interface {
	Create(dbc dbctx.Context, rows []*genes.Metadata) ([]*genes.Metadata, error)
	// EmbeddingBySymbol returns nil, nil when the symbol is unknown or has no embedding yet.
	EmbeddingBySymbol(dbc dbctx.Context, symbol string) (*pgvector.Vector, error)
	// Nearest ranks rows by cosine distance to q, skipping excludeSymbol and rows without embeddings.
	// Each symbol appears at most once, at its closest distance.
	Nearest(dbc dbctx.Context, q pgvector.Vector, excludeSymbol string, k int) ([]genes.Neighbor, error)
	ChromosomeStats(dbc dbctx.Context) ([]genes.ChromosomeStat, error)
}

// candidateOversample widens the index scan so k distinct symbols survive
// when several rows share a symbol.
const candidateOversample = 4

type metadataRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMetadataRepo(db *gorm.DB, baseLog *logger.Logger) MetadataRepo {
	return &metadataRepo{db: db, log: baseLog.With("repo", "GeneMetadataRepo")}
}

func (r *metadataRepo) Create(dbc dbctx.Context, rows []*genes.Metadata) ([]*genes.Metadata, error) {
	if len(rows) == 0 {
		return []*genes.Metadata{}, nil
	}
	if err := dbc.Conn(r.db).CreateInBatches(&rows, 500).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *metadataRepo) EmbeddingBySymbol(dbc dbctx.Context, symbol string) (*pgvector.Vector, error) {
	if symbol == "" {
		return nil, nil
	}
	var rows []genes.Metadata
	if err := dbc.Conn(r.db).
		Select("id", "embedding").
		Where("gene_symbol = ? AND embedding IS NOT NULL", symbol).
		Order("id ASC").
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 || rows[0].Embedding == nil || len(rows[0].Embedding.Slice()) == 0 {
		return nil, nil
	}
	return rows[0].Embedding, nil
}

func (r *metadataRepo) Nearest(dbc dbctx.Context, q pgvector.Vector, excludeSymbol string, k int) ([]genes.Neighbor, error) {
	var out []genes.Neighbor
	if k <= 0 || len(q.Slice()) == 0 {
		return out, nil
	}
	// The inner scan is served by the HNSW index; duplicate symbols collapse
	// to their closest row afterwards.
	if err := dbc.Conn(r.db).Raw(`
		WITH candidates AS (
			SELECT gene_symbol, experiment_id, embedding <=> ?::vector AS distance
			FROM gene_metadata
			WHERE gene_symbol <> ? AND embedding IS NOT NULL
			ORDER BY embedding <=> ?::vector ASC
			LIMIT ?
		)
		SELECT gene_symbol, experiment_id, distance
		FROM (
			SELECT DISTINCT ON (gene_symbol) gene_symbol, experiment_id, distance
			FROM candidates
			ORDER BY gene_symbol, distance ASC
		) nearest
		ORDER BY distance ASC, gene_symbol ASC
		LIMIT ?
	`, q, excludeSymbol, q, k*candidateOversample, k).Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *metadataRepo) ChromosomeStats(dbc dbctx.Context) ([]genes.ChromosomeStat, error) {
	var out []genes.ChromosomeStat
	if err := dbc.Conn(r.db).Raw(`
		SELECT chromosome,
		       COUNT(*) AS gene_count,
		       CAST(AVG(sequence_length) AS INTEGER) AS avg_length
		FROM gene_metadata
		GROUP BY chromosome
		HAVING COUNT(*) > 0
		ORDER BY gene_count DESC, chromosome ASC
	`).Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
