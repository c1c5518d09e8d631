package docstore

import (
	"context"
	"errors"

	"github.com/yungbote/bioof-backend/internal/domain/genes"
)

// ErrInvalidID is returned when a document id is not a valid store id.
var ErrInvalidID = errors.New("invalid document id")

// UpdateResult reports what an unconditional mass update touched.
type UpdateResult struct {
	Matched  int64
	Modified int64
}

// GeneStore is the gene expression document collection. Lookups that find
// nothing return a nil document and a nil error.
type GeneStore interface {
	FindByExperiments(ctx context.Context, experimentIDs []int64, minScore float64, limit int) ([]genes.Document, error)
	FindByID(ctx context.Context, id string) (genes.Document, error)
	FindOneBySymbol(ctx context.Context, symbol string) (genes.Document, error)
	SetFieldOnAll(ctx context.Context, field string, value any) (UpdateResult, error)
	GCContentHistogram(ctx context.Context, boundaries []int) ([]genes.Bucket, error)
	InsertMany(ctx context.Context, docs []genes.Document) ([]string, error)
	EnsureIndexes(ctx context.Context) error
}
