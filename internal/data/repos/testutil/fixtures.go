package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/yungbote/bioof-backend/internal/domain/genes"
	"github.com/yungbote/bioof-backend/internal/domain/research"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username string) *research.User {
	tb.Helper()
	u := &research.User{Username: username, Email: fmt.Sprintf("%s@example.org", username)}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedProject(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID int64, name string) *research.Project {
	tb.Helper()
	p := &research.Project{Name: name, Description: name + " description", OwnerID: ownerID}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed project: %v", err)
	}
	return p
}

func SeedExperiment(tb testing.TB, ctx context.Context, tx *gorm.DB, projectID int64, name string) *research.Experiment {
	tb.Helper()
	e := &research.Experiment{Name: name, Description: "run " + name, ProjectID: projectID}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed experiment: %v", err)
	}
	return e
}

// SeedGene inserts a gene_metadata row; a nil embedding leaves the column NULL.
func SeedGene(tb testing.TB, ctx context.Context, tx *gorm.DB, symbol, chromosome string, length int, embedding []float32) *genes.Metadata {
	tb.Helper()
	m := &genes.Metadata{GeneSymbol: symbol, Chromosome: chromosome, SequenceLength: length}
	if embedding != nil {
		v := pgvector.NewVector(embedding)
		m.Embedding = &v
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed gene metadata: %v", err)
	}
	return m
}
