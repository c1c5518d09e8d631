package genes

import (
	"context"
	"math"
	"testing"

	"github.com/pgvector/pgvector-go"

	"github.com/yungbote/bioof-backend/internal/data/repos/testutil"
	"github.com/yungbote/bioof-backend/internal/platform/dbctx"
)

func TestChromosomeStats(t *testing.T) {
	db := testutil.SQLite(t)
	ctx := context.Background()
	testutil.SeedGene(t, ctx, db, "GENE-1001", "chr1", 100, nil)
	testutil.SeedGene(t, ctx, db, "GENE-1002", "chr1", 300, nil)
	testutil.SeedGene(t, ctx, db, "GENE-1003", "chr1", 200, nil)
	testutil.SeedGene(t, ctx, db, "GENE-2001", "chrX", 1000, nil)

	repo := NewMetadataRepo(db, testutil.Logger(t))
	stats, err := repo.ChromosomeStats(dbctx.Context{Ctx: ctx})
	if err != nil {
		t.Fatalf("ChromosomeStats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 chromosomes, got %+v", stats)
	}
	if stats[0].Chromosome != "chr1" || stats[0].Count != 3 || stats[0].AvgLength != 200 {
		t.Fatalf("unexpected first row: %+v", stats[0])
	}
	if stats[1].Chromosome != "chrX" || stats[1].Count != 1 || stats[1].AvgLength != 1000 {
		t.Fatalf("unexpected second row: %+v", stats[1])
	}
}

func TestEmbeddingBySymbol(t *testing.T) {
	db := testutil.SQLite(t)
	ctx := context.Background()
	testutil.SeedGene(t, ctx, db, "GENE-1001", "chr1", 100, []float32{1, 0, 0})
	testutil.SeedGene(t, ctx, db, "GENE-1002", "chr1", 100, nil)

	repo := NewMetadataRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}

	emb, err := repo.EmbeddingBySymbol(dbc, "GENE-1001")
	if err != nil {
		t.Fatalf("EmbeddingBySymbol: %v", err)
	}
	if emb == nil || len(emb.Slice()) != 3 || emb.Slice()[0] != 1 {
		t.Fatalf("unexpected embedding: %v", emb)
	}
	for _, symbol := range []string{"GENE-1002", "GENE-9999", ""} {
		emb, err := repo.EmbeddingBySymbol(dbc, symbol)
		if err != nil {
			t.Fatalf("EmbeddingBySymbol(%q): %v", symbol, err)
		}
		if emb != nil {
			t.Fatalf("EmbeddingBySymbol(%q): expected nil, got %v", symbol, emb)
		}
	}
}

func TestNearestPostgres(t *testing.T) {
	db := testutil.Postgres(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	testutil.SeedGene(t, ctx, tx, "NN-TARGET", "chr1", 100, []float32{1, 0, 0})
	testutil.SeedGene(t, ctx, tx, "NN-CLOSE", "chr1", 100, []float32{0.9, 0.1, 0})
	testutil.SeedGene(t, ctx, tx, "NN-CLOSE", "chr1", 100, []float32{0.8, 0.2, 0})
	testutil.SeedGene(t, ctx, tx, "NN-MID", "chr2", 100, []float32{0.5, 0.5, 0})
	testutil.SeedGene(t, ctx, tx, "NN-FAR", "chr3", 100, []float32{0, 0, 1})
	testutil.SeedGene(t, ctx, tx, "NN-NULL", "chr3", 100, nil)

	repo := NewMetadataRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	got, err := repo.Nearest(dbc, pgvector.NewVector([]float32{1, 0, 0}), "NN-TARGET", 3)
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 neighbors, got %+v", got)
	}
	want := []string{"NN-CLOSE", "NN-MID", "NN-FAR"}
	for i, n := range got {
		if n.GeneSymbol != want[i] {
			t.Fatalf("neighbor %d = %s, want %s", i, n.GeneSymbol, want[i])
		}
		if i > 0 && n.Distance < got[i-1].Distance {
			t.Fatalf("distances not ascending: %+v", got)
		}
	}
	if got[0].Distance > 0.01 {
		t.Fatalf("repeated symbol should keep its closest row, got %+v", got[0])
	}
	if math.Abs(got[2].Distance-1) > 1e-6 {
		t.Fatalf("orthogonal vector should have distance 1, got %f", got[2].Distance)
	}
}
