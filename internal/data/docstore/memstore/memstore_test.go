package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/bioof-backend/internal/data/docstore"
	"github.com/yungbote/bioof-backend/internal/domain/genes"
)

func TestFindByExperimentsFiltersAndSorts(t *testing.T) {
	s := New(
		genes.Document{"gene_symbol": "A", "experiment_id": 1, "expression_score": 10.0},
		genes.Document{"gene_symbol": "B", "experiment_id": 1, "expression_score": 70.0},
		genes.Document{"gene_symbol": "C", "experiment_id": 2, "expression_score": 90.0},
		genes.Document{"gene_symbol": "D", "experiment_id": 3, "expression_score": 95.0},
		genes.Document{"gene_symbol": "E", "experiment_id": 2, "expression_score": 50.0},
	)
	got, err := s.FindByExperiments(context.Background(), []int64{1, 2}, 50, 10)
	if err != nil {
		t.Fatalf("FindByExperiments: %v", err)
	}
	if len(got) != 2 || got[0].GeneSymbol() != "C" || got[1].GeneSymbol() != "B" {
		t.Fatalf("unexpected result: %v", got)
	}
}

func TestFindByIDRejectsBlank(t *testing.T) {
	s := New(genes.Document{"_id": "abc", "gene_symbol": "A"})
	if _, err := s.FindByID(context.Background(), ""); !errors.Is(err, docstore.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	doc, err := s.FindByID(context.Background(), "abc")
	if err != nil || doc.GeneSymbol() != "A" {
		t.Fatalf("FindByID: %v %v", doc, err)
	}
	doc["gene_symbol"] = "mutated"
	again, _ := s.FindByID(context.Background(), "abc")
	if again.GeneSymbol() != "A" {
		t.Fatalf("returned document aliases stored state")
	}
}

func TestSetFieldOnAllCountsModified(t *testing.T) {
	s := New(genes.Document{"gene_symbol": "A"}, genes.Document{"gene_symbol": "B", "Priority": "high"})
	res, err := s.SetFieldOnAll(context.Background(), "Priority", "high")
	if err != nil || res.Matched != 2 || res.Modified != 1 {
		t.Fatalf("SetFieldOnAll: %+v %v", res, err)
	}
}
