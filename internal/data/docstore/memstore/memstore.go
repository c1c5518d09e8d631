// Package memstore is an in-memory docstore.GeneStore for tests and local runs
// without a document database.
package memstore

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/bioof-backend/internal/data/docstore"
	"github.com/yungbote/bioof-backend/internal/domain/genes"
)

type Store struct {
	mu   sync.RWMutex
	docs []genes.Document

	// Err, when set, is returned by every operation.
	Err error
	// SetErr fails SetFieldOnAll only.
	SetErr error
}

var _ docstore.GeneStore = (*Store)(nil)

func New(docs ...genes.Document) *Store {
	s := &Store{}
	_, _ = s.InsertMany(context.Background(), docs)
	return s
}

// Docs returns copies of every stored document in insertion order.
func (s *Store) Docs() []genes.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]genes.Document, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, d.Clone())
	}
	return out
}

func (s *Store) FindByExperiments(_ context.Context, experimentIDs []int64, minScore float64, limit int) ([]genes.Document, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	want := make(map[int64]struct{}, len(experimentIDs))
	for _, id := range experimentIDs {
		want[id] = struct{}{}
	}
	s.mu.RLock()
	var out []genes.Document
	for _, d := range s.docs {
		eid, ok := d.ExperimentID()
		if !ok {
			continue
		}
		if _, hit := want[eid]; !hit {
			continue
		}
		if score, ok := d.ExpressionScore(); ok && score > minScore {
			out = append(out, d.Clone())
		}
	}
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		a, _ := out[i].ExpressionScore()
		b, _ := out[j].ExpressionScore()
		return a > b
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []genes.Document{}
	}
	return out, nil
}

// FindByID accepts any non-blank id without whitespace; the mongo store is
// stricter and only accepts 24 hex characters.
func (s *Store) FindByID(_ context.Context, id string) (genes.Document, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if id == "" || strings.ContainsAny(id, " \t\n") {
		return nil, fmt.Errorf("%w: %q", docstore.ErrInvalidID, id)
	}
	return s.first(func(d genes.Document) bool { return d.ID() == id }), nil
}

func (s *Store) FindOneBySymbol(_ context.Context, symbol string) (genes.Document, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if symbol == "" {
		return nil, nil
	}
	return s.first(func(d genes.Document) bool { return d.GeneSymbol() == symbol }), nil
}

func (s *Store) first(match func(genes.Document) bool) genes.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.docs {
		if match(d) {
			return d.Clone()
		}
	}
	return nil
}

func (s *Store) SetFieldOnAll(_ context.Context, field string, value any) (docstore.UpdateResult, error) {
	if s.Err != nil {
		return docstore.UpdateResult{}, s.Err
	}
	if s.SetErr != nil {
		return docstore.UpdateResult{}, s.SetErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var res docstore.UpdateResult
	for _, d := range s.docs {
		res.Matched++
		if cur, ok := d[field]; ok && reflect.DeepEqual(cur, value) {
			continue
		}
		d[field] = value
		res.Modified++
	}
	return res, nil
}

func (s *Store) GCContentHistogram(_ context.Context, boundaries []int) ([]genes.Bucket, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if len(boundaries) < 2 {
		return nil, fmt.Errorf("histogram needs at least two boundaries, got %d", len(boundaries))
	}
	counts := map[int]int64{}
	s.mu.RLock()
	for _, d := range s.docs {
		gc, ok := d.GCContent()
		if !ok {
			continue
		}
		for i := 0; i < len(boundaries)-1; i++ {
			if gc >= float64(boundaries[i]) && gc < float64(boundaries[i+1]) {
				counts[boundaries[i]]++
				break
			}
		}
	}
	s.mu.RUnlock()
	out := make([]genes.Bucket, 0, len(counts))
	// reverse order so callers cannot rely on store ordering
	for i := len(boundaries) - 2; i >= 0; i-- {
		if n, ok := counts[boundaries[i]]; ok {
			out = append(out, genes.Bucket{Start: float64(boundaries[i]), Count: n})
		}
	}
	return out, nil
}

func (s *Store) InsertMany(_ context.Context, docs []genes.Document) ([]string, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		c := d.Clone()
		if c.ID() == "" {
			c[genes.FieldID] = strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
		}
		s.docs = append(s.docs, c)
		ids = append(ids, c.ID())
	}
	return ids, nil
}

func (s *Store) EnsureIndexes(context.Context) error { return s.Err }
