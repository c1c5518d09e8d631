package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"testing"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/bioof-backend/internal/data/docstore/memstore"
	types "github.com/yungbote/bioof-backend/internal/domain/genes"
	genelookup "github.com/yungbote/bioof-backend/internal/modules/genes"
	"github.com/yungbote/bioof-backend/internal/platform/apierr"
	"github.com/yungbote/bioof-backend/internal/platform/dbctx"
)

// vectorRepo ranks embeddings in memory by cosine distance.
type vectorRepo struct {
	embeddings map[string][]float32
	// includeSelf makes Nearest ignore excludeSymbol.
	includeSelf bool
	// ranked, when set, is returned by Nearest verbatim.
	ranked []types.Neighbor
	err    error
}

func (r *vectorRepo) Create(dbctx.Context, []*types.Metadata) ([]*types.Metadata, error) {
	return nil, nil
}

func (r *vectorRepo) EmbeddingBySymbol(_ dbctx.Context, symbol string) (*pgvector.Vector, error) {
	if r.err != nil {
		return nil, r.err
	}
	e, ok := r.embeddings[symbol]
	if !ok {
		return nil, nil
	}
	v := pgvector.NewVector(e)
	return &v, nil
}

func (r *vectorRepo) Nearest(_ dbctx.Context, q pgvector.Vector, excludeSymbol string, k int) ([]types.Neighbor, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.ranked != nil {
		return r.ranked, nil
	}
	var out []types.Neighbor
	for symbol, e := range r.embeddings {
		if symbol == excludeSymbol && !r.includeSelf {
			continue
		}
		out = append(out, types.Neighbor{GeneSymbol: symbol, Distance: cosineDistance(q.Slice(), e)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance == out[j].Distance {
			return out[i].GeneSymbol < out[j].GeneSymbol
		}
		return out[i].Distance < out[j].Distance
	})
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

func (r *vectorRepo) ChromosomeStats(dbctx.Context) ([]types.ChromosomeStat, error) {
	return nil, nil
}

func cosineDistance(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}

func newUsecases(store *memstore.Store, repo *vectorRepo) Usecases {
	return New(UsecasesDeps{
		Lookup:   genelookup.New(genelookup.UsecasesDeps{Store: store}),
		Metadata: repo,
		Genes:    store,
	})
}

func seed(n int) (*memstore.Store, *vectorRepo) {
	store := memstore.New()
	repo := &vectorRepo{embeddings: map[string][]float32{}}
	for i := 0; i < n; i++ {
		symbol := fmt.Sprintf("GENE-%02d", i)
		_, _ = store.InsertMany(context.Background(), []types.Document{{
			"_id":         fmt.Sprintf("id-%02d", i),
			"gene_symbol": symbol,
		}})
		repo.embeddings[symbol] = []float32{1, float32(i) / 4, float32(i%3) / 5}
	}
	return store, repo
}

func assertRankedWithoutSource(t *testing.T, res *Result, source string) {
	t.Helper()
	assert.LessOrEqual(t, len(res.Recommendations), K)
	prev := math.Inf(1)
	for _, d := range res.Recommendations {
		assert.NotEqual(t, source, d.GeneSymbol())
		score, ok := d[types.FieldSimilarityScore].(float64)
		require.True(t, ok, "similarity_score must be a float")
		assert.LessOrEqual(t, score, prev)
		prev = score
	}
}

func TestRecommendRanksNeighbors(t *testing.T) {
	store, repo := seed(12)
	res, err := newUsecases(store, repo).Recommend(context.Background(), "id-03")
	require.NoError(t, err)

	assert.Equal(t, "GENE-03", res.SourceGene)
	assert.Equal(t, SearchMethod, res.SearchMethod)
	assert.Equal(t, VectorEnabled, res.VectorStatus)
	assert.Len(t, res.Recommendations, K)
	assertRankedWithoutSource(t, res, "GENE-03")
}

func TestRecommendExcludesSourceEvenIfSearchReturnsIt(t *testing.T) {
	store, repo := seed(4)
	repo.includeSelf = true
	res, err := newUsecases(store, repo).Recommend(context.Background(), "id-01")
	require.NoError(t, err)
	assert.Len(t, res.Recommendations, 3)
	assertRankedWithoutSource(t, res, "GENE-01")
}

func TestRecommendCollapsesRepeatedSymbols(t *testing.T) {
	store, repo := seed(4)
	repo.ranked = []types.Neighbor{
		{GeneSymbol: "GENE-02", Distance: 0.1},
		{GeneSymbol: "GENE-02", Distance: 0.2},
		{GeneSymbol: "GENE-00", Distance: 0.25},
		{GeneSymbol: "GENE-03", Distance: 0.3},
		{GeneSymbol: "GENE-00", Distance: 0.4},
	}
	res, err := newUsecases(store, repo).Recommend(context.Background(), "id-01")
	require.NoError(t, err)
	assertRankedWithoutSource(t, res, "GENE-01")

	var symbols []string
	for _, d := range res.Recommendations {
		symbols = append(symbols, d.GeneSymbol())
	}
	assert.Equal(t, []string{"GENE-02", "GENE-00", "GENE-03"}, symbols)
	assert.InDelta(t, 0.9, res.Recommendations[0][types.FieldSimilarityScore], 1e-9)
	assert.InDelta(t, 0.75, res.Recommendations[1][types.FieldSimilarityScore], 1e-9)
}

func TestRecommendDropsCandidatesWithoutDocuments(t *testing.T) {
	store, repo := seed(3)
	repo.embeddings["ORPHAN"] = []float32{1, 0.26, 0.01}
	res, err := newUsecases(store, repo).Recommend(context.Background(), "id-01")
	require.NoError(t, err)
	assert.Len(t, res.Recommendations, 2)
	for _, d := range res.Recommendations {
		assert.NotEqual(t, "ORPHAN", d.GeneSymbol())
	}
}

func TestRecommendMissingEmbedding(t *testing.T) {
	store, repo := seed(3)
	_, _ = store.InsertMany(context.Background(), []types.Document{{"_id": "lonely", "gene_symbol": "NO-VECTOR"}})

	res, err := newUsecases(store, repo).Recommend(context.Background(), "lonely")
	require.NoError(t, err)
	assert.Equal(t, "NO-VECTOR", res.SourceGene)
	assert.Equal(t, VectorMissingEmbedding, res.VectorStatus)
	assert.NotNil(t, res.Recommendations)
	assert.Empty(t, res.Recommendations)
}

func TestRecommendErrorClasses(t *testing.T) {
	store, repo := seed(3)
	uc := newUsecases(store, repo)

	_, err := uc.Recommend(context.Background(), "not an id")
	assert.ErrorIs(t, err, apierr.ErrInvalidInput)

	_, err = uc.Recommend(context.Background(), "id-99")
	assert.ErrorIs(t, err, apierr.ErrNotFound)

	repo.err = errors.New("pg down")
	_, err = uc.Recommend(context.Background(), "id-01")
	assert.ErrorIs(t, err, apierr.ErrUpstreamUnavailable)
}
