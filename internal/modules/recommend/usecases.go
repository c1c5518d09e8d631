package recommend

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/bioof-backend/internal/data/docstore"
	generepo "github.com/yungbote/bioof-backend/internal/data/repos/genes"
	types "github.com/yungbote/bioof-backend/internal/domain/genes"
	"github.com/yungbote/bioof-backend/internal/observability"
	"github.com/yungbote/bioof-backend/internal/platform/apierr"
	"github.com/yungbote/bioof-backend/internal/platform/ctxutil"
	"github.com/yungbote/bioof-backend/internal/platform/dbctx"
	"github.com/yungbote/bioof-backend/internal/platform/logger"
)

const (
	K            = 5
	SearchMethod = "HNSW Vector Index (Cosine Distance)"

	VectorEnabled          = "Enabled"
	VectorMissingEmbedding = "MissingEmbedding"
)

// GeneLookup resolves a document id, typically through the gene cache.
type GeneLookup interface {
	Get(ctx context.Context, id string) (types.Document, error)
}

type UsecasesDeps struct {
	Log      *logger.Logger
	Lookup   GeneLookup
	Metadata generepo.MetadataRepo
	Genes    docstore.GeneStore
	Metrics  *observability.Metrics
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases {
	if deps.Log == nil {
		deps.Log = logger.NewNop()
	}
	return Usecases{deps: deps}
}

type Result struct {
	SourceGene      string           `json:"source_gene"`
	SearchMethod    string           `json:"search_method"`
	Recommendations []types.Document `json:"recommendations"`
	VectorStatus    string           `json:"vector_status"`
}

// Recommend returns up to K documents whose embeddings are nearest to the
// gene identified by id, most similar first. The source gene is never part
// of the result.
func (u Usecases) Recommend(ctx context.Context, id string) (*Result, error) {
	if u.deps.Lookup == nil || u.deps.Metadata == nil || u.deps.Genes == nil {
		return nil, apierr.Upstream("recommend_deps_missing", fmt.Errorf("missing deps"))
	}
	ctx, span := observability.Tracer().Start(ctx, "recommend.Recommend")
	defer span.End()
	log := u.deps.Log.With(ctxutil.LogFields(ctx)...)

	source, err := u.deps.Lookup.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	symbol := source.GeneSymbol()
	if symbol == "" {
		return nil, apierr.NotFound("gene_not_found", fmt.Errorf("document %s has no gene_symbol", id))
	}
	span.SetAttributes(attribute.String("gene_symbol", symbol))

	out := &Result{
		SourceGene:      symbol,
		SearchMethod:    SearchMethod,
		Recommendations: []types.Document{},
		VectorStatus:    VectorEnabled,
	}

	dbc := dbctx.Context{Ctx: ctx}
	embedding, err := u.deps.Metadata.EmbeddingBySymbol(dbc, symbol)
	if err != nil {
		return nil, apierr.Upstream("load_embedding_failed", err)
	}
	if embedding == nil {
		log.Info("No embedding for gene, returning empty recommendations", "gene_symbol", symbol)
		out.VectorStatus = VectorMissingEmbedding
		return out, nil
	}

	neighbors, err := u.deps.Metadata.Nearest(dbc, *embedding, symbol, K)
	if err != nil {
		return nil, apierr.Upstream("similarity_search_failed", err)
	}

	neighbors = distinctCandidates(neighbors, symbol)

	enriched := make([]types.Document, len(neighbors))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(K)
	for i, n := range neighbors {
		i, n := i, n
		g.Go(func() error {
			doc, err := u.deps.Genes.FindOneBySymbol(gctx, n.GeneSymbol)
			if err != nil {
				return fmt.Errorf("enrich %s: %w", n.GeneSymbol, err)
			}
			if doc == nil {
				return nil
			}
			doc = doc.Clone()
			doc[types.FieldSimilarityScore] = 1 - n.Distance
			enriched[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apierr.Upstream("enrich_recommendations_failed", err)
	}

	gaps := 0
	for _, doc := range enriched {
		if doc == nil {
			gaps++
			continue
		}
		out.Recommendations = append(out.Recommendations, doc)
	}
	if gaps > 0 {
		u.deps.Metrics.AddEnrichmentGaps(gaps)
		log.Debug("Dropped candidates without documents", "gene_symbol", symbol, "dropped", gaps)
	}

	sort.SliceStable(out.Recommendations, func(i, j int) bool {
		return similarity(out.Recommendations[i]) > similarity(out.Recommendations[j])
	})
	if len(out.Recommendations) > K {
		out.Recommendations = out.Recommendations[:K]
	}
	span.SetAttributes(attribute.Int("recommendations", len(out.Recommendations)))
	return out, nil
}

// distinctCandidates drops the source symbol and keeps only the first
// (closest) row per symbol, preserving order.
func distinctCandidates(neighbors []types.Neighbor, source string) []types.Neighbor {
	seen := make(map[string]struct{}, len(neighbors))
	out := make([]types.Neighbor, 0, len(neighbors))
	for _, n := range neighbors {
		if n.GeneSymbol == source {
			continue
		}
		if _, dup := seen[n.GeneSymbol]; dup {
			continue
		}
		seen[n.GeneSymbol] = struct{}{}
		out = append(out, n)
	}
	return out
}

func similarity(d types.Document) float64 {
	f, _ := types.AsFloat64(d[types.FieldSimilarityScore])
	return f
}
