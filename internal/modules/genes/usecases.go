package genes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/bioof-backend/internal/data/cache"
	"github.com/yungbote/bioof-backend/internal/data/docstore"
	types "github.com/yungbote/bioof-backend/internal/domain/genes"
	"github.com/yungbote/bioof-backend/internal/observability"
	"github.com/yungbote/bioof-backend/internal/platform/apierr"
	"github.com/yungbote/bioof-backend/internal/platform/ctxutil"
	"github.com/yungbote/bioof-backend/internal/platform/logger"
)

type UsecasesDeps struct {
	Log     *logger.Logger
	Store   docstore.GeneStore
	Cache   cache.GeneCache
	Metrics *observability.Metrics
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases {
	if deps.Cache == nil {
		deps.Cache = cache.NewNop()
	}
	if deps.Log == nil {
		deps.Log = logger.NewNop()
	}
	return Usecases{deps: deps}
}

// Get returns one gene document by id, serving from the cache when it can.
// Cache failures are logged and never fail the lookup.
func (u Usecases) Get(ctx context.Context, id string) (types.Document, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apierr.InvalidInput("invalid_gene_id", fmt.Errorf("missing gene_id"))
	}
	if u.deps.Store == nil {
		return nil, apierr.Upstream("gene_store_missing", fmt.Errorf("missing deps"))
	}
	log := u.deps.Log.With(ctxutil.LogFields(ctx)...)

	doc, hit, err := u.deps.Cache.Get(ctx, id)
	switch {
	case err != nil:
		u.deps.Metrics.IncCacheLookup("error")
		log.Warn("Gene cache read failed", "gene_id", id, "error", err)
	case hit:
		u.deps.Metrics.IncCacheLookup("hit")
		return doc, nil
	default:
		u.deps.Metrics.IncCacheLookup("miss")
	}

	doc, err = u.deps.Store.FindByID(ctx, id)
	if errors.Is(err, docstore.ErrInvalidID) {
		return nil, apierr.InvalidInput("invalid_gene_id", err)
	}
	if err != nil {
		return nil, apierr.Upstream("load_gene_failed", err)
	}
	if doc == nil {
		return nil, apierr.NotFound("gene_not_found", nil)
	}

	if err := u.deps.Cache.Set(ctx, id, doc); err != nil {
		log.Warn("Gene cache write failed", "gene_id", id, "error", err)
	}
	return doc, nil
}
