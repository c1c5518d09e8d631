package app

import (
	"github.com/yungbote/bioof-backend/internal/modules/analytics"
	"github.com/yungbote/bioof-backend/internal/modules/evolution"
	"github.com/yungbote/bioof-backend/internal/modules/genes"
	"github.com/yungbote/bioof-backend/internal/modules/hybrid"
	"github.com/yungbote/bioof-backend/internal/modules/recommend"
	"github.com/yungbote/bioof-backend/internal/observability"
	"github.com/yungbote/bioof-backend/internal/platform/logger"
)

type Services struct {
	Genes     genes.Usecases
	Hybrid    hybrid.Usecases
	Recommend recommend.Usecases
	Evolution evolution.Usecases
	Analytics analytics.Usecases
}

func wireServices(log *logger.Logger, repos Repos, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	lookup := genes.New(genes.UsecasesDeps{
		Log:     log.With("usecase", "GeneLookup"),
		Store:   repos.GeneDocs,
		Cache:   repos.GeneCache,
		Metrics: metrics,
	})
	return Services{
		Genes: lookup,
		Hybrid: hybrid.New(hybrid.UsecasesDeps{
			Log:         log.With("usecase", "HybridQuery"),
			Projects:    repos.Projects,
			Experiments: repos.Experiments,
			Genes:       repos.GeneDocs,
		}),
		Recommend: recommend.New(recommend.UsecasesDeps{
			Log:      log.With("usecase", "Recommendation"),
			Lookup:   lookup,
			Metadata: repos.GeneMetadata,
			Genes:    repos.GeneDocs,
			Metrics:  metrics,
		}),
		Evolution: evolution.New(evolution.UsecasesDeps{
			Log:     log.With("usecase", "SchemaEvolution"),
			Catalog: repos.Catalog,
			Genes:   repos.GeneDocs,
			Cache:   repos.GeneCache,
			Metrics: metrics,
		}),
		Analytics: analytics.New(analytics.UsecasesDeps{
			Metadata: repos.GeneMetadata,
			Genes:    repos.GeneDocs,
		}),
	}
}
