package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/bioof-backend/internal/data/cache"
	"github.com/yungbote/bioof-backend/internal/data/docstore"
	"github.com/yungbote/bioof-backend/internal/data/repos/catalog"
	"github.com/yungbote/bioof-backend/internal/data/repos/genes"
	"github.com/yungbote/bioof-backend/internal/data/repos/research"
	"github.com/yungbote/bioof-backend/internal/platform/logger"
)

type Repos struct {
	Users        research.UserRepo
	Projects     research.ProjectRepo
	Experiments  research.ExperimentRepo
	GeneMetadata genes.MetadataRepo
	Catalog      catalog.SchemaCatalogRepo

	GeneDocs  docstore.GeneStore
	GeneCache cache.GeneCache
}

func wireRepos(db *gorm.DB, clients Clients, cfg Config, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	geneCache := cache.NewNop()
	if clients.Redis != nil {
		geneCache = cache.NewRedisGeneCache(clients.Redis, cfg.CacheTTL(), log)
	}
	return Repos{
		Users:        research.NewUserRepo(db, log),
		Projects:     research.NewProjectRepo(db, log),
		Experiments:  research.NewExperimentRepo(db, log),
		GeneMetadata: genes.NewMetadataRepo(db, log),
		Catalog:      catalog.NewSchemaCatalogRepo(db, log),

		GeneDocs:  docstore.NewMongoGeneStore(clients.Mongo.Collection(cfg.Mongo.Collection), log),
		GeneCache: geneCache,
	}
}
