package app

import (
	httpH "github.com/yungbote/bioof-backend/internal/http/handlers"
	"github.com/yungbote/bioof-backend/internal/platform/logger"
)

type Handlers struct {
	Health         *httpH.HealthHandler
	Hybrid         *httpH.HybridHandler
	Recommendation *httpH.RecommendationHandler
	Gene           *httpH.GeneHandler
	Schema         *httpH.SchemaHandler
	Analytics      *httpH.AnalyticsHandler
}

func wireHandlers(log *logger.Logger, services Services, clients Clients) Handlers {
	log.Info("Wiring handlers...")
	checks := map[string]httpH.Pinger{}
	for name, p := range storeProbes(clients) {
		checks[name] = httpH.Pinger(p)
	}
	return Handlers{
		Health:         httpH.NewHealthHandler(checks),
		Hybrid:         httpH.NewHybridHandler(log, services.Hybrid),
		Recommendation: httpH.NewRecommendationHandler(log, services.Recommend),
		Gene:           httpH.NewGeneHandler(log, services.Genes),
		Schema:         httpH.NewSchemaHandler(log, services.Evolution),
		Analytics:      httpH.NewAnalyticsHandler(log, services.Analytics),
	}
}
