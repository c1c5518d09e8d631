package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/bioof-backend/internal/http/handlers"
	httpMW "github.com/yungbote/bioof-backend/internal/http/middleware"
	"github.com/yungbote/bioof-backend/internal/observability"
	"github.com/yungbote/bioof-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	AllowedOrigins []string

	HealthHandler         *httpH.HealthHandler
	HybridHandler         *httpH.HybridHandler
	RecommendationHandler *httpH.RecommendationHandler
	GeneHandler           *httpH.GeneHandler
	SchemaHandler         *httpH.SchemaHandler
	AnalyticsHandler      *httpH.AnalyticsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/", cfg.HealthHandler.Banner)
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		if cfg.HybridHandler != nil {
			api.GET("/hybrid-query", cfg.HybridHandler.Query)
		}

		// Genes
		if cfg.RecommendationHandler != nil {
			api.GET("/genes/recommend/:gene_id", cfg.RecommendationHandler.Recommend)
		}
		if cfg.GeneHandler != nil {
			api.GET("/genes/:gene_id", cfg.GeneHandler.Get)
		}

		// Schema catalog
		if cfg.SchemaHandler != nil {
			api.POST("/schema/evolve", cfg.SchemaHandler.Evolve)
			api.GET("/schema/active", cfg.SchemaHandler.Active)
		}

		// Analytics
		if cfg.AnalyticsHandler != nil {
			api.GET("/stats/sql", cfg.AnalyticsHandler.Relational)
			api.GET("/stats/nosql", cfg.AnalyticsHandler.Document)
		}
	}

	return r
}
