package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/bioof-backend/internal/domain/genes"
	"github.com/yungbote/bioof-backend/internal/http/response"
	"github.com/yungbote/bioof-backend/internal/modules/analytics"
	"github.com/yungbote/bioof-backend/internal/platform/logger"
)

type StatsProvider interface {
	ChromosomeStats(ctx context.Context) ([]types.ChromosomeStat, error)
	GCHistogram(ctx context.Context) ([]analytics.HistogramBucket, error)
}

type AnalyticsHandler struct {
	log   *logger.Logger
	stats StatsProvider
}

func NewAnalyticsHandler(log *logger.Logger, stats StatsProvider) *AnalyticsHandler {
	return &AnalyticsHandler{log: log.With("handler", "AnalyticsHandler"), stats: stats}
}

// GET /api/stats/sql
func (h *AnalyticsHandler) Relational(c *gin.Context) {
	rows, err := h.stats.ChromosomeStats(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, h.log, err, "chromosome_stats_failed")
		return
	}
	response.RespondOK(c, rows)
}

// GET /api/stats/nosql
func (h *AnalyticsHandler) Document(c *gin.Context) {
	rows, err := h.stats.GCHistogram(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, h.log, err, "gc_histogram_failed")
		return
	}
	response.RespondOK(c, rows)
}
