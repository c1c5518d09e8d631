package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/bioof-backend/internal/http/response"
	"github.com/yungbote/bioof-backend/internal/modules/recommend"
	"github.com/yungbote/bioof-backend/internal/platform/logger"
)

type Recommender interface {
	Recommend(ctx context.Context, id string) (*recommend.Result, error)
}

type RecommendationHandler struct {
	log         *logger.Logger
	recommender Recommender
}

func NewRecommendationHandler(log *logger.Logger, recommender Recommender) *RecommendationHandler {
	return &RecommendationHandler{log: log.With("handler", "RecommendationHandler"), recommender: recommender}
}

// GET /api/genes/recommend/:gene_id
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	res, err := h.recommender.Recommend(c.Request.Context(), c.Param("gene_id"))
	if err != nil {
		response.RespondAPIError(c, h.log, err, "recommendation_failed")
		return
	}
	response.RespondOK(c, res)
}
