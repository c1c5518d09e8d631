package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/bioof-backend/internal/http/response"
	"github.com/yungbote/bioof-backend/internal/modules/hybrid"
	"github.com/yungbote/bioof-backend/internal/platform/logger"
)

type HybridQuerier interface {
	Query(ctx context.Context, in hybrid.Input) (*hybrid.Result, error)
}

type HybridHandler struct {
	log    *logger.Logger
	hybrid HybridQuerier
}

func NewHybridHandler(log *logger.Logger, hybrid HybridQuerier) *HybridHandler {
	return &HybridHandler{log: log.With("handler", "HybridHandler"), hybrid: hybrid}
}

// GET /api/hybrid-query?project_id=&min_score=
func (h *HybridHandler) Query(c *gin.Context) {
	projectID, err := strconv.ParseInt(strings.TrimSpace(c.Query("project_id")), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_project_id", fmt.Errorf("project_id must be an integer"))
		return
	}
	minScore, err := strconv.ParseFloat(strings.TrimSpace(c.Query("min_score")), 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_min_score", fmt.Errorf("min_score must be a number"))
		return
	}
	res, err := h.hybrid.Query(c.Request.Context(), hybrid.Input{ProjectID: projectID, MinScore: minScore})
	if err != nil {
		response.RespondAPIError(c, h.log, err, "hybrid_query_failed")
		return
	}
	response.RespondOK(c, res)
}
