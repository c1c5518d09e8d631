package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/bioof-backend/internal/domain/genes"
	"github.com/yungbote/bioof-backend/internal/http/response"
	"github.com/yungbote/bioof-backend/internal/platform/logger"
)

type GeneGetter interface {
	Get(ctx context.Context, id string) (types.Document, error)
}

type GeneHandler struct {
	log   *logger.Logger
	genes GeneGetter
}

func NewGeneHandler(log *logger.Logger, genes GeneGetter) *GeneHandler {
	return &GeneHandler{log: log.With("handler", "GeneHandler"), genes: genes}
}

// GET /api/genes/:gene_id
func (h *GeneHandler) Get(c *gin.Context) {
	doc, err := h.genes.Get(c.Request.Context(), c.Param("gene_id"))
	if err != nil {
		response.RespondAPIError(c, h.log, err, "load_gene_failed")
		return
	}
	response.RespondOK(c, doc)
}
