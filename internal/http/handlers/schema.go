package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/bioof-backend/internal/domain/catalog"
	"github.com/yungbote/bioof-backend/internal/http/response"
	"github.com/yungbote/bioof-backend/internal/modules/evolution"
	"github.com/yungbote/bioof-backend/internal/platform/logger"
)

type SchemaEvolver interface {
	Evolve(ctx context.Context, in evolution.Input) (*evolution.Result, error)
	ActiveSchema(ctx context.Context) ([]*catalog.Entry, error)
}

type SchemaHandler struct {
	log       *logger.Logger
	evolution SchemaEvolver
}

func NewSchemaHandler(log *logger.Logger, evolution SchemaEvolver) *SchemaHandler {
	return &SchemaHandler{log: log.With("handler", "SchemaHandler"), evolution: evolution}
}

type evolveRequest struct {
	AttributeName string `json:"attribute_name" binding:"required"`
	DefaultValue  string `json:"default_value"`
	DataType      string `json:"data_type"`
}

// POST /api/schema/evolve
func (h *SchemaHandler) Evolve(c *gin.Context) {
	var req evolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.evolution.Evolve(c.Request.Context(), evolution.Input{
		AttributeName: req.AttributeName,
		DataType:      req.DataType,
		DefaultValue:  req.DefaultValue,
	})
	if err != nil {
		response.RespondAPIError(c, h.log, err, "schema_evolution_failed")
		return
	}
	response.RespondOK(c, res)
}

// GET /api/schema/active
func (h *SchemaHandler) Active(c *gin.Context) {
	entries, err := h.evolution.ActiveSchema(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, h.log, err, "load_schema_failed")
		return
	}
	response.RespondOK(c, entries)
}
