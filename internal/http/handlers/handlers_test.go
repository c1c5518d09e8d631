package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/bioof-backend/internal/domain/catalog"
	types "github.com/yungbote/bioof-backend/internal/domain/genes"
	"github.com/yungbote/bioof-backend/internal/http/response"
	"github.com/yungbote/bioof-backend/internal/modules/evolution"
	"github.com/yungbote/bioof-backend/internal/modules/hybrid"
	"github.com/yungbote/bioof-backend/internal/platform/apierr"
	"github.com/yungbote/bioof-backend/internal/platform/logger"
)

type fakeHybrid struct {
	got hybrid.Input
	res *hybrid.Result
	err error
}

func (f *fakeHybrid) Query(_ context.Context, in hybrid.Input) (*hybrid.Result, error) {
	f.got = in
	return f.res, f.err
}

type fakeEvolver struct {
	got evolution.Input
	err error
}

func (f *fakeEvolver) Evolve(_ context.Context, in evolution.Input) (*evolution.Result, error) {
	f.got = in
	if f.err != nil {
		return nil, f.err
	}
	return &evolution.Result{Message: "Schema Evolved: Added '" + in.AttributeName + "'", PropagationStatus: "Complete"}, nil
}

func (f *fakeEvolver) ActiveSchema(context.Context) ([]*catalog.Entry, error) {
	return []*catalog.Entry{{AttributeName: "Priority", DefaultValue: "high", DataType: "string"}}, f.err
}

type geneFunc func(ctx context.Context, id string) (types.Document, error)

func (f geneFunc) Get(ctx context.Context, id string) (types.Document, error) { return f(ctx, id) }

func serve(t *testing.T, method, path string, body []byte, register func(r *gin.Engine)) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	register(r)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.APIError {
	t.Helper()
	var env response.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Error
}

func TestHybridHandlerParsesQuery(t *testing.T) {
	f := &fakeHybrid{res: &hybrid.Result{Project: hybrid.ProjectMetadata{ID: 7, Name: "P", Source: "[SQL]"}, GeneData: []types.Document{}}}
	h := NewHybridHandler(logger.NewNop(), f)
	rec := serve(t, http.MethodGet, "/api/hybrid-query?project_id=7&min_score=50.5", nil, func(r *gin.Engine) {
		r.GET("/api/hybrid-query", h.Query)
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, hybrid.Input{ProjectID: 7, MinScore: 50.5}, f.got)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "project_metadata")
	assert.Contains(t, body, "gene_data")
	assert.Contains(t, body, "query_details")
}

func TestHybridHandlerStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		query  string
		err    error
		status int
		code   string
	}{
		{"bad project id", "project_id=abc&min_score=1", nil, http.StatusBadRequest, "invalid_project_id"},
		{"missing score", "project_id=1", nil, http.StatusBadRequest, "invalid_min_score"},
		{"zero project id is a lookup", "project_id=0&min_score=1", apierr.NotFound("project_not_found", nil), http.StatusNotFound, "project_not_found"},
		{"not found", "project_id=1&min_score=1", apierr.NotFound("project_not_found", nil), http.StatusNotFound, "project_not_found"},
		{"store down", "project_id=1&min_score=1", apierr.Upstream("load_project_failed", errors.New("dial tcp 10.0.0.1:5432")), http.StatusInternalServerError, "load_project_failed"},
		{"untyped", "project_id=1&min_score=1", errors.New("boom"), http.StatusInternalServerError, "hybrid_query_failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHybridHandler(logger.NewNop(), &fakeHybrid{err: tc.err})
			rec := serve(t, http.MethodGet, "/api/hybrid-query?"+tc.query, nil, func(r *gin.Engine) {
				r.GET("/api/hybrid-query", h.Query)
			})
			assert.Equal(t, tc.status, rec.Code)
			apiErr := decodeError(t, rec)
			assert.Equal(t, tc.code, apiErr.Code)
			if tc.status >= 500 {
				assert.NotContains(t, apiErr.Message, "dial tcp")
			}
		})
	}
}

func TestSchemaHandlerEvolve(t *testing.T) {
	f := &fakeEvolver{}
	h := NewSchemaHandler(logger.NewNop(), f)
	register := func(r *gin.Engine) {
		r.POST("/api/schema/evolve", h.Evolve)
		r.GET("/api/schema/active", h.Active)
	}

	rec := serve(t, http.MethodPost, "/api/schema/evolve", []byte(`{"attribute_name":"Priority","default_value":"high"}`), register)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, evolution.Input{AttributeName: "Priority", DefaultValue: "high"}, f.got)

	rec = serve(t, http.MethodPost, "/api/schema/evolve", []byte(`{"default_value":"high"}`), register)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, http.MethodGet, "/api/schema/active", nil, register)
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Priority", entries[0]["name"])
	assert.Equal(t, "high", entries[0]["default"])
}

func TestGeneHandler(t *testing.T) {
	h := NewGeneHandler(logger.NewNop(), geneFunc(func(_ context.Context, id string) (types.Document, error) {
		switch id {
		case "known":
			return types.Document{"_id": "known", "gene_symbol": "GENE-1"}, nil
		case "bad":
			return nil, apierr.InvalidInput("invalid_gene_id", errors.New("invalid document id"))
		default:
			return nil, apierr.NotFound("gene_not_found", nil)
		}
	}))
	register := func(r *gin.Engine) { r.GET("/api/genes/:gene_id", h.Get) }

	assert.Equal(t, http.StatusOK, serve(t, http.MethodGet, "/api/genes/known", nil, register).Code)
	assert.Equal(t, http.StatusBadRequest, serve(t, http.MethodGet, "/api/genes/bad", nil, register).Code)
	rec := serve(t, http.MethodGet, "/api/genes/other", nil, register)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "gene_not_found", decodeError(t, rec).Code)
}

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler(map[string]Pinger{
		"postgres": func(context.Context) error { return nil },
		"mongo":    func(context.Context) error { return errors.New("no reachable servers") },
	})
	register := func(r *gin.Engine) {
		r.GET("/", h.Banner)
		r.GET("/healthcheck", h.HealthCheck)
	}

	rec := serve(t, http.MethodGet, "/", nil, register)
	assert.JSONEq(t, `{"message":"BioOF API is Running"}`, rec.Body.String())

	rec = serve(t, http.MethodGet, "/healthcheck", nil, register)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"Service Unavailable","stores":{"postgres":"up","mongo":"down"}}`, rec.Body.String())
}
