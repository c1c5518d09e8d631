package hybrid

import (
	"context"
	"fmt"
	"math"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/bioof-backend/internal/data/docstore"
	"github.com/yungbote/bioof-backend/internal/data/repos/research"
	types "github.com/yungbote/bioof-backend/internal/domain/genes"
	"github.com/yungbote/bioof-backend/internal/observability"
	"github.com/yungbote/bioof-backend/internal/platform/apierr"
	"github.com/yungbote/bioof-backend/internal/platform/ctxutil"
	"github.com/yungbote/bioof-backend/internal/platform/dbctx"
	"github.com/yungbote/bioof-backend/internal/platform/logger"
)

const (
	PageSize          = 100
	SourceRelational  = "[SQL]"
	SourceDocument    = "[NoSQL]"
	UnknownExperiment = "Unknown"
)

type UsecasesDeps struct {
	Log         *logger.Logger
	Projects    research.ProjectRepo
	Experiments research.ExperimentRepo
	Genes       docstore.GeneStore
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases {
	if deps.Log == nil {
		deps.Log = logger.NewNop()
	}
	return Usecases{deps: deps}
}

type Input struct {
	ProjectID int64
	MinScore  float64
}

type ProjectMetadata struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Source          string `json:"source"`
	ExperimentCount int    `json:"experiment_count"`
}

type QueryDetails struct {
	Threshold  float64 `json:"threshold"`
	MatchCount int     `json:"match_count"`
}

type Result struct {
	Project  ProjectMetadata  `json:"project_metadata"`
	GeneData []types.Document `json:"gene_data"`
	Details  QueryDetails     `json:"query_details"`
}

// Query joins a project's experiments with their high-scoring gene documents.
// Documents whose experiment_id no longer resolves are kept and labelled
// UnknownExperiment.
func (u Usecases) Query(ctx context.Context, in Input) (*Result, error) {
	if math.IsNaN(in.MinScore) || math.IsInf(in.MinScore, 0) {
		return nil, apierr.InvalidInput("invalid_min_score", fmt.Errorf("min_score must be finite"))
	}
	if u.deps.Projects == nil || u.deps.Experiments == nil || u.deps.Genes == nil {
		return nil, apierr.Upstream("hybrid_deps_missing", fmt.Errorf("missing deps"))
	}

	ctx, span := observability.Tracer().Start(ctx, "hybrid.Query")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("project_id", in.ProjectID),
		attribute.Float64("min_score", in.MinScore),
	)
	log := u.deps.Log.With(ctxutil.LogFields(ctx)...)

	dbc := dbctx.Context{Ctx: ctx}
	project, err := u.deps.Projects.GetByID(dbc, in.ProjectID)
	if err != nil {
		span.SetStatus(codes.Error, "load project")
		return nil, apierr.Upstream("load_project_failed", err)
	}
	if project == nil {
		return nil, apierr.NotFound("project_not_found", nil)
	}

	experiments, err := u.deps.Experiments.ListByProjectID(dbc, project.ID)
	if err != nil {
		span.SetStatus(codes.Error, "load experiments")
		return nil, apierr.Upstream("load_experiments_failed", err)
	}

	out := &Result{
		Project: ProjectMetadata{
			ID:              project.ID,
			Name:            project.Name,
			Description:     project.Description,
			Source:          SourceRelational,
			ExperimentCount: len(experiments),
		},
		GeneData: []types.Document{},
		Details:  QueryDetails{Threshold: in.MinScore},
	}
	if len(experiments) == 0 {
		return out, nil
	}

	names := make(map[int64]string, len(experiments))
	ids := make([]int64, 0, len(experiments))
	for _, e := range experiments {
		names[e.ID] = e.Name
		ids = append(ids, e.ID)
	}

	docs, err := u.deps.Genes.FindByExperiments(ctx, ids, in.MinScore, PageSize)
	if err != nil {
		span.SetStatus(codes.Error, "find documents")
		return nil, apierr.Upstream("load_gene_documents_failed", err)
	}
	if len(docs) > PageSize {
		docs = docs[:PageSize]
	}

	unknown := 0
	for _, d := range docs {
		row := d.Clone()
		name := UnknownExperiment
		if eid, ok := d.ExperimentID(); ok {
			if n, found := names[eid]; found {
				name = n
			}
		}
		if name == UnknownExperiment {
			unknown++
		}
		row[types.FieldExperimentName] = name
		row[types.FieldSourceTag] = SourceDocument
		out.GeneData = append(out.GeneData, row)
	}
	out.Details.MatchCount = len(out.GeneData)
	if unknown > 0 {
		log.Warn("Gene documents reference unknown experiments", "project_id", project.ID, "count", unknown)
	}
	span.SetAttributes(attribute.Int("match_count", out.Details.MatchCount))
	return out, nil
}
