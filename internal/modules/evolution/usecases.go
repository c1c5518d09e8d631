package evolution

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/bioof-backend/internal/data/cache"
	"github.com/yungbote/bioof-backend/internal/data/docstore"
	catalogrepo "github.com/yungbote/bioof-backend/internal/data/repos/catalog"
	"github.com/yungbote/bioof-backend/internal/domain/catalog"
	types "github.com/yungbote/bioof-backend/internal/domain/genes"
	"github.com/yungbote/bioof-backend/internal/observability"
	"github.com/yungbote/bioof-backend/internal/platform/apierr"
	"github.com/yungbote/bioof-backend/internal/platform/ctxutil"
	"github.com/yungbote/bioof-backend/internal/platform/dbctx"
	"github.com/yungbote/bioof-backend/internal/platform/logger"
)

const (
	DefaultDataType   = "string"
	StatusComplete    = "Complete"
	maxAttributeBytes = 128
)

type UsecasesDeps struct {
	Log     *logger.Logger
	Catalog catalogrepo.SchemaCatalogRepo
	Genes   docstore.GeneStore
	Cache   cache.GeneCache
	Metrics *observability.Metrics
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases {
	if deps.Log == nil {
		deps.Log = logger.NewNop()
	}
	if deps.Cache == nil {
		deps.Cache = cache.NewNop()
	}
	return Usecases{deps: deps}
}

type Input struct {
	AttributeName string
	DataType      string
	DefaultValue  string
}

type Result struct {
	Message           string           `json:"message"`
	AffectedDocuments int64            `json:"affected_documents"`
	CurrentSchema     []*catalog.Entry `json:"current_schema"`
	PropagationStatus string           `json:"propagation_status"`
	State             catalog.State    `json:"state"`
}

// Evolve registers an attribute in the schema catalog and writes it to every
// gene document. Registering an existing attribute is not an error; the
// value is propagated again. A failed mass update is reported and leaves the
// catalog entry pending, with no rollback of documents already updated.
func (u Usecases) Evolve(ctx context.Context, in Input) (*Result, error) {
	name := strings.TrimSpace(in.AttributeName)
	if err := validateAttributeName(name); err != nil {
		return nil, apierr.InvalidInput("invalid_attribute_name", err)
	}
	dataType := strings.ToLower(strings.TrimSpace(in.DataType))
	if dataType == "" {
		dataType = DefaultDataType
	}
	propagated, forced := Override(name)
	cast := true
	if !forced {
		propagated, cast = castDefault(dataType, in.DefaultValue)
	}
	if u.deps.Catalog == nil || u.deps.Genes == nil {
		return nil, apierr.Upstream("evolution_deps_missing", fmt.Errorf("missing deps"))
	}

	ctx, span := observability.Tracer().Start(ctx, "evolution.Evolve")
	defer span.End()
	span.SetAttributes(attribute.String("attribute_name", name), attribute.String("data_type", dataType))
	log := u.deps.Log.With(ctxutil.LogFields(ctx)...).With("attribute_name", name)
	dbc := dbctx.Context{Ctx: ctx}
	if !cast {
		log.Info("Default does not parse as declared type, propagating it as text", "data_type", dataType, "default_value", in.DefaultValue)
	}

	created, err := u.deps.Catalog.Register(dbc, &catalog.Entry{
		AttributeName: name,
		DataType:      dataType,
		DefaultValue:  in.DefaultValue,
	})
	if err != nil {
		span.SetStatus(codes.Error, "register")
		return nil, apierr.Upstream("schema_registry_failed", err)
	}
	if !created {
		log.Info("Attribute already registered, propagating again")
	}

	res, err := u.deps.Genes.SetFieldOnAll(ctx, name, propagated)
	if err != nil {
		span.SetStatus(codes.Error, "propagate")
		log.Error("Schema propagation failed; documents may be partially updated", "error", err)
		return nil, apierr.Upstream("schema_propagation_failed", err)
	}
	u.deps.Metrics.AddPropagatedDocuments(res.Matched)

	if err := u.deps.Catalog.MarkPropagated(dbc, name, res.Matched, time.Now().UTC()); err != nil {
		log.Warn("Failed to record propagation on catalog entry", "error", err)
	}
	if n, err := u.deps.Cache.Purge(ctx); err != nil {
		log.Warn("Gene cache purge failed; stale entries expire on their TTL", "error", err)
	} else if n > 0 {
		log.Debug("Purged cached genes after schema change", "purged", n)
	}

	current, err := u.deps.Catalog.List(dbc)
	if err != nil {
		return nil, apierr.Upstream("load_schema_failed", err)
	}
	state := catalog.StatePropagated
	for _, e := range current {
		if e.AttributeName == name {
			state = e.State()
		}
	}
	span.SetAttributes(attribute.Int64("matched_documents", res.Matched))
	log.Info("Schema evolved", "matched", res.Matched, "modified", res.Modified, "created", created)

	return &Result{
		Message:           fmt.Sprintf("Schema Evolved: Added '%s'", name),
		AffectedDocuments: res.Matched,
		CurrentSchema:     current,
		PropagationStatus: StatusComplete,
		State:             state,
	}, nil
}

// ActiveSchema lists every registered attribute, oldest first.
func (u Usecases) ActiveSchema(ctx context.Context) ([]*catalog.Entry, error) {
	if u.deps.Catalog == nil {
		return nil, apierr.Upstream("evolution_deps_missing", fmt.Errorf("missing deps"))
	}
	out, err := u.deps.Catalog.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, apierr.Upstream("load_schema_failed", err)
	}
	return out, nil
}

func validateAttributeName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("attribute_name is required")
	case len(name) > maxAttributeBytes:
		return fmt.Errorf("attribute_name longer than %d bytes", maxAttributeBytes)
	case strings.HasPrefix(name, "$"):
		return fmt.Errorf("attribute_name may not start with '$'")
	case strings.ContainsAny(name, ".\x00"):
		return fmt.Errorf("attribute_name may not contain '.' or NUL")
	case types.IsCoreField(name):
		return fmt.Errorf("attribute_name %q is a core document field", name)
	}
	return nil
}

// castDefault converts the textual default to the declared type. Unknown
// types, and values that do not parse as the declared type, stay text; ok
// reports whether the conversion happened as declared.
func castDefault(dataType, raw string) (any, bool) {
	trimmed := strings.TrimSpace(raw)
	switch dataType {
	case "int", "integer":
		if v, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return v, true
		}
		return raw, false
	case "float", "number", "double":
		if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return v, true
		}
		return raw, false
	case "bool", "boolean":
		if v, err := strconv.ParseBool(trimmed); err == nil {
			return v, true
		}
		return raw, false
	default:
		return raw, true
	}
}
