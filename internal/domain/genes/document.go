package genes

import (
	"encoding/json"
	"math"
	"strconv"
)

// Field names of the gene expression document shape. Anything else on a
// document was introduced at runtime and is described by the schema catalog.
const (
	FieldID              = "_id"
	FieldExperimentID    = "experiment_id"
	FieldGeneSymbol      = "gene_symbol"
	FieldSequenceSnippet = "sequence_snippet"
	FieldExpressionScore = "expression_score"
	FieldGCContent       = "gc_content"
	FieldMetadata        = "metadata"
	FieldTimestamp       = "timestamp"

	FieldExperimentName  = "experiment_name"
	FieldSourceTag       = "source_tag"
	FieldSimilarityScore = "similarity_score"
)

var coreFields = map[string]struct{}{
	FieldID:              {},
	FieldExperimentID:    {},
	FieldGeneSymbol:      {},
	FieldSequenceSnippet: {},
	FieldExpressionScore: {},
	FieldGCContent:       {},
	FieldMetadata:        {},
	FieldTimestamp:       {},
}

// IsCoreField reports whether name belongs to the original document shape.
func IsCoreField(name string) bool {
	_, ok := coreFields[name]
	return ok
}

// Document is a gene expression record kept as an open map so that fields
// added by schema evolution need no type migration.
type Document map[string]any

func (d Document) ID() string {
	s, _ := d[FieldID].(string)
	return s
}

func (d Document) GeneSymbol() string {
	s, _ := d[FieldGeneSymbol].(string)
	return s
}

func (d Document) ExperimentID() (int64, bool) {
	return AsInt64(d[FieldExperimentID])
}

func (d Document) ExpressionScore() (float64, bool) {
	return AsFloat64(d[FieldExpressionScore])
}

func (d Document) GCContent() (float64, bool) {
	return AsFloat64(d[FieldGCContent])
}

// Clone copies the top level so callers can annotate without touching the source.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d)+2)
	for k, v := range d {
		out[k] = v
	}
	return out
}

// AsInt64 coerces the numeric shapes decoders produce into an int64.
func AsInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

func AsFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
