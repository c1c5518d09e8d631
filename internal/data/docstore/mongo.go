package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yungbote/bioof-backend/internal/domain/genes"
	"github.com/yungbote/bioof-backend/internal/platform/logger"
)

const otherBucket = "Other"

type mongoGeneStore struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewMongoGeneStore(coll *mongo.Collection, baseLog *logger.Logger) GeneStore {
	return &mongoGeneStore{coll: coll, log: baseLog.With("store", "MongoGeneStore", "collection", coll.Name())}
}

func (s *mongoGeneStore) FindByExperiments(ctx context.Context, experimentIDs []int64, minScore float64, limit int) ([]genes.Document, error) {
	out := []genes.Document{}
	if len(experimentIDs) == 0 || limit <= 0 {
		return out, nil
	}
	filter := bson.M{
		genes.FieldExperimentID:    bson.M{"$in": experimentIDs},
		genes.FieldExpressionScore: bson.M{"$gt": minScore},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: genes.FieldExpressionScore, Value: -1}}).
		SetLimit(int64(limit))

	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find by experiments: %w", err)
	}
	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}
	for _, m := range raw {
		out = append(out, normalizeDocument(m))
	}
	return out, nil
}

func (s *mongoGeneStore) FindByID(ctx context.Context, id string) (genes.Document, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return s.findOne(ctx, bson.M{genes.FieldID: oid})
}

func (s *mongoGeneStore) FindOneBySymbol(ctx context.Context, symbol string) (genes.Document, error) {
	if symbol == "" {
		return nil, nil
	}
	return s.findOne(ctx, bson.M{genes.FieldGeneSymbol: symbol})
}

func (s *mongoGeneStore) findOne(ctx context.Context, filter bson.M) (genes.Document, error) {
	var m bson.M
	err := s.coll.FindOne(ctx, filter).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return normalizeDocument(m), nil
}

func (s *mongoGeneStore) SetFieldOnAll(ctx context.Context, field string, value any) (UpdateResult, error) {
	res, err := s.coll.UpdateMany(ctx, bson.M{}, bson.M{"$set": bson.M{field: value}})
	if err != nil {
		return UpdateResult{}, fmt.Errorf("set %s on all documents: %w", field, err)
	}
	s.log.Info("Mass field update applied",
		"field", field,
		"matched", res.MatchedCount,
		"modified", res.ModifiedCount,
	)
	return UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

// GCContentHistogram buckets gc_content by the given boundaries. Values
// outside the boundaries land in a default bucket that is not returned.
func (s *mongoGeneStore) GCContentHistogram(ctx context.Context, boundaries []int) ([]genes.Bucket, error) {
	if len(boundaries) < 2 {
		return nil, fmt.Errorf("histogram needs at least two boundaries, got %d", len(boundaries))
	}
	bounds := make(bson.A, 0, len(boundaries))
	for _, b := range boundaries {
		bounds = append(bounds, b)
	}
	pipeline := mongo.Pipeline{
		{{Key: "$bucket", Value: bson.D{
			{Key: "groupBy", Value: "$" + genes.FieldGCContent},
			{Key: "boundaries", Value: bounds},
			{Key: "default", Value: otherBucket},
			{Key: "output", Value: bson.D{{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}}}},
		}}},
	}
	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("gc_content histogram: %w", err)
	}
	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("decode histogram: %w", err)
	}

	out := make([]genes.Bucket, 0, len(raw))
	for _, m := range raw {
		start, ok := genes.AsFloat64(m[genes.FieldID])
		if !ok {
			continue
		}
		count, _ := genes.AsInt64(m["count"])
		out = append(out, genes.Bucket{Start: start, Count: count})
	}
	return out, nil
}

func (s *mongoGeneStore) InsertMany(ctx context.Context, docs []genes.Document) ([]string, error) {
	if len(docs) == 0 {
		return []string{}, nil
	}
	payload := make([]interface{}, 0, len(docs))
	for _, d := range docs {
		m := bson.M{}
		for k, v := range d {
			if k == genes.FieldID {
				continue
			}
			m[k] = v
		}
		payload = append(payload, m)
	}
	res, err := s.coll.InsertMany(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("insert documents: %w", err)
	}
	ids := make([]string, 0, len(res.InsertedIDs))
	for _, id := range res.InsertedIDs {
		if oid, ok := id.(primitive.ObjectID); ok {
			ids = append(ids, oid.Hex())
		}
	}
	return ids, nil
}

func (s *mongoGeneStore) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: genes.FieldExpressionScore, Value: -1}}},
		{Keys: bson.D{{Key: genes.FieldExperimentID, Value: 1}}},
		{Keys: bson.D{{Key: genes.FieldGeneSymbol, Value: 1}}},
	}
	names, err := s.coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	s.log.Info("Document indexes ensured", "indexes", names)
	return nil
}

// normalizeDocument turns driver types into plain JSON-friendly values.
func normalizeDocument(m bson.M) genes.Document {
	out := make(genes.Document, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC().Format(time.RFC3339Nano)
	case bson.M:
		return map[string]any(normalizeDocument(t))
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = normalizeValue(e.Value)
		}
		return m
	case bson.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	default:
		return v
	}
}
