package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/yungbote/bioof-backend/internal/data/docstore"
	generepo "github.com/yungbote/bioof-backend/internal/data/repos/genes"
	types "github.com/yungbote/bioof-backend/internal/domain/genes"
	"github.com/yungbote/bioof-backend/internal/platform/apierr"
	"github.com/yungbote/bioof-backend/internal/platform/dbctx"
)

const bucketWidth = 10

// GCBoundaries are the gc_content histogram edges, in percent.
var GCBoundaries = []int{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

type UsecasesDeps struct {
	Metadata generepo.MetadataRepo
	Genes    docstore.GeneStore
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases { return Usecases{deps: deps} }

type HistogramBucket struct {
	Range       string  `json:"range"`
	Count       int64   `json:"count"`
	BucketStart float64 `json:"bucket_start"`
}

// ChromosomeStats counts genes per chromosome, largest first.
func (u Usecases) ChromosomeStats(ctx context.Context) ([]types.ChromosomeStat, error) {
	if u.deps.Metadata == nil {
		return nil, apierr.Upstream("analytics_deps_missing", fmt.Errorf("missing deps"))
	}
	rows, err := u.deps.Metadata.ChromosomeStats(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, apierr.Upstream("chromosome_stats_failed", err)
	}
	if rows == nil {
		rows = []types.ChromosomeStat{}
	}
	return rows, nil
}

// GCHistogram buckets documents by gc_content in ascending bucket order.
func (u Usecases) GCHistogram(ctx context.Context) ([]HistogramBucket, error) {
	if u.deps.Genes == nil {
		return nil, apierr.Upstream("analytics_deps_missing", fmt.Errorf("missing deps"))
	}
	raw, err := u.deps.Genes.GCContentHistogram(ctx, GCBoundaries)
	if err != nil {
		return nil, apierr.Upstream("gc_histogram_failed", err)
	}
	out := make([]HistogramBucket, 0, len(raw))
	for _, b := range raw {
		out = append(out, HistogramBucket{
			Range:       fmt.Sprintf("%g-%g%%", b.Start, b.Start+bucketWidth),
			Count:       b.Count,
			BucketStart: b.Start,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BucketStart < out[j].BucketStart })
	return out, nil
}
