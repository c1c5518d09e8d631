package cache

import (
	"context"
	"time"

	"github.com/yungbote/bioof-backend/internal/domain/genes"
)

const (
	KeyPrefix  = "gene:"
	DefaultTTL = 60 * time.Second
)

// GeneCache memoizes document lookups by id. A miss is (nil, false, nil).
type GeneCache interface {
	Get(ctx context.Context, id string) (genes.Document, bool, error)
	Set(ctx context.Context, id string, doc genes.Document) error
	// Purge drops every cached gene and reports how many keys were removed.
	Purge(ctx context.Context) (int64, error)
}

func Key(id string) string { return KeyPrefix + id }

type nopCache struct{}

// NewNop returns a cache that never stores anything.
func NewNop() GeneCache { return nopCache{} }

func (nopCache) Get(context.Context, string) (genes.Document, bool, error) { return nil, false, nil }
func (nopCache) Set(context.Context, string, genes.Document) error       { return nil }
func (nopCache) Purge(context.Context) (int64, error)                      { return 0, nil }
