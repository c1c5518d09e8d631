package genes

import "github.com/pgvector/pgvector-go"

// Metadata is the relational projection of a gene document used for
// similarity search. GeneSymbol points back into the document collection.
type Metadata struct {
	ID             int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	GeneSymbol     string           `gorm:"index;not null;column:gene_symbol" json:"gene_symbol"`
	ExperimentID   int64            `gorm:"index;column:experiment_id" json:"experiment_id"`
	Chromosome     string           `gorm:"index;column:chromosome" json:"chromosome"`
	SequenceLength int              `gorm:"column:sequence_length" json:"sequence_length"`
	Embedding      *pgvector.Vector `gorm:"type:vector;column:embedding" json:"-"`
}

func (Metadata) TableName() string { return "gene_metadata" }

// Neighbor is one nearest-neighbor hit, Distance being the cosine distance.
type Neighbor struct {
	GeneSymbol   string  `gorm:"column:gene_symbol"`
	ExperimentID int64   `gorm:"column:experiment_id"`
	Distance     float64 `gorm:"column:distance"`
}

type ChromosomeStat struct {
	Chromosome string `gorm:"column:chromosome" json:"chromosome"`
	Count      int64  `gorm:"column:gene_count" json:"count"`
	AvgLength  int64  `gorm:"column:avg_length" json:"avg_length"`
}

// Bucket is one raw gc_content histogram bucket as produced by the store.
type Bucket struct {
	Start float64
	Count int64
}
