package db_models

import (
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

type PlaceEmbedding struct {
	Slug      string          `gorm:"primaryKey;column:slug"`
	City      string          `gorm:"index"`
	Tags      pq.StringArray  `gorm:"type:text[]"`
	Embedding pgvector.Vector `gorm:"type:vector(1536)"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`

	// filled by similarity queries only
	Similarity float64 `gorm:"->;-:migration"`
}
