package repositories

import (
	"context"
	"strings"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"wayfarer/internal/models/db_models"
)

type PlaceEmbeddingRepository interface {
	Upsert(ctx context.Context, embedding db_models.PlaceEmbedding) error
	Nearest(ctx context.Context, vector pgvector.Vector, city string, limit int, minSimilarity float64) ([]db_models.PlaceEmbedding, error)
}

type placeEmbeddingRepository struct {
	db *gorm.DB
}

func NewPlaceEmbeddingRepository(db *gorm.DB) PlaceEmbeddingRepository {
	return &placeEmbeddingRepository{db: db}
}

func (p *placeEmbeddingRepository) Upsert(ctx context.Context, embedding db_models.PlaceEmbedding) error {
	return p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"city", "tags", "embedding"}),
	}).Create(&embedding).Error
}

// Nearest returns the embeddings of a city ordered by cosine distance, keeping
// only rows above minSimilarity.
func (p *placeEmbeddingRepository) Nearest(ctx context.Context, vector pgvector.Vector, city string, limit int, minSimilarity float64) ([]db_models.PlaceEmbedding, error) {
	var results []db_models.PlaceEmbedding

	vecStr := vector.String()

	query := `
        SELECT *, (1 - (embedding <=> ?)) AS similarity
        FROM place_embeddings
        WHERE LOWER(city) = ? AND (1 - (embedding <=> ?)) > ?
        ORDER BY embedding <=> ?
        LIMIT ?
    `

	err := p.db.WithContext(ctx).
		Raw(query, vecStr, strings.ToLower(city), vecStr, minSimilarity, vecStr, limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
