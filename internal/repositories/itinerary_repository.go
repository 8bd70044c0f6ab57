package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"wayfarer/internal/models/db_models"
)

type ItineraryRepository interface {
	Create(ctx context.Context, itinerary *db_models.Itinerary) error
	GetByPublicID(ctx context.Context, publicID string) (*db_models.Itinerary, error)
}

type itineraryRepository struct {
	db *gorm.DB
}

func NewItineraryRepository(db *gorm.DB) ItineraryRepository {
	return &itineraryRepository{db: db}
}

func (r *itineraryRepository) Create(ctx context.Context, itinerary *db_models.Itinerary) error {
	return r.db.WithContext(ctx).Create(itinerary).Error
}

func (r *itineraryRepository) GetByPublicID(ctx context.Context, publicID string) (*db_models.Itinerary, error) {
	var itinerary db_models.Itinerary
	err := r.db.WithContext(ctx).First(&itinerary, "public_id = ?", publicID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &itinerary, nil
}
