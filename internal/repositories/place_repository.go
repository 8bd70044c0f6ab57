package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"wayfarer/internal/models/db_models"
)

// PlaceFilter narrows a catalog search. Interests only reorder the result, they
// never exclude a place.
type PlaceFilter struct {
	City      string
	Districts []string
	Interests []string
	Limit     int
}

type PlaceListFilter struct {
	City     string
	District string
	Tag      string
}

type FacetRow struct {
	Value string
	Count int
}

type PlaceRepository interface {
	SearchPlaces(ctx context.Context, filter PlaceFilter) ([]db_models.Place, error)
	GetBySlug(ctx context.Context, slug string) (*db_models.Place, error)
	ListBySlugs(ctx context.Context, slugs []string) ([]db_models.Place, error)
	List(ctx context.Context, filter PlaceListFilter, page, pageSize int) ([]db_models.Place, error)
	Upsert(ctx context.Context, place *db_models.Place) error
	TagFacets(ctx context.Context, city string) ([]FacetRow, error)
	DistrictFacets(ctx context.Context, city string) ([]FacetRow, error)
}

type placeRepository struct {
	db *gorm.DB
}

func NewPlaceRepository(db *gorm.DB) PlaceRepository {
	return &placeRepository{db: db}
}

func (r *placeRepository) SearchPlaces(ctx context.Context, filter PlaceFilter) ([]db_models.Place, error) {
	var places []db_models.Place
	if err := searchPlacesQuery(r.db.WithContext(ctx), filter).Find(&places).Error; err != nil {
		return nil, err
	}
	return places, nil
}

// searchPlacesQuery matches city and districts case-insensitively, like the
// planner's own pool filters.
func searchPlacesQuery(db *gorm.DB, filter PlaceFilter) *gorm.DB {
	q := db.Where("LOWER(city) = ?", strings.ToLower(filter.City))
	if len(filter.Districts) > 0 {
		q = q.Where("LOWER(district) IN ?", lowerAll(filter.Districts))
	}
	if len(filter.Interests) > 0 {
		q = q.Order(clause.OrderBy{Expression: clause.Expr{
			SQL:                "(tags && ?) DESC",
			Vars:               []interface{}{pq.StringArray(filter.Interests)},
			WithoutParentheses: true,
		}})
	}
	q = q.Order("popularity DESC").Order("slug ASC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	return q
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.ToLower(strings.TrimSpace(v))
	}
	return out
}

func (r *placeRepository) GetBySlug(ctx context.Context, slug string) (*db_models.Place, error) {
	var place db_models.Place
	err := r.db.WithContext(ctx).First(&place, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &place, nil
}

func (r *placeRepository) ListBySlugs(ctx context.Context, slugs []string) ([]db_models.Place, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	var places []db_models.Place
	if err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Find(&places).Error; err != nil {
		return nil, err
	}
	return places, nil
}

func (r *placeRepository) List(ctx context.Context, filter PlaceListFilter, page, pageSize int) ([]db_models.Place, error) {
	var places []db_models.Place

	err := r.db.WithContext(ctx).Scopes(func(db *gorm.DB) *gorm.DB {
		if filter.City != "" {
			db = db.Where("LOWER(city) = ?", strings.ToLower(filter.City))
		}
		if filter.District != "" {
			db = db.Where("LOWER(district) = ?", strings.ToLower(filter.District))
		}
		if filter.Tag != "" {
			db = db.Where("? = ANY(tags)", strings.ToLower(filter.Tag))
		}
		offset := (page - 1) * pageSize
		return db.Order("slug ASC").Offset(offset).Limit(pageSize)
	}).Find(&places).Error
	if err != nil {
		return nil, err
	}
	return places, nil
}

// Upsert inserts the place or overwrites every catalog column of the row with
// the same slug. On conflict the stored row keeps its original id, so callers
// read it back by slug.
func (r *placeRepository) Upsert(ctx context.Context, place *db_models.Place) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "city", "district", "type", "latitude", "longitude", "tags",
			"rating", "popularity", "estimated_visit_time", "excerpt", "updated_at",
		}),
	}).Create(place).Error
}

func (r *placeRepository) TagFacets(ctx context.Context, city string) ([]FacetRow, error) {
	var rows []FacetRow
	query := `
        SELECT t AS value, COUNT(*) AS count
        FROM places, UNNEST(tags) AS t
        WHERE LOWER(city) = ? AND deleted_at IS NULL
        GROUP BY t
        ORDER BY count DESC, value ASC
    `
	if err := r.db.WithContext(ctx).Raw(query, strings.ToLower(city)).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *placeRepository) DistrictFacets(ctx context.Context, city string) ([]FacetRow, error) {
	var rows []FacetRow
	query := `
        SELECT district AS value, COUNT(*) AS count
        FROM places
        WHERE LOWER(city) = ? AND district <> '' AND deleted_at IS NULL
        GROUP BY district
        ORDER BY count DESC, value ASC
    `
	if err := r.db.WithContext(ctx).Raw(query, strings.ToLower(city)).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
