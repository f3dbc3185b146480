package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/galleried/galleria/models"
)

type RatingRepository interface {
	UpsertRating(ctx context.Context, mediaID string, userID uint, value int) error
	GetAggregate(ctx context.Context, mediaID string) (*models.RatingAggregate, error)
	AggregatesForMedia(ctx context.Context, mediaIDs []string) (map[string]models.RatingAggregate, error)
	UserRatingsForMedia(ctx context.Context, mediaIDs []string, userID uint) (map[string]int, error)
	DeleteRatingsByMedia(ctx context.Context, mediaID string) error
}

type ratingRepo struct {
	DB *gorm.DB
}

func NewRatingRepo(db *GormDB) RatingRepository {
	return &ratingRepo{db.DB}
}

// UpsertRating writes the rating as a single atomic statement. Concurrent
// submissions by different raters cannot lose each other's writes, and a
// repeat submission by the same rater overwrites its previous value instead
// of accumulating.
func (r *ratingRepo) UpsertRating(ctx context.Context, mediaID string, userID uint, value int) error {
	rating := models.Rating{
		ID:      uuid.New().String(),
		MediaID: mediaID,
		UserID:  userID,
		Value:   value,
	}

	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "media_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"updated_at": time.Now(),
		}),
	}).Create(&rating).Error
	if err != nil {
		return errors.Wrap(err, "upsert rating")
	}
	return nil
}

func (r *ratingRepo) GetAggregate(ctx context.Context, mediaID string) (*models.RatingAggregate, error) {
	var agg models.RatingAggregate
	err := r.DB.WithContext(ctx).
		Model(&models.Rating{}).
		Select("media_id, COALESCE(AVG(value), 0) AS average, COUNT(*) AS count").
		Where("media_id = ?", mediaID).
		Group("media_id").
		Scan(&agg).Error
	if err != nil {
		return nil, errors.Wrap(err, "rating aggregate")
	}
	agg.MediaID = mediaID
	return &agg, nil
}

// AggregatesForMedia computes average and count per media id in one grouped
// query. Unrated items are absent from the map.
func (r *ratingRepo) AggregatesForMedia(ctx context.Context, mediaIDs []string) (map[string]models.RatingAggregate, error) {
	aggs := make(map[string]models.RatingAggregate, len(mediaIDs))
	if len(mediaIDs) == 0 {
		return aggs, nil
	}

	var rows []models.RatingAggregate
	err := r.DB.WithContext(ctx).
		Model(&models.Rating{}).
		Select("media_id, AVG(value) AS average, COUNT(*) AS count").
		Where("media_id IN ?", mediaIDs).
		Group("media_id").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "rating aggregates")
	}

	for _, row := range rows {
		aggs[row.MediaID] = row
	}
	return aggs, nil
}

// UserRatingsForMedia looks up one viewer's ratings across the given ids.
func (r *ratingRepo) UserRatingsForMedia(ctx context.Context, mediaIDs []string, userID uint) (map[string]int, error) {
	values := make(map[string]int, len(mediaIDs))
	if len(mediaIDs) == 0 {
		return values, nil
	}

	var rows []models.Rating
	err := r.DB.WithContext(ctx).
		Where("media_id IN ? AND user_id = ?", mediaIDs, userID).
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "user ratings")
	}

	for _, row := range rows {
		values[row.MediaID] = row.Value
	}
	return values, nil
}

func (r *ratingRepo) DeleteRatingsByMedia(ctx context.Context, mediaID string) error {
	if err := r.DB.WithContext(ctx).Where("media_id = ?", mediaID).Delete(&models.Rating{}).Error; err != nil {
		return errors.Wrap(err, "delete ratings")
	}
	return nil
}
