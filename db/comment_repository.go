package db

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/galleried/galleria/models"
)

type CommentRepository interface {
	SaveComment(ctx context.Context, comment *models.Comment) error
	ListCommentsByMedia(ctx context.Context, mediaID string) ([]models.Comment, error)
	CountCommentsForMedia(ctx context.Context, mediaIDs []string) (map[string]int64, error)
	DeleteCommentsByMedia(ctx context.Context, mediaID string) error
}

type commentRepo struct {
	DB *gorm.DB
}

func NewCommentRepo(db *GormDB) CommentRepository {
	return &commentRepo{db.DB}
}

func (r *commentRepo) SaveComment(ctx context.Context, comment *models.Comment) error {
	if err := r.DB.WithContext(ctx).Create(comment).Error; err != nil {
		return errors.Wrap(err, "save comment")
	}
	return nil
}

func (r *commentRepo) ListCommentsByMedia(ctx context.Context, mediaID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.DB.WithContext(ctx).
		Preload("User").
		Where("media_id = ?", mediaID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, errors.Wrap(err, "list comments")
	}
	return comments, nil
}

// CountCommentsForMedia returns a per-media comment count for the given ids
// in a single grouped query. Items without comments are absent from the map.
func (r *commentRepo) CountCommentsForMedia(ctx context.Context, mediaIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(mediaIDs))
	if len(mediaIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		MediaID string
		Count   int64
	}
	err := r.DB.WithContext(ctx).
		Model(&models.Comment{}).
		Select("media_id, COUNT(*) AS count").
		Where("media_id IN ?", mediaIDs).
		Group("media_id").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "count comments")
	}

	for _, row := range rows {
		counts[row.MediaID] = row.Count
	}
	return counts, nil
}

func (r *commentRepo) DeleteCommentsByMedia(ctx context.Context, mediaID string) error {
	if err := r.DB.WithContext(ctx).Where("media_id = ?", mediaID).Delete(&models.Comment{}).Error; err != nil {
		return errors.Wrap(err, "delete comments")
	}
	return nil
}
