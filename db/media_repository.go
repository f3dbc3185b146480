package db

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/galleried/galleria/models"
)

const (
	DefaultPageSize = 10
	DefaultPage     = 1
)

type MediaRepository interface {
	SaveMedia(ctx context.Context, media *models.Media) error
	GetMediaByID(ctx context.Context, id string) (*models.Media, error)
	ListMedia(ctx context.Context, offset, limit int) ([]models.Media, error)
	CountMedia(ctx context.Context) (int64, error)
	ListMediaByCreator(ctx context.Context, creatorID uint) ([]models.Media, error)
	DeleteMedia(ctx context.Context, id string) error
}

type mediaRepo struct {
	DB *gorm.DB
}

func NewMediaRepo(db *GormDB) MediaRepository {
	return &mediaRepo{db.DB}
}

func (m *mediaRepo) SaveMedia(ctx context.Context, media *models.Media) error {
	if err := m.DB.WithContext(ctx).Create(media).Error; err != nil {
		return errors.Wrap(err, "save media")
	}
	return nil
}

func (m *mediaRepo) GetMediaByID(ctx context.Context, id string) (*models.Media, error) {
	var media models.Media
	err := m.DB.WithContext(ctx).Preload("Creator").Where("id = ?", id).First(&media).Error
	if err != nil {
		return nil, err
	}
	return &media, nil
}

// ListMedia returns one page of items, newest first.
func (m *mediaRepo) ListMedia(ctx context.Context, offset, limit int) ([]models.Media, error) {
	var media []models.Media
	err := m.DB.WithContext(ctx).
		Preload("Creator").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&media).Error
	if err != nil {
		return nil, errors.Wrap(err, "list media")
	}
	return media, nil
}

func (m *mediaRepo) CountMedia(ctx context.Context) (int64, error) {
	var count int64
	if err := m.DB.WithContext(ctx).Model(&models.Media{}).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "count media")
	}
	return count, nil
}

func (m *mediaRepo) ListMediaByCreator(ctx context.Context, creatorID uint) ([]models.Media, error) {
	var media []models.Media
	err := m.DB.WithContext(ctx).
		Preload("Creator").
		Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		Find(&media).Error
	if err != nil {
		return nil, errors.Wrap(err, "list media by creator")
	}
	return media, nil
}

func (m *mediaRepo) DeleteMedia(ctx context.Context, id string) error {
	if err := m.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Media{}).Error; err != nil {
		return errors.Wrap(err, "delete media")
	}
	return nil
}
