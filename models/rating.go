package models

import "time"

const (
	MinRating = 1
	MaxRating = 10
)

// Rating is one user's rating of one media item. The (media_id, user_id)
// unique index is what makes submissions upsert instead of accumulate.
type Rating struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	MediaID   string    `json:"mediaId" gorm:"type:varchar(36);uniqueIndex:idx_media_rater;not null"`
	UserID    uint      `json:"userId" gorm:"uniqueIndex:idx_media_rater;not null"`
	Value     int       `json:"value" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type RatingRequest struct {
	Rating int `json:"rating" binding:"required"`
}

// RatingSummary echoes the submitted value alongside the recomputed average.
type RatingSummary struct {
	AverageRating float64 `json:"averageRating"`
	UserRating    int     `json:"userRating"`
}

// RatingAggregate is the grouped average/count for one media item.
type RatingAggregate struct {
	MediaID string
	Average float64
	Count   int64
}
