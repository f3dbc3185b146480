package models

import (
	"strings"
	"time"
)

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Media is one uploaded item. The file itself lives with the hosting
// provider; StorageKey is the provider-side object key needed to delete it.
type Media struct {
	ID           string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Title        string    `json:"title" gorm:"not null" conform:"trim"`
	Description  string    `json:"description" conform:"trim"`
	MediaURL     string    `json:"mediaUrl"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	MediaType    string    `json:"mediaType"`
	StorageKey   string    `json:"-"`
	ThumbnailKey string    `json:"-"`
	CreatorID    uint      `json:"creatorId" gorm:"index;not null"`
	Creator      User      `json:"-" gorm:"foreignKey:CreatorID"`
	People       []string  `json:"people" gorm:"serializer:json"`
	Location     string    `json:"location" conform:"trim"`
	CreatedAt    time.Time `json:"createdAt"`
}

// EnrichedMedia is a Media plus the read-only derived fields. None of these
// are persisted; they are recomputed on every read.
type EnrichedMedia struct {
	Media
	CreatorName   string  `json:"creatorName"`
	CommentsCount int64   `json:"commentsCount"`
	AverageRating float64 `json:"averageRating"`
	UserRating    *int    `json:"userRating"`
}

// FeedResponse is the paginated feed payload.
type FeedResponse struct {
	Media   []EnrichedMedia `json:"media"`
	HasMore bool            `json:"hasMore"`
}

// UploadMediaParams carries the multipart form fields of an upload.
type UploadMediaParams struct {
	Title       string `conform:"trim"`
	Description string `conform:"trim"`
	People      string
	Location    string `conform:"trim"`
}

// ParsePeople splits the free-text people field on commas, trimming each
// entry and dropping empties.
func ParsePeople(raw string) []string {
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	people := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			people = append(people, name)
		}
	}
	return people
}
