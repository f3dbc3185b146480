package models

import "time"

// Comment is a user's comment on a media item. Comments live and die with
// their media: deleting the item cascades over them.
type Comment struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	MediaID   string    `json:"mediaId" gorm:"type:varchar(36);index;not null"`
	UserID    uint      `json:"userId" gorm:"not null"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
	Content   string    `json:"content" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type CommentResponse struct {
	Comment
	AuthorName string `json:"authorName"`
}
