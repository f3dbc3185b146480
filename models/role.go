package models

import "github.com/google/uuid"

// Role controls what a user may do: creators upload media, viewers only
// browse, rate and comment.
type Role struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name string    `json:"name"`
}

const (
	RoleCreator = "creator"
	RoleViewer  = "viewer"
)
