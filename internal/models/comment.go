package models

import (
	"time"
)

// Thread is a forum discussion. Only its vote counter is managed here.
type Thread struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	Score     int       `gorm:"not null;default:0" json:"score"`
	Deleted   bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Comment struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	EntityType EntityType `gorm:"size:20;not null;index:idx_comment_entity" json:"entity_type"` // post or thread
	EntityID   uint       `gorm:"not null;index:idx_comment_entity" json:"entity_id"`
	ParentID   *uint      `gorm:"index" json:"parent_id"` // Nullable for top-level comments
	Content    string     `gorm:"type:text;not null" json:"content"`
	Score      int        `gorm:"not null;default:0" json:"score"`
	Deleted    bool       `gorm:"not null;default:false" json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// RelatedLink is a user-submitted link attached to an episode.
type RelatedLink struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	URL       string    `gorm:"not null" json:"url"`
	Title     string    `gorm:"not null" json:"title"`
	Image     string    `json:"image"`
	Score     int       `gorm:"not null;default:0" json:"score"`
	Deleted   bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
