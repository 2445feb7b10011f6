package models

import (
	"time"
)

type PostStatus string

const (
	StatusDraft   PostStatus = "draft"
	StatusPublish PostStatus = "publish"
)

// Post is a podcast episode.
type Post struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Title          string     `gorm:"not null" json:"title"`
	Content        string     `gorm:"type:text" json:"content"`
	Excerpt        string     `gorm:"type:text" json:"excerpt"`
	Description    string     `gorm:"type:text" json:"description"`
	MP3URL         string     `gorm:"column:mp3_url" json:"mp3_url"`
	AdFreeMP3URL   string     `gorm:"column:ad_free_mp3_url" json:"ad_free_mp3_url,omitempty"`
	ImageURL       string     `json:"image_url"`
	Link           string     `json:"link"`
	Status         PostStatus `gorm:"size:20;not null;default:'draft';index" json:"status"`
	PublishedAt    time.Time  `gorm:"index" json:"published_at"`
	Score          int        `gorm:"not null;default:0" json:"score"`
	TotalFavorites int        `gorm:"not null;default:0" json:"total_favorites"`
	Deleted        bool       `gorm:"not null;default:false" json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// 非数据库字段，查询收藏列表时填充
	Bookmarked bool `gorm:"-" json:"bookmarked,omitempty"`
}
