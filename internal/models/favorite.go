package models

import (
	"time"
)

// Favorite 收藏记录 - 与投票相同的开关语义，从不物理删除
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorite_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_favorite_user_post;index" json:"post_id"`
	Active    bool      `gorm:"not null" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`
}
