package models

import (
	"time"
)

// Subscription 付费订阅，Active 决定能否读取无广告私有 RSS
type Subscription struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	PlanType  string    `gorm:"size:40" json:"plan_type"`
	Active    bool      `gorm:"not null;default:false;index" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
