package models

import (
	"time"
)

// EntityType names the kind of record a vote points at.
type EntityType string

const (
	EntityPost        EntityType = "post"
	EntityThread      EntityType = "thread"
	EntityComment     EntityType = "comment"
	EntityRelatedLink EntityType = "related_link"
)

// Valid reports whether t is one of the voteable entity types.
func (t EntityType) Valid() bool {
	switch t {
	case EntityPost, EntityThread, EntityComment, EntityRelatedLink:
		return true
	}
	return false
}

// EntityRef is a polymorphic reference to a voteable record.
type EntityRef struct {
	Type EntityType
	ID   uint
}

type Direction string

const (
	Upvote   Direction = "upvote"
	Downvote Direction = "downvote"
)

// Sign is the score contribution of an active vote in this direction.
func (d Direction) Sign() int {
	if d == Downvote {
		return -1
	}
	return 1
}

// Vote is one user's directional vote on one entity. At most one row exists per
// (user, entity); later actions mutate it in place.
type Vote struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;uniqueIndex:idx_vote_user_entity" json:"user_id"`
	EntityType EntityType `gorm:"size:20;not null;uniqueIndex:idx_vote_user_entity" json:"entity_type"`
	EntityID   uint       `gorm:"not null;uniqueIndex:idx_vote_user_entity;index" json:"entity_id"`
	Direction  Direction  `gorm:"size:10;not null" json:"direction"`
	Active     bool       `gorm:"not null" json:"active"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// 旧客户端按 post_id 读取单集投票
	PostID *uint `gorm:"-" json:"post_id,omitempty"`
}

func (v *Vote) Ref() EntityRef {
	return EntityRef{Type: v.EntityType, ID: v.EntityID}
}

// FillLegacy sets PostID for post votes so older clients keep working.
func (v *Vote) FillLegacy() {
	if v.EntityType == EntityPost {
		id := v.EntityID
		v.PostID = &id
	}
}
