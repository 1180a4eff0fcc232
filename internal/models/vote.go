package models

import (
	"time"
)

type VoteType string

const (
	VoteTypeUp   VoteType = "UP"
	VoteTypeDown VoteType = "DOWN"
)

// Vote targets either a post or a comment, never both.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	PostID    *uint     `gorm:"index" json:"post_id"`
	CommentID *uint     `gorm:"index" json:"comment_id"`
	Type      VoteType  `gorm:"type:varchar(8);not null" json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// One vote per item per user is enforced by the vote handler inside a
// transaction. A partial unique index on (user_id, post_id) / (user_id,
// comment_id) would also work on Postgres but is awkward with NULLs in GORM tags.
