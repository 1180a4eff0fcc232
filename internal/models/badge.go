package models

import (
	"time"
)

type BadgeType string

const (
	BadgeTypeAchievement  BadgeType = "ACHIEVEMENT"
	BadgeTypeTenure       BadgeType = "TENURE"
	BadgeTypeContribution BadgeType = "CONTRIBUTION"
)

// Badge is an earned marker on a user. The most recent badge name doubles as
// the user's display rank.
type Badge struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_user_badge_name" json:"user_id"`
	User     User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Name     string    `gorm:"size:50;not null;uniqueIndex:idx_user_badge_name" json:"name"`
	Type     BadgeType `gorm:"type:varchar(20);not null" json:"type"`
	Level    int       `gorm:"default:1" json:"level"`
	EarnedAt time.Time `json:"earned_at"`
}
