package models

import (
	"time"
)

type RegistrationStatus string

const (
	RegistrationStatusPending   RegistrationStatus = "pending"
	RegistrationStatusPaid      RegistrationStatus = "paid"
	RegistrationStatusCancelled RegistrationStatus = "cancelled"
)

type Competition struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	Title                string    `gorm:"not null" json:"title"`
	Description          string    `gorm:"type:text" json:"description"`
	FeeCents             int       `gorm:"default:0" json:"fee_cents"`
	RegistrationOpensAt  time.Time `gorm:"not null" json:"registration_opens_at"`
	RegistrationClosesAt time.Time `gorm:"not null" json:"registration_closes_at"`
	SubmissionOpensAt    time.Time `gorm:"not null" json:"submission_opens_at"`
	SubmissionClosesAt   time.Time `gorm:"not null" json:"submission_closes_at"`
	CreatedAt            time.Time `json:"created_at"`
}

type Registration struct {
	ID            uint               `gorm:"primaryKey" json:"id"`
	CompetitionID uint               `gorm:"not null;uniqueIndex:idx_comp_user" json:"competition_id"`
	Competition   Competition        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID        uint               `gorm:"not null;uniqueIndex:idx_comp_user" json:"user_id"`
	User          User               `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	PaymentRef    string             `gorm:"uniqueIndex;size:36;not null" json:"payment_ref"`
	Status        RegistrationStatus `gorm:"type:varchar(12);default:'pending';not null" json:"status"`
	PaidAt        *time.Time         `json:"paid_at"`
	CreatedAt     time.Time          `json:"created_at"`
}

type Submission struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	CompetitionID uint        `gorm:"not null;index" json:"competition_id"`
	Competition   Competition `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID        uint        `gorm:"not null;index" json:"user_id"`
	User          User        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Title         string      `gorm:"not null" json:"title"`
	URL           string      `json:"url"`
	Notes         string      `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time   `json:"created_at"`
}
