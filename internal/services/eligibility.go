package services

import (
	"errors"
	"time"

	"forumlink/internal/models"
)

var (
	ErrRegistrationClosed = errors.New("registration window is closed")
	ErrNotRegistered      = errors.New("no paid registration for this competition")
	ErrSubmissionClosed   = errors.New("submission window is closed")
)

// CanRegister reports whether now falls inside the registration window.
// Windows are inclusive at open, exclusive at close.
func CanRegister(comp models.Competition, now time.Time) bool {
	return !now.Before(comp.RegistrationOpensAt) && now.Before(comp.RegistrationClosesAt)
}

// CheckSubmission validates that reg is a paid registration and that now sits
// inside the submission window. A pending or cancelled registration does not
// qualify, even inside the window.
func CheckSubmission(comp models.Competition, reg *models.Registration, now time.Time) error {
	if reg == nil || reg.Status != models.RegistrationStatusPaid {
		return ErrNotRegistered
	}
	if now.Before(comp.SubmissionOpensAt) || !now.Before(comp.SubmissionClosesAt) {
		return ErrSubmissionClosed
	}
	return nil
}
