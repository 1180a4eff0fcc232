package services

import (
	"testing"
	"time"

	"forumlink/internal/models"
)

func testCompetition() models.Competition {
	open := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	return models.Competition{
		RegistrationOpensAt:  open,
		RegistrationClosesAt: open.AddDate(0, 0, 14),
		SubmissionOpensAt:    open.AddDate(0, 0, 14),
		SubmissionClosesAt:   open.AddDate(0, 0, 28),
	}
}

func paidRegistration() *models.Registration {
	return &models.Registration{Status: models.RegistrationStatusPaid}
}

func TestCanRegister(t *testing.T) {
	comp := testCompetition()

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before open", comp.RegistrationOpensAt.Add(-time.Second), false},
		{"at open", comp.RegistrationOpensAt, true},
		{"inside window", comp.RegistrationOpensAt.AddDate(0, 0, 7), true},
		{"at close", comp.RegistrationClosesAt, false},
		{"after close", comp.RegistrationClosesAt.Add(time.Hour), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanRegister(comp, tc.now); got != tc.want {
				t.Errorf("CanRegister at %v = %v, want %v", tc.now, got, tc.want)
			}
		})
	}
}

func TestCheckSubmission(t *testing.T) {
	comp := testCompetition()
	inWindow := comp.SubmissionOpensAt.AddDate(0, 0, 7)

	if err := CheckSubmission(comp, paidRegistration(), inWindow); err != nil {
		t.Errorf("paid registration inside window should submit, got %v", err)
	}

	if err := CheckSubmission(comp, nil, inWindow); err != ErrNotRegistered {
		t.Errorf("missing registration: expected ErrNotRegistered, got %v", err)
	}

	pending := &models.Registration{Status: models.RegistrationStatusPending}
	if err := CheckSubmission(comp, pending, inWindow); err != ErrNotRegistered {
		t.Errorf("pending registration: expected ErrNotRegistered, got %v", err)
	}

	if err := CheckSubmission(comp, paidRegistration(), comp.SubmissionOpensAt.Add(-time.Second)); err != ErrSubmissionClosed {
		t.Errorf("before window: expected ErrSubmissionClosed, got %v", err)
	}

	if err := CheckSubmission(comp, paidRegistration(), comp.SubmissionClosesAt); err != ErrSubmissionClosed {
		t.Errorf("at close: expected ErrSubmissionClosed, got %v", err)
	}
}
