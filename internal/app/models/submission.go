package models

import (
	"errors"
	"time"
)

// SubmissionStatus is the review state of a parent observation or student
// self-report. Pending is initial; approved and rejected are terminal.
type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "pending"
	StatusApproved SubmissionStatus = "approved"
	StatusRejected SubmissionStatus = "rejected"
)

// Review transition errors.
var (
	ErrInvalidReviewStatus = errors.New("review status must be approved or rejected")
	ErrAlreadyReviewed     = errors.New("submission has already been reviewed")
)

// Terminal reports whether s permits no further transitions.
func (s SubmissionStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanReview validates a review transition from the current status to target.
// Only pending submissions may be reviewed, and only to a terminal status.
func CanReview(current, target SubmissionStatus) error {
	if target != StatusApproved && target != StatusRejected {
		return ErrInvalidReviewStatus
	}
	if current.Terminal() {
		return ErrAlreadyReviewed
	}
	return nil
}

// ParentObservation is a behavior observation submitted by a parent about a
// linked student, awaiting review.
type ParentObservation struct {
	ID             int64            `json:"id" db:"id"`
	ParentID       int64            `json:"parentId" db:"parent_id"`
	StudentID      int64            `json:"studentId" db:"student_id"`
	Description    string           `json:"description" db:"description"`
	DateOfBehavior time.Time        `json:"dateOfBehavior" db:"date_of_behavior"`
	Status         SubmissionStatus `json:"status" db:"status" example:"pending"`
	ReviewedByID   *int64           `json:"reviewedById,omitempty" db:"reviewed_by_id"`
	ReviewedAt     *time.Time       `json:"reviewedAt,omitempty" db:"reviewed_at"`
	CreatedAt      time.Time        `json:"createdAt" db:"created_at"`
}

// StudentSelfReport is a behavior report submitted by a student about
// themselves, awaiting review.
type StudentSelfReport struct {
	ID             int64            `json:"id" db:"id"`
	StudentID      int64            `json:"studentId" db:"student_id"`
	Description    string           `json:"description" db:"description"`
	DateOfBehavior time.Time        `json:"dateOfBehavior" db:"date_of_behavior"`
	Status         SubmissionStatus `json:"status" db:"status" example:"pending"`
	ReviewedByID   *int64           `json:"reviewedById,omitempty" db:"reviewed_by_id"`
	ReviewedAt     *time.Time       `json:"reviewedAt,omitempty" db:"reviewed_at"`
	CreatedAt      time.Time        `json:"createdAt" db:"created_at"`
}
