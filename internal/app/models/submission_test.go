package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanReview(t *testing.T) {
	tests := []struct {
		name    string
		current SubmissionStatus
		target  SubmissionStatus
		wantErr error
	}{
		{"pending to approved", StatusPending, StatusApproved, nil},
		{"pending to rejected", StatusPending, StatusRejected, nil},
		{"pending to pending", StatusPending, StatusPending, ErrInvalidReviewStatus},
		{"pending to unknown", StatusPending, SubmissionStatus("resolved"), ErrInvalidReviewStatus},
		{"approved to approved", StatusApproved, StatusApproved, ErrAlreadyReviewed},
		{"approved to rejected", StatusApproved, StatusRejected, ErrAlreadyReviewed},
		{"rejected to approved", StatusRejected, StatusApproved, ErrAlreadyReviewed},
		{"rejected to rejected", StatusRejected, StatusRejected, ErrAlreadyReviewed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanReview(tt.current, tt.target)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusApproved.Terminal())
	assert.True(t, StatusRejected.Terminal())
}
