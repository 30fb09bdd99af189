package dto

import (
	"github.com/selinay/moraled/internal/app/models"
)

// CreateScoreRequest represents behavior score creation data.
// DateOfBehavior uses YYYY-MM-DD.
type CreateScoreRequest struct {
	StudentID      int64            `json:"studentId" binding:"required,gt=0"`
	RuleSubItemID  int64            `json:"ruleSubItemId" binding:"required,gt=0"`
	SchoolClassID  int64            `json:"schoolClassId" binding:"required,gt=0"`
	ScoreType      models.ScoreType `json:"scoreType" binding:"required,oneof=positive negative"`
	Points         int              `json:"points" binding:"required,gt=0"`
	Comment        string           `json:"comment"`
	DateOfBehavior string           `json:"dateOfBehavior" binding:"required,datetime=2006-01-02"`
}

// UpdateScoreRequest re-edits a score; only the recorder may apply it.
type UpdateScoreRequest struct {
	ScoreType      models.ScoreType `json:"scoreType" binding:"required,oneof=positive negative"`
	Points         int              `json:"points" binding:"required,gt=0"`
	Comment        string           `json:"comment"`
	DateOfBehavior string           `json:"dateOfBehavior" binding:"required,datetime=2006-01-02"`
}

// CreateObservationRequest represents a parent observation submission.
type CreateObservationRequest struct {
	StudentID      int64  `json:"studentId" binding:"required,gt=0"`
	Description    string `json:"description" binding:"required"`
	DateOfBehavior string `json:"dateOfBehavior" binding:"required,datetime=2006-01-02"`
}

// CreateSelfReportRequest represents a student self-report submission.
type CreateSelfReportRequest struct {
	Description    string `json:"description" binding:"required"`
	DateOfBehavior string `json:"dateOfBehavior" binding:"required,datetime=2006-01-02"`
}

// UpdateSubmissionRequest edits a pending submission.
type UpdateSubmissionRequest struct {
	Description    string `json:"description" binding:"required"`
	DateOfBehavior string `json:"dateOfBehavior" binding:"required,datetime=2006-01-02"`
}

// ReviewRequest resolves a pending submission. Status must be approved or
// rejected; anything else is invalid input.
type ReviewRequest struct {
	Status models.SubmissionStatus `json:"status" binding:"required"`
}

// CreateAwardRequest represents award creation data. Level is required for
// star awards and must be 1..5.
type CreateAwardRequest struct {
	StudentID int64            `json:"studentId" binding:"required,gt=0"`
	Name      string           `json:"name" binding:"required"`
	AwardType models.AwardType `json:"awardType" binding:"required,oneof=star badge certificate other"`
	Level     *int             `json:"level" binding:"omitempty,min=1,max=5"`
	AwardDate string           `json:"awardDate" binding:"required,datetime=2006-01-02"`
}
