package models

import (
	"time"
)

// ScoreType partitions behavior score events.
type ScoreType string

const (
	ScorePositive ScoreType = "positive"
	ScoreNegative ScoreType = "negative"
)

// Valid reports whether t is a known score type.
func (t ScoreType) Valid() bool {
	return t == ScorePositive || t == ScoreNegative
}

// BehaviorScore is a single point record attributed to a student against a
// rule sub-item. DimensionID and DimensionName are joined in by the repository
// for reporting; they are not columns of 'behavior_scores'.
type BehaviorScore struct {
	ID             int64     `json:"id" db:"id"`
	StudentID      int64     `json:"studentId" db:"student_id"`
	RuleSubItemID  int64     `json:"ruleSubItemId" db:"rule_sub_item_id"`
	RecordedByID   int64     `json:"recordedById" db:"recorded_by_id"`
	SchoolClassID  int64     `json:"schoolClassId" db:"school_class_id"`
	ScoreType      ScoreType `json:"scoreType" db:"score_type" example:"positive"`
	Points         int       `json:"points" db:"points" example:"5"`
	Comment        string    `json:"comment" db:"comment"`
	DateOfBehavior time.Time `json:"dateOfBehavior" db:"date_of_behavior"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	DimensionID    int64     `json:"dimensionId,omitempty"`
	DimensionName  string    `json:"dimensionName,omitempty"`
}

// AwardType classifies awards.
type AwardType string

const (
	AwardStar        AwardType = "star"
	AwardBadge       AwardType = "badge"
	AwardCertificate AwardType = "certificate"
	AwardOther       AwardType = "other"
)

// Valid reports whether t is a known award type.
func (t AwardType) Valid() bool {
	switch t {
	case AwardStar, AwardBadge, AwardCertificate, AwardOther:
		return true
	}
	return false
}

// Award defines the award model based on the 'awards' table.
// Level applies only to star awards and ranges 1..5.
type Award struct {
	ID          int64     `json:"id" db:"id"`
	StudentID   int64     `json:"studentId" db:"student_id"`
	Name        string    `json:"name" db:"name"`
	AwardType   AwardType `json:"awardType" db:"award_type" example:"star"`
	Level       *int      `json:"level,omitempty" db:"level"`
	AwardedByID int64     `json:"awardedById" db:"awarded_by_id"`
	AwardDate   time.Time `json:"awardDate" db:"award_date"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
