package dto

import (
	"github.com/selinay/moraled/internal/app/models"
)

// CreateUserRequest represents user creation data.
type CreateUserRequest struct {
	Username      string      `json:"username" binding:"required"`
	Email         string      `json:"email" binding:"omitempty,email"`
	Password      string      `json:"password" binding:"required,min=8"`
	FirstName     string      `json:"firstName"`
	LastName      string      `json:"lastName"`
	Role          models.Role `json:"role" binding:"required"`
	SchoolClassID *int64      `json:"schoolClassId" binding:"omitempty,gt=0"`
}

// UpdateUserRequest represents a partial user update. Nil fields are left
// unchanged; Role changes are restricted to administrators by the service.
type UpdateUserRequest struct {
	Email         *string      `json:"email" binding:"omitempty,email"`
	Password      *string      `json:"password" binding:"omitempty,min=8"`
	FirstName     *string      `json:"firstName"`
	LastName      *string      `json:"lastName"`
	Role          *models.Role `json:"role"`
	SchoolClassID *int64       `json:"schoolClassId"`
	IsActive      *bool        `json:"isActive"`
}

// ImportRowError reports a failed CSV import row.
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ImportResult summarizes a CSV user import: per-row failures never abort the
// rest of the file.
type ImportResult struct {
	CreatedCount int              `json:"createdCount"`
	UpdatedCount int              `json:"updatedCount"`
	Errors       []ImportRowError `json:"errors"`
}

// PromoteStudentsRequest moves students into a target class, optionally
// filtered by their current grade or class.
type PromoteStudentsRequest struct {
	SourceGradeID *int64  `json:"sourceGradeId" binding:"omitempty,gt=0"`
	SourceClassID *int64  `json:"sourceClassId" binding:"omitempty,gt=0"`
	TargetGradeID *int64  `json:"targetGradeId" binding:"omitempty,gt=0"`
	TargetClassID int64   `json:"targetClassId" binding:"required,gt=0"`
	StudentIDs    []int64 `json:"studentIds" binding:"required,min=1"`
}

// PromoteStudentsResult reports per-student outcomes of a promotion run.
type PromoteStudentsResult struct {
	UpdatedCount int              `json:"updatedCount"`
	Errors       map[int64]string `json:"errors,omitempty"`
}

// TeachingClassesRequest replaces a teaching teacher's subject class set.
type TeachingClassesRequest struct {
	ClassIDs []int64 `json:"classIds" binding:"required"`
}
