package dto

import (
	"github.com/selinay/moraled/internal/app/models"
)

// AssignParentRequest links a parent to a student.
type AssignParentRequest struct {
	StudentID int64 `json:"studentId" binding:"required,gt=0"`
	ParentID  int64 `json:"parentId" binding:"required,gt=0"`
}

// AssignParentResponse returns the link. AlreadyExists is set when the pair
// was linked before this request; the existing row is returned either way.
type AssignParentResponse struct {
	Relationship  *models.StudentParentRelationship `json:"relationship"`
	AlreadyExists bool                              `json:"alreadyExists"`
}
