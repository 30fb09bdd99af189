package dto

import (
	"github.com/selinay/moraled/internal/app/models"
)

// CreateGradeRequest represents grade creation data.
type CreateGradeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateGradeRequest represents grade update data.
type UpdateGradeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateClassRequest represents school class creation data.
type CreateClassRequest struct {
	Name      string           `json:"name" binding:"required"`
	GradeID   int64            `json:"gradeId" binding:"required,gt=0"`
	ClassType models.ClassType `json:"classType" binding:"omitempty,oneof=home_class subject_class"`
}

// UpdateClassRequest represents school class update data.
type UpdateClassRequest struct {
	Name      string           `json:"name" binding:"required"`
	GradeID   int64            `json:"gradeId" binding:"required,gt=0"`
	ClassType models.ClassType `json:"classType" binding:"omitempty,oneof=home_class subject_class"`
}

// AssignClassTeachersRequest replaces the class-teacher set of a class.
type AssignClassTeachersRequest struct {
	TeacherIDs []int64 `json:"teacherIds" binding:"required"`
}
